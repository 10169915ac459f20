package approval

import "fmt"

// Hierarchy maps workflow statuses to their approver records.
//
// The order statuses are appended in is the canonical stage order, from the
// first stage (draft, requested) to the terminal one (cleared). The deriver
// has no other ordering source, so the order is kept explicitly next to the map.
type Hierarchy struct {
	order  []string
	stages map[string][]Record
}

// NewHierarchy creates an empty hierarchy
func NewHierarchy() Hierarchy {
	return Hierarchy{stages: make(map[string][]Record)}
}

// Append adds a stage at the end of the hierarchy
func (h *Hierarchy) Append(status string, records ...Record) error {
	if h.stages == nil {
		h.stages = make(map[string][]Record)
	}
	if _, exists := h.stages[status]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateStatus, status)
	}

	h.order = append(h.order, status)
	h.stages[status] = append([]Record{}, records...)
	return nil
}

// MustAppend is Append for literal hierarchies; it panics on a duplicate status
func (h *Hierarchy) MustAppend(status string, records ...Record) *Hierarchy {
	if err := h.Append(status, records...); err != nil {
		panic(err)
	}
	return h
}

// Statuses returns the stage keys in canonical order
func (h Hierarchy) Statuses() []string {
	return append([]string{}, h.order...)
}

// Records returns the approver records of a stage
func (h Hierarchy) Records(status string) []Record {
	return h.stages[status]
}

// Index returns the position of status in the stage order, or -1 if absent
func (h Hierarchy) Index(status string) int {
	for i, s := range h.order {
		if s == status {
			return i
		}
	}
	return -1
}

// Len returns the number of stages
func (h Hierarchy) Len() int {
	return len(h.order)
}

// HasExplicitState reports whether any record carries current_pointer or is_completed
func (h Hierarchy) HasExplicitState() bool {
	for _, status := range h.order {
		for _, r := range h.stages[status] {
			if r.HasExplicitState() {
				return true
			}
		}
	}
	return false
}

// validate checks that the key order and the stage map agree
func (h Hierarchy) validate() error {
	if len(h.order) != len(h.stages) {
		return configErrorf("", "hierarchy has %d ordered keys but %d stages", len(h.order), len(h.stages))
	}
	for _, status := range h.order {
		if _, ok := h.stages[status]; !ok {
			return configErrorf(status, "status is ordered but has no stage")
		}
	}
	return nil
}
