package approval

import (
	"fmt"
	"strings"
)

// DefaultStructuralStatuses are the stages shown even when nobody approves them
var DefaultStructuralStatuses = []string{"draft", "requested", "submitted", "cleared", "completed"}

// Deriver turns a hierarchy into the ordered list of steps shown on the approval path.
// A Deriver holds only configuration and is safe for concurrent use.
type Deriver struct {
	strategy   StepStatusStrategy
	structural map[string]bool
}

// Option configures a Deriver
type Option func(*Deriver)

// WithStrategy fixes the status strategy. A nil strategy selects one per hierarchy.
func WithStrategy(s StepStatusStrategy) Option {
	return func(d *Deriver) {
		d.strategy = s
	}
}

// WithStructuralStatuses replaces the set of stages rendered without approvers.
// Matching is case-insensitive.
func WithStructuralStatuses(statuses ...string) Option {
	return func(d *Deriver) {
		d.structural = make(map[string]bool, len(statuses))
		for _, s := range statuses {
			d.structural[strings.ToLower(s)] = true
		}
	}
}

// NewDeriver creates a deriver with the default structural statuses and automatic strategy selection
func NewDeriver(opts ...Option) *Deriver {
	d := &Deriver{}
	WithStructuralStatuses(DefaultStructuralStatuses...)(d)
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Derive builds approval steps with a deriver configured by opts
func Derive(h Hierarchy, currentStatus string, ctx Context, opts ...Option) ([]Step, error) {
	return NewDeriver(opts...).Derive(h, currentStatus, ctx)
}

// IsStructural reports whether a stage is rendered even without approvers
func (d *Deriver) IsStructural(status string) bool {
	return d.structural[strings.ToLower(status)]
}

// Strategy returns the strategy used for h
func (d *Deriver) Strategy(h Hierarchy) StepStatusStrategy {
	if d.strategy != nil {
		return d.strategy
	}
	return SelectStrategy(h)
}

// Derive walks the hierarchy in stage order and emits marker steps for
// structural stages and one step per approver level otherwise. A current
// status that is not a stage key is not an error; no stage then reads as
// coming before it.
func (d *Deriver) Derive(h Hierarchy, currentStatus string, ctx Context) ([]Step, error) {
	if err := h.validate(); err != nil {
		return nil, err
	}

	strategy := d.Strategy(h)
	currentIndex := h.Index(currentStatus)

	steps := make([]Step, 0, h.Len())
	for i, status := range h.order {
		records := h.stages[status]
		pos := Position{
			Status:        status,
			Index:         i,
			CurrentStatus: currentStatus,
			CurrentIndex:  currentIndex,
		}
		stageStatus := strategy.StageStatus(records, pos)

		if isMarkerStage(records) {
			if d.IsStructural(status) {
				steps = append(steps, Step{
					Title:     Humanize(status),
					Status:    stageStatus,
					Approvers: []ApproverView{},
					Stage:     status,
					Marker:    true,
				})
			}
			continue
		}

		for _, group := range groupByLevel(records, strategy, ctx) {
			views := make([]ApproverView, 0, len(group.records))
			for _, r := range group.records {
				views = append(views, r.View())
			}
			steps = append(steps, Step{
				Title:     fmt.Sprintf("%s - Level %d", Humanize(status), group.level),
				Status:    stageStatus,
				Approvers: views,
				Stage:     status,
				Level:     group.level,
			})
		}
	}

	return steps, nil
}

type levelGroup struct {
	level   int
	records []Record
}

// groupByLevel partitions admitted records by level in first-seen order.
// Levels whose records were all filtered out are dropped.
func groupByLevel(records []Record, strategy StepStatusStrategy, ctx Context) []levelGroup {
	var groups []levelGroup
	index := make(map[int]int)

	for _, r := range records {
		if !strategy.Admit(r, ctx) {
			continue
		}
		i, ok := index[r.Level]
		if !ok {
			i = len(groups)
			index[r.Level] = i
			groups = append(groups, levelGroup{level: r.Level})
		}
		groups[i].records = append(groups[i].records, r)
	}

	return groups
}

// isMarkerStage reports a stage with no approvers or a single placeholder record
func isMarkerStage(records []Record) bool {
	return len(records) == 0 || (len(records) == 1 && records[0].IsMarker())
}
