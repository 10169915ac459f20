package approval

// Position locates a stage relative to the current status
type Position struct {
	Status        string
	Index         int
	CurrentStatus string
	CurrentIndex  int
}

// before reports whether the stage comes strictly before the current one
func (p Position) before() bool {
	return p.Index < p.CurrentIndex
}

// StepStatusStrategy decides how stage status is read and which records are shown
type StepStatusStrategy interface {
	// Name identifies the strategy in configuration and logs
	Name() string

	// StageStatus derives the status shared by every step of a stage
	StageStatus(records []Record, pos Position) StepStatus

	// Admit reports whether a record is shown for the given context
	Admit(record Record, ctx Context) bool
}

// Strategy names accepted by StrategyByName
const (
	StrategyAuto        = "auto"
	StrategyExplicit    = "explicit"
	StrategyConditional = "conditional"
)

// ExplicitFieldStrategy reads status directly off current_pointer and
// is_completed. It never filters records.
type ExplicitFieldStrategy struct{}

func (ExplicitFieldStrategy) Name() string { return StrategyExplicit }

func (ExplicitFieldStrategy) StageStatus(records []Record, pos Position) StepStatus {
	for _, r := range records {
		if r.Pointer() {
			return StepCurrent
		}
	}
	if allCompleted(records) || pos.before() {
		return StepApproved
	}
	return StepPending
}

func (ExplicitFieldStrategy) Admit(Record, Context) bool { return true }

// ConditionalStrategy derives status from the stage position and hides
// approvers whose conditions do not hold.
type ConditionalStrategy struct{}

func (ConditionalStrategy) Name() string { return StrategyConditional }

func (ConditionalStrategy) StageStatus(_ []Record, pos Position) StepStatus {
	if pos.Status == pos.CurrentStatus {
		return StepCurrent
	}
	if pos.before() {
		return StepApproved
	}
	return StepPending
}

func (ConditionalStrategy) Admit(record Record, ctx Context) bool {
	if !record.IsConditional() {
		return true
	}
	return anySatisfied(record.Conditions, ctx)
}

// SelectStrategy picks the explicit-field strategy for hierarchies that carry
// current_pointer/is_completed and the conditional strategy otherwise.
func SelectStrategy(h Hierarchy) StepStatusStrategy {
	if h.HasExplicitState() {
		return ExplicitFieldStrategy{}
	}
	return ConditionalStrategy{}
}

// StrategyByName resolves a configured strategy. Auto resolves to nil, which
// makes Derive call SelectStrategy per hierarchy.
func StrategyByName(name string) (StepStatusStrategy, error) {
	switch name {
	case "", StrategyAuto:
		return nil, nil
	case StrategyExplicit:
		return ExplicitFieldStrategy{}, nil
	case StrategyConditional:
		return ConditionalStrategy{}, nil
	default:
		return nil, configErrorf("strategy", "unknown strategy %q", name)
	}
}

func allCompleted(records []Record) bool {
	if len(records) == 0 {
		return false
	}
	for _, r := range records {
		if !r.Completed() {
			return false
		}
	}
	return true
}
