package approval

// StepStatus is the display state of one step on the approval path
type StepStatus string

const (
	StepPending  StepStatus = "pending"
	StepCurrent  StepStatus = "current"
	StepApproved StepStatus = "approved"
	// StepSkipped is a valid rendering state; Derive never produces it from hierarchy data.
	StepSkipped StepStatus = "skipped"
)

var validStepStatuses = map[StepStatus]bool{
	StepPending:  true,
	StepCurrent:  true,
	StepApproved: true,
	StepSkipped:  true,
}

// String returns the string representation of the step status
func (s StepStatus) String() string {
	return string(s)
}

// IsValid returns true if the status is a known step status
func (s StepStatus) IsValid() bool {
	return validStepStatuses[s]
}

// IsDone returns true once the step no longer waits on anyone
func (s StepStatus) IsDone() bool {
	return s == StepApproved || s == StepSkipped
}
