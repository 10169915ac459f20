package approval

// Record is one approver assignment within a workflow stage.
//
// Pointer fields keep track of whether a value was supplied at all, so the
// deriver can tell "not set" apart from false or empty. Use the accessor
// methods to read them with their defaults applied.
type Record struct {
	Role     string `json:"role,omitempty"`
	RoleUUID string `json:"role_uuid,omitempty"`
	UserName string `json:"user_name,omitempty"`
	UserUUID string `json:"user_uuid,omitempty"`

	// Level groups approvers who act in parallel within a stage. Zero when unset.
	Level int `json:"level"`

	CurrentStatus  string `json:"current_status,omitempty"`
	PreviousStatus string `json:"previous_status,omitempty"`
	NextStatus     string `json:"next_status,omitempty"`

	ApprovedByUUID *string `json:"approved_by_uuid,omitempty"`
	ApprovedByName *string `json:"approved_by_name,omitempty"`

	CurrentPointer *bool `json:"current_pointer,omitempty"`
	IsCompleted    *bool `json:"is_completed,omitempty"`

	Remark     string      `json:"remark,omitempty"`
	Conditions []Predicate `json:"condition,omitempty"`
}

// IsMarker reports whether the record stands for a stage with no human approver
func (r Record) IsMarker() bool {
	return r.Role == "" && r.UserName == ""
}

// Pointer returns current_pointer, false when unset
func (r Record) Pointer() bool {
	return r.CurrentPointer != nil && *r.CurrentPointer
}

// Completed returns is_completed, false when unset
func (r Record) Completed() bool {
	return r.IsCompleted != nil && *r.IsCompleted
}

// Approved reports whether the approver slot has been fulfilled
func (r Record) Approved() bool {
	return r.ApprovedByUUID != nil
}

// ApprovedBy returns approved_by_name, empty when unset
func (r Record) ApprovedBy() string {
	if r.ApprovedByName == nil {
		return ""
	}
	return *r.ApprovedByName
}

// HasExplicitState reports whether the record carries current_pointer or is_completed
func (r Record) HasExplicitState() bool {
	return r.CurrentPointer != nil || r.IsCompleted != nil
}

// IsConditional reports whether the record is gated by at least one predicate
func (r Record) IsConditional() bool {
	return len(r.Conditions) > 0
}

// View projects the record into its display form
func (r Record) View() ApproverView {
	return ApproverView{
		Name:             r.UserName,
		Role:             r.Role,
		Approved:         r.Approved(),
		IsCurrentPointer: r.Pointer(),
		ApprovedBy:       r.ApprovedBy(),
		IsCompleted:      r.Completed(),
		Remark:           r.Remark,
	}
}
