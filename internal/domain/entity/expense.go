package entity

// Expense is a submitted expense claim
type Expense struct {
	ID          string  `json:"id" yaml:"id"`
	Title       string  `json:"title" yaml:"title"`
	Amount      float64 `json:"amount" yaml:"amount"`
	Date        string  `json:"date" yaml:"date"`
	Status      string  `json:"status" yaml:"status"`
	Category    string  `json:"category" yaml:"category"`
	SubmittedBy string  `json:"submitted_by" yaml:"submitted_by"`

	// Workflow names the approval hierarchy the expense follows
	Workflow string `json:"workflow" yaml:"workflow"`
}

// Expense status constants used by the default workflow
const (
	ExpenseStatusDraft           = "draft"
	ExpenseStatusProjectApproval = "project_approval"
	ExpenseStatusFinanceApproval = "finance_approval"
	ExpenseStatusCleared         = "cleared"
)

// StatusColor returns the badge color of an expense status
func StatusColor(status string) string {
	switch status {
	case ExpenseStatusProjectApproval:
		return "amber"
	case ExpenseStatusFinanceApproval:
		return "blue"
	case ExpenseStatusCleared:
		return "green"
	default:
		return "gray"
	}
}
