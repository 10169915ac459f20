package port

import (
	"context"

	"github.com/garyjia/approval-path/internal/domain/approval"
	"github.com/garyjia/approval-path/internal/domain/entity"
)

// ExpenseProvider supplies the expenses shown in the expense list
type ExpenseProvider interface {
	ListExpenses(ctx context.Context) ([]*entity.Expense, error)
	GetExpense(ctx context.Context, id string) (*entity.Expense, error)
}

// HierarchyProvider supplies approval hierarchies by workflow name
type HierarchyProvider interface {
	Hierarchy(ctx context.Context, workflow string) (approval.Hierarchy, error)
}

// CommentProvider supplies the discussion thread of an expense
type CommentProvider interface {
	Comments(ctx context.Context, expenseID string) ([]entity.Comment, error)
}

// DataProvider is the full read-only data source behind the approval path views
type DataProvider interface {
	ExpenseProvider
	HierarchyProvider
	CommentProvider
}
