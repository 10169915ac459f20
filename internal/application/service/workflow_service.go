package service

import (
	"context"
	"fmt"
	"io"

	"github.com/garyjia/approval-path/internal/application/port"
	"github.com/garyjia/approval-path/internal/domain/approval"
	"github.com/garyjia/approval-path/internal/domain/entity"
)

// Logger interface for minimal logging dependency
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// WorkflowConfig controls how approval paths are derived
type WorkflowConfig struct {
	// StructuralStatuses are rendered even when they have no approvers
	StructuralStatuses []string
	// Strategy is auto, explicit or conditional
	Strategy string
}

// Timeline is everything the approval path view of one expense needs
type Timeline struct {
	Expense       *entity.Expense
	CurrentStatus string
	Strategy      string
	Steps         []approval.Step
	Comments      []entity.Comment
}

// CurrentStep returns the first step waiting on an approver, or nil
func (t *Timeline) CurrentStep() *approval.Step {
	for i := range t.Steps {
		if t.Steps[i].Status == approval.StepCurrent {
			return &t.Steps[i]
		}
	}
	return nil
}

// WorkflowService serves expenses and their derived approval paths
type WorkflowService interface {
	ListExpenses(ctx context.Context) ([]*entity.Expense, error)
	GetExpense(ctx context.Context, id string) (*entity.Expense, error)
	ApprovalPath(ctx context.Context, expenseID string) (*Timeline, error)
	Request(ctx context.Context, expense *entity.Expense) (approval.Request, error)
	Preview(ctx context.Context, req approval.Request) ([]approval.Step, error)
	Export(ctx context.Context, expenseID string, exporter port.TimelineExporter, w io.Writer) error
}

type workflowServiceImpl struct {
	provider port.DataProvider
	deriver  *approval.Deriver
	logger   Logger
}

// NewWorkflowService creates a new WorkflowService
func NewWorkflowService(provider port.DataProvider, cfg WorkflowConfig, logger Logger) (WorkflowService, error) {
	strategy, err := approval.StrategyByName(cfg.Strategy)
	if err != nil {
		return nil, err
	}

	opts := []approval.Option{approval.WithStrategy(strategy)}
	if len(cfg.StructuralStatuses) > 0 {
		opts = append(opts, approval.WithStructuralStatuses(cfg.StructuralStatuses...))
	}

	return &workflowServiceImpl{
		provider: provider,
		deriver:  approval.NewDeriver(opts...),
		logger:   logger,
	}, nil
}

// ListExpenses returns all expenses
func (s *workflowServiceImpl) ListExpenses(ctx context.Context) ([]*entity.Expense, error) {
	expenses, err := s.provider.ListExpenses(ctx)
	if err != nil {
		s.logger.Error("Failed to list expenses", "error", err)
		return nil, err
	}
	return expenses, nil
}

// GetExpense retrieves an expense by ID
func (s *workflowServiceImpl) GetExpense(ctx context.Context, id string) (*entity.Expense, error) {
	expense, err := s.provider.GetExpense(ctx, id)
	if err != nil {
		s.logger.Error("Failed to get expense", "error", err, "expense_id", id)
		return nil, err
	}
	return expense, nil
}

// ApprovalPath derives the approval path of an expense from its workflow
// hierarchy, evaluating approver conditions against the expense amount
func (s *workflowServiceImpl) ApprovalPath(ctx context.Context, expenseID string) (*Timeline, error) {
	expense, err := s.GetExpense(ctx, expenseID)
	if err != nil {
		return nil, err
	}

	req, err := s.Request(ctx, expense)
	if err != nil {
		return nil, err
	}
	hierarchy := req.Hierarchy

	strategy := s.deriver.Strategy(hierarchy)
	steps, err := s.deriver.Derive(hierarchy, req.CurrentStatus, req.Context)
	if err != nil {
		s.logger.Error("Failed to derive approval path", "error", err, "expense_id", expenseID)
		return nil, fmt.Errorf("derive approval path: %w", err)
	}

	if hierarchy.Index(expense.Status) < 0 {
		s.logger.Info("Expense status is not a workflow stage", "expense_id", expenseID, "status", expense.Status)
	}

	comments, err := s.provider.Comments(ctx, expenseID)
	if err != nil {
		s.logger.Error("Failed to get comments", "error", err, "expense_id", expenseID)
		return nil, err
	}

	return &Timeline{
		Expense:       expense,
		CurrentStatus: expense.Status,
		Strategy:      strategy.Name(),
		Steps:         steps,
		Comments:      comments,
	}, nil
}

// Request assembles the derivation input of an expense: its workflow
// hierarchy, its status and its amount as condition context
func (s *workflowServiceImpl) Request(ctx context.Context, expense *entity.Expense) (approval.Request, error) {
	hierarchy, err := s.provider.Hierarchy(ctx, expense.Workflow)
	if err != nil {
		s.logger.Error("Failed to get hierarchy", "error", err, "expense_id", expense.ID, "workflow", expense.Workflow)
		return approval.Request{}, err
	}

	return approval.Request{
		Hierarchy:     hierarchy,
		CurrentStatus: expense.Status,
		Context:       approval.WithAmount(expense.Amount),
	}, nil
}

// Preview derives steps for a hierarchy supplied by the caller
func (s *workflowServiceImpl) Preview(ctx context.Context, req approval.Request) ([]approval.Step, error) {
	steps, err := s.deriver.Derive(req.Hierarchy, req.CurrentStatus, req.Context)
	if err != nil {
		s.logger.Error("Failed to derive preview", "error", err)
		return nil, err
	}
	return steps, nil
}

// Export writes the approval path of an expense with the given exporter
func (s *workflowServiceImpl) Export(ctx context.Context, expenseID string, exporter port.TimelineExporter, w io.Writer) error {
	timeline, err := s.ApprovalPath(ctx, expenseID)
	if err != nil {
		return err
	}

	if err := exporter.Export(ctx, w, timeline.Expense, timeline.Steps); err != nil {
		s.logger.Error("Failed to export approval path", "error", err, "expense_id", expenseID)
		return fmt.Errorf("export approval path: %w", err)
	}

	s.logger.Info("Approval path exported", "expense_id", expenseID, "steps", len(timeline.Steps), "format", exporter.Extension())
	return nil
}
