// Package fixture serves expenses, approval hierarchies and comment threads
// from a read-only YAML document held in memory.
package fixture

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/garyjia/approval-path/internal/application/port"
	"github.com/garyjia/approval-path/internal/domain/approval"
	"github.com/garyjia/approval-path/internal/domain/entity"
)

// Provider implements port.DataProvider over a decoded fixture document
type Provider struct {
	expenses  []*entity.Expense
	byID      map[string]*entity.Expense
	workflows map[string]approval.Hierarchy
	comments  map[string][]entity.Comment
	logger    *zap.Logger
}

// LoadFile reads a fixture document from disk
func LoadFile(path string, logger *zap.Logger) (*Provider, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture file: %w", err)
	}
	return NewProvider(data, logger)
}

// NewProvider decodes a fixture document with top-level workflows, expenses and comments keys
func NewProvider(data []byte, logger *zap.Logger) (*Provider, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse fixture: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: fixture root must be a mapping", approval.ErrConfiguration)
	}

	p := &Provider{
		byID:      make(map[string]*entity.Expense),
		workflows: make(map[string]approval.Hierarchy),
		comments:  make(map[string][]entity.Comment),
		logger:    logger,
	}

	root := doc.Content[0]
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i].Value, root.Content[i+1]
		var err error
		switch key {
		case "workflows":
			err = p.decodeWorkflows(value)
		case "expenses":
			err = p.decodeExpenses(value)
		case "comments":
			err = value.Decode(&p.comments)
		default:
			logger.Warn("Ignoring unknown fixture section", zap.String("section", key))
		}
		if err != nil {
			return nil, fmt.Errorf("fixture section %s: %w", key, err)
		}
	}

	for _, e := range p.expenses {
		if _, ok := p.workflows[e.Workflow]; !ok {
			logger.Warn("Expense references unknown workflow",
				zap.String("expense_id", e.ID),
				zap.String("workflow", e.Workflow))
		}
	}

	logger.Info("Fixture loaded",
		zap.Int("expenses", len(p.expenses)),
		zap.Int("workflows", len(p.workflows)),
		zap.Int("comment_threads", len(p.comments)))

	return p, nil
}

func (p *Provider) decodeWorkflows(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("%w: workflows must be a mapping", approval.ErrConfiguration)
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		name := node.Content[i].Value
		h, err := approval.DecodeHierarchyNode(node.Content[i+1])
		if err != nil {
			return fmt.Errorf("workflow %s: %w", name, err)
		}
		p.workflows[name] = h
	}
	return nil
}

func (p *Provider) decodeExpenses(node *yaml.Node) error {
	var expenses []*entity.Expense
	if err := node.Decode(&expenses); err != nil {
		return err
	}
	for i, e := range expenses {
		if e == nil {
			return fmt.Errorf("%w: expenses[%d] must be a mapping", approval.ErrConfiguration, i)
		}
		if _, dup := p.byID[e.ID]; dup {
			return fmt.Errorf("duplicate expense id %s", e.ID)
		}
		p.byID[e.ID] = e
	}
	p.expenses = expenses
	return nil
}

// ListExpenses returns the expenses in fixture order
func (p *Provider) ListExpenses(ctx context.Context) ([]*entity.Expense, error) {
	out := make([]*entity.Expense, 0, len(p.expenses))
	for _, e := range p.expenses {
		copied := *e
		out = append(out, &copied)
	}
	return out, nil
}

// GetExpense returns one expense by ID
func (p *Provider) GetExpense(ctx context.Context, id string) (*entity.Expense, error) {
	e, ok := p.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", port.ErrExpenseNotFound, id)
	}
	copied := *e
	return &copied, nil
}

// Hierarchy returns the approval hierarchy of a workflow
func (p *Provider) Hierarchy(ctx context.Context, workflow string) (approval.Hierarchy, error) {
	h, ok := p.workflows[workflow]
	if !ok {
		return approval.Hierarchy{}, fmt.Errorf("%w: %s", port.ErrWorkflowNotFound, workflow)
	}
	return h, nil
}

// Comments returns the discussion thread of an expense, empty when there is none
func (p *Provider) Comments(ctx context.Context, expenseID string) ([]entity.Comment, error) {
	return append([]entity.Comment{}, p.comments[expenseID]...), nil
}

// Verify interface compliance
var _ port.DataProvider = (*Provider)(nil)
