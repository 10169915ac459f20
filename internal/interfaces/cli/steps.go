package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/garyjia/approval-path/internal/application/service"
	"github.com/garyjia/approval-path/internal/domain/approval"
	"github.com/garyjia/approval-path/pkg/utils"
)

// stepsOptions holds options for the steps command.
type stepsOptions struct {
	expenseID string
	file      string
	status    string
	amount    float64
	asJSON    bool
}

// newStepsCmd creates the steps command.
func (a *App) newStepsCmd() *cobra.Command {
	opts := &stepsOptions{}

	cmd := &cobra.Command{
		Use:   "steps",
		Short: "Print the approval path of an expense or a hierarchy file",
		Long: `Print the derived approval path.

With --expense the expense and its workflow come from the configured fixture.
With --file the hierarchy, current status and amount come from a JSON or YAML
request document ("-" reads stdin).

Examples:
  # Approval path of a fixture expense
  approvalpath steps --expense EXP-2023-001

  # Preview a hierarchy at another amount
  approvalpath steps --file request.yaml --amount 2500 --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if (opts.expenseID == "") == (opts.file == "") {
				return fmt.Errorf("exactly one of --expense or --file is required")
			}
			if cmd.Flags().Changed("amount") {
				if err := utils.ValidateAmount(opts.amount); err != nil {
					return err
				}
			}
			if opts.expenseID != "" {
				return a.expenseSteps(cmd, opts)
			}
			return a.fileSteps(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.expenseID, "expense", "e", "", "Expense ID from the fixture")
	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "Request document with hierarchy, current_status and amount")
	cmd.Flags().StringVar(&opts.status, "status", "", "Override the current status")
	cmd.Flags().Float64Var(&opts.amount, "amount", 0, "Override the amount conditions are evaluated against")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "Print steps as JSON")

	return cmd
}

func (a *App) expenseSteps(cmd *cobra.Command, opts *stepsOptions) error {
	if err := utils.ValidateExpenseID(opts.expenseID); err != nil {
		return err
	}

	c, logger, err := a.bootstrap(cmd.Context())
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	defer c.Close()

	svc := c.WorkflowService()
	if opts.status == "" && !cmd.Flags().Changed("amount") {
		timeline, err := svc.ApprovalPath(cmd.Context(), opts.expenseID)
		if err != nil {
			return err
		}
		if opts.asJSON {
			return a.writeJSON(timeline.Steps)
		}
		expense := timeline.Expense
		fmt.Fprintf(a.stdout, "%s: %s\n", expense.ID, expense.Title)
		fmt.Fprintf(a.stdout, "  Amount: %.2f  Status: %s  Strategy: %s\n\n", expense.Amount, approval.Humanize(expense.Status), timeline.Strategy)
		a.printer().Print(timeline.Steps)
		return nil
	}

	// Overrides re-derive the expense's hierarchy as a preview
	expense, err := svc.GetExpense(cmd.Context(), opts.expenseID)
	if err != nil {
		return err
	}
	req, err := svc.Request(cmd.Context(), expense)
	if err != nil {
		return err
	}
	return a.preview(cmd, svc, applyOverrides(cmd, req, opts), opts.asJSON)
}

func (a *App) fileSteps(cmd *cobra.Command, opts *stepsOptions) error {
	data, err := readInput(cmd.InOrStdin(), opts.file)
	if err != nil {
		return err
	}
	req, err := approval.DecodeRequest(data)
	if err != nil {
		return err
	}

	c, logger, err := a.bootstrap(cmd.Context())
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	defer c.Close()

	return a.preview(cmd, c.WorkflowService(), applyOverrides(cmd, req, opts), opts.asJSON)
}

func (a *App) preview(cmd *cobra.Command, svc service.WorkflowService, req approval.Request, asJSON bool) error {
	steps, err := svc.Preview(cmd.Context(), req)
	if err != nil {
		return err
	}
	if asJSON {
		return a.writeJSON(steps)
	}
	fmt.Fprintf(a.stdout, "Current status: %s\n\n", approval.Humanize(req.CurrentStatus))
	a.printer().Print(steps)
	return nil
}

func applyOverrides(cmd *cobra.Command, req approval.Request, opts *stepsOptions) approval.Request {
	if opts.status != "" {
		req.CurrentStatus = opts.status
	}
	if cmd.Flags().Changed("amount") {
		req.Context = approval.WithAmount(opts.amount)
	}
	return req
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

func (a *App) writeJSON(v interface{}) error {
	enc := json.NewEncoder(a.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (a *App) printer() *stepPrinter {
	return &stepPrinter{w: a.stdout, color: a.colorEnabled()}
}
