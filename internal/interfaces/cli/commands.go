package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/garyjia/approval-path/internal/container"
	"github.com/garyjia/approval-path/pkg/utils"
)

// newListCmd creates the list command.
func (a *App) newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List fixture expenses",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, logger, err := a.bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			defer c.Close()

			expenses, err := c.WorkflowService().ListExpenses(cmd.Context())
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tTITLE\tAMOUNT\tSTATUS\tWORKFLOW")
			for _, e := range expenses {
				fmt.Fprintf(tw, "%s\t%s\t%.2f\t%s\t%s\n", e.ID, e.Title, e.Amount, e.Status, e.Workflow)
			}
			return tw.Flush()
		},
	}
}

// exportOptions holds options for the export command.
type exportOptions struct {
	expenseID string
	output    string
}

// newExportCmd creates the export command.
func (a *App) newExportCmd() *cobra.Command {
	opts := &exportOptions{}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the approval path of an expense to a spreadsheet",
		Long: `Write the approval path of an expense to an .xlsx workbook with one row per approver.

Examples:
  approvalpath export --expense EXP-2023-001
  approvalpath export --expense EXP-2023-001 --output /tmp/path.xlsx`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := utils.ValidateExpenseID(opts.expenseID); err != nil {
				return err
			}

			c, logger, err := a.bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			defer c.Close()

			return a.export(cmd, c, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.expenseID, "expense", "e", "", "Expense ID from the fixture")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output path (default <expense>-approval-path.xlsx)")
	_ = cmd.MarkFlagRequired("expense")

	return cmd
}

func (a *App) export(cmd *cobra.Command, c *container.Container, opts *exportOptions) error {
	exporter := c.Exporter()
	output := opts.output
	if output == "" {
		output = fmt.Sprintf("%s-approval-path.%s", utils.SafeFileName(opts.expenseID), exporter.Extension())
	}

	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", output, err)
	}

	if err := c.WorkflowService().Export(cmd.Context(), opts.expenseID, exporter, f); err != nil {
		f.Close()
		os.Remove(output)
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", output, err)
	}

	fmt.Fprintf(a.stdout, "Wrote %s\n", output)
	return nil
}

// newServeCmd creates the serve command.
func (a *App) newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the approval path viewer over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}

			logger, err := utils.NewLogger(utils.LoggerConfig{
				Level:      cfg.Logger.Level,
				OutputPath: cfg.Logger.OutputPath,
				Format:     cfg.Logger.Format,
			})
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			defer func() { _ = logger.Sync() }()

			c, err := container.NewContainer(cfg, logger)
			if err != nil {
				return err
			}
			if err := c.Start(cmd.Context()); err != nil {
				return err
			}
			defer c.Close()

			logger.Info("Approval path viewer starting",
				zap.String("version", Version),
				zap.Int("port", cfg.Server.Port))

			return c.Serve(cmd.Context())
		},
	}
}
