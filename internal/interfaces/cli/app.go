// Package cli provides the approvalpath command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/garyjia/approval-path/internal/config"
	"github.com/garyjia/approval-path/internal/container"
	"github.com/garyjia/approval-path/pkg/utils"
)

// Version information set at build time.
var (
	Version   = "dev"
	GitCommit = "unknown"
)

// App represents the CLI application.
type App struct {
	root   *cobra.Command
	stdout io.Writer
	stderr io.Writer

	// global flags
	configPath string
	strategy   string
	verbose    bool
	noColor    bool
}

// New creates a new CLI application.
func New() *App {
	app := &App{
		stdout: os.Stdout,
		stderr: os.Stderr,
	}

	app.root = &cobra.Command{
		Use:   "approvalpath",
		Short: "Derive and render expense approval paths",
		Long: `approvalpath derives the approval path of an expense from its workflow
hierarchy: one step per stage and approval level, each marked approved,
current or pending, with conditional approvers filtered by amount.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := app.root.PersistentFlags()
	flags.StringVarP(&app.configPath, "config", "c", "", "Path to configuration file (defaults and environment when empty)")
	flags.StringVar(&app.strategy, "strategy", "", "Step status strategy: auto, explicit or conditional (overrides config)")
	flags.BoolVarP(&app.verbose, "verbose", "v", false, "Log at info level")
	flags.BoolVar(&app.noColor, "no-color", false, "Disable colored output")

	app.root.AddCommand(
		app.newVersionCmd(),
		app.newListCmd(),
		app.newStepsCmd(),
		app.newExportCmd(),
		app.newServeCmd(),
	)

	return app
}

// WithOutput sets custom output writers.
func (a *App) WithOutput(stdout, stderr io.Writer) *App {
	a.stdout = stdout
	a.stderr = stderr
	a.root.SetOut(stdout)
	a.root.SetErr(stderr)
	return a
}

// Execute runs the CLI application.
func (a *App) Execute(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return a.root.ExecuteContext(ctx)
}

// ExecuteWithArgs runs the CLI with specific arguments (useful for testing).
func (a *App) ExecuteWithArgs(ctx context.Context, args []string) error {
	a.root.SetArgs(args)
	return a.Execute(ctx)
}

// newVersionCmd creates the version command.
func (a *App) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(a.stdout, "approvalpath version %s\n", Version)
			fmt.Fprintf(a.stdout, "  Git commit: %s\n", GitCommit)
		},
	}
}

// loadConfig loads configuration and applies flag overrides.
func (a *App) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return nil, err
	}
	if a.strategy != "" {
		cfg.Workflow.Strategy = a.strategy
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// bootstrap builds a started container. One-shot commands log to stderr
// so stdout carries only command output.
func (a *App) bootstrap(ctx context.Context) (*container.Container, *zap.Logger, error) {
	cfg, err := a.loadConfig()
	if err != nil {
		return nil, nil, err
	}

	level := "warn"
	if a.verbose {
		level = "info"
	}
	logger, err := utils.NewLogger(utils.LoggerConfig{Level: level, OutputPath: "stderr", Format: "console"})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	c, err := container.NewContainer(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	if err := c.Start(ctx); err != nil {
		return nil, nil, err
	}
	return c, logger, nil
}

// colorEnabled reports whether stdout is a terminal that should get ANSI colors.
func (a *App) colorEnabled() bool {
	if a.noColor || os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := a.stdout.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
