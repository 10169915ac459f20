package container

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/garyjia/approval-path/internal/config"
	"github.com/garyjia/approval-path/internal/domain/approval"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Host: "127.0.0.1", Port: 18080, ReadTimeout: time.Second, WriteTimeout: time.Second},
		Logger: config.LoggerConfig{Level: "info", OutputPath: "stdout", Format: "json"},
		Workflow: config.WorkflowConfig{
			StructuralStatuses: approval.DefaultStructuralStatuses,
			Strategy:           approval.StrategyAuto,
		},
	}
}

func TestNewContainer_Validation(t *testing.T) {
	_, err := NewContainer(nil, zap.NewNop())
	assert.Error(t, err)

	_, err = NewContainer(testConfig(), nil)
	assert.Error(t, err)

	cfg := testConfig()
	cfg.Workflow.Strategy = "unknown"
	_, err = NewContainer(cfg, zap.NewNop())
	assert.ErrorIs(t, err, approval.ErrConfiguration)
}

func TestContainer_Lifecycle(t *testing.T) {
	c, err := NewContainer(testConfig(), zap.NewNop())
	require.NoError(t, err)

	health := c.Health(context.Background())
	assert.False(t, health.Overall)
	assert.Equal(t, "not initialized", health.Components["data_provider"].Message)

	require.NoError(t, c.Start(context.Background()))
	assert.True(t, c.Ready())
	assert.Error(t, c.Start(context.Background()), "second start must fail")

	health = c.Health(context.Background())
	assert.True(t, health.Overall)
	assert.Equal(t, "expense count: 4", health.Components["data_provider"].Message)
	assert.Equal(t, "127.0.0.1:18080", health.Components["http_server"].Message)

	timeline, err := c.WorkflowService().ApprovalPath(context.Background(), "EXP-2023-001")
	require.NoError(t, err)
	assert.NotEmpty(t, timeline.Steps)
	assert.Equal(t, "xlsx", c.Exporter().Extension())

	require.NoError(t, c.Close())
	assert.False(t, c.Ready())
	assert.Error(t, c.Close())
	assert.Error(t, c.Start(context.Background()))
}

func TestContainer_MissingFixture(t *testing.T) {
	cfg := testConfig()
	cfg.Workflow.FixturePath = filepath.Join(t.TempDir(), "missing.yaml")

	c, err := NewContainer(cfg, zap.NewNop())
	require.NoError(t, err)

	err = c.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to initialize data provider")
	assert.False(t, c.Ready())
}

func TestContainer_ServeBeforeStart(t *testing.T) {
	c, err := NewContainer(testConfig(), zap.NewNop())
	require.NoError(t, err)
	assert.Error(t, c.Serve(context.Background()))
}

func TestZapLoggerAdapter(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	adapter := &zapLoggerAdapter{logger: zap.New(core)}

	adapter.Info("Approval path exported", "expense_id", "EXP-2023-001", "steps", 6, 42, "dropped", "dangling")
	adapter.Error("Failed to get expense", "error", assert.AnError)

	entries := logs.All()
	require.Len(t, entries, 2)

	fields := entries[0].ContextMap()
	assert.Equal(t, "EXP-2023-001", fields["expense_id"])
	assert.EqualValues(t, 6, fields["steps"])
	assert.Len(t, fields, 2)

	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
	assert.Equal(t, assert.AnError.Error(), entries[1].ContextMap()["error"])
}
