package container

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/garyjia/approval-path/internal/application/port"
	"github.com/garyjia/approval-path/internal/application/service"
	"github.com/garyjia/approval-path/internal/config"
	"github.com/garyjia/approval-path/internal/infrastructure/fixture"
	httpserver "github.com/garyjia/approval-path/internal/interfaces/http"
)

// Container manages all application dependencies and lifecycle.
// Components are initialized in dependency order and torn down in reverse.
type Container struct {
	config *config.Config
	logger *zap.Logger

	// Infrastructure
	provider *fixture.Provider
	exporter port.TimelineExporter

	// Application
	workflowService service.WorkflowService

	// Interfaces
	httpServer *httpserver.Server

	// Lifecycle
	mu     sync.RWMutex
	ready  atomic.Bool
	closed atomic.Bool
}

// HealthStatus represents the health of all components.
type HealthStatus struct {
	Overall    bool                       `json:"overall"`
	Components map[string]ComponentHealth `json:"components"`
}

// ComponentHealth represents health of a single component.
type ComponentHealth struct {
	Healthy bool   `json:"healthy"`
	Message string `json:"message,omitempty"`
}

// NewContainer creates a new container from configuration.
// It does not initialize components - call Start() to initialize.
func NewContainer(cfg *config.Config, logger *zap.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Container{
		config: cfg,
		logger: logger,
	}, nil
}

// Start initializes all components:
// 1. Data provider
// 2. Workflow service and exporter
// 3. HTTP server (not listening until Serve)
func (c *Container) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return fmt.Errorf("container has been closed")
	}

	if c.ready.Load() {
		return fmt.Errorf("container already started")
	}

	c.logger.Info("Starting container initialization")

	// Step 1: Initialize data provider
	provider, err := ProvideDataProvider(&c.config.Workflow, c.logger.Named("fixture"))
	if err != nil {
		return fmt.Errorf("failed to initialize data provider: %w", err)
	}
	c.provider = provider

	// Step 2: Initialize application services
	svc, err := ProvideWorkflowService(c.provider, &c.config.Workflow, c.logger.Named("workflow"))
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	c.workflowService = svc
	c.exporter = ProvideExporter(c.logger)
	c.logger.Info("Application services initialized",
		zap.String("strategy", c.config.Workflow.Strategy),
		zap.Strings("structural_statuses", c.config.Workflow.StructuralStatuses))

	// Step 3: Initialize HTTP server
	server, err := ProvideHTTPServer(&c.config.Server, c.workflowService, c.exporter, c.logger)
	if err != nil {
		return fmt.Errorf("failed to initialize HTTP server: %w", err)
	}
	c.httpServer = server

	c.ready.Store(true)
	c.logger.Info("Container started successfully")

	return nil
}

// Serve runs the HTTP server until ctx is cancelled.
func (c *Container) Serve(ctx context.Context) error {
	c.mu.RLock()
	server := c.httpServer
	c.mu.RUnlock()

	if !c.ready.Load() || server == nil {
		return fmt.Errorf("container not started")
	}
	return server.Start(ctx)
}

// Close shuts down all components in reverse order.
func (c *Container) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return fmt.Errorf("container already closed")
	}

	c.logger.Info("Closing container")

	var errs []error

	if c.httpServer != nil {
		if err := c.httpServer.Stop(); err != nil {
			c.logger.Error("Failed to stop HTTP server", zap.Error(err))
			errs = append(errs, fmt.Errorf("stop http server: %w", err))
		}
	}

	c.closed.Store(true)
	c.ready.Store(false)

	if len(errs) > 0 {
		c.logger.Error("Container closed with errors", zap.Int("error_count", len(errs)))
		return fmt.Errorf("container closed with %d errors", len(errs))
	}

	c.logger.Info("Container closed successfully")
	return nil
}

// Ready returns true when all components are initialized.
func (c *Container) Ready() bool {
	return c.ready.Load()
}

// Health returns health status of all components.
func (c *Container) Health(ctx context.Context) *HealthStatus {
	c.mu.RLock()
	defer c.mu.RUnlock()

	status := &HealthStatus{
		Overall:    true,
		Components: make(map[string]ComponentHealth),
	}

	// Check data provider
	if c.provider != nil {
		expenses, err := c.provider.ListExpenses(ctx)
		if err != nil {
			status.Components["data_provider"] = ComponentHealth{Healthy: false, Message: err.Error()}
			status.Overall = false
		} else {
			status.Components["data_provider"] = ComponentHealth{
				Healthy: true,
				Message: fmt.Sprintf("expense count: %d", len(expenses)),
			}
		}
	} else {
		status.Components["data_provider"] = ComponentHealth{Healthy: false, Message: "not initialized"}
		status.Overall = false
	}

	// Check services
	if c.workflowService != nil {
		status.Components["workflow_service"] = ComponentHealth{Healthy: true}
	} else {
		status.Components["workflow_service"] = ComponentHealth{Healthy: false, Message: "not initialized"}
		status.Overall = false
	}

	// Check HTTP server
	if c.httpServer != nil {
		status.Components["http_server"] = ComponentHealth{Healthy: true, Message: c.httpServer.Address()}
	} else {
		status.Components["http_server"] = ComponentHealth{Healthy: false, Message: "not initialized"}
		status.Overall = false
	}

	return status
}

// WorkflowService returns the workflow service. Nil before Start.
func (c *Container) WorkflowService() service.WorkflowService {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.workflowService
}

// Exporter returns the approval path exporter. Nil before Start.
func (c *Container) Exporter() port.TimelineExporter {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.exporter
}

// HTTPServer returns the HTTP server. Nil before Start.
func (c *Container) HTTPServer() *httpserver.Server {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.httpServer
}

// zapLoggerAdapter adapts zap.Logger to the service.Logger interface.
type zapLoggerAdapter struct {
	logger *zap.Logger
}

func (a *zapLoggerAdapter) Info(msg string, keysAndValues ...interface{}) {
	fields := convertToZapFields(keysAndValues...)
	a.logger.Info(msg, fields...)
}

func (a *zapLoggerAdapter) Error(msg string, keysAndValues ...interface{}) {
	fields := convertToZapFields(keysAndValues...)
	a.logger.Error(msg, fields...)
}

// convertToZapFields converts key-value pairs to zap fields.
func convertToZapFields(keysAndValues ...interface{}) []zap.Field {
	fields := make([]zap.Field, 0, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		fields = append(fields, zap.Any(key, keysAndValues[i+1]))
	}
	return fields
}
