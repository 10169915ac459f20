// Package container provides dependency injection and lifecycle management
// for the approval path viewer.
package container

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/garyjia/approval-path/configs"
	"github.com/garyjia/approval-path/internal/application/port"
	"github.com/garyjia/approval-path/internal/application/service"
	"github.com/garyjia/approval-path/internal/config"
	"github.com/garyjia/approval-path/internal/infrastructure/export"
	"github.com/garyjia/approval-path/internal/infrastructure/fixture"
	httpserver "github.com/garyjia/approval-path/internal/interfaces/http"
)

// ProvideDataProvider loads the fixture document named by the workflow config.
// An empty fixture path falls back to the embedded fixture.
func ProvideDataProvider(cfg *config.WorkflowConfig, logger *zap.Logger) (*fixture.Provider, error) {
	if cfg == nil {
		return nil, fmt.Errorf("workflow config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	if cfg.FixturePath != "" {
		provider, err := fixture.LoadFile(cfg.FixturePath, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to load fixture %s: %w", cfg.FixturePath, err)
		}
		logger.Info("Fixture loaded from file", zap.String("path", cfg.FixturePath))
		return provider, nil
	}

	data, err := configs.LoadFixture(configs.DefaultFixture)
	if err != nil {
		return nil, err
	}
	provider, err := fixture.NewProvider(data, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to load embedded fixture: %w", err)
	}
	logger.Info("Embedded fixture loaded", zap.String("name", configs.DefaultFixture))
	return provider, nil
}

// ProvideWorkflowService creates the workflow service over a data provider
func ProvideWorkflowService(provider port.DataProvider, cfg *config.WorkflowConfig, logger *zap.Logger) (service.WorkflowService, error) {
	if provider == nil {
		return nil, fmt.Errorf("data provider is required")
	}

	svc, err := service.NewWorkflowService(provider, service.WorkflowConfig{
		StructuralStatuses: cfg.StructuralStatuses,
		Strategy:           cfg.Strategy,
	}, &zapLoggerAdapter{logger: logger})
	if err != nil {
		return nil, fmt.Errorf("failed to create workflow service: %w", err)
	}
	return svc, nil
}

// ProvideExporter creates the approval path exporter
func ProvideExporter(logger *zap.Logger) port.TimelineExporter {
	return export.NewXLSXExporter(logger.Named("export"))
}

// ProvideHTTPServer creates the HTTP server without starting it
func ProvideHTTPServer(cfg *config.ServerConfig, svc service.WorkflowService, exporter port.TimelineExporter, logger *zap.Logger) (*httpserver.Server, error) {
	return httpserver.NewServer(httpserver.ServerConfig{
		Host:         cfg.Host,
		Port:         cfg.Port,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}, svc, exporter, &zapLoggerAdapter{logger: logger.Named("http")})
}
