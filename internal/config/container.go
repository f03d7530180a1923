package config

import (
	"context"
	"fmt"

	"pdf-compare/internal/compare"
	"pdf-compare/internal/domain"
	"pdf-compare/internal/renderer"
	"pdf-compare/internal/repository"
	"pdf-compare/internal/service"
	"pdf-compare/pkg/logger"
)

// Container holds all application dependencies
type Container struct {
	Config            domain.Config
	Logger            domain.Logger
	SupabaseClient    domain.SupabaseClient
	AuthService       *service.AuthService
	DocumentSource    domain.DocumentSource
	ArtifactStore     domain.ArtifactStore
	ReportRepository  domain.ReportRepository
	Engine            *compare.Engine
	ComparisonService domain.ComparisonService

	closers []func()
}

// NewContainer creates a new dependency injection container
func NewContainer(ctx context.Context) (*Container, error) {
	config := NewConfig()
	appLogger := logger.NewLogger(config.GetLogLevel())

	// Initialize Supabase client
	supabaseClient := repository.NewSupabaseClient(config, appLogger)
	supabaseReady := true
	if err := supabaseClient.Initialize(); err != nil {
		appLogger.Warn("Supabase is not configured, stored documents are unavailable", "error", err.Error())
		supabaseReady = false
	}

	c := &Container{
		Config:         config,
		Logger:         appLogger,
		SupabaseClient: supabaseClient,
		AuthService:    service.NewAuthService(supabaseClient, appLogger),
		DocumentSource: repository.NewSupabaseDocumentSource(supabaseClient, config.GetDocumentsBucket(), config.GetMaxFileSize(), appLogger),
	}
	if supabaseReady && config.GetArtifactsBucket() != "" {
		c.ArtifactStore = repository.NewSupabaseArtifactStore(supabaseClient, config.GetArtifactsBucket(), appLogger)
	}

	reports, err := c.newReportRepository(ctx, supabaseReady)
	if err != nil {
		return nil, err
	}
	c.ReportRepository = reports

	c.Engine = compare.NewEngine(appLogger, compare.NewMemoryGuard(config.GetMemoryCeiling()))
	c.ComparisonService = service.NewComparisonService(
		c.DocumentSource,
		c.ArtifactStore,
		c.ReportRepository,
		c.Engine,
		NewDocumentOpener(appLogger),
		config,
		appLogger,
	)
	return c, nil
}

// newReportRepository prefers a direct Postgres connection, then Supabase,
// then an in-memory store.
func (c *Container) newReportRepository(ctx context.Context, supabaseReady bool) (domain.ReportRepository, error) {
	if url := c.Config.GetDatabaseURL(); url != "" {
		repo, err := repository.NewPostgresReportRepository(ctx, url, c.Logger)
		if err != nil {
			return nil, fmt.Errorf("failed to connect report database: %w", err)
		}
		c.closers = append(c.closers, repo.Close)
		return repo, nil
	}
	if supabaseReady {
		return repository.NewSupabaseReportRepository(c.SupabaseClient, c.Logger), nil
	}
	c.Logger.Warn("No report store configured, comparisons are kept in memory")
	return repository.NewMemoryReportRepository(), nil
}

// NewDocumentOpener opens PDF bytes with the MuPDF renderer
func NewDocumentOpener(logger domain.Logger) service.DocumentOpener {
	return func(content []byte) (service.ComparableDocument, error) {
		doc, err := renderer.Open(content, logger)
		if err != nil {
			return nil, err
		}
		return doc, nil
	}
}

// Close releases pooled connections
func (c *Container) Close() {
	for _, closeFn := range c.closers {
		closeFn()
	}
}

// GetConfig returns the configuration instance
func (c *Container) GetConfig() domain.Config {
	return c.Config
}

// GetLogger returns the logger instance
func (c *Container) GetLogger() domain.Logger {
	return c.Logger
}

// GetSupabaseClient returns the Supabase client instance
func (c *Container) GetSupabaseClient() domain.SupabaseClient {
	return c.SupabaseClient
}

// GetComparisonService returns the comparison service instance
func (c *Container) GetComparisonService() domain.ComparisonService {
	return c.ComparisonService
}
