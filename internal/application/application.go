package application

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/warekit/position-calculator/internal/api"
	"github.com/warekit/position-calculator/internal/calculator"
	"github.com/warekit/position-calculator/internal/config"
	"github.com/warekit/position-calculator/internal/importer"
	"github.com/warekit/position-calculator/internal/storage"
)

// App encapsulates the application dependencies and HTTP server.
type App struct {
	storage    storage.Storage
	calculator calculator.Calculator
	handler    *api.Handler
	router     http.Handler
	logger     *zap.Logger
	server     *http.Server
}

// New initializes the application with all dependencies from the provided
// configuration. Catalogs are seeded from the config (defaults or YAML
// entries), then overridden by import files when configured.
func New(cfg config.Config, logger *zap.Logger) (*App, error) {
	store := storage.NewMemoryStorage()
	if err := seedCatalogs(cfg, store, logger); err != nil {
		return nil, err
	}

	calc := calculator.New()
	handler := api.NewHandler(calc, store, api.Defaults{
		PalletLength: cfg.PalletLength,
		PalletWidth:  cfg.PalletWidth,
		Clearance:    cfg.Clearance,
	})
	router := api.NewRouter(handler, logger,
		api.WithLogging(cfg.EnableRequestLogging),
		api.WithRateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst),
	)

	server := NewServer(cfg, router)

	return &App{
		storage:    store,
		calculator: calc,
		handler:    handler,
		router:     router,
		logger:     logger,
		server:     server,
	}, nil
}

// seedCatalogs applies the configured catalogs to storage. Files win over
// inline config entries so a spreadsheet export from the warehouse system
// can drive the service without editing YAML.
func seedCatalogs(cfg config.Config, store storage.Storage, logger *zap.Logger) error {
	positionTypes := cfg.PositionTypes
	if cfg.PositionTypesFile != "" {
		imported, warnings, err := importer.ReadPositionTypes(cfg.PositionTypesFile)
		if err != nil {
			return fmt.Errorf("import position types from %s: %w", cfg.PositionTypesFile, err)
		}
		logImportWarnings(logger, cfg.PositionTypesFile, warnings)
		positionTypes = imported
	}
	if err := store.SetPositionTypes(positionTypes); err != nil {
		return fmt.Errorf("failed to apply initial position types: %w", err)
	}

	boxes := cfg.Boxes
	if cfg.BoxesFile != "" {
		imported, warnings, err := importer.ReadBoxes(cfg.BoxesFile)
		if err != nil {
			return fmt.Errorf("import boxes from %s: %w", cfg.BoxesFile, err)
		}
		logImportWarnings(logger, cfg.BoxesFile, warnings)
		boxes = imported
	}
	if err := store.SetBoxes(boxes); err != nil {
		return fmt.Errorf("failed to apply initial boxes: %w", err)
	}

	return nil
}

func logImportWarnings(logger *zap.Logger, path string, warnings []string) {
	for _, warning := range warnings {
		logger.Warn("catalog import warning",
			zap.String("file", path),
			zap.String("warning", warning),
		)
	}
}

// NewServer creates and configures an HTTP server from the provided configuration.
func NewServer(cfg config.Config, handler http.Handler) *http.Server {
	addr := cfg.Port
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}

	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
}

// Start starts the HTTP server in a goroutine and logs the listening address.
func (a *App) Start() error {
	go func() {
		a.logger.Info("server listening", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Fatal("server error", zap.Error(err))
		}
	}()
	return nil
}

// Server returns the HTTP server instance for shutdown handling.
func (a *App) Server() *http.Server {
	return a.server
}

// Storage returns the seeded catalog storage, primarily for tests.
func (a *App) Storage() storage.Storage {
	return a.storage
}
