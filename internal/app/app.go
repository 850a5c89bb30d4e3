// Package app wires configuration, storage, clients, and services.
package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/eliz121/stock-manager/internal/clients/fmp"
	"github.com/eliz121/stock-manager/internal/common"
	"github.com/eliz121/stock-manager/internal/interfaces"
	"github.com/eliz121/stock-manager/internal/services/consolidate"
	"github.com/eliz121/stock-manager/internal/services/ledger"
	"github.com/eliz121/stock-manager/internal/services/quotecache"
	"github.com/eliz121/stock-manager/internal/services/symbolsearch"
	"github.com/eliz121/stock-manager/internal/storage/surrealdb"
)

// App holds all initialized services and clients. There are no hidden
// process-wide singletons: the quote provider and stores are constructed
// here and injected into the services that need them.
type App struct {
	Config               *common.Config
	Logger               *common.Logger
	Storage              interfaces.StorageManager
	QuoteProvider        interfaces.QuoteProvider
	QuoteCache           interfaces.QuoteCache
	ConsolidationService interfaces.ConsolidationService
	LedgerService        interfaces.LedgerService
	SymbolSearchService  interfaces.SymbolSearchService
	StartupTime          time.Time
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes all services, clients, and storage.
// configPath may be empty, in which case the default resolution logic is used.
func NewApp(configPath string) (*App, error) {
	startupStart := time.Now()

	binDir := getBinaryDir()

	// Load configuration - check provided path, STOCKMGR_CONFIG, then binary dir, then fallback
	if configPath == "" {
		configPath = os.Getenv("STOCKMGR_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "stock-manager.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/stock-manager.toml" // fallback for development
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := common.NewLogger(config.Logging.Level)

	storageManager, err := surrealdb.NewManager(logger, config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	fmpKey, err := common.ResolveAPIKey(
		[]string{"FMP_API_KEY", "STOCKMGR_FMP_API_KEY"},
		config.Clients.FMP.APIKey,
	)
	if err != nil {
		storageManager.Close()
		return nil, fmt.Errorf("FMP API key not configured: %w", err)
	}

	provider := fmp.NewClient(fmpKey,
		fmp.WithBaseURL(config.Clients.FMP.BaseURL),
		fmp.WithLogger(logger),
		fmp.WithRateLimit(config.Clients.FMP.RateLimit),
		fmp.WithTimeout(config.Clients.FMP.GetTimeout()),
	)

	quoteCache := quotecache.NewService(provider, storageManager.PriceStore(), logger).
		WithTTL(config.Cache.GetQuoteTTL())
	consolidationService := consolidate.NewService(storageManager.LedgerStore(), quoteCache, logger)
	ledgerService := ledger.NewService(storageManager.LedgerStore(), logger)
	searchService := symbolsearch.NewService(provider, logger)

	a := &App{
		Config:               config,
		Logger:               logger,
		Storage:              storageManager,
		QuoteProvider:        provider,
		QuoteCache:           quoteCache,
		ConsolidationService: consolidationService,
		LedgerService:        ledgerService,
		SymbolSearchService:  searchService,
		StartupTime:          startupStart,
	}

	logger.Info().Dur("startup", time.Since(startupStart)).Msg("App initialized")

	return a, nil
}

// Close releases all resources held by the App.
func (a *App) Close() {
	if a.Storage != nil {
		a.Storage.Close()
		a.Storage = nil
	}
}
