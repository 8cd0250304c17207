// Package app wires the store, read cache and usecases into one facade.
package app

import (
	"context"
	"fmt"

	"invoicing/internal/cache"
	"invoicing/internal/config"
	infradb "invoicing/internal/infra/db"
	infrarepo "invoicing/internal/infra/repository"
	"invoicing/internal/metrics"
	"invoicing/internal/usecase"
	"invoicing/internal/validator"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	DB      *gorm.DB
	Cache   *cache.ReadCache
	Metrics *metrics.Recorder

	Clients  *usecase.ClientUsecase
	Products *usecase.ProductUsecase
	Invoices *usecase.InvoiceUsecase

	log *zap.Logger
}

// New opens and migrates the store, seeds it when cfg.DBSeed is set and
// builds the usecases. reg may be nil.
func New(ctx context.Context, cfg config.Config, log *zap.Logger, reg prometheus.Registerer) (*App, error) {
	if log == nil {
		log = zap.NewNop()
	}
	policy, err := usecase.ParseStockPolicy(cfg.StockPolicy)
	if err != nil {
		return nil, err
	}

	db, err := infradb.Open(cfg, log)
	if err != nil {
		return nil, err
	}
	if err := infradb.Migrate(ctx, db, log); err != nil {
		_ = infradb.Close(db)
		return nil, fmt.Errorf("migrate: %w", err)
	}

	rec := metrics.NewRecorder(reg)
	tx := infrarepo.NewTxManagerGorm(db, cfg.TxTimeout)
	readCache := cache.NewReadCache(cache.NewRepositoryLoader(infrarepo.NewRepos(db), tx), log, rec)
	v := validator.NewInputValidator()

	a := &App{
		DB:       db,
		Cache:    readCache,
		Metrics:  rec,
		Clients:  usecase.NewClientUsecase(tx, readCache, v, log, rec),
		Products: usecase.NewProductUsecase(tx, readCache, v, log, rec),
		Invoices: usecase.NewInvoiceUsecase(tx, usecase.NewInventoryReconciler(policy, log), readCache, v, log, rec, usecase.SystemClock{}),
		log:      log,
	}
	if cfg.DBSeed {
		if err := a.Seed(ctx); err != nil {
			_ = a.Close()
			return nil, err
		}
	}
	log.Info("invoicing ready",
		zap.String("driver", cfg.DBDriver),
		zap.String("stock_policy", string(policy)),
		zap.Duration("tx_timeout", cfg.TxTimeout),
	)
	return a, nil
}

// Seed loads the starter clients and products into an empty store. The
// rows bypass the usecases, so every cached view is dropped afterwards.
func (a *App) Seed(ctx context.Context) error {
	if err := infradb.Seed(ctx, a.DB, a.log); err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	a.Cache.InvalidateAll()
	return nil
}

func (a *App) Close() error {
	return infradb.Close(a.DB)
}
