package usecase_test

import (
	"context"
	"testing"
	"time"

	"invoicing/internal/cache"
	"invoicing/internal/domain/model"
	infrarepo "invoicing/internal/infra/repository"
	repo "invoicing/internal/repository"
	"invoicing/internal/testutil"
	"invoicing/internal/usecase"
	"invoicing/internal/validator"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

var today = time.Date(2026, 3, 14, 15, 30, 0, 0, time.UTC)

type fixture struct {
	db    *gorm.DB
	tx    repo.TransactionManager
	cache *cache.ReadCache
	logs  *observer.ObservedLogs

	clients  *usecase.ClientUsecase
	products *usecase.ProductUsecase
	invoices *usecase.InvoiceUsecase
}

type fixtureOpts struct {
	policy  usecase.StockPolicy
	timeout time.Duration
	// wrap decorates the transaction manager used by invoice operations.
	wrap func(repo.TransactionManager) repo.TransactionManager
	// loader decorates the store reader behind the read cache.
	loader func(cache.Loader) cache.Loader
}

func newFixture(t *testing.T, opts fixtureOpts) *fixture {
	t.Helper()

	db := testutil.OpenDB(t)
	core, logs := observer.New(zap.DebugLevel)
	log := zap.New(core)

	var tx repo.TransactionManager = infrarepo.NewTxManagerGorm(db, opts.timeout)
	var loader cache.Loader = cache.NewRepositoryLoader(infrarepo.NewRepos(db), tx)
	if opts.loader != nil {
		loader = opts.loader(loader)
	}
	readCache := cache.NewReadCache(loader, log, nil)
	v := validator.NewInputValidator()

	invoiceTx := tx
	if opts.wrap != nil {
		invoiceTx = opts.wrap(tx)
	}

	return &fixture{
		db:       db,
		tx:       tx,
		cache:    readCache,
		logs:     logs,
		clients:  usecase.NewClientUsecase(tx, readCache, v, log, nil),
		products: usecase.NewProductUsecase(tx, readCache, v, log, nil),
		invoices: usecase.NewInvoiceUsecase(invoiceTx, usecase.NewInventoryReconciler(opts.policy, log), readCache, v, log, nil, fixedClock{today}),
	}
}

func (f *fixture) client(t *testing.T, name string) model.Client {
	t.Helper()
	c, err := f.clients.Create(context.Background(), usecase.ClientInput{Name: name})
	require.NoError(t, err)
	return c
}

func (f *fixture) product(t *testing.T, name string, price int64, qty int64) model.Product {
	t.Helper()
	p, err := f.products.Create(context.Background(), usecase.ProductInput{Name: name, Price: decimal.NewFromInt(price), Quantity: qty})
	require.NoError(t, err)
	return p
}

// stock reads straight from the store, never through the cache.
func (f *fixture) stock(t *testing.T, productID int64) int64 {
	t.Helper()
	var p model.Product
	require.NoError(t, f.db.First(&p, productID).Error)
	return p.Quantity
}

func (f *fixture) count(t *testing.T, m interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(m).Count(&n).Error)
	return n
}

func line(productID, qty, price int64) usecase.LineInput {
	return usecase.LineInput{ProductID: productID, Qty: qty, Price: decimal.NewFromInt(price)}
}

// failingStock makes every SetStock inside a transaction fail.
type failingStock struct {
	inner repo.TransactionManager
	err   error
}

func (f failingStock) WithinTx(ctx context.Context, tables []repo.Table, fn func(r repo.TxRepos) error) error {
	return f.inner.WithinTx(ctx, tables, func(r repo.TxRepos) error {
		return fn(failingRepos{TxRepos: r, err: f.err})
	})
}

type failingRepos struct {
	repo.TxRepos
	err error
}

func (r failingRepos) Inventory() repo.InventoryRepository {
	return failingInventory{InventoryRepository: r.TxRepos.Inventory(), err: r.err}
}

type failingInventory struct {
	repo.InventoryRepository
	err error
}

func (i failingInventory) SetStock(context.Context, int64, int64) error { return i.err }
