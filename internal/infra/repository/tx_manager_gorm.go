package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	repo "invoicing/internal/repository"

	"gorm.io/gorm"
)

type txReposGorm struct {
	clients      repo.ClientRepository
	products     repo.ProductRepository
	invoices     repo.InvoiceRepository
	invoiceLines repo.InvoiceLineRepository
	inventory    repo.InventoryRepository
	auditLogs    repo.AuditLogRepository
}

func (r *txReposGorm) Clients() repo.ClientRepository           { return r.clients }
func (r *txReposGorm) Products() repo.ProductRepository         { return r.products }
func (r *txReposGorm) Invoices() repo.InvoiceRepository         { return r.invoices }
func (r *txReposGorm) InvoiceLines() repo.InvoiceLineRepository { return r.invoiceLines }
func (r *txReposGorm) Inventory() repo.InventoryRepository      { return r.inventory }
func (r *txReposGorm) AuditLogs() repo.AuditLogRepository       { return r.auditLogs }

// NewRepos builds the full repository set on db. Passing a transaction
// handle binds every repository to that transaction.
func NewRepos(db *gorm.DB) repo.TxRepos {
	return &txReposGorm{
		clients:      NewClientGormRepository(db),
		products:     NewProductGormRepository(db),
		invoices:     NewInvoiceGormRepository(db),
		invoiceLines: NewInvoiceLineGormRepository(db),
		inventory:    NewInventoryGormRepository(db),
		auditLogs:    NewAuditLogGormRepository(db),
	}
}

type TxManagerGorm struct {
	db      *gorm.DB
	timeout time.Duration

	mu    sync.Mutex
	locks map[repo.Table]chan struct{}
}

// NewTxManagerGorm returns a manager whose transactions, lock waits
// included, are bounded by timeout. Zero means unbounded.
func NewTxManagerGorm(db *gorm.DB, timeout time.Duration) *TxManagerGorm {
	return &TxManagerGorm{
		db:      db,
		timeout: timeout,
		locks:   make(map[repo.Table]chan struct{}),
	}
}

func (tm *TxManagerGorm) WithinTx(ctx context.Context, tables []repo.Table, fn func(r repo.TxRepos) error) error {
	if tm.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, tm.timeout)
		defer cancel()
	}

	release, err := tm.acquire(ctx, tables)
	if err != nil {
		return err
	}
	defer release()

	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepos(tx))
	})
}

// acquire locks tables in name order so two transactions never wait on
// each other in a cycle.
func (tm *TxManagerGorm) acquire(ctx context.Context, tables []repo.Table) (func(), error) {
	sorted := make([]repo.Table, 0, len(tables))
	seen := make(map[repo.Table]struct{}, len(tables))
	for _, t := range tables {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		sorted = append(sorted, t)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	held := make([]chan struct{}, 0, len(sorted))
	release := func() {
		for i := len(held) - 1; i >= 0; i-- {
			<-held[i]
		}
	}

	for _, t := range sorted {
		l := tm.lockFor(t)
		select {
		case l <- struct{}{}:
			held = append(held, l)
		case <-ctx.Done():
			release()
			return nil, fmt.Errorf("acquire %s lock: %w", t, ctx.Err())
		}
	}
	return release, nil
}

func (tm *TxManagerGorm) lockFor(t repo.Table) chan struct{} {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	l, ok := tm.locks[t]
	if !ok {
		l = make(chan struct{}, 1)
		tm.locks[t] = l
	}
	return l
}
