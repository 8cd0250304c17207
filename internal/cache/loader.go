package cache

import (
	"context"

	"invoicing/internal/domain/model"
	repo "invoicing/internal/repository"
)

// snapshotTables are locked while the joined invoice view is read.
var snapshotTables = []repo.Table{repo.TableClients, repo.TableInvoices, repo.TableInvoiceLines}

// RepositoryLoader reads through repositories bound to the plain
// (non-transactional) store handle. Snapshot reads go through tx.
type RepositoryLoader struct {
	repos repo.TxRepos
	tx    repo.TransactionManager
}

func NewRepositoryLoader(repos repo.TxRepos, tx repo.TransactionManager) *RepositoryLoader {
	return &RepositoryLoader{repos: repos, tx: tx}
}

func (l *RepositoryLoader) ListClients(ctx context.Context) ([]model.Client, error) {
	return l.repos.Clients().List(ctx)
}

func (l *RepositoryLoader) ListProducts(ctx context.Context) ([]model.Product, error) {
	return l.repos.Products().List(ctx)
}

func (l *RepositoryLoader) ListInvoices(ctx context.Context) ([]model.Invoice, error) {
	return l.repos.Invoices().List(ctx)
}

func (l *RepositoryLoader) ListInvoiceLines(ctx context.Context) ([]model.InvoiceLine, error) {
	return l.repos.InvoiceLines().List(ctx)
}

// Snapshot holds the client, invoice and line tables for the duration of
// fn, so no invoice lifecycle transaction can commit between its reads.
func (l *RepositoryLoader) Snapshot(ctx context.Context, fn func(Loader) error) error {
	if l.tx == nil {
		return fn(l)
	}
	return l.tx.WithinTx(ctx, snapshotTables, func(r repo.TxRepos) error {
		return fn(&RepositoryLoader{repos: r})
	})
}
