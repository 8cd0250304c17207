package repository

import "context"

// Table names a store table that a transaction takes exclusive access to.
type Table string

const (
	TableClients              Table = "clients"
	TableProducts             Table = "products"
	TableInvoices             Table = "invoices"
	TableInvoiceLines         Table = "invoice_lines"
	TableInventoryAdjustments Table = "inventory_adjustments"
	TableAuditLogs            Table = "audit_logs"
)

// TxRepos are the repositories bound to one open transaction.
// They must not be used after the transaction body returns.
type TxRepos interface {
	Clients() ClientRepository
	Products() ProductRepository
	Invoices() InvoiceRepository
	InvoiceLines() InvoiceLineRepository
	Inventory() InventoryRepository
	AuditLogs() AuditLogRepository
}

// TransactionManager hides begin/commit/rollback from usecases.
// The body runs with exclusive access to tables; a returned error rolls
// everything back, a nil return commits.
type TransactionManager interface {
	WithinTx(ctx context.Context, tables []Table, fn func(r TxRepos) error) error
}
