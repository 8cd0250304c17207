// Package cache memoizes whole-table reads and the joined invoice view.
package cache

import (
	"context"
	"sync"

	"invoicing/internal/domain/model"
	"invoicing/internal/metrics"

	"go.uber.org/zap"
)

type View string

const (
	ViewClients             View = "clients"
	ViewProducts            View = "products"
	ViewInvoicesWithDetails View = "invoices_with_details"
)

// Loader reads full tables from the store.
type Loader interface {
	ListClients(ctx context.Context) ([]model.Client, error)
	ListProducts(ctx context.Context) ([]model.Product, error)
	ListInvoices(ctx context.Context) ([]model.Invoice, error)
	ListInvoiceLines(ctx context.Context) ([]model.InvoiceLine, error)

	// Snapshot runs fn with a Loader whose reads all see one committed
	// state of the store.
	Snapshot(ctx context.Context, fn func(l Loader) error) error
}

type slot[T any] struct {
	value []T
	ok    bool
	// gen moves on every invalidation so a fill that started before it
	// is never stored.
	gen uint64
}

// ReadCache holds at most one value per View. It has no TTL: values stay
// until a mutating operation invalidates them, so every write must go
// through the usecases that call Invalidate.
type ReadCache struct {
	loader  Loader
	log     *zap.Logger
	metrics *metrics.Recorder

	mu       sync.Mutex
	clients  slot[model.Client]
	products slot[model.Product]
	invoices slot[model.InvoiceWithDetails]
}

func NewReadCache(loader Loader, log *zap.Logger, rec *metrics.Recorder) *ReadCache {
	if log == nil {
		log = zap.NewNop()
	}
	return &ReadCache{loader: loader, log: log.Named("cache"), metrics: rec}
}

// Clients returns every client in id order.
func (c *ReadCache) Clients(ctx context.Context) ([]model.Client, error) {
	return load(ctx, c, &c.clients, ViewClients, c.loader.ListClients, cloneSlice[model.Client])
}

// Products returns every product in id order.
func (c *ReadCache) Products(ctx context.Context) ([]model.Product, error) {
	return load(ctx, c, &c.products, ViewProducts, c.loader.ListProducts, cloneSlice[model.Product])
}

// InvoicesWithDetails returns one entry per invoice in id order, joined
// with its client and lines.
func (c *ReadCache) InvoicesWithDetails(ctx context.Context) ([]model.InvoiceWithDetails, error) {
	return load(ctx, c, &c.invoices, ViewInvoicesWithDetails, c.fillInvoices, cloneDetails)
}

// Invalidate drops the cached value of each view.
func (c *ReadCache) Invalidate(views ...View) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, v := range views {
		switch v {
		case ViewClients:
			drop(&c.clients)
		case ViewProducts:
			drop(&c.products)
		case ViewInvoicesWithDetails:
			drop(&c.invoices)
		}
	}
	c.log.Debug("invalidated", zap.Any("views", views))
}

func (c *ReadCache) InvalidateAll() {
	c.Invalidate(ViewClients, ViewProducts, ViewInvoicesWithDetails)
}

// fillInvoices reads the three tables in one snapshot so a commit landing
// between the scans cannot show up half applied.
func (c *ReadCache) fillInvoices(ctx context.Context) ([]model.InvoiceWithDetails, error) {
	var out []model.InvoiceWithDetails
	err := c.loader.Snapshot(ctx, func(l Loader) error {
		invoices, err := l.ListInvoices(ctx)
		if err != nil {
			return err
		}
		clients, err := l.ListClients(ctx)
		if err != nil {
			return err
		}
		lines, err := l.ListInvoiceLines(ctx)
		if err != nil {
			return err
		}
		out = JoinInvoices(invoices, clients, lines)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// JoinInvoices builds the detail view in invoice order. Lines keep their
// input order; an invoice whose client is gone gets a nil Client.
func JoinInvoices(invoices []model.Invoice, clients []model.Client, lines []model.InvoiceLine) []model.InvoiceWithDetails {
	byID := make(map[int64]model.Client, len(clients))
	for _, cl := range clients {
		byID[cl.ID] = cl
	}
	byInvoice := make(map[int64][]model.InvoiceLine)
	for _, l := range lines {
		byInvoice[l.InvoiceID] = append(byInvoice[l.InvoiceID], l)
	}

	out := make([]model.InvoiceWithDetails, 0, len(invoices))
	for _, inv := range invoices {
		d := model.InvoiceWithDetails{Invoice: inv, Lines: byInvoice[inv.ID]}
		if d.Lines == nil {
			d.Lines = []model.InvoiceLine{}
		}
		if cl, ok := byID[inv.ClientID]; ok {
			cl := cl
			d.Client = &cl
		}
		out = append(out, d)
	}
	return out
}

func load[T any](ctx context.Context, c *ReadCache, s *slot[T], view View, fill func(context.Context) ([]T, error), clone func([]T) []T) ([]T, error) {
	c.mu.Lock()
	if s.ok {
		v := clone(s.value)
		c.mu.Unlock()
		c.metrics.CacheHit(string(view))
		return v, nil
	}
	gen := s.gen
	c.mu.Unlock()

	c.metrics.CacheMiss(string(view))
	v, err := fill(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if s.gen == gen {
		s.value = v
		s.ok = true
	}
	c.mu.Unlock()

	c.log.Debug("filled", zap.String("view", string(view)), zap.Int("rows", len(v)))
	return clone(v), nil
}

func drop[T any](s *slot[T]) {
	s.value = nil
	s.ok = false
	s.gen++
}

func cloneSlice[T any](in []T) []T {
	out := make([]T, len(in))
	copy(out, in)
	return out
}

func cloneDetails(in []model.InvoiceWithDetails) []model.InvoiceWithDetails {
	out := make([]model.InvoiceWithDetails, len(in))
	for i, d := range in {
		out[i] = model.InvoiceWithDetails{Invoice: d.Invoice, Lines: cloneSlice(d.Lines)}
		if d.Client != nil {
			cl := *d.Client
			out[i].Client = &cl
		}
	}
	return out
}
