package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"invoicing/internal/cache"
	"invoicing/internal/domain/model"
	repo "invoicing/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// invoiceTables are locked by every invoice lifecycle transaction.
var invoiceTables = []repo.Table{
	repo.TableInvoices,
	repo.TableInvoiceLines,
	repo.TableProducts,
	repo.TableInventoryAdjustments,
	repo.TableAuditLogs,
}

// InvoiceUsecase is the only writer of invoices, their lines and the stock
// they consume. Each call is one transaction; the cache is invalidated only
// after a commit.
type InvoiceUsecase struct {
	tx        repo.TransactionManager
	inventory *InventoryReconciler
	views     Views
	validator InputValidator
	log       *zap.Logger
	observer  Observer
	clock     Clock
}

func NewInvoiceUsecase(
	tx repo.TransactionManager,
	inventory *InventoryReconciler,
	views Views,
	validator InputValidator,
	log *zap.Logger,
	observer Observer,
	clock Clock,
) *InvoiceUsecase {
	if log == nil {
		log = zap.NewNop()
	}
	if clock == nil {
		clock = SystemClock{}
	}
	return &InvoiceUsecase{
		tx:        tx,
		inventory: inventory,
		views:     views,
		validator: validator,
		log:       log.Named("invoice"),
		observer:  observer,
		clock:     clock,
	}
}

type LineInput struct {
	ProductID int64           `json:"product_id"`
	Qty       int64           `json:"qty"`
	Price     decimal.Decimal `json:"price"`
}

type CreateInvoiceInput struct {
	ClientID int64
	// Date defaults to today.
	Date  time.Time
	Lines []LineInput
}

type UpdateInvoiceInput struct {
	// ClientID and Date keep their stored value when zero.
	ClientID int64
	Date     time.Time
	Lines    []LineInput
}

type invoiceSnapshot struct {
	Invoice model.Invoice       `json:"invoice"`
	Lines   []model.InvoiceLine `json:"lines"`
}

// Create stores the invoice, its lines and the stock they consume in one
// transaction. A line may name a product that does not exist: the line is
// stored as given and the reconciler logs a warning instead of moving stock.
func (u *InvoiceUsecase) Create(ctx context.Context, in CreateInvoiceInput) (int64, error) {
	lines := toLines(in.Lines)
	if err := u.validator.ValidateInvoice(in.ClientID, lines); err != nil {
		return 0, wrapError(KindValidation, err.Error(), err)
	}

	date := in.Date
	if date.IsZero() {
		date = u.clock.Now()
	}

	ctx, opID := withOperation(ctx)
	log := loggerFor(ctx, u.log)
	start := time.Now()

	var invoiceID int64
	tables := append([]repo.Table{repo.TableClients}, invoiceTables...)
	err := u.tx.WithinTx(ctx, tables, func(r repo.TxRepos) error {
		if err := u.requireClient(ctx, r, in.ClientID); err != nil {
			return err
		}

		created, err := r.Invoices().Create(ctx, model.Invoice{
			ClientID: in.ClientID,
			Date:     model.CalendarDate(date),
			Total:    model.TotalWithTax(lines),
		})
		if err != nil {
			return wrapError(KindStorage, "create invoice", err)
		}

		stored, err := r.InvoiceLines().CreateBulk(ctx, created.ID, lines)
		if err != nil {
			return wrapError(KindStorage, "create lines", err)
		}

		mv := Movement{InvoiceID: created.ID, Reason: model.AdjustmentInvoiceCreate}
		if err := u.inventory.ApplyConsumption(ctx, r, mv, stored); err != nil {
			return err
		}

		if err := u.audit(ctx, r, opID, model.AuditActionCreateInvoice, created.ID, nil, &invoiceSnapshot{created, stored}); err != nil {
			return err
		}

		invoiceID = created.ID
		return nil
	})
	observe(ctx, u.observer, "invoice.create", start, err)
	if err != nil {
		log.Warn("create invoice failed", zap.Int64("client_id", in.ClientID), zap.Error(err))
		return 0, classify(err, "create invoice")
	}

	u.views.Invalidate(cache.ViewProducts, cache.ViewInvoicesWithDetails)
	log.Info("invoice created", zap.Int64("invoice_id", invoiceID), zap.Int("lines", len(lines)))
	return invoiceID, nil
}

// Update replaces the lines of an invoice. Stock for the stored lines is
// restored before the new lines are consumed, so a product moved from one
// line to another only needs the net difference in stock.
func (u *InvoiceUsecase) Update(ctx context.Context, invoiceID int64, in UpdateInvoiceInput) error {
	if invoiceID <= 0 {
		return NewError(KindValidation, "invalid invoice id")
	}
	if in.ClientID < 0 {
		return NewError(KindValidation, "invalid client id")
	}
	lines := toLines(in.Lines)
	if err := u.validator.ValidateLines(lines); err != nil {
		return wrapError(KindValidation, err.Error(), err)
	}

	ctx, opID := withOperation(ctx)
	log := loggerFor(ctx, u.log)
	start := time.Now()

	tables := invoiceTables
	if in.ClientID != 0 {
		tables = append([]repo.Table{repo.TableClients}, invoiceTables...)
	}
	err := u.tx.WithinTx(ctx, tables, func(r repo.TxRepos) error {
		cur, err := r.Invoices().FindByID(ctx, invoiceID)
		if err != nil {
			return classify(err, "invoice not found")
		}
		old, err := r.InvoiceLines().ListByInvoiceID(ctx, invoiceID)
		if err != nil {
			return wrapError(KindStorage, "load lines", err)
		}

		next := cur
		if in.ClientID != 0 && in.ClientID != cur.ClientID {
			if err := u.requireClient(ctx, r, in.ClientID); err != nil {
				return err
			}
			next.ClientID = in.ClientID
		}
		if !in.Date.IsZero() {
			next.Date = model.CalendarDate(in.Date)
		}
		next.Total = model.TotalWithTax(lines)

		if err := r.Invoices().Update(ctx, next); err != nil {
			return wrapError(KindStorage, "update invoice", err)
		}
		if err := r.InvoiceLines().DeleteByIDs(ctx, lineIDs(old)); err != nil {
			return wrapError(KindStorage, "delete lines", err)
		}
		stored, err := r.InvoiceLines().CreateBulk(ctx, invoiceID, lines)
		if err != nil {
			return wrapError(KindStorage, "create lines", err)
		}

		mv := Movement{InvoiceID: invoiceID, Reason: model.AdjustmentInvoiceUpdate}
		if err := u.inventory.ApplyRestoration(ctx, r, mv, old); err != nil {
			return err
		}
		if err := u.inventory.ApplyConsumption(ctx, r, mv, stored); err != nil {
			return err
		}

		return u.audit(ctx, r, opID, model.AuditActionUpdateInvoice, invoiceID,
			&invoiceSnapshot{cur, old}, &invoiceSnapshot{next, stored})
	})
	observe(ctx, u.observer, "invoice.update", start, err)
	if err != nil {
		log.Warn("update invoice failed", zap.Int64("invoice_id", invoiceID), zap.Error(err))
		return classify(err, "update invoice")
	}

	u.views.Invalidate(cache.ViewProducts, cache.ViewInvoicesWithDetails)
	log.Info("invoice updated", zap.Int64("invoice_id", invoiceID), zap.Int("lines", len(lines)))
	return nil
}

func (u *InvoiceUsecase) Delete(ctx context.Context, invoiceID int64) error {
	if invoiceID <= 0 {
		return NewError(KindValidation, "invalid invoice id")
	}

	ctx, opID := withOperation(ctx)
	log := loggerFor(ctx, u.log)
	start := time.Now()

	err := u.tx.WithinTx(ctx, invoiceTables, func(r repo.TxRepos) error {
		cur, err := r.Invoices().FindByID(ctx, invoiceID)
		if err != nil {
			return classify(err, "invoice not found")
		}
		lines, err := r.InvoiceLines().ListByInvoiceID(ctx, invoiceID)
		if err != nil {
			return wrapError(KindStorage, "load lines", err)
		}

		if err := r.Invoices().Delete(ctx, invoiceID); err != nil {
			return classify(err, "delete invoice")
		}
		if _, err := r.InvoiceLines().DeleteByInvoiceID(ctx, invoiceID); err != nil {
			return wrapError(KindStorage, "delete lines", err)
		}

		mv := Movement{InvoiceID: invoiceID, Reason: model.AdjustmentInvoiceDelete}
		if err := u.inventory.ApplyRestoration(ctx, r, mv, lines); err != nil {
			return err
		}

		return u.audit(ctx, r, opID, model.AuditActionDeleteInvoice, invoiceID, &invoiceSnapshot{cur, lines}, nil)
	})
	observe(ctx, u.observer, "invoice.delete", start, err)
	if err != nil {
		log.Warn("delete invoice failed", zap.Int64("invoice_id", invoiceID), zap.Error(err))
		return classify(err, "delete invoice")
	}

	u.views.Invalidate(cache.ViewProducts, cache.ViewInvoicesWithDetails)
	log.Info("invoice deleted", zap.Int64("invoice_id", invoiceID))
	return nil
}

// ListWithDetails returns every invoice joined with its client and lines.
func (u *InvoiceUsecase) ListWithDetails(ctx context.Context) ([]model.InvoiceWithDetails, error) {
	list, err := u.views.InvoicesWithDetails(ctx)
	if err != nil {
		return nil, classify(err, "list invoices")
	}
	return list, nil
}

func (u *InvoiceUsecase) Get(ctx context.Context, invoiceID int64) (model.InvoiceWithDetails, error) {
	list, err := u.ListWithDetails(ctx)
	if err != nil {
		return model.InvoiceWithDetails{}, err
	}
	for _, d := range list {
		if d.Invoice.ID == invoiceID {
			return d, nil
		}
	}
	return model.InvoiceWithDetails{}, NewError(KindNotFound, "invoice not found")
}

// HistoryQuery narrows an invoice audit trail. The zero value selects the
// newest repo.MaxPageSize rows of every action.
type HistoryQuery struct {
	Actions []model.AuditAction
	// From is inclusive, To exclusive; zero leaves that end open.
	From    time.Time
	To      time.Time
	Limit   int
	Offset  int
}

func (q HistoryQuery) validate() error {
	if q.Limit < 0 || q.Offset < 0 {
		return NewError(KindValidation, "limit and offset must not be negative")
	}
	if !q.From.IsZero() && !q.To.IsZero() && !q.From.Before(q.To) {
		return NewError(KindValidation, "from must be before to")
	}
	for _, a := range q.Actions {
		switch a {
		case model.AuditActionCreateInvoice, model.AuditActionUpdateInvoice, model.AuditActionDeleteInvoice:
		default:
			return NewError(KindValidation, "unknown audit action "+string(a))
		}
	}
	return nil
}

// History returns the audit rows of one invoice, newest first. Rows of a
// deleted invoice stay readable.
func (u *InvoiceUsecase) History(ctx context.Context, invoiceID int64, q HistoryQuery) ([]model.AuditLog, error) {
	if invoiceID <= 0 {
		return nil, NewError(KindValidation, "invalid invoice id")
	}
	if err := q.validate(); err != nil {
		return nil, err
	}
	limit := q.Limit
	if limit == 0 {
		limit = repo.MaxPageSize
	}
	query := repo.AuditQuery{
		Resource:   model.AuditResourceInvoice,
		ResourceID: invoiceID,
		Actions:    q.Actions,
		Since:      q.From,
		Until:      q.To,
		Page:       repo.Page{Limit: limit, Offset: q.Offset},
	}

	var logs []model.AuditLog
	err := u.tx.WithinTx(ctx, []repo.Table{repo.TableAuditLogs}, func(r repo.TxRepos) error {
		var err error
		logs, err = r.AuditLogs().Trail(ctx, query)
		return err
	})
	if err != nil {
		return nil, classify(err, "list history")
	}
	return logs, nil
}

func (u *InvoiceUsecase) requireClient(ctx context.Context, r repo.TxRepos, clientID int64) error {
	_, err := r.Clients().FindByID(ctx, clientID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewError(KindValidation, "client not found")
	}
	if err != nil {
		return wrapError(KindStorage, "load client", err)
	}
	return nil
}

func (u *InvoiceUsecase) audit(ctx context.Context, r repo.TxRepos, opID string, action model.AuditAction, invoiceID int64, before, after *invoiceSnapshot) error {
	entry := model.AuditLog{
		OperationID:  opID,
		Action:       action,
		ResourceType: model.AuditResourceInvoice,
		ResourceID:   invoiceID,
		CreatedAt:    u.clock.Now(),
	}
	if before != nil {
		b, err := json.Marshal(before)
		if err != nil {
			return wrapError(KindStorage, "encode audit", err)
		}
		entry.BeforeJSON = string(b)
	}
	if after != nil {
		b, err := json.Marshal(after)
		if err != nil {
			return wrapError(KindStorage, "encode audit", err)
		}
		entry.AfterJSON = string(b)
	}
	if err := r.AuditLogs().Create(ctx, entry); err != nil {
		return wrapError(KindStorage, "write audit", err)
	}
	return nil
}

func toLines(in []LineInput) []model.InvoiceLine {
	out := make([]model.InvoiceLine, 0, len(in))
	for _, l := range in {
		out = append(out, model.InvoiceLine{ProductID: l.ProductID, Qty: l.Qty, Price: l.Price})
	}
	return out
}

func lineIDs(lines []model.InvoiceLine) []int64 {
	ids := make([]int64, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.ID)
	}
	return ids
}
