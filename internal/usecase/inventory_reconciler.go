package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"invoicing/internal/domain/model"
	repo "invoicing/internal/repository"

	"go.uber.org/zap"
)

type StockPolicy string

const (
	// StockPolicyStrict rejects any line that would take stock below zero.
	StockPolicyStrict StockPolicy = "strict"
	// StockPolicyLenient clamps stock at zero instead.
	StockPolicyLenient StockPolicy = "lenient"
)

func ParseStockPolicy(s string) (StockPolicy, error) {
	switch StockPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case StockPolicyStrict, "":
		return StockPolicyStrict, nil
	case StockPolicyLenient:
		return StockPolicyLenient, nil
	}
	return "", fmt.Errorf("unknown stock policy %q", s)
}

// Movement describes why a set of lines moves stock.
type Movement struct {
	InvoiceID int64
	Reason    model.AdjustmentReason
}

// InventoryReconciler applies line quantities to product stock inside an
// open transaction and writes one ledger row per change.
type InventoryReconciler struct {
	policy StockPolicy
	log    *zap.Logger
}

func NewInventoryReconciler(policy StockPolicy, log *zap.Logger) *InventoryReconciler {
	if policy == "" {
		policy = StockPolicyStrict
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &InventoryReconciler{policy: policy, log: log.Named("inventory")}
}

// ApplyConsumption takes each line's qty out of stock.
func (rc *InventoryReconciler) ApplyConsumption(ctx context.Context, r repo.TxRepos, mv Movement, lines []model.InvoiceLine) error {
	return rc.apply(ctx, r, mv, lines, -1)
}

// ApplyRestoration puts each line's qty back. There is no upper bound.
func (rc *InventoryReconciler) ApplyRestoration(ctx context.Context, r repo.TxRepos, mv Movement, lines []model.InvoiceLine) error {
	return rc.apply(ctx, r, mv, lines, 1)
}

func (rc *InventoryReconciler) apply(ctx context.Context, r repo.TxRepos, mv Movement, lines []model.InvoiceLine, sign int64) error {
	log := loggerFor(ctx, rc.log)

	for _, l := range lines {
		// reload every time: two lines may share a product
		p, err := r.Products().FindByID(ctx, l.ProductID)
		if errors.Is(err, repo.ErrNotFound) {
			log.Warn("product missing, stock not adjusted",
				zap.Int64("product_id", l.ProductID),
				zap.Int64("invoice_id", mv.InvoiceID),
				zap.Int64("qty", l.Qty),
			)
			continue
		}
		if err != nil {
			return wrapError(KindStorage, "load product", err)
		}

		next := p.Quantity + sign*l.Qty
		if next < 0 {
			if rc.policy == StockPolicyStrict {
				return NewError(KindInsufficientStock, fmt.Sprintf(
					"product %d (%s): %d in stock, %d requested", p.ID, p.Name, p.Quantity, l.Qty))
			}
			log.Warn("stock clamped at zero",
				zap.Int64("product_id", p.ID),
				zap.Int64("quantity", p.Quantity),
				zap.Int64("qty", l.Qty),
			)
			next = 0
		}

		if err := r.Inventory().SetStock(ctx, p.ID, next); err != nil {
			return wrapError(KindStorage, "set stock", err)
		}

		invoiceID := mv.InvoiceID
		adj := model.InventoryAdjustment{
			ProductID: p.ID,
			InvoiceID: &invoiceID,
			Delta:     next - p.Quantity,
			QtyBefore: p.Quantity,
			QtyAfter:  next,
			Reason:    mv.Reason,
		}
		if err := r.Inventory().CreateAdjustment(ctx, adj); err != nil {
			return wrapError(KindStorage, "record adjustment", err)
		}

		log.Debug("stock adjusted",
			zap.Int64("product_id", p.ID),
			zap.Int64("before", p.Quantity),
			zap.Int64("after", next),
			zap.String("reason", string(mv.Reason)),
		)
	}
	return nil
}
