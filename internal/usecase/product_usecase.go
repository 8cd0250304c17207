package usecase

import (
	"context"
	"time"

	"invoicing/internal/cache"
	"invoicing/internal/domain/model"
	repo "invoicing/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type ProductUsecase struct {
	tx        repo.TransactionManager
	views     Views
	validator InputValidator
	log       *zap.Logger
	observer  Observer
}

func NewProductUsecase(tx repo.TransactionManager, views Views, validator InputValidator, log *zap.Logger, observer Observer) *ProductUsecase {
	if log == nil {
		log = zap.NewNop()
	}
	return &ProductUsecase{tx: tx, views: views, validator: validator, log: log.Named("product"), observer: observer}
}

type ProductInput struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	// Quantity is the opening stock; it is ignored by Update.
	Quantity int64 `json:"quantity"`
}

var stockTables = []repo.Table{repo.TableProducts, repo.TableInventoryAdjustments}

func (u *ProductUsecase) List(ctx context.Context) ([]model.Product, error) {
	list, err := u.views.Products(ctx)
	if err != nil {
		return nil, classify(err, "list products")
	}
	return list, nil
}

func (u *ProductUsecase) Get(ctx context.Context, id int64) (model.Product, error) {
	list, err := u.List(ctx)
	if err != nil {
		return model.Product{}, err
	}
	for _, p := range list {
		if p.ID == id {
			return p, nil
		}
	}
	return model.Product{}, NewError(KindNotFound, "product not found")
}

func (u *ProductUsecase) Create(ctx context.Context, in ProductInput) (model.Product, error) {
	p := model.Product{Name: in.Name, Price: in.Price, Quantity: in.Quantity}
	if err := u.validator.ValidateProduct(p); err != nil {
		return model.Product{}, wrapError(KindValidation, err.Error(), err)
	}

	start := time.Now()
	var created model.Product
	err := u.tx.WithinTx(ctx, stockTables, func(r repo.TxRepos) error {
		var err error
		created, err = r.Products().Create(ctx, p)
		if err != nil {
			return err
		}
		if created.Quantity == 0 {
			return nil
		}
		return r.Inventory().CreateAdjustment(ctx, model.InventoryAdjustment{
			ProductID: created.ID,
			Delta:     created.Quantity,
			QtyAfter:  created.Quantity,
			Reason:    model.AdjustmentManual,
			Note:      "opening stock",
		})
	})
	observe(ctx, u.observer, "product.create", start, err)
	if err != nil {
		return model.Product{}, classify(err, "create product")
	}

	u.views.Invalidate(cache.ViewProducts)
	u.log.Info("product created", zap.Int64("product_id", created.ID))
	return created, nil
}

// Update changes name and price. Lines already invoiced keep the price
// they captured.
func (u *ProductUsecase) Update(ctx context.Context, id int64, in ProductInput) error {
	if err := u.validator.ValidateProduct(model.Product{Name: in.Name, Price: in.Price}); err != nil {
		return wrapError(KindValidation, err.Error(), err)
	}

	start := time.Now()
	err := u.tx.WithinTx(ctx, []repo.Table{repo.TableProducts}, func(r repo.TxRepos) error {
		p, err := r.Products().FindByID(ctx, id)
		if err != nil {
			return classify(err, "product not found")
		}
		p.Name, p.Price = in.Name, in.Price
		return r.Products().Update(ctx, p)
	})
	observe(ctx, u.observer, "product.update", start, err)
	if err != nil {
		return classify(err, "update product")
	}

	u.views.Invalidate(cache.ViewProducts)
	u.log.Info("product updated", zap.Int64("product_id", id))
	return nil
}

func (u *ProductUsecase) Delete(ctx context.Context, id int64) error {
	start := time.Now()
	err := u.tx.WithinTx(ctx, []repo.Table{repo.TableProducts}, func(r repo.TxRepos) error {
		return r.Products().Delete(ctx, id)
	})
	observe(ctx, u.observer, "product.delete", start, err)
	if err != nil {
		return classify(err, "delete product")
	}

	u.views.Invalidate(cache.ViewProducts)
	u.log.Info("product deleted", zap.Int64("product_id", id))
	return nil
}

// SetStock overwrites the stock of a product and records the difference
// in the ledger.
func (u *ProductUsecase) SetStock(ctx context.Context, id int64, quantity int64, reason string) error {
	if err := u.validator.ValidateStock(quantity); err != nil {
		return wrapError(KindValidation, err.Error(), err)
	}

	start := time.Now()
	err := u.tx.WithinTx(ctx, stockTables, func(r repo.TxRepos) error {
		p, err := r.Products().FindByID(ctx, id)
		if err != nil {
			return classify(err, "product not found")
		}
		if err := r.Inventory().SetStock(ctx, id, quantity); err != nil {
			return err
		}
		return r.Inventory().CreateAdjustment(ctx, model.InventoryAdjustment{
			ProductID: id,
			Delta:     quantity - p.Quantity,
			QtyBefore: p.Quantity,
			QtyAfter:  quantity,
			Reason:    model.AdjustmentManual,
			Note:      reason,
		})
	})
	observe(ctx, u.observer, "product.set_stock", start, err)
	if err != nil {
		return classify(err, "set stock")
	}

	u.views.Invalidate(cache.ViewProducts)
	u.log.Info("stock set", zap.Int64("product_id", id), zap.Int64("quantity", quantity), zap.String("reason", reason))
	return nil
}

// Adjustments returns the stock ledger of a product, oldest first.
func (u *ProductUsecase) Adjustments(ctx context.Context, id int64) ([]model.InventoryAdjustment, error) {
	var adjs []model.InventoryAdjustment
	err := u.tx.WithinTx(ctx, []repo.Table{repo.TableInventoryAdjustments}, func(r repo.TxRepos) error {
		var err error
		adjs, err = r.Inventory().ListAdjustments(ctx, id)
		return err
	})
	if err != nil {
		return nil, classify(err, "list adjustments")
	}
	return adjs, nil
}
