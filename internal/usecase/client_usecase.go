package usecase

import (
	"context"
	"time"

	"invoicing/internal/cache"
	"invoicing/internal/domain/model"
	repo "invoicing/internal/repository"

	"go.uber.org/zap"
)

type ClientUsecase struct {
	tx        repo.TransactionManager
	views     Views
	validator InputValidator
	log       *zap.Logger
	observer  Observer
}

func NewClientUsecase(tx repo.TransactionManager, views Views, validator InputValidator, log *zap.Logger, observer Observer) *ClientUsecase {
	if log == nil {
		log = zap.NewNop()
	}
	return &ClientUsecase{tx: tx, views: views, validator: validator, log: log.Named("client"), observer: observer}
}

type ClientInput struct {
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
}

func (u *ClientUsecase) List(ctx context.Context) ([]model.Client, error) {
	list, err := u.views.Clients(ctx)
	if err != nil {
		return nil, classify(err, "list clients")
	}
	return list, nil
}

func (u *ClientUsecase) Get(ctx context.Context, id int64) (model.Client, error) {
	list, err := u.List(ctx)
	if err != nil {
		return model.Client{}, err
	}
	for _, c := range list {
		if c.ID == id {
			return c, nil
		}
	}
	return model.Client{}, NewError(KindNotFound, "client not found")
}

func (u *ClientUsecase) Create(ctx context.Context, in ClientInput) (model.Client, error) {
	c := model.Client{Name: in.Name, Phone: in.Phone, Email: in.Email}
	if err := u.validator.ValidateClient(c); err != nil {
		return model.Client{}, wrapError(KindValidation, err.Error(), err)
	}

	start := time.Now()
	var created model.Client
	err := u.tx.WithinTx(ctx, []repo.Table{repo.TableClients}, func(r repo.TxRepos) error {
		var err error
		created, err = r.Clients().Create(ctx, c)
		return err
	})
	observe(ctx, u.observer, "client.create", start, err)
	if err != nil {
		return model.Client{}, classify(err, "create client")
	}

	u.views.Invalidate(cache.ViewClients)
	u.log.Info("client created", zap.Int64("client_id", created.ID))
	return created, nil
}

// Update replaces name, phone and email. The joined invoice view embeds
// clients, so it is dropped too.
func (u *ClientUsecase) Update(ctx context.Context, id int64, in ClientInput) error {
	if err := u.validator.ValidateClient(model.Client{Name: in.Name, Phone: in.Phone, Email: in.Email}); err != nil {
		return wrapError(KindValidation, err.Error(), err)
	}

	start := time.Now()
	err := u.tx.WithinTx(ctx, []repo.Table{repo.TableClients}, func(r repo.TxRepos) error {
		c, err := r.Clients().FindByID(ctx, id)
		if err != nil {
			return classify(err, "client not found")
		}
		c.Name, c.Phone, c.Email = in.Name, in.Phone, in.Email
		return r.Clients().Update(ctx, c)
	})
	observe(ctx, u.observer, "client.update", start, err)
	if err != nil {
		return classify(err, "update client")
	}

	u.views.Invalidate(cache.ViewClients, cache.ViewInvoicesWithDetails)
	u.log.Info("client updated", zap.Int64("client_id", id))
	return nil
}

// Delete removes the client. Invoices that reference it stay and show no
// client.
func (u *ClientUsecase) Delete(ctx context.Context, id int64) error {
	start := time.Now()
	err := u.tx.WithinTx(ctx, []repo.Table{repo.TableClients}, func(r repo.TxRepos) error {
		return r.Clients().Delete(ctx, id)
	})
	observe(ctx, u.observer, "client.delete", start, err)
	if err != nil {
		return classify(err, "delete client")
	}

	u.views.Invalidate(cache.ViewClients, cache.ViewInvoicesWithDetails)
	u.log.Info("client deleted", zap.Int64("client_id", id))
	return nil
}
