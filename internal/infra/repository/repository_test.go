package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"invoicing/internal/domain/model"
	repo "invoicing/internal/repository"
	"invoicing/internal/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientRepository_CRUD(t *testing.T) {
	db := testutil.OpenDB(t)
	r := NewClientGormRepository(db)
	ctx := context.Background()

	c, err := r.Create(ctx, model.Client{Name: "Ahmed Ali", Phone: "0501112233"})
	require.NoError(t, err)
	require.NotZero(t, c.ID)

	c.Name = "Ahmed A."
	c.Email = "ahmed@example.com"
	require.NoError(t, r.Update(ctx, c))

	got, err := r.FindByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ahmed A.", got.Name)
	assert.Equal(t, "ahmed@example.com", got.Email)

	require.NoError(t, r.Delete(ctx, c.ID))

	_, err = r.FindByID(ctx, c.ID)
	assert.ErrorIs(t, err, repo.ErrNotFound)
	assert.ErrorIs(t, r.Delete(ctx, c.ID), repo.ErrNotFound)
	assert.ErrorIs(t, r.Update(ctx, c), repo.ErrNotFound)
}

func TestClientRepository_CreateWithTakenID(t *testing.T) {
	db := testutil.OpenDB(t)
	r := NewClientGormRepository(db)
	ctx := context.Background()

	_, err := r.Create(ctx, model.Client{ID: 7, Name: "first"})
	require.NoError(t, err)

	_, err = r.Create(ctx, model.Client{ID: 7, Name: "second"})
	assert.ErrorIs(t, err, repo.ErrConstraintViolation)
}

func TestProductRepository_UpdateLeavesQuantity(t *testing.T) {
	db := testutil.OpenDB(t)
	r := NewProductGormRepository(db)
	ctx := context.Background()

	p, err := r.Create(ctx, model.Product{Name: "Laptop", Price: decimal.NewFromInt(3000), Quantity: 5})
	require.NoError(t, err)

	p.Price = decimal.RequireFromString("2999.99")
	p.Quantity = 999
	require.NoError(t, r.Update(ctx, p))

	got, err := r.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, got.Price.Equal(decimal.RequireFromString("2999.99")))
	assert.Equal(t, int64(5), got.Quantity)
}

func TestListOrderedByID(t *testing.T) {
	db := testutil.OpenDB(t)
	r := NewProductGormRepository(db)
	ctx := context.Background()

	for _, name := range []string{"c", "a", "b"} {
		_, err := r.Create(ctx, model.Product{Name: name, Price: decimal.NewFromInt(1)})
		require.NoError(t, err)
	}

	list, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"c", "a", "b"}, []string{list[0].Name, list[1].Name, list[2].Name})
	assert.Less(t, list[0].ID, list[1].ID)
	assert.Less(t, list[1].ID, list[2].ID)
}

func TestInvoiceLineRepository_BulkAndDelete(t *testing.T) {
	db := testutil.OpenDB(t)
	lines := NewInvoiceLineGormRepository(db)
	ctx := context.Background()

	in := []model.InvoiceLine{
		{ProductID: 1, Qty: 2, Price: decimal.NewFromInt(100)},
		{ProductID: 2, Qty: 1, Price: decimal.NewFromInt(80)},
	}
	created, err := lines.CreateBulk(ctx, 42, in)
	require.NoError(t, err)
	require.Len(t, created, 2)
	for _, l := range created {
		assert.NotZero(t, l.ID)
		assert.Equal(t, int64(42), l.InvoiceID)
	}
	// caller's slice is untouched
	assert.Zero(t, in[0].InvoiceID)

	_, err = lines.CreateBulk(ctx, 43, []model.InvoiceLine{{ProductID: 1, Qty: 1, Price: decimal.NewFromInt(100)}})
	require.NoError(t, err)

	require.NoError(t, lines.DeleteByIDs(ctx, []int64{created[0].ID}))
	left, err := lines.ListByInvoiceID(ctx, 42)
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, created[1].ID, left[0].ID)

	n, err := lines.DeleteByInvoiceID(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	all, err := lines.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, int64(43), all[0].InvoiceID)
}

func TestInventoryRepository_SetStockAndLedger(t *testing.T) {
	db := testutil.OpenDB(t)
	products := NewProductGormRepository(db)
	inv := NewInventoryGormRepository(db)
	ctx := context.Background()

	p, err := products.Create(ctx, model.Product{Name: "Mouse", Price: decimal.NewFromInt(80), Quantity: 20})
	require.NoError(t, err)

	require.NoError(t, inv.SetStock(ctx, p.ID, 18))
	require.NoError(t, inv.CreateAdjustment(ctx, model.InventoryAdjustment{
		ProductID: p.ID, Delta: -2, QtyBefore: 20, QtyAfter: 18, Reason: model.AdjustmentManual,
	}))
	assert.ErrorIs(t, inv.SetStock(ctx, 9999, 1), repo.ErrNotFound)

	got, err := products.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(18), got.Quantity)

	adjs, err := inv.ListAdjustments(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, adjs, 1)
	assert.Equal(t, int64(-2), adjs[0].Delta)
}

func TestAuditLogRepository_Trail(t *testing.T) {
	db := testutil.OpenDB(t)
	r := NewAuditLogGormRepository(db)
	ctx := context.Background()

	day := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	rows := []struct {
		action model.AuditAction
		id     int64
		at     time.Time
	}{
		{model.AuditActionCreateInvoice, 1, day},
		{model.AuditActionUpdateInvoice, 1, day.AddDate(0, 0, 1)},
		{model.AuditActionUpdateInvoice, 1, day.AddDate(0, 0, 2)},
		{model.AuditActionDeleteInvoice, 1, day.AddDate(0, 0, 3)},
		{model.AuditActionCreateInvoice, 2, day},
	}
	for _, row := range rows {
		require.NoError(t, r.Create(ctx, model.AuditLog{
			OperationID:  "op",
			Action:       row.action,
			ResourceType: model.AuditResourceInvoice,
			ResourceID:   row.id,
			CreatedAt:    row.at,
		}))
	}
	invoice1 := repo.AuditQuery{Resource: model.AuditResourceInvoice, ResourceID: 1}

	all, err := r.Trail(ctx, invoice1)
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, model.AuditActionDeleteInvoice, all[0].Action)
	assert.Equal(t, model.AuditActionCreateInvoice, all[3].Action)

	q := invoice1
	q.Actions = []model.AuditAction{model.AuditActionUpdateInvoice}
	updates, err := r.Trail(ctx, q)
	require.NoError(t, err)
	assert.Len(t, updates, 2)

	q = invoice1
	q.Since = day.AddDate(0, 0, 1)
	q.Until = day.AddDate(0, 0, 3)
	window, err := r.Trail(ctx, q)
	require.NoError(t, err)
	require.Len(t, window, 2)
	assert.Equal(t, model.AuditActionUpdateInvoice, window[0].Action)
	assert.Equal(t, model.AuditActionUpdateInvoice, window[1].Action)

	q = invoice1
	q.Page = repo.Page{Limit: 1, Offset: 1}
	page, err := r.Trail(ctx, q)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, all[1].ID, page[0].ID)

	none, err := r.Trail(ctx, repo.AuditQuery{Resource: model.AuditResourceInvoice, ResourceID: 0})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestPage_Normalized(t *testing.T) {
	tests := []struct {
		in   repo.Page
		want repo.Page
	}{
		{repo.Page{}, repo.Page{Limit: repo.DefaultPageSize}},
		{repo.Page{Limit: -3, Offset: -1}, repo.Page{Limit: repo.DefaultPageSize}},
		{repo.Page{Limit: 10, Offset: 20}, repo.Page{Limit: 10, Offset: 20}},
		{repo.Page{Limit: 1000}, repo.Page{Limit: repo.MaxPageSize}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.in.Normalized())
	}
}

func TestTxManager_RollbackOnError(t *testing.T) {
	db := testutil.OpenDB(t)
	tm := NewTxManagerGorm(db, 0)
	ctx := context.Background()
	boom := errors.New("boom")

	err := tm.WithinTx(ctx, []repo.Table{repo.TableClients}, func(r repo.TxRepos) error {
		if _, err := r.Clients().Create(ctx, model.Client{Name: "ghost"}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	list, err := NewClientGormRepository(db).List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestTxManager_Commit(t *testing.T) {
	db := testutil.OpenDB(t)
	tm := NewTxManagerGorm(db, 0)
	ctx := context.Background()

	err := tm.WithinTx(ctx, []repo.Table{repo.TableClients}, func(r repo.TxRepos) error {
		_, err := r.Clients().Create(ctx, model.Client{Name: "kept"})
		return err
	})
	require.NoError(t, err)

	list, err := NewClientGormRepository(db).List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
}
