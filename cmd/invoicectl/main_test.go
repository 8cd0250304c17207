package main

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"invoicing/internal/domain/model"
	"invoicing/internal/usecase"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setEnv(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_PATH", filepath.Join(t.TempDir(), "invoices.db"))
	t.Setenv("DB_LOG_LEVEL", "silent")
	t.Setenv("DB_SEED", "true")
	t.Setenv("STOCK_POLICY", "strict")
	t.Setenv("TX_TIMEOUT", "2s")
	t.Setenv("DATABASE_URL", "")
}

func TestRun_PrintsSeededProducts(t *testing.T) {
	setEnv(t)
	ctx := context.Background()

	var out bytes.Buffer
	require.NoError(t, run(ctx, []string{"products"}, &out, prometheus.NewRegistry()))

	var products []model.Product
	require.NoError(t, json.Unmarshal(out.Bytes(), &products))
	require.Len(t, products, 3)
	assert.Equal(t, "Laptop", products[0].Name)
	assert.Equal(t, int64(5), products[0].Quantity)

	// the file persists between runs and is seeded only once
	out.Reset()
	require.NoError(t, run(ctx, []string{"clients"}, &out, prometheus.NewRegistry()))
	var clients []model.Client
	require.NoError(t, json.Unmarshal(out.Bytes(), &clients))
	assert.Len(t, clients, 2)
}

func TestRun_Errors(t *testing.T) {
	setEnv(t)
	ctx := context.Background()

	assert.Error(t, run(ctx, nil, &bytes.Buffer{}, prometheus.NewRegistry()))
	assert.Error(t, run(ctx, []string{"nope"}, &bytes.Buffer{}, prometheus.NewRegistry()))
	assert.Error(t, run(ctx, []string{"history"}, &bytes.Buffer{}, prometheus.NewRegistry()))
	assert.Error(t, run(ctx, []string{"stock", "abc"}, &bytes.Buffer{}, prometheus.NewRegistry()))
}

func TestRun_Migrate(t *testing.T) {
	setEnv(t)
	var out bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"migrate"}, &out, prometheus.NewRegistry()))
	assert.Empty(t, out.String())
}

func TestHistoryArgs(t *testing.T) {
	id, q, err := historyArgs([]string{"history", "-action", "update_invoice, DELETE_INVOICE", "-from", "2026-03-01", "-to", "2026-03-14", "-limit", "5", "-offset", "2", "7"})
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
	assert.Equal(t, usecase.HistoryQuery{
		Actions: []model.AuditAction{model.AuditActionUpdateInvoice, model.AuditActionDeleteInvoice},
		From:    time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		To:      time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		Limit:   5,
		Offset:  2,
	}, q)

	id, q, err = historyArgs([]string{"history", "3"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), id)
	assert.Equal(t, usecase.HistoryQuery{}, q)

	for _, args := range [][]string{
		{"history", "-from", "14/03/2026", "3"},
		{"history", "-limit", "x", "3"},
		{"history", "-limit", "5"},
		{"history", "3", "-limit", "5"},
	} {
		_, _, err := historyArgs(args)
		assert.Error(t, err, args)
	}
}

func TestRun_HistoryRejectsBadQuery(t *testing.T) {
	setEnv(t)
	err := run(context.Background(), []string{"history", "-from", "2026-03-14", "-to", "2026-03-01", "1"}, &bytes.Buffer{}, prometheus.NewRegistry())
	assert.ErrorIs(t, err, usecase.ErrValidation)
}
