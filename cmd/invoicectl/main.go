package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"invoicing/internal/app"
	"invoicing/internal/config"
	"invoicing/internal/domain/model"
	"invoicing/internal/usecase"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

const usage = `usage: invoicectl [-env file] <command> [args]

commands:
  migrate             create or extend the schema, then exit
  clients             print all clients
  products            print all products
  invoices            print all invoices with client and lines
  history [flags] <invoice>
                      print the audit trail of one invoice, newest first
                      -action CREATE_INVOICE,UPDATE_INVOICE,DELETE_INVOICE
                      -from YYYY-MM-DD  -to YYYY-MM-DD (both inclusive)
                      -limit N  -offset N
  stock <product>     print the stock ledger of one product
`

func main() {
	envFile := flag.String("env", ".env", "dotenv file loaded before reading the environment")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintln(os.Stderr, "load env:", err)
		os.Exit(1)
	}

	if err := run(context.Background(), flag.Args(), os.Stdout, prometheus.DefaultRegisterer); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer, reg prometheus.Registerer) error {
	if len(args) == 0 {
		return errors.New(usage)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	a, err := app.New(ctx, cfg, log, reg)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	var v interface{}
	switch args[0] {
	case "migrate":
		return nil
	case "clients":
		v, err = a.Clients.List(ctx)
	case "products":
		v, err = a.Products.List(ctx)
	case "invoices":
		v, err = a.Invoices.ListWithDetails(ctx)
	case "history":
		id, q, perr := historyArgs(args)
		if perr != nil {
			return perr
		}
		v, err = a.Invoices.History(ctx, id, q)
	case "stock":
		id, perr := idArg(args)
		if perr != nil {
			return perr
		}
		v, err = a.Products.Adjustments(ctx, id)
	default:
		return fmt.Errorf("unknown command %q\n\n%s", args[0], usage)
	}
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	if cfg.IsDevelopment() {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func idArg(args []string) (int64, error) {
	if len(args) < 2 {
		return 0, fmt.Errorf("%s needs an id", args[0])
	}
	id, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", args[1])
	}
	return id, nil
}

const dateLayout = "2006-01-02"

func historyArgs(args []string) (int64, usecase.HistoryQuery, error) {
	var q usecase.HistoryQuery
	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	actions := fs.String("action", "", "comma separated audit actions")
	from := fs.String("from", "", "first day, inclusive")
	to := fs.String("to", "", "last day, inclusive")
	fs.IntVar(&q.Limit, "limit", 0, "max rows")
	fs.IntVar(&q.Offset, "offset", 0, "rows to skip")
	if err := fs.Parse(args[1:]); err != nil {
		return 0, q, fmt.Errorf("history: %w", err)
	}

	for _, a := range strings.Split(*actions, ",") {
		if a = strings.TrimSpace(a); a != "" {
			q.Actions = append(q.Actions, model.AuditAction(strings.ToUpper(a)))
		}
	}
	if *from != "" {
		d, err := time.Parse(dateLayout, *from)
		if err != nil {
			return 0, q, fmt.Errorf("invalid -from %q", *from)
		}
		q.From = d
	}
	if *to != "" {
		d, err := time.Parse(dateLayout, *to)
		if err != nil {
			return 0, q, fmt.Errorf("invalid -to %q", *to)
		}
		q.To = d.AddDate(0, 0, 1)
	}

	if fs.NArg() > 1 {
		return 0, q, fmt.Errorf("history: unexpected arguments %q", fs.Args()[1:])
	}
	id, err := idArg(append([]string{args[0]}, fs.Args()...))
	if err != nil {
		return 0, q, err
	}
	return id, q, nil
}
