package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/chris/transit-tickets/pkg/config"
	"github.com/chris/transit-tickets/pkg/lifecycle"
	"github.com/chris/transit-tickets/pkg/logging"
	"github.com/chris/transit-tickets/pkg/scheduler"
	dydbstore "github.com/chris/transit-tickets/pkg/storage/dynamodb"
	"github.com/jonboulle/clockwork"
)

type sweeper interface {
	Sweep(ctx context.Context) (int, error)
}

// handler is triggered by an EventBridge schedule and expires active tickets
// whose window has elapsed but whose expiry message was lost.
type handler struct {
	tickets sweeper
}

func (h *handler) HandleRequest(ctx context.Context) error {
	slog.Info("Starting reconciliation of overdue active tickets")

	expired, err := h.tickets.Sweep(ctx)
	if err != nil {
		// Tickets that failed stay active and are retried on the next run.
		slog.Error("reconciliation finished with failures", "expired", expired, "error", err)
		return err
	}

	if expired == 0 {
		slog.Info("No overdue tickets found.")
		return nil
	}
	slog.Info("Reconciliation finished", "expired", expired)
	return nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	logging.Init(cfg.Log.Level, cfg.Log.Format)

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background())
	if err != nil {
		slog.Error("unable to load SDK config", "error", err)
		os.Exit(1)
	}

	clock := clockwork.NewRealClock()
	store := dydbstore.New(dynamodb.NewFromConfig(awsCfg), cfg.DynamoDBTables())
	manager := lifecycle.NewManager(store, store, scheduler.NewTimers(clock), clock, lifecycle.WithIOTimeout(cfg.Store.IOTimeout))

	h := &handler{tickets: manager}
	lambda.Start(h.HandleRequest)
}
