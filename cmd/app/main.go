package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodbstreams"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/chris/transit-tickets/pkg/config"
	"github.com/chris/transit-tickets/pkg/handlers"
	"github.com/chris/transit-tickets/pkg/handlers/cards"
	"github.com/chris/transit-tickets/pkg/handlers/ledger"
	tickethandlers "github.com/chris/transit-tickets/pkg/handlers/tickets"
	wshandlers "github.com/chris/transit-tickets/pkg/handlers/websockets"
	"github.com/chris/transit-tickets/pkg/lifecycle"
	"github.com/chris/transit-tickets/pkg/logging"
	"github.com/chris/transit-tickets/pkg/payment"
	"github.com/chris/transit-tickets/pkg/scheduler"
	"github.com/chris/transit-tickets/pkg/storage"
	"github.com/chris/transit-tickets/pkg/storage/cache"
	dydbstore "github.com/chris/transit-tickets/pkg/storage/dynamodb"
	"github.com/chris/transit-tickets/pkg/storage/memory"
	"github.com/chris/transit-tickets/pkg/streams"
	"github.com/chris/transit-tickets/pkg/tickets"
	"github.com/chris/transit-tickets/pkg/wallet"
	"github.com/chris/transit-tickets/pkg/websockets"
	"github.com/jonboulle/clockwork"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	logger := logging.Init(cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

// backend is the storage wiring chosen by STORE_BACKEND.
type backend struct {
	store      storage.Storage
	subscriber storage.TicketSubscriber
	sqs        *sqs.Client
}

func newBackend(ctx context.Context, cfg *config.Config, clock clockwork.Clock) (*backend, error) {
	if cfg.Store.Backend == config.StoreMemory {
		slog.Warn("using the in-memory store; data is lost on restart")
		store := memory.New()
		return &backend{store: store, subscriber: store}, nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}

	b := &backend{
		store: dydbstore.New(dynamodb.NewFromConfig(awsCfg), cfg.DynamoDBTables()),
		sqs:   sqs.NewFromConfig(awsCfg),
	}
	if cfg.Store.StreamARN != "" {
		b.subscriber = streams.NewSubscriber(dynamodbstreams.NewFromConfig(awsCfg), cfg.Store.StreamARN, cfg.Store.PollEvery, clock)
	}
	return b, nil
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	clock := clockwork.NewRealClock()

	b, err := newBackend(ctx, cfg, clock)
	if err != nil {
		return err
	}

	var registry storage.QRRegistry = b.store
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		defer rdb.Close()
		registry = cache.NewRegistry(b.store, rdb, cfg.Redis.TTL)
		logger.Info("caching qr registry lookups in redis", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.TTL)
	}

	timers := scheduler.NewTimers(clock)
	defer timers.Stop()

	opts := []lifecycle.Option{lifecycle.WithIOTimeout(cfg.Store.IOTimeout)}
	if cfg.Scheduler.Backend == config.SchedulerSQS {
		if b.sqs == nil {
			return errors.New("SCHEDULER_BACKEND=sqs requires STORE_BACKEND=dynamodb")
		}
		opts = append(opts, lifecycle.WithExpiryScheduler(scheduler.NewSQSScheduler(b.sqs, cfg.Scheduler.QueueURL, clock)))
	}

	manager := lifecycle.NewManager(b.store, registry, timers, clock, opts...)
	validator := payment.NewValidator(b.store, cfg.Store.IOTimeout)
	cardWallet := wallet.New(b.store, clock, cfg.Store.IOTimeout)
	service := tickets.NewService(validator, manager, cardWallet, clock, cfg.Tickets.Price)

	// Live updates go through API Gateway when configured, otherwise to
	// clients connected to /ws on this process.
	hub := websockets.NewHub()
	var publisher websockets.Publisher = hub
	if cfg.WebSocket.APIEndpoint != "" {
		client, err := websockets.NewManagementClient(ctx, cfg.WebSocket.APIEndpoint)
		if err != nil {
			return err
		}
		publisher = websockets.NewGatewayPublisher(b.store, client)
	}
	notifier := websockets.NewNotifier(publisher, clock)

	if err := manager.Resume(ctx); err != nil {
		logger.Error("failed to resume active tickets", "error", err)
	}

	if b.subscriber != nil {
		changes, err := b.subscriber.Subscribe(ctx, storage.TicketFilter{})
		if err != nil {
			return fmt.Errorf("failed to subscribe to ticket changes: %w", err)
		}
		go manager.Run(ctx, changes)

		updates, err := b.subscriber.Subscribe(ctx, storage.TicketFilter{})
		if err != nil {
			return fmt.Errorf("failed to subscribe to ticket updates: %w", err)
		}
		go notifier.Run(ctx, updates)
	} else {
		logger.Warn("no ticket change stream configured; expiring by periodic sweep", "interval", cfg.Scheduler.SweepInterval)
	}

	// The sweep catches tickets whose timers were lost, with or without a stream.
	go timers.Tick(ctx, cfg.Scheduler.SweepInterval, func(time.Time) {
		if n, err := manager.Sweep(ctx); err != nil {
			logger.Error("expiry sweep failed", "expired", n, "error", err)
		} else if n > 0 {
			logger.Info("expiry sweep expired tickets", "expired", n)
		}
	})
	go manager.RunCountdown(ctx, cfg.Scheduler.CountdownInterval, notifier.Countdown)

	apiHandler := handlers.NewApiHandler(
		tickethandlers.NewTicketsHandler(service, clock),
		cards.NewCardsHandler(cardWallet),
		ledger.NewLedgerHandler(validator),
	)
	router := handlers.NewRouter(apiHandler, wshandlers.NewHandler(b.store, hub), logger)

	srv := &http.Server{
		Addr:              ":" + cfg.HTTP.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("failed to shut down cleanly", "error", err)
		}
	}()

	logger.Info("Starting server", "port", cfg.HTTP.Port, "store", cfg.Store.Backend, "scheduler", cfg.Scheduler.Backend)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}
