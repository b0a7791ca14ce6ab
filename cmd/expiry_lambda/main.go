package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/chris/transit-tickets/pkg/config"
	"github.com/chris/transit-tickets/pkg/lifecycle"
	"github.com/chris/transit-tickets/pkg/logging"
	"github.com/chris/transit-tickets/pkg/scheduler"
	dydbstore "github.com/chris/transit-tickets/pkg/storage/dynamodb"
	"github.com/jonboulle/clockwork"
)

type expirer interface {
	Expire(ctx context.Context, ticketID string) error
}

// handler consumes delayed expiry messages. Messages that arrive before the
// ticket is due are sent back with the remaining delay.
type handler struct {
	tickets   expirer
	scheduler scheduler.ExpiryScheduler
	clock     clockwork.Clock
}

func (h *handler) HandleRequest(ctx context.Context, sqsEvent events.SQSEvent) (events.SQSEventResponse, error) {
	var resp events.SQSEventResponse

	for _, message := range sqsEvent.Records {
		msg, err := scheduler.ParseExpiryMessage(message.Body)
		if err != nil {
			// Retrying cannot fix a malformed body.
			slog.Error("dropping malformed expiry message", "messageId", message.MessageId, "error", err)
			continue
		}

		if err := h.process(ctx, msg); err != nil {
			slog.Error("failed to process expiry message", "messageId", message.MessageId, "ticketId", msg.TicketId, "error", err)
			resp.BatchItemFailures = append(resp.BatchItemFailures, events.SQSBatchItemFailure{ItemIdentifier: message.MessageId})
		}
	}

	return resp, nil
}

func (h *handler) process(ctx context.Context, msg scheduler.ExpiryMessage) error {
	if remaining := msg.Remaining(h.clock.Now()); remaining > 0 {
		slog.Debug("ticket not due yet, re-enqueuing", "ticketId", msg.TicketId, "remaining", remaining)
		return h.scheduler.ScheduleExpiry(ctx, msg.TicketId, time.UnixMilli(msg.ExpiresAt))
	}

	err := h.tickets.Expire(ctx, msg.TicketId)
	switch {
	case err == nil:
		slog.Info("ticket expired", "ticketId", msg.TicketId)
		return nil
	case errors.Is(err, lifecycle.ErrNotFound), errors.Is(err, lifecycle.ErrWrongState):
		slog.Warn("expiry message for a ticket that cannot expire", "ticketId", msg.TicketId, "error", err)
		return nil
	default:
		return err
	}
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
	if cfg.Scheduler.QueueURL == "" {
		slog.Error("SQS_QUEUE_URL environment variable not set")
		os.Exit(1)
	}

	clock := clockwork.NewRealClock()
	store := dydbstore.New(dynamodb.NewFromConfig(awsCfg), cfg.DynamoDBTables())
	timers := scheduler.NewTimers(clock)
	manager := lifecycle.NewManager(store, store, timers, clock, lifecycle.WithIOTimeout(cfg.Store.IOTimeout))

	h := &handler{
		tickets:   manager,
		scheduler: scheduler.NewSQSScheduler(sqs.NewFromConfig(awsCfg), cfg.Scheduler.QueueURL, clock),
		clock:     clock,
	}
	lambda.Start(h.HandleRequest)
}
