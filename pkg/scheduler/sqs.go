package scheduler

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/jonboulle/clockwork"
)

// MaxDelay is the longest delivery delay SQS accepts.
const MaxDelay = 900 * time.Second

// SQSAPI defines the SQS operations the scheduler uses.
type SQSAPI interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// ExpiryMessage is the body of a delayed expiry check.
type ExpiryMessage struct {
	TicketId  string `json:"ticketId"`
	ExpiresAt int64  `json:"expiresAt"`
}

// Remaining returns how long until the message is due, never negative.
func (m ExpiryMessage) Remaining(now time.Time) time.Duration {
	d := time.UnixMilli(m.ExpiresAt).Sub(now)
	if d < 0 {
		return 0
	}
	return d
}

// ParseExpiryMessage decodes an SQS message body.
func ParseExpiryMessage(body string) (ExpiryMessage, error) {
	var msg ExpiryMessage
	if err := json.Unmarshal([]byte(body), &msg); err != nil {
		return ExpiryMessage{}, fmt.Errorf("failed to unmarshal expiry message: %w", err)
	}
	if msg.TicketId == "" {
		return ExpiryMessage{}, fmt.Errorf("expiry message has no ticketId")
	}
	return msg, nil
}

// SQSScheduler implements the ExpiryScheduler interface using delayed SQS messages.
// Expiries further away than MaxDelay are delivered early and re-enqueued by
// the consumer until due.
type SQSScheduler struct {
	Client   SQSAPI
	QueueURL string
	Clock    clockwork.Clock
}

// NewSQSScheduler creates a new SQSScheduler.
func NewSQSScheduler(client SQSAPI, queueURL string, clock clockwork.Clock) *SQSScheduler {
	return &SQSScheduler{
		Client:   client,
		QueueURL: queueURL,
		Clock:    clock,
	}
}

// Make sure we conform to the interface
var _ ExpiryScheduler = (*SQSScheduler)(nil)

// ScheduleExpiry sends an ExpiryMessage delayed by the remaining time, capped at MaxDelay.
func (s *SQSScheduler) ScheduleExpiry(ctx context.Context, ticketID string, at time.Time) error {
	msg := ExpiryMessage{TicketId: ticketID, ExpiresAt: at.UnixMilli()}
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal expiry message for SQS: %w", err)
	}

	_, err = s.Client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:     aws.String(s.QueueURL),
		MessageBody:  aws.String(string(body)),
		DelaySeconds: delaySeconds(msg.Remaining(s.Clock.Now())),
	})
	if err != nil {
		return fmt.Errorf("failed to send message to SQS: %w", err)
	}

	return nil
}

func delaySeconds(d time.Duration) int32 {
	if d > MaxDelay {
		d = MaxDelay
	}
	secs := d / time.Second
	if d%time.Second != 0 {
		secs++
	}
	return int32(secs)
}
