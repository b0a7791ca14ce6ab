// Package payment validates card credentials against the ledger and debits
// the matching record.
package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/chris/transit-tickets/pkg/metrics"
	"github.com/chris/transit-tickets/pkg/models"
	"github.com/chris/transit-tickets/pkg/storage"
	"github.com/chris/transit-tickets/pkg/timeout"
)

// Validator is the only component allowed to mutate ledger balances.
type Validator struct {
	ledger    storage.LedgerStore
	ioTimeout time.Duration
}

// NewValidator creates a Validator. ioTimeout bounds each ledger call.
func NewValidator(ledger storage.LedgerStore, ioTimeout time.Duration) *Validator {
	if ioTimeout <= 0 {
		ioTimeout = timeout.IO
	}
	return &Validator{ledger: ledger, ioTimeout: ioTimeout}
}

// ValidateAndCharge finds the ledger record matching creds and debits price
// from it in a single conditional write. It returns the debited record's id.
// No balance is changed on any error path.
func (v *Validator) ValidateAndCharge(ctx context.Context, creds models.CardCredentials, price int64) (string, error) {
	record, err := v.match(ctx, creds)
	if err != nil {
		metrics.Payments.WithLabelValues(outcome(err)).Inc()
		return "", err
	}

	if record.Balance < price {
		metrics.Payments.WithLabelValues("insufficient_funds").Inc()
		return "", &InsufficientFundsError{Balance: record.Balance, Price: price}
	}

	debited, err := timeout.Do(ctx, v.ioTimeout, func(ctx context.Context) (*models.LedgerRecord, error) {
		return v.ledger.DebitLedgerRecord(ctx, record.Id, price)
	})
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrConditionFailed) && debited != nil:
			// Another debit won the race between lookup and write.
			err = &InsufficientFundsError{Balance: debited.Balance, Price: price}
		case errors.Is(err, storage.ErrNotFound):
			err = fmt.Errorf("ledger record disappeared before debit: %w", ErrInvalidCard)
		case errors.Is(err, timeout.ErrTimeout):
			slog.Warn("ledger debit timed out, outcome unknown", "ledgerRecordId", record.Id, "price", price)
			err = fmt.Errorf("%w: %w", ErrTimeout, err)
		default:
			err = fmt.Errorf("%w: failed to debit ledger record: %w", ErrStoreUnavailable, err)
		}
		metrics.Payments.WithLabelValues(outcome(err)).Inc()
		return "", err
	}

	slog.Info("ledger record debited", "ledgerRecordId", debited.Id, "price", price, "balance", debited.Balance)
	metrics.Payments.WithLabelValues("charged").Inc()
	return debited.Id, nil
}

// Balance returns the balance of the record matching creds without changing it.
func (v *Validator) Balance(ctx context.Context, creds models.CardCredentials) (int64, error) {
	record, err := v.match(ctx, creds)
	if err != nil {
		return 0, err
	}
	return record.Balance, nil
}

func (v *Validator) match(ctx context.Context, creds models.CardCredentials) (*models.LedgerRecord, error) {
	records, err := timeout.Do(ctx, v.ioTimeout, func(ctx context.Context) ([]models.LedgerRecord, error) {
		return v.ledger.FindLedgerRecords(ctx, creds)
	})
	if err != nil {
		if errors.Is(err, timeout.ErrTimeout) {
			return nil, fmt.Errorf("%w: %w", ErrTimeout, err)
		}
		return nil, fmt.Errorf("%w: failed to look up ledger record: %w", ErrStoreUnavailable, err)
	}

	switch len(records) {
	case 0:
		return nil, fmt.Errorf("no ledger record matches card ending in %s: %w", lastFour(creds.Number), ErrInvalidCard)
	case 1:
		return &records[0], nil
	default:
		slog.Warn("ambiguous card credentials", "matches", len(records))
		return nil, fmt.Errorf("%d ledger records match card ending in %s: %w", len(records), lastFour(creds.Number), ErrInvalidCard)
	}
}

func lastFour(number int64) string {
	s := fmt.Sprint(number)
	if len(s) <= 4 {
		return s
	}
	return s[len(s)-4:]
}

func outcome(err error) string {
	switch {
	case errors.Is(err, ErrInvalidCard):
		return "invalid_card"
	case errors.Is(err, ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, ErrTimeout):
		return "timeout"
	default:
		return "store_unavailable"
	}
}
