package storage

import (
	"context"

	"github.com/chris/transit-tickets/pkg/models"
)

// LedgerReader defines the interface for reading ledger records.
type LedgerReader interface {
	// FindLedgerRecords returns every record whose card number, cvv, expiration
	// month and expiration year all equal the credentials.
	FindLedgerRecords(ctx context.Context, creds models.CardCredentials) ([]models.LedgerRecord, error)
}

// LedgerStore is the highly-privileged ledger interface. Only the payment
// validator should hold it.
type LedgerStore interface {
	LedgerReader

	// DebitLedgerRecord atomically subtracts amount from the record's balance if,
	// and only if, the balance is at least amount. On a lost condition it returns
	// ErrConditionFailed together with the record as it was when the condition failed.
	DebitLedgerRecord(ctx context.Context, recordID string, amount int64) (*models.LedgerRecord, error)

	// CreateLedgerRecord seeds a new ledger record.
	CreateLedgerRecord(ctx context.Context, record *models.LedgerRecord) (*models.LedgerRecord, error)
}
