package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	"github.com/chris/transit-tickets/pkg/storage"
)

const (
	ticketStatusGSI = "status-purchaseTime-index"
	cardNumberGSI   = "card_number-index"
)

// DynamoDBAPI is the subset of the DynamoDB client the store uses.
// It exists so tests can substitute a mock.
type DynamoDBAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// Tables holds the table names the store reads and writes.
type Tables struct {
	Tickets     string
	Ledger      string
	Cards       string
	QRRegistry  string
	Connections string
}

// Store implements the Storage interface using AWS DynamoDB.
type Store struct {
	Client DynamoDBAPI
	Tables Tables
}

// New creates a new Store.
func New(client DynamoDBAPI, tables Tables) *Store {
	return &Store{
		Client: client,
		Tables: tables,
	}
}

// Make sure we conform to the interface
var _ storage.Storage = (*Store)(nil)

// storeError classifies a DynamoDB failure into one of the storage error kinds.
// The original error stays in the chain.
func storeError(err error) error {
	var notFound *types.ResourceNotFoundException
	if errors.As(err, &notFound) {
		return fmt.Errorf("%w: %w", storage.ErrIndexMissing, err)
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "AccessDeniedException", "UnrecognizedClientException", "MissingAuthenticationTokenException":
			return fmt.Errorf("%w: %w", storage.ErrPermissionDenied, err)
		case "ValidationException":
			if strings.Contains(strings.ToLower(apiErr.ErrorMessage()), "index") {
				return fmt.Errorf("%w: %w", storage.ErrIndexMissing, err)
			}
		}
	}

	return fmt.Errorf("%w: %w", storage.ErrUnavailable, err)
}
