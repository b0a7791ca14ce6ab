package dynamodb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/chris/transit-tickets/pkg/models"
	"github.com/chris/transit-tickets/pkg/storage"
)

// GetTicket retrieves a ticket from DynamoDB by its ID.
func (s *Store) GetTicket(ctx context.Context, ticketID string) (*models.Ticket, error) {
	key, err := attributevalue.MarshalMap(map[string]string{"ticketId": ticketID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal ticket ID: %w", err)
	}

	input := &dynamodb.GetItemInput{
		TableName:      &s.Tables.Tickets,
		Key:            key,
		ConsistentRead: aws.Bool(true),
	}

	result, err := s.Client.GetItem(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to get ticket from DynamoDB: %w", storeError(err))
	}

	if result.Item == nil {
		return nil, fmt.Errorf("ticket with ID %s: %w", ticketID, storage.ErrNotFound)
	}

	var ticket models.Ticket
	if err := attributevalue.UnmarshalMap(result.Item, &ticket); err != nil {
		return nil, fmt.Errorf("failed to unmarshal ticket: %w", err)
	}

	return &ticket, nil
}
