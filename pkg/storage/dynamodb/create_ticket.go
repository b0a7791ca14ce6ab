package dynamodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/transit-tickets/pkg/models"
	"github.com/chris/transit-tickets/pkg/storage"
)

// CreateTicket stores a new ticket record. The put is conditional on the id being
// unused so a retried create can never overwrite a ticket that already moved on.
func (s *Store) CreateTicket(ctx context.Context, ticket *models.Ticket) (*models.Ticket, error) {
	ticketAV, err := attributevalue.MarshalMap(ticket)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal ticket: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName:           aws.String(s.Tables.Tickets),
		Item:                ticketAV,
		ConditionExpression: aws.String("attribute_not_exists(ticketId)"),
	}

	_, err = s.Client.PutItem(ctx, input)
	if err != nil {
		var condCheckFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckFailed) {
			return nil, fmt.Errorf("ticket %s: %w", ticket.TicketId, storage.ErrAlreadyExists)
		}
		return nil, fmt.Errorf("failed to create ticket in DynamoDB: %w", storeError(err))
	}

	return ticket, nil
}
