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

// UpdateTicketStatus moves a ticket to its new status in a single conditional
// write. The condition on the expected status is what makes two concurrent
// activations of the same ticket resolve to exactly one winner.
func (s *Store) UpdateTicketStatus(ctx context.Context, ticket *models.Ticket, expected models.TicketStatus) (*models.Ticket, error) {
	statusAV, err := attributevalue.Marshal(ticket.Status)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal ticket status: %w", err)
	}
	expectedAV, err := attributevalue.Marshal(expected)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal expected status: %w", err)
	}

	input := &dynamodb.UpdateItemInput{
		TableName: aws.String(s.Tables.Tickets),
		Key: map[string]types.AttributeValue{
			"ticketId": &types.AttributeValueMemberS{Value: ticket.TicketId},
		},
		UpdateExpression:    aws.String("SET #status = :status, activatedTime = :activated, validUntil = :valid_until, qrCode = :qr"),
		ConditionExpression: aws.String("attribute_exists(ticketId) AND #status = :expected"),
		ExpressionAttributeNames: map[string]string{
			"#status": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":status":      statusAV,
			":expected":    expectedAV,
			":activated":   &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", ticket.ActivatedTime)},
			":valid_until": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", ticket.ValidUntil)},
			":qr":          &types.AttributeValueMemberS{Value: ticket.QRCode},
		},
		ReturnValues:                        types.ReturnValueAllNew,
		ReturnValuesOnConditionCheckFailure: types.ReturnValuesOnConditionCheckFailureAllOld,
	}

	result, err := s.Client.UpdateItem(ctx, input)
	if err != nil {
		var condCheckFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckFailed) {
			if len(condCheckFailed.Item) == 0 {
				return nil, fmt.Errorf("ticket with ID %s: %w", ticket.TicketId, storage.ErrNotFound)
			}
			var current models.Ticket
			if err := attributevalue.UnmarshalMap(condCheckFailed.Item, &current); err != nil {
				return nil, fmt.Errorf("failed to unmarshal current ticket: %w", err)
			}
			return &current, fmt.Errorf("ticket %s is %s, not %s: %w", ticket.TicketId, current.Status, expected, storage.ErrConditionFailed)
		}
		return nil, fmt.Errorf("failed to update ticket status in DynamoDB: %w", storeError(err))
	}

	var updated models.Ticket
	if err := attributevalue.UnmarshalMap(result.Attributes, &updated); err != nil {
		return nil, fmt.Errorf("failed to unmarshal updated ticket: %w", err)
	}

	return &updated, nil
}
