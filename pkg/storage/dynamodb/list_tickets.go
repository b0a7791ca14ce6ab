package dynamodb

import (
	"context"
	"fmt"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/transit-tickets/pkg/models"
)

// ListTicketsByStatus queries the status index for tickets in the given status,
// newest purchase first.
func (s *Store) ListTicketsByStatus(ctx context.Context, status models.TicketStatus) ([]models.Ticket, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.Tables.Tickets),
		IndexName:              aws.String(ticketStatusGSI),
		KeyConditionExpression: aws.String("#status = :status"),
		ExpressionAttributeNames: map[string]string{
			"#status": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":status": &types.AttributeValueMemberS{Value: string(status)},
		},
		ScanIndexForward: aws.Bool(false), // Sort by purchaseTime in descending order
	}

	var tickets []models.Ticket
	for {
		result, err := s.Client.Query(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("failed to query tickets by status: %w", storeError(err))
		}

		var page []models.Ticket
		if err := attributevalue.UnmarshalListOfMaps(result.Items, &page); err != nil {
			return nil, fmt.Errorf("failed to unmarshal tickets: %w", err)
		}
		tickets = append(tickets, page...)

		if len(result.LastEvaluatedKey) == 0 {
			break
		}
		input.ExclusiveStartKey = result.LastEvaluatedKey
	}

	return tickets, nil
}

// ListTickets scans the tickets table and returns every ticket, newest purchase first.
func (s *Store) ListTickets(ctx context.Context) ([]models.Ticket, error) {
	input := &dynamodb.ScanInput{
		TableName: aws.String(s.Tables.Tickets),
	}

	var tickets []models.Ticket
	for {
		result, err := s.Client.Scan(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tickets table: %w", storeError(err))
		}

		var page []models.Ticket
		if err := attributevalue.UnmarshalListOfMaps(result.Items, &page); err != nil {
			return nil, fmt.Errorf("failed to unmarshal tickets: %w", err)
		}
		tickets = append(tickets, page...)

		if len(result.LastEvaluatedKey) == 0 {
			break
		}
		input.ExclusiveStartKey = result.LastEvaluatedKey
	}

	sort.Slice(tickets, func(i, j int) bool {
		return tickets[i].PurchaseTime > tickets[j].PurchaseTime
	})

	return tickets, nil
}
