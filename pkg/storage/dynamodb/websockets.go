package dynamodb

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const (
	connectionsPK    = "connections"
	connectionsIndex = "pk-index"

	// API Gateway closes WebSocket connections after two hours; the TTL lets
	// DynamoDB drop rows whose disconnect event was lost.
	connectionTTL = 2 * time.Hour
)

// WebSocketConnection represents a record in the WebSocket connections table.
type WebSocketConnection struct {
	ConnectionID string `dynamodbav:"connection_id"`
	PK           string `dynamodbav:"pk"`
	TTL          int64  `dynamodbav:"ttl,omitempty"`
}

// AddConnection saves a new WebSocket connection ID.
func (s *Store) AddConnection(ctx context.Context, connectionID string) error {
	conn := WebSocketConnection{
		ConnectionID: connectionID,
		PK:           connectionsPK,
		TTL:          time.Now().Add(connectionTTL).Unix(),
	}
	item, err := attributevalue.MarshalMap(conn)
	if err != nil {
		return fmt.Errorf("failed to marshal connection: %w", err)
	}

	_, err = s.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.Tables.Connections),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("failed to put connection: %w", storeError(err))
	}

	return nil
}

// RemoveConnection deletes a WebSocket connection ID.
func (s *Store) RemoveConnection(ctx context.Context, connectionID string) error {
	_, err := s.Client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.Tables.Connections),
		Key: map[string]types.AttributeValue{
			"connection_id": &types.AttributeValueMemberS{Value: connectionID},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to delete connection: %w", storeError(err))
	}

	return nil
}

// GetAllConnections retrieves every live WebSocket connection ID, following
// query pages until the partition is exhausted.
func (s *Store) GetAllConnections(ctx context.Context) ([]string, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.Tables.Connections),
		IndexName:              aws.String(connectionsIndex),
		KeyConditionExpression: aws.String("pk = :pk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: connectionsPK},
		},
		ProjectionExpression: aws.String("connection_id"),
	}

	var connectionIDs []string
	for {
		result, err := s.Client.Query(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("failed to query connections table: %w", storeError(err))
		}

		var page []WebSocketConnection
		if err := attributevalue.UnmarshalListOfMaps(result.Items, &page); err != nil {
			return nil, fmt.Errorf("failed to unmarshal connections: %w", err)
		}
		for _, conn := range page {
			connectionIDs = append(connectionIDs, conn.ConnectionID)
		}

		if len(result.LastEvaluatedKey) == 0 {
			return connectionIDs, nil
		}
		input.ExclusiveStartKey = result.LastEvaluatedKey
	}
}
