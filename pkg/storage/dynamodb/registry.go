package dynamodb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/transit-tickets/pkg/models"
)

// LookupCode returns the transport type registered for an exact scanned code.
func (s *Store) LookupCode(ctx context.Context, code string) (models.TransportType, bool, error) {
	input := &dynamodb.GetItemInput{
		TableName: aws.String(s.Tables.QRRegistry),
		Key: map[string]types.AttributeValue{
			"code": &types.AttributeValueMemberS{Value: code},
		},
	}

	result, err := s.Client.GetItem(ctx, input)
	if err != nil {
		return "", false, fmt.Errorf("failed to look up QR code: %w", storeError(err))
	}

	if result.Item == nil {
		return "", false, nil
	}

	var entry models.QRRegistryEntry
	if err := attributevalue.UnmarshalMap(result.Item, &entry); err != nil {
		return "", false, fmt.Errorf("failed to unmarshal QR registry entry: %w", err)
	}

	return entry.Type, true, nil
}

// PutCode registers or replaces a QR code.
func (s *Store) PutCode(ctx context.Context, entry models.QRRegistryEntry) error {
	item, err := attributevalue.MarshalMap(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal QR registry entry: %w", err)
	}

	_, err = s.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.Tables.QRRegistry),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("failed to put QR registry entry: %w", storeError(err))
	}

	return nil
}
