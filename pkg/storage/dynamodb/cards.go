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

// CreateCard creates a new saved card record in DynamoDB.
func (s *Store) CreateCard(ctx context.Context, card *models.SavedCard) (*models.SavedCard, error) {
	// Marshal the card object for the Put operation.
	cardAV, err := attributevalue.MarshalMap(card)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal saved card: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName:           aws.String(s.Tables.Cards),
		Item:                cardAV,
		ConditionExpression: aws.String("attribute_not_exists(id)"), // Saved cards are never overwritten.
	}

	_, err = s.Client.PutItem(ctx, input)
	if err != nil {
		var condCheckFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckFailed) {
			return nil, fmt.Errorf("saved card %s: %w", card.Id, storage.ErrAlreadyExists)
		}
		return nil, fmt.Errorf("failed to create saved card in DynamoDB: %w", storeError(err))
	}

	return card, nil
}

// DeleteCard deletes a saved card record from DynamoDB.
func (s *Store) DeleteCard(ctx context.Context, cardID string) error {
	key, err := attributevalue.MarshalMap(map[string]string{"id": cardID})
	if err != nil {
		return fmt.Errorf("failed to marshal saved card ID for deletion: %w", err)
	}

	input := &dynamodb.DeleteItemInput{
		TableName:           aws.String(s.Tables.Cards),
		Key:                 key,
		ConditionExpression: aws.String("attribute_exists(id)"), // Ensure the card exists before deleting.
	}

	_, err = s.Client.DeleteItem(ctx, input)
	if err != nil {
		var condCheckFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckFailed) {
			return fmt.Errorf("saved card %s: %w", cardID, storage.ErrNotFound)
		}
		return fmt.Errorf("failed to delete saved card from DynamoDB: %w", storeError(err))
	}

	return nil
}

// GetCard retrieves a saved card from DynamoDB by its ID.
func (s *Store) GetCard(ctx context.Context, cardID string) (*models.SavedCard, error) {
	key, err := attributevalue.MarshalMap(map[string]string{"id": cardID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal saved card ID: %w", err)
	}

	input := &dynamodb.GetItemInput{
		TableName: aws.String(s.Tables.Cards),
		Key:       key,
	}

	result, err := s.Client.GetItem(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to get saved card from DynamoDB: %w", storeError(err))
	}

	if result.Item == nil {
		return nil, fmt.Errorf("saved card %s: %w", cardID, storage.ErrNotFound)
	}

	var card models.SavedCard
	if err := attributevalue.UnmarshalMap(result.Item, &card); err != nil {
		return nil, fmt.Errorf("failed to unmarshal saved card: %w", err)
	}

	return &card, nil
}

// ListCards retrieves all saved cards from DynamoDB. Ordering is left to the wallet.
func (s *Store) ListCards(ctx context.Context) ([]models.SavedCard, error) {
	input := &dynamodb.ScanInput{
		TableName: aws.String(s.Tables.Cards),
	}

	result, err := s.Client.Scan(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to scan saved cards table: %w", storeError(err))
	}

	var cards []models.SavedCard
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &cards); err != nil {
		return nil, fmt.Errorf("failed to unmarshal saved cards: %w", err)
	}

	return cards, nil
}
