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
	"github.com/google/uuid"
)

// FindLedgerRecords queries the card number index and filters on the remaining
// predicate fields. All four must match; nothing is looked up by id.
func (s *Store) FindLedgerRecords(ctx context.Context, creds models.CardCredentials) ([]models.LedgerRecord, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.Tables.Ledger),
		IndexName:              aws.String(cardNumberGSI),
		KeyConditionExpression: aws.String("card_number = :number"),
		FilterExpression:       aws.String("cvv = :cvv AND expiration_month = :month AND expiration_year = :year"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":number": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", creds.Number)},
			":cvv":    &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", creds.CVV)},
			":month":  &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", creds.ExpiryMonth)},
			":year":   &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", creds.ExpiryYear)},
		},
	}

	var records []models.LedgerRecord
	for {
		result, err := s.Client.Query(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("failed to query ledger records: %w", storeError(err))
		}

		var page []models.LedgerRecord
		if err := attributevalue.UnmarshalListOfMaps(result.Items, &page); err != nil {
			return nil, fmt.Errorf("failed to unmarshal ledger records: %w", err)
		}
		records = append(records, page...)

		if len(result.LastEvaluatedKey) == 0 {
			break
		}
		input.ExclusiveStartKey = result.LastEvaluatedKey
	}

	return records, nil
}

// DebitLedgerRecord subtracts amount from the record's balance in one
// conditional update. The balance check and the write happen atomically on the
// server, so concurrent debits can never take the balance below zero.
func (s *Store) DebitLedgerRecord(ctx context.Context, recordID string, amount int64) (*models.LedgerRecord, error) {
	amountAV, err := attributevalue.Marshal(amount)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal amount: %w", err)
	}

	input := &dynamodb.UpdateItemInput{
		TableName: aws.String(s.Tables.Ledger),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: recordID},
		},
		UpdateExpression:    aws.String("SET balance = balance - :amount"),
		ConditionExpression: aws.String("attribute_exists(id) AND balance >= :amount"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":amount": amountAV,
		},
		ReturnValues:                        types.ReturnValueAllNew,
		ReturnValuesOnConditionCheckFailure: types.ReturnValuesOnConditionCheckFailureAllOld,
	}

	result, err := s.Client.UpdateItem(ctx, input)
	if err != nil {
		var condCheckFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckFailed) {
			if len(condCheckFailed.Item) == 0 {
				return nil, fmt.Errorf("ledger record %s: %w", recordID, storage.ErrNotFound)
			}
			var current models.LedgerRecord
			if err := attributevalue.UnmarshalMap(condCheckFailed.Item, &current); err != nil {
				return nil, fmt.Errorf("failed to unmarshal ledger record: %w", err)
			}
			return &current, fmt.Errorf("ledger record %s balance %d below %d: %w", recordID, current.Balance, amount, storage.ErrConditionFailed)
		}
		return nil, fmt.Errorf("failed to debit ledger record in DynamoDB: %w", storeError(err))
	}

	var updated models.LedgerRecord
	if err := attributevalue.UnmarshalMap(result.Attributes, &updated); err != nil {
		return nil, fmt.Errorf("failed to unmarshal debited ledger record: %w", err)
	}

	return &updated, nil
}

// CreateLedgerRecord creates a new ledger record. An id is assigned if missing.
func (s *Store) CreateLedgerRecord(ctx context.Context, record *models.LedgerRecord) (*models.LedgerRecord, error) {
	if record.Id == "" {
		record.Id = uuid.New().String()
	}

	recordAV, err := attributevalue.MarshalMap(record)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal ledger record: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName:           aws.String(s.Tables.Ledger),
		Item:                recordAV,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	}

	_, err = s.Client.PutItem(ctx, input)
	if err != nil {
		var condCheckFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckFailed) {
			return nil, fmt.Errorf("ledger record %s: %w", record.Id, storage.ErrAlreadyExists)
		}
		return nil, fmt.Errorf("failed to create ledger record in DynamoDB: %w", storeError(err))
	}

	return record, nil
}
