package dynamodb

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	"github.com/chris/transit-tickets/pkg/models"
	"github.com/chris/transit-tickets/pkg/storage"
	"github.com/chris/transit-tickets/pkg/storage/dynamodb/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestFindLedgerRecords(t *testing.T) {
	creds := models.CardCredentials{Number: 1111222233344, CVV: 1234, ExpiryMonth: 9, ExpiryYear: 26}
	record := models.LedgerRecord{Id: "ledger-1", CardNumber: 1111222233344, CVV: 1234, ExpirationMonth: 9, ExpirationYear: 26, Balance: 20}

	t.Run("Matches All Four Fields", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		recordAV, _ := attributevalue.MarshalMap(record)
		mockClient.On("Query", mock.Anything, mock.MatchedBy(func(in *dynamodb.QueryInput) bool {
			number := in.ExpressionAttributeValues[":number"].(*types.AttributeValueMemberN)
			cvv := in.ExpressionAttributeValues[":cvv"].(*types.AttributeValueMemberN)
			month := in.ExpressionAttributeValues[":month"].(*types.AttributeValueMemberN)
			year := in.ExpressionAttributeValues[":year"].(*types.AttributeValueMemberN)
			return *in.IndexName == cardNumberGSI &&
				number.Value == "1111222233344" && cvv.Value == "1234" && month.Value == "9" && year.Value == "26"
		})).Return(&dynamodb.QueryOutput{Items: []map[string]types.AttributeValue{recordAV}}, nil)

		store := New(mockClient, testTables)
		records, err := store.FindLedgerRecords(context.Background(), creds)

		assert.NoError(t, err)
		assert.Equal(t, []models.LedgerRecord{record}, records)
		mockClient.AssertExpectations(t)
	})

	t.Run("Permission Denied", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("Query", mock.Anything, mock.Anything).Return(nil, &smithy.GenericAPIError{Code: "AccessDeniedException", Message: "not authorized"})

		store := New(mockClient, testTables)
		_, err := store.FindLedgerRecords(context.Background(), creds)

		assert.ErrorIs(t, err, storage.ErrPermissionDenied)
		mockClient.AssertExpectations(t)
	})

	t.Run("Missing Index", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("Query", mock.Anything, mock.Anything).Return(nil, &smithy.GenericAPIError{Code: "ValidationException", Message: "The table does not have the specified index: card_number-index"})

		store := New(mockClient, testTables)
		_, err := store.FindLedgerRecords(context.Background(), creds)

		assert.ErrorIs(t, err, storage.ErrIndexMissing)
		mockClient.AssertExpectations(t)
	})
}

func TestDebitLedgerRecord(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		updatedAV, _ := attributevalue.MarshalMap(models.LedgerRecord{Id: "ledger-1", Balance: 10})
		mockClient.On("UpdateItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.UpdateItemInput) bool {
			amount := in.ExpressionAttributeValues[":amount"].(*types.AttributeValueMemberN)
			return amount.Value == "10" &&
				*in.UpdateExpression == "SET balance = balance - :amount" &&
				*in.ConditionExpression == "attribute_exists(id) AND balance >= :amount"
		})).Return(&dynamodb.UpdateItemOutput{Attributes: updatedAV}, nil).Once()

		store := New(mockClient, testTables)
		updated, err := store.DebitLedgerRecord(context.Background(), "ledger-1", 10)

		assert.NoError(t, err)
		assert.Equal(t, int64(10), updated.Balance)
		mockClient.AssertExpectations(t)
	})

	t.Run("Balance Too Low", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		oldAV, _ := attributevalue.MarshalMap(models.LedgerRecord{Id: "ledger-1", Balance: 5})
		mockClient.On("UpdateItem", mock.Anything, mock.Anything).Return(nil, &types.ConditionalCheckFailedException{Item: oldAV}).Once()

		store := New(mockClient, testTables)
		current, err := store.DebitLedgerRecord(context.Background(), "ledger-1", 10)

		assert.ErrorIs(t, err, storage.ErrConditionFailed)
		require.NotNil(t, current)
		assert.Equal(t, int64(5), current.Balance)
		mockClient.AssertExpectations(t)
	})

	t.Run("Record Gone", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("UpdateItem", mock.Anything, mock.Anything).Return(nil, &types.ConditionalCheckFailedException{}).Once()

		store := New(mockClient, testTables)
		_, err := store.DebitLedgerRecord(context.Background(), "ledger-1", 10)

		assert.ErrorIs(t, err, storage.ErrNotFound)
		mockClient.AssertExpectations(t)
	})
}

func TestCreateLedgerRecord(t *testing.T) {
	mockClient := new(mocks.DynamoDBAPI)
	mockClient.On("PutItem", mock.Anything, mock.Anything).Return(&dynamodb.PutItemOutput{}, nil)

	store := New(mockClient, testTables)
	created, err := store.CreateLedgerRecord(context.Background(), &models.LedgerRecord{CardNumber: 4111, Balance: 50})

	assert.NoError(t, err)
	assert.NotEmpty(t, created.Id)
	mockClient.AssertExpectations(t)
}

func TestLookupCode(t *testing.T) {
	t.Run("Registered", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		entryAV, _ := attributevalue.MarshalMap(models.QRRegistryEntry{Code: "FERRY-01", Type: models.FERRY})
		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{Item: entryAV}, nil)

		store := New(mockClient, testTables)
		transport, ok, err := store.LookupCode(context.Background(), "FERRY-01")

		assert.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, models.FERRY, transport)
	})

	t.Run("Unknown", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{}, nil)

		store := New(mockClient, testTables)
		_, ok, err := store.LookupCode(context.Background(), "nope")

		assert.NoError(t, err)
		assert.False(t, ok)
	})
}
