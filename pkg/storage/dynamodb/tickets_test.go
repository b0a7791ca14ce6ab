package dynamodb

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/transit-tickets/pkg/models"
	"github.com/chris/transit-tickets/pkg/storage"
	"github.com/chris/transit-tickets/pkg/storage/dynamodb/mocks"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCreateTicket(t *testing.T) {
	ticket := &models.Ticket{TicketId: uuid.New().String(), CardId: "ledger-1", Price: 10, PurchaseTime: 1000, Status: models.PURCHASED}

	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("PutItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.PutItemInput) bool {
			_, hasValidUntil := in.Item["validUntil"]
			return *in.TableName == "tickets" && !hasValidUntil
		})).Return(&dynamodb.PutItemOutput{}, nil)

		store := New(mockClient, testTables)
		created, err := store.CreateTicket(context.Background(), ticket)

		assert.NoError(t, err)
		assert.Equal(t, ticket, created)
		mockClient.AssertExpectations(t)
	})

	t.Run("Duplicate Id", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("PutItem", mock.Anything, mock.Anything).Return(nil, &types.ConditionalCheckFailedException{})

		store := New(mockClient, testTables)
		_, err := store.CreateTicket(context.Background(), ticket)

		assert.ErrorIs(t, err, storage.ErrAlreadyExists)
		mockClient.AssertExpectations(t)
	})
}

func TestGetTicket(t *testing.T) {
	ticket := &models.Ticket{TicketId: "ticket-1", CardId: "ledger-1", Price: 10, Status: models.ACTIVE, ActivatedTime: 5000, ValidUntil: 5000 + models.ValidityWindow.Milliseconds()}

	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		ticketAV, _ := attributevalue.MarshalMap(ticket)
		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{Item: ticketAV}, nil)

		store := New(mockClient, testTables)
		retrieved, err := store.GetTicket(context.Background(), "ticket-1")

		assert.NoError(t, err)
		assert.Equal(t, ticket, retrieved)
		mockClient.AssertExpectations(t)
	})

	t.Run("Not Found", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{}, nil)

		store := New(mockClient, testTables)
		_, err := store.GetTicket(context.Background(), "ticket-1")

		assert.ErrorIs(t, err, storage.ErrNotFound)
		mockClient.AssertExpectations(t)
	})

	t.Run("Storage Error", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(nil, errors.New("connection reset"))

		store := New(mockClient, testTables)
		_, err := store.GetTicket(context.Background(), "ticket-1")

		assert.ErrorIs(t, err, storage.ErrUnavailable)
		assert.Contains(t, err.Error(), "failed to get ticket from DynamoDB")
		mockClient.AssertExpectations(t)
	})
}

func TestUpdateTicketStatus(t *testing.T) {
	activated := &models.Ticket{TicketId: "ticket-1", Status: models.ACTIVE, ActivatedTime: 5000, ValidUntil: 5000 + models.ValidityWindow.Milliseconds()}

	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		updatedAV, _ := attributevalue.MarshalMap(activated)
		mockClient.On("UpdateItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.UpdateItemInput) bool {
			expected, ok := in.ExpressionAttributeValues[":expected"].(*types.AttributeValueMemberS)
			return ok && expected.Value == "purchased" && *in.ConditionExpression == "attribute_exists(ticketId) AND #status = :expected"
		})).Return(&dynamodb.UpdateItemOutput{Attributes: updatedAV}, nil).Once()

		store := New(mockClient, testTables)
		updated, err := store.UpdateTicketStatus(context.Background(), activated, models.PURCHASED)

		assert.NoError(t, err)
		assert.Equal(t, activated, updated)
		mockClient.AssertExpectations(t)
	})

	t.Run("Wrong Current Status", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		current := &models.Ticket{TicketId: "ticket-1", Status: models.ACTIVE, ActivatedTime: 4000}
		currentAV, _ := attributevalue.MarshalMap(current)
		mockClient.On("UpdateItem", mock.Anything, mock.Anything).Return(nil, &types.ConditionalCheckFailedException{Item: currentAV}).Once()

		store := New(mockClient, testTables)
		stored, err := store.UpdateTicketStatus(context.Background(), activated, models.PURCHASED)

		assert.ErrorIs(t, err, storage.ErrConditionFailed)
		require.NotNil(t, stored)
		assert.Equal(t, int64(4000), stored.ActivatedTime)
		mockClient.AssertExpectations(t)
	})

	t.Run("Missing Ticket", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("UpdateItem", mock.Anything, mock.Anything).Return(nil, &types.ConditionalCheckFailedException{}).Once()

		store := New(mockClient, testTables)
		_, err := store.UpdateTicketStatus(context.Background(), activated, models.PURCHASED)

		assert.ErrorIs(t, err, storage.ErrNotFound)
		mockClient.AssertExpectations(t)
	})
}

func TestListTicketsByStatus(t *testing.T) {
	first := models.Ticket{TicketId: "ticket-2", Status: models.PURCHASED, PurchaseTime: 2000}
	second := models.Ticket{TicketId: "ticket-1", Status: models.PURCHASED, PurchaseTime: 1000}

	t.Run("Follows Pages", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		firstAV, _ := attributevalue.MarshalMap(first)
		secondAV, _ := attributevalue.MarshalMap(second)
		lastKey := map[string]types.AttributeValue{"ticketId": &types.AttributeValueMemberS{Value: "ticket-2"}}

		mockClient.On("Query", mock.Anything, mock.MatchedBy(func(in *dynamodb.QueryInput) bool {
			return in.ExclusiveStartKey == nil && *in.IndexName == ticketStatusGSI && !*in.ScanIndexForward
		})).Return(&dynamodb.QueryOutput{Items: []map[string]types.AttributeValue{firstAV}, LastEvaluatedKey: lastKey}, nil).Once()
		mockClient.On("Query", mock.Anything, mock.MatchedBy(func(in *dynamodb.QueryInput) bool {
			return in.ExclusiveStartKey != nil
		})).Return(&dynamodb.QueryOutput{Items: []map[string]types.AttributeValue{secondAV}}, nil).Once()

		store := New(mockClient, testTables)
		tickets, err := store.ListTicketsByStatus(context.Background(), models.PURCHASED)

		assert.NoError(t, err)
		assert.Equal(t, []models.Ticket{first, second}, tickets)
		mockClient.AssertExpectations(t)
	})

	t.Run("Index Missing", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("Query", mock.Anything, mock.Anything).Return(nil, &types.ResourceNotFoundException{}).Once()

		store := New(mockClient, testTables)
		_, err := store.ListTicketsByStatus(context.Background(), models.PURCHASED)

		assert.ErrorIs(t, err, storage.ErrIndexMissing)
		mockClient.AssertExpectations(t)
	})
}

func TestListTickets(t *testing.T) {
	older := models.Ticket{TicketId: "ticket-1", PurchaseTime: 1000, Status: models.EXPIRED}
	newer := models.Ticket{TicketId: "ticket-2", PurchaseTime: 2000, Status: models.PURCHASED}

	mockClient := new(mocks.DynamoDBAPI)
	olderAV, _ := attributevalue.MarshalMap(older)
	newerAV, _ := attributevalue.MarshalMap(newer)
	mockClient.On("Scan", mock.Anything, mock.Anything).Return(&dynamodb.ScanOutput{Items: []map[string]types.AttributeValue{olderAV, newerAV}}, nil)

	store := New(mockClient, testTables)
	tickets, err := store.ListTickets(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, []models.Ticket{newer, older}, tickets)
	mockClient.AssertExpectations(t)
}
