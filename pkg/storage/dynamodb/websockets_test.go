package dynamodb

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/transit-tickets/pkg/storage"
	"github.com/chris/transit-tickets/pkg/storage/dynamodb/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func connectionItem(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{"connection_id": &types.AttributeValueMemberS{Value: id}}
}

func TestAddConnection(t *testing.T) {
	mockClient := new(mocks.DynamoDBAPI)
	mockClient.On("PutItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.PutItemInput) bool {
		id := in.Item["connection_id"].(*types.AttributeValueMemberS)
		pk := in.Item["pk"].(*types.AttributeValueMemberS)
		_, hasTTL := in.Item["ttl"]
		return *in.TableName == testTables.Connections && id.Value == "conn-1" && pk.Value == connectionsPK && hasTTL
	})).Return(&dynamodb.PutItemOutput{}, nil)

	store := New(mockClient, testTables)
	assert.NoError(t, store.AddConnection(context.Background(), "conn-1"))
	mockClient.AssertExpectations(t)
}

func TestGetAllConnections(t *testing.T) {
	t.Run("Follows Pages", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		lastKey := connectionItem("conn-1")
		mockClient.On("Query", mock.Anything, mock.MatchedBy(func(in *dynamodb.QueryInput) bool {
			return in.ExclusiveStartKey == nil
		})).Return(&dynamodb.QueryOutput{Items: []map[string]types.AttributeValue{connectionItem("conn-1")}, LastEvaluatedKey: lastKey}, nil).Once()
		mockClient.On("Query", mock.Anything, mock.MatchedBy(func(in *dynamodb.QueryInput) bool {
			return in.ExclusiveStartKey != nil
		})).Return(&dynamodb.QueryOutput{Items: []map[string]types.AttributeValue{connectionItem("conn-2")}}, nil).Once()

		store := New(mockClient, testTables)
		ids, err := store.GetAllConnections(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, []string{"conn-1", "conn-2"}, ids)
		mockClient.AssertExpectations(t)
	})

	t.Run("Store Unavailable", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("Query", mock.Anything, mock.Anything).Return(nil, errors.New("connection reset"))

		store := New(mockClient, testTables)
		_, err := store.GetAllConnections(context.Background())

		assert.ErrorIs(t, err, storage.ErrUnavailable)
	})
}

func TestRemoveConnection(t *testing.T) {
	mockClient := new(mocks.DynamoDBAPI)
	mockClient.On("DeleteItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.DeleteItemInput) bool {
		return in.Key["connection_id"].(*types.AttributeValueMemberS).Value == "conn-1"
	})).Return(&dynamodb.DeleteItemOutput{}, nil)

	store := New(mockClient, testTables)
	assert.NoError(t, store.RemoveConnection(context.Background(), "conn-1"))
	mockClient.AssertExpectations(t)
}
