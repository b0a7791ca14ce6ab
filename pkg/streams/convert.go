package streams

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodbstreams/types"
	"github.com/chris/transit-tickets/pkg/models"
)

// toTicket decodes a stream image with the same attribute tags the store writes.
func toTicket(image map[string]types.AttributeValue) (models.Ticket, error) {
	item, err := attributevalue.FromDynamoDBStreamsMap(image)
	if err != nil {
		return models.Ticket{}, fmt.Errorf("failed to convert ticket stream image: %w", err)
	}

	var ticket models.Ticket
	if err := attributevalue.UnmarshalMap(item, &ticket); err != nil {
		return models.Ticket{}, fmt.Errorf("failed to unmarshal ticket stream image: %w", err)
	}
	return ticket, nil
}
