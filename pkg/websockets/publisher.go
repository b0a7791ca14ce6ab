package websockets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/apigatewaymanagementapi"
	apigwtypes "github.com/aws/aws-sdk-go-v2/service/apigatewaymanagementapi/types"
)

// ManagementAPI is the subset of the API Gateway management client used to
// push messages to connected clients.
type ManagementAPI interface {
	PostToConnection(ctx context.Context, params *apigatewaymanagementapi.PostToConnectionInput, optFns ...func(*apigatewaymanagementapi.Options)) (*apigatewaymanagementapi.PostToConnectionOutput, error)
}

// GatewayPublisher fans a message out to every connection registered behind
// an API Gateway WebSocket API.
type GatewayPublisher struct {
	connections ConnectionStore
	client      ManagementAPI
}

// NewGatewayPublisher creates a GatewayPublisher from an existing client.
func NewGatewayPublisher(connections ConnectionStore, client ManagementAPI) *GatewayPublisher {
	return &GatewayPublisher{
		connections: connections,
		client:      client,
	}
}

// NewManagementClient builds an API Gateway management client for the given
// WebSocket API endpoint using the default AWS configuration chain.
func NewManagementClient(ctx context.Context, apiEndpoint string) (*apigatewaymanagementapi.Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	return apigatewaymanagementapi.NewFromConfig(cfg, func(o *apigatewaymanagementapi.Options) {
		o.BaseEndpoint = aws.String(apiEndpoint)
	}), nil
}

// Publish sends a message to all connected clients. Connections that are gone
// are removed; other per-connection failures are logged and skipped.
func (p *GatewayPublisher) Publish(ctx context.Context, message Message) error {
	connectionIDs, err := p.connections.GetAllConnections(ctx)
	if err != nil {
		return fmt.Errorf("failed to get all connections: %w", err)
	}

	payload, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	for _, connectionID := range connectionIDs {
		_, err := p.client.PostToConnection(ctx, &apigatewaymanagementapi.PostToConnectionInput{
			ConnectionId: aws.String(connectionID),
			Data:         payload,
		})
		if err == nil {
			continue
		}

		var goneErr *apigwtypes.GoneException
		if errors.As(err, &goneErr) {
			slog.Info("stale connection found, deleting", "connectionId", connectionID)
			if err := p.connections.RemoveConnection(ctx, connectionID); err != nil {
				slog.Error("failed to delete stale connection", "connectionId", connectionID, "error", err)
			}
			continue
		}
		slog.Error("failed to post to connection", "connectionId", connectionID, "type", message.Type, "error", err)
	}

	return nil
}
