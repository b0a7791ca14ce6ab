package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/chris/transit-tickets/pkg/config"
	wshandlers "github.com/chris/transit-tickets/pkg/handlers/websockets"
	"github.com/chris/transit-tickets/pkg/logging"
	dydbstore "github.com/chris/transit-tickets/pkg/storage/dynamodb"
)

// The WebSocket API routes $connect, $disconnect and $default here; the
// connection table is what the publishers fan out to.
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	logging.Init(cfg.Log.Level, cfg.Log.Format)

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background())
	if err != nil {
		slog.Error("unable to load SDK config", "error", err)
		os.Exit(1)
	}

	store := dydbstore.New(dynamodb.NewFromConfig(awsCfg), cfg.DynamoDBTables())
	h := wshandlers.NewHandler(store, nil)
	lambda.Start(h.Route)
}
