package main

import (
	"context"
	"fmt"
	"os"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/chris/transit-tickets/pkg/config"
	"github.com/chris/transit-tickets/pkg/logging"
	"github.com/chris/transit-tickets/pkg/storage"
	dydbstore "github.com/chris/transit-tickets/pkg/storage/dynamodb"
	"github.com/chris/transit-tickets/pkg/storage/memory"
	"github.com/jonboulle/clockwork"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load configuration:", err)
		os.Exit(1)
	}
	logging.Init(cfg.Log.Level, cfg.Log.Format)

	open := func(ctx context.Context) (storage.Storage, error) {
		if cfg.Store.Backend == config.StoreMemory {
			// Only useful for dry runs; nothing outlives the process.
			return memory.New(), nil
		}
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("unable to load SDK config: %w", err)
		}
		return dydbstore.New(dynamodb.NewFromConfig(awsCfg), cfg.DynamoDBTables()), nil
	}

	var cached *redis.Client
	if cfg.Redis.Addr != "" {
		cached = redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
	}

	err = newRootCommand(open, clockwork.NewRealClock(), cfg.Store.IOTimeout, cached).Execute()
	if cached != nil {
		cached.Close()
	}
	if err != nil {
		os.Exit(1)
	}
}

func newRootCommand(open opener, clock clockwork.Clock, ioTimeout time.Duration, cached *redis.Client) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "ticketctl",
		Short:        "Operator tooling for the transit ticket store",
		Long:         `ticketctl seeds ledger records, registers scannable codes and inspects or reconciles tickets.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		newSeedLedgerCommand(open),
		newRegisterCodeCommand(open, cached),
		newListTicketsCommand(open),
		newSweepCommand(open, clock, ioTimeout),
	)
	return rootCmd
}
