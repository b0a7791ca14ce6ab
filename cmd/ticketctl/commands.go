package main

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/chris/transit-tickets/pkg/lifecycle"
	"github.com/chris/transit-tickets/pkg/models"
	"github.com/chris/transit-tickets/pkg/scheduler"
	"github.com/chris/transit-tickets/pkg/storage"
	"github.com/chris/transit-tickets/pkg/storage/cache"
	"github.com/jonboulle/clockwork"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

type opener func(ctx context.Context) (storage.Storage, error)

func newSeedLedgerCommand(open opener) *cobra.Command {
	var record models.LedgerRecord

	cmd := &cobra.Command{
		Use:   "seed-ledger",
		Short: "Create a ledger record",
		Long:  `Create a balance-bearing ledger record that purchases can be charged against.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if record.CardNumber <= 0 || record.Balance < 0 {
				return fmt.Errorf("card number must be positive and balance non-negative")
			}
			if record.ExpirationMonth < 1 || record.ExpirationMonth > 12 {
				return fmt.Errorf("expiration month %d is out of range", record.ExpirationMonth)
			}

			store, err := open(cmd.Context())
			if err != nil {
				return err
			}
			created, err := store.CreateLedgerRecord(cmd.Context(), &record)
			if err != nil {
				return fmt.Errorf("failed to create ledger record: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created ledger record %s with balance %d\n", created.Id, created.Balance)
			return nil
		},
	}

	cmd.Flags().Int64Var(&record.CardNumber, "card-number", 0, "Card number")
	cmd.Flags().IntVar(&record.CVV, "cvv", 0, "Card verification value")
	cmd.Flags().IntVar(&record.ExpirationMonth, "month", 0, "Expiration month (1-12)")
	cmd.Flags().IntVar(&record.ExpirationYear, "year", 0, "Expiration year")
	cmd.Flags().Int64Var(&record.Balance, "balance", 0, "Opening balance")
	_ = cmd.MarkFlagRequired("card-number")
	_ = cmd.MarkFlagRequired("cvv")
	_ = cmd.MarkFlagRequired("month")
	_ = cmd.MarkFlagRequired("year")

	return cmd
}

// newRegisterCodeCommand drops the code from the lookup cache after the write
// when cached is non-nil, so a changed transport type is seen on the next scan.
func newRegisterCodeCommand(open opener, cached *redis.Client) *cobra.Command {
	var transport string

	cmd := &cobra.Command{
		Use:   "register-code <code>",
		Short: "Register a scannable code",
		Long:  `Register a code in the QR registry so that scanning it can activate tickets.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entry := models.QRRegistryEntry{Code: args[0], Type: models.TransportType(strings.ToLower(transport))}
			switch entry.Type {
			case models.FERRY, models.METRO, models.BUS:
			default:
				return fmt.Errorf("unknown transport type %q", transport)
			}

			store, err := open(cmd.Context())
			if err != nil {
				return err
			}
			if err := store.PutCode(cmd.Context(), entry); err != nil {
				return fmt.Errorf("failed to register code: %w", err)
			}
			if cached != nil {
				if err := cache.Invalidate(cmd.Context(), cached, entry.Code); err != nil {
					return fmt.Errorf("registered %s but the cached entry is stale: %w", entry.Code, err)
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "registered %s as %s\n", entry.Code, entry.Type)
			return nil
		},
	}

	cmd.Flags().StringVarP(&transport, "type", "t", string(models.METRO), "Transport type (ferry, metro, bus)")

	return cmd
}

func newListTicketsCommand(open opener) *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "list-tickets",
		Short: "List stored tickets",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := open(cmd.Context())
			if err != nil {
				return err
			}

			var tickets []models.Ticket
			if status == "" {
				tickets, err = store.ListTickets(cmd.Context())
			} else {
				tickets, err = store.ListTicketsByStatus(cmd.Context(), models.TicketStatus(strings.ToLower(status)))
			}
			if err != nil {
				return fmt.Errorf("failed to list tickets: %w", err)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "TICKET\tSTATUS\tPRICE\tPURCHASED\tVALID UNTIL")
			for _, t := range tickets {
				validUntil := "-"
				if t.ValidUntil != 0 {
					validUntil = time.UnixMilli(t.ValidUntil).UTC().Format(time.RFC3339)
				}
				fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n", t.TicketId, t.Status, t.Price,
					time.UnixMilli(t.PurchaseTime).UTC().Format(time.RFC3339), validUntil)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&status, "status", "s", "", "Only list tickets in this status")

	return cmd
}

func newSweepCommand(open opener, clock clockwork.Clock, ioTimeout time.Duration) *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Expire overdue active tickets",
		Long:  `Run one reconciliation pass that expires every active ticket whose validity window has elapsed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := open(cmd.Context())
			if err != nil {
				return err
			}

			timers := scheduler.NewTimers(clock)
			defer timers.Stop()
			manager := lifecycle.NewManager(store, store, timers, clock, lifecycle.WithIOTimeout(ioTimeout))

			expired, err := manager.Sweep(cmd.Context())
			fmt.Fprintf(cmd.OutOrStdout(), "expired %d tickets\n", expired)
			return err
		},
	}
}
