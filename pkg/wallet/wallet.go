// Package wallet manages saved card references. Saved cards are independent of
// the ledger: saving never checks the ledger, and a saved card that no longer
// matches a ledger record fails at payment time.
package wallet

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/chris/transit-tickets/pkg/models"
	"github.com/chris/transit-tickets/pkg/storage"
	"github.com/chris/transit-tickets/pkg/timeout"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

var (
	// ErrCardNotFound is returned for an unknown saved card id.
	ErrCardNotFound = errors.New("saved card not found")

	// ErrUnusableCard is returned when a saved card cannot be replayed as credentials.
	ErrUnusableCard = errors.New("saved card cannot be used for payment")
)

// NewCard is the card data captured during a purchase.
type NewCard struct {
	CardNumber     string
	ExpiryMonth    int
	ExpiryYear     int
	CVV            string
	CardHolderName string
}

type Wallet struct {
	cards     storage.CardStore
	clock     clockwork.Clock
	ioTimeout time.Duration
}

func New(cards storage.CardStore, clock clockwork.Clock, ioTimeout time.Duration) *Wallet {
	if ioTimeout <= 0 {
		ioTimeout = timeout.IO
	}
	return &Wallet{cards: cards, clock: clock, ioTimeout: ioTimeout}
}

// Save stores card. An empty nickname defaults to "Card ending in NNNN".
func (w *Wallet) Save(ctx context.Context, card NewCard, nickname string) (*models.SavedCard, error) {
	number := strings.ReplaceAll(card.CardNumber, " ", "")
	lastFour := number
	if len(number) > 4 {
		lastFour = number[len(number)-4:]
	}
	if nickname = strings.TrimSpace(nickname); nickname == "" {
		nickname = "Card ending in " + lastFour
	}

	saved := &models.SavedCard{
		Id:             uuid.New().String(),
		CardNumber:     number,
		ExpiryMonth:    card.ExpiryMonth,
		ExpiryYear:     card.ExpiryYear,
		CVV:            card.CVV,
		CardHolderName: card.CardHolderName,
		Nickname:       nickname,
		LastFourDigits: lastFour,
		SavedAt:        w.clock.Now().UnixMilli(),
	}

	created, err := timeout.Do(ctx, w.ioTimeout, func(ctx context.Context) (*models.SavedCard, error) {
		return w.cards.CreateCard(ctx, saved)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save card: %w", err)
	}
	return created, nil
}

// List returns every saved card, most recently saved first.
func (w *Wallet) List(ctx context.Context) ([]models.SavedCard, error) {
	cards, err := timeout.Do(ctx, w.ioTimeout, func(ctx context.Context) ([]models.SavedCard, error) {
		return w.cards.ListCards(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list saved cards: %w", err)
	}

	sort.Slice(cards, func(i, j int) bool {
		if cards[i].SavedAt == cards[j].SavedAt {
			return cards[i].Id < cards[j].Id
		}
		return cards[i].SavedAt > cards[j].SavedAt
	})
	return cards, nil
}

// Get returns a saved card.
func (w *Wallet) Get(ctx context.Context, cardID string) (*models.SavedCard, error) {
	card, err := timeout.Do(ctx, w.ioTimeout, func(ctx context.Context) (*models.SavedCard, error) {
		return w.cards.GetCard(ctx, cardID)
	})
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("saved card %s: %w", cardID, ErrCardNotFound)
		}
		return nil, fmt.Errorf("failed to get saved card %s: %w", cardID, err)
	}
	return card, nil
}

// Delete removes a saved card.
func (w *Wallet) Delete(ctx context.Context, cardID string) error {
	_, err := timeout.Do(ctx, w.ioTimeout, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, w.cards.DeleteCard(ctx, cardID)
	})
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("saved card %s: %w", cardID, ErrCardNotFound)
		}
		return fmt.Errorf("failed to delete saved card %s: %w", cardID, err)
	}
	return nil
}

// Credentials replays a saved card as a ledger lookup predicate.
func (w *Wallet) Credentials(ctx context.Context, cardID string) (models.CardCredentials, error) {
	card, err := w.Get(ctx, cardID)
	if err != nil {
		return models.CardCredentials{}, err
	}
	creds, err := card.Credentials()
	if err != nil {
		return models.CardCredentials{}, fmt.Errorf("%w: %w", ErrUnusableCard, err)
	}
	return creds, nil
}
