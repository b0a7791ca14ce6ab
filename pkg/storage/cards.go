package storage

import (
	"context"

	"github.com/chris/transit-tickets/pkg/models"
)

// CardStore defines the interface for managing saved cards.
type CardStore interface {
	// GetCard retrieves a saved card by its ID.
	GetCard(ctx context.Context, cardID string) (*models.SavedCard, error)

	// CreateCard stores a new saved card.
	CreateCard(ctx context.Context, card *models.SavedCard) (*models.SavedCard, error)

	// DeleteCard deletes a saved card. It fails with ErrNotFound if the card does not exist.
	DeleteCard(ctx context.Context, cardID string) error

	// ListCards retrieves all saved cards.
	ListCards(ctx context.Context) ([]models.SavedCard, error)
}
