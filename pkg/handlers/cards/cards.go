package cards

import (
	"context"
	"net/http"

	"github.com/chris/transit-tickets/pkg/api"
	"github.com/chris/transit-tickets/pkg/handlers/respond"
	"github.com/chris/transit-tickets/pkg/mapping"
	"github.com/chris/transit-tickets/pkg/models"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// CardWallet is the saved-card store behind the card endpoints.
type CardWallet interface {
	List(ctx context.Context) ([]models.SavedCard, error)
	Get(ctx context.Context, cardID string) (*models.SavedCard, error)
	Delete(ctx context.Context, cardID string) error
}

// CardsHandler holds the dependencies for saved-card handlers.
type CardsHandler struct {
	Wallet CardWallet
}

// NewCardsHandler creates a new CardsHandler.
func NewCardsHandler(w CardWallet) *CardsHandler {
	return &CardsHandler{Wallet: w}
}

// ListCards returns saved cards, most recently saved first.
func (h *CardsHandler) ListCards(w http.ResponseWriter, r *http.Request) {
	cards, err := h.Wallet.List(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	apiCards := make([]*api.SavedCard, len(cards))
	for i := range cards {
		apiCards[i] = mapping.ToApiSavedCard(&cards[i])
	}
	respond.JSON(w, http.StatusOK, apiCards)
}

func (h *CardsHandler) GetCard(w http.ResponseWriter, r *http.Request, cardId openapi_types.UUID) {
	card, err := h.Wallet.Get(r.Context(), cardId.String())
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, mapping.ToApiSavedCard(card))
}

func (h *CardsHandler) DeleteCard(w http.ResponseWriter, r *http.Request, cardId openapi_types.UUID) {
	if err := h.Wallet.Delete(r.Context(), cardId.String()); err != nil {
		respond.Error(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
