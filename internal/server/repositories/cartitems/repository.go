package cartitems

import (
	"context"

	"github.com/oullim/market/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, item *models.CartItem) (*models.CartItem, error)
	GetByID(ctx context.Context, id string) (*models.CartItem, error)
	ListByUser(ctx context.Context, userID string) ([]*models.CartItem, error)
	UpdateAmount(ctx context.Context, id string, amount int64) error
	Delete(ctx context.Context, id string) error
	DeleteByUser(ctx context.Context, userID string) error
}
