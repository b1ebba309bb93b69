package deliveries

import (
	"context"

	"github.com/oullim/market/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, d *models.Delivery) (*models.Delivery, error)
	GetByID(ctx context.Context, id string) (*models.Delivery, error)
	Update(ctx context.Context, d *models.Delivery) error
	Delete(ctx context.Context, id string) error
	ListByUser(ctx context.Context, userID string) ([]*models.Delivery, error)
	CountByUser(ctx context.Context, userID string) (int64, error)
}
