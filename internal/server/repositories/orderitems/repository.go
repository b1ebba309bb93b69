package orderitems

import (
	"context"

	"github.com/oullim/market/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, item *models.OrderItem) (*models.OrderItem, error)
	GetByID(ctx context.Context, id string) (*models.OrderItem, error)
	ListByBill(ctx context.Context, billID string) ([]*models.OrderItem, error)
	UpdateStatus(ctx context.Context, id string, statusID int64) error
}
