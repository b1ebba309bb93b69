package bills

import (
	"context"

	"github.com/oullim/market/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, b *models.Bill) (*models.Bill, error)
	GetByID(ctx context.Context, id string) (*models.Bill, error)
	ListByUser(ctx context.Context, userID string) ([]*models.Bill, error)
	SetPaid(ctx context.Context, id string, paid bool) error
}
