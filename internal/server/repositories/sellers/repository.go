package sellers

import (
	"context"

	"github.com/oullim/market/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, s *models.Seller) (*models.Seller, error)
	GetByUserID(ctx context.Context, userID string) (*models.Seller, error)
	Update(ctx context.Context, s *models.Seller) error
	DeleteByUserID(ctx context.Context, userID string) error
}
