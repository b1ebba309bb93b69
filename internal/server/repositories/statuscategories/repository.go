package statuscategories

import (
	"context"

	"github.com/oullim/market/internal/server/models"
)

type Repository interface {
	List(ctx context.Context) ([]*models.StatusCategory, error)
	GetByID(ctx context.Context, id int64) (*models.StatusCategory, error)
	MinID(ctx context.Context) (int64, error)
}
