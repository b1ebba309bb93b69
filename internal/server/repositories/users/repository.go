package users

import (
	"context"

	"github.com/oullim/market/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	SetAuthCode(ctx context.Context, id string, code string) error
	SetActive(ctx context.Context, id string, active bool) error
	SetSeller(ctx context.Context, id string, isSeller bool) error
}
