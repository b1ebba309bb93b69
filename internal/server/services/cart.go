package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/oullim/market/internal/common"
	"github.com/oullim/market/internal/logging"
	"github.com/oullim/market/internal/server/models"
	"github.com/oullim/market/internal/server/repositories/repomanager"
)

// CartLine pairs a cart item with its resolved product. Unlike order items,
// cart lines carry no snapshot; price and name are always the current ones.
type CartLine struct {
	Item           *models.CartItem
	Product        *models.Product
	AggregatePrice int64
}

// CartService manages the pending-purchase lines consumed at checkout.
type CartService struct {
	db     *sql.DB
	rm     repomanager.RepositoryManager
	logger logging.Logger
}

func NewCartService(db *sql.DB, rm repomanager.RepositoryManager, logger logging.Logger) *CartService {
	return &CartService{db: db, rm: rm, logger: logger}
}

// Add puts amount units of productID into the user's cart.
func (s *CartService) Add(ctx context.Context, userID, productID string, amount int64) (*models.CartItem, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", common.ErrValidation)
	}
	if _, err := s.rm.Products(s.db).GetByID(ctx, productID); err != nil {
		return nil, err
	}
	return s.rm.CartItems(s.db).Create(ctx, &models.CartItem{
		UserID:    userID,
		ProductID: productID,
		Amount:    amount,
	})
}

// List returns the user's cart with products resolved and per-line totals.
// A dangling product reference is an error here, not something to hide: the
// cart is about to be ordered as-is.
func (s *CartService) List(ctx context.Context, userID string) ([]*CartLine, error) {
	items, err := s.rm.CartItems(s.db).ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	lines := make([]*CartLine, 0, len(items))
	for _, it := range items {
		p, err := s.rm.Products(s.db).GetByID(ctx, it.ProductID)
		if err != nil {
			return nil, err
		}
		lines = append(lines, &CartLine{Item: it, Product: p, AggregatePrice: p.Price * it.Amount})
	}
	return lines, nil
}

// UpdateAmount changes the quantity of one cart line. Owner-only.
func (s *CartService) UpdateAmount(ctx context.Context, itemID, callerID string, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", common.ErrValidation)
	}
	item, err := s.rm.CartItems(s.db).GetByID(ctx, itemID)
	if err != nil {
		return err
	}
	if item.UserID != callerID {
		return common.ErrForbidden
	}
	return s.rm.CartItems(s.db).UpdateAmount(ctx, itemID, amount)
}

// Remove deletes one cart line. Owner-only.
func (s *CartService) Remove(ctx context.Context, itemID, callerID string) error {
	item, err := s.rm.CartItems(s.db).GetByID(ctx, itemID)
	if err != nil {
		return err
	}
	if item.UserID != callerID {
		return common.ErrForbidden
	}
	return s.rm.CartItems(s.db).Delete(ctx, itemID)
}
