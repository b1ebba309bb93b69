package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/oullim/market/internal/common"
	"github.com/oullim/market/internal/cryptox"
	"github.com/oullim/market/internal/dbx"
	"github.com/oullim/market/internal/logging"
	"github.com/oullim/market/internal/server/models"
	"github.com/oullim/market/internal/server/repositories/repomanager"
	"github.com/oullim/market/internal/validation"
)

// StatusAwaitingPayment is the synthetic order status shown for any bill that
// has not been paid yet, regardless of what the item rows say. It matches the
// name of the catalog's first stage on purpose.
const StatusAwaitingPayment = "awaiting payment"

// OrderLine names one product and quantity at checkout.
type OrderLine struct {
	ProductID string
	Amount    int64
}

// BillInput is the checkout payload: the destination snapshot plus the lines
// to order. An empty Items slice means "order my cart" and empties the cart
// on success.
type BillInput struct {
	Address       string
	DetailAddress string
	Recipient     string
	PostalCode    string
	Items         []OrderLine
}

// BillSummary is the aggregated list-view projection of one bill.
type BillSummary struct {
	Bill          *models.Bill
	TotalPrice    int64
	ItemCount     int
	OrderStatus   string
	Thumbnail     string
	ThumbnailName string
}

// BillDetail is a bill with its item lines, destination decrypted.
type BillDetail struct {
	Bill       *models.Bill
	Items      []*models.OrderItem
	TotalPrice int64
	Status     string
}

// BillService places orders and aggregates them for display.
type BillService struct {
	db     *sql.DB
	rm     repomanager.RepositoryManager
	cipher *cryptox.FieldCipher
	logger logging.Logger
}

func NewBillService(db *sql.DB, rm repomanager.RepositoryManager, cipher *cryptox.FieldCipher, logger logging.Logger) *BillService {
	return &BillService{db: db, rm: rm, cipher: cipher, logger: logger}
}

// Checkout creates a bill plus its item snapshots in one transaction.
// Each line copies the product's current name, price and seller, so later
// product edits never change what the buyer agreed to. When ordering from
// the cart, the cart is cleared in the same transaction.
func (s *BillService) Checkout(ctx context.Context, userID string, in BillInput) (*models.Bill, error) {
	if !validation.PostalCode(in.PostalCode) {
		return nil, fmt.Errorf("%w: postal code %q", common.ErrValidation, in.PostalCode)
	}

	var created *models.Bill
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		lines := in.Items
		fromCart := len(lines) == 0
		if fromCart {
			cart, err := s.rm.CartItems(tx).ListByUser(ctx, userID)
			if err != nil {
				return err
			}
			for _, ci := range cart {
				lines = append(lines, OrderLine{ProductID: ci.ProductID, Amount: ci.Amount})
			}
		}
		if len(lines) == 0 {
			return fmt.Errorf("%w: empty order", common.ErrValidation)
		}
		for _, l := range lines {
			if l.Amount <= 0 {
				return fmt.Errorf("%w: amount must be positive", common.ErrValidation)
			}
		}

		enc, err := s.cipher.EncryptFields(map[string]string{
			"address":        in.Address,
			"detail_address": in.DetailAddress,
			"recipient":      in.Recipient,
			"postal_code":    in.PostalCode,
		}, cryptox.BillFields)
		if err != nil {
			return err
		}

		created, err = s.rm.Bills(tx).Create(ctx, &models.Bill{
			UserID:        userID,
			Address:       enc["address"],
			DetailAddress: enc["detail_address"],
			Recipient:     enc["recipient"],
			PostalCode:    enc["postal_code"],
		})
		if err != nil {
			return err
		}

		initialStatus, err := s.rm.StatusCategories(tx).MinID(ctx)
		if err != nil {
			return err
		}

		productRepo := s.rm.Products(tx)
		itemRepo := s.rm.OrderItems(tx)
		for _, l := range lines {
			p, err := productRepo.GetByID(ctx, l.ProductID)
			if err != nil {
				if errors.Is(err, common.ErrNotFound) {
					return fmt.Errorf("%w: unknown product %s", common.ErrValidation, l.ProductID)
				}
				return err
			}
			if _, err := itemRepo.Create(ctx, &models.OrderItem{
				BillID:    created.ID,
				ProductID: p.ID,
				SellerID:  p.SellerID,
				Name:      p.Name,
				Price:     p.Price,
				Amount:    l.Amount,
				StatusID:  initialStatus,
			}); err != nil {
				return err
			}
		}

		if fromCart {
			return s.rm.CartItems(tx).DeleteByUser(ctx, userID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "bill created", "user_id", userID, "bill_id", created.ID)
	return created, nil
}

// ListSummaries returns one aggregated summary per bill of the user, newest
// first. Decryption or aggregation failure on any bill aborts the listing;
// only thumbnail lookups are best-effort.
func (s *BillService) ListSummaries(ctx context.Context, userID string) ([]*BillSummary, error) {
	bs, err := s.rm.Bills(s.db).ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]*BillSummary, 0, len(bs))
	for _, b := range bs {
		sum, err := s.summarize(ctx, b)
		if err != nil {
			return nil, err
		}
		out = append(out, sum)
	}
	return out, nil
}

// Summary aggregates one bill for display. Readable by the owner or an
// admin only; the projection carries the decrypted destination.
func (s *BillService) Summary(ctx context.Context, billID, callerID string) (*BillSummary, error) {
	b, err := s.rm.Bills(s.db).GetByID(ctx, billID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeRead(ctx, b, callerID); err != nil {
		return nil, err
	}
	return s.summarize(ctx, b)
}

// Get returns the full bill with its item lines. Readable by the owner or
// an admin only.
func (s *BillService) Get(ctx context.Context, billID, callerID string) (*BillDetail, error) {
	b, err := s.rm.Bills(s.db).GetByID(ctx, billID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeRead(ctx, b, callerID); err != nil {
		return nil, err
	}

	if err := s.decrypt(b); err != nil {
		return nil, err
	}
	items, err := s.rm.OrderItems(s.db).ListByBill(ctx, billID)
	if err != nil {
		return nil, err
	}

	status, err := s.deriveStatus(ctx, s.db, b, items)
	if err != nil {
		return nil, err
	}

	var total int64
	for _, it := range items {
		total += it.Price * it.Amount
	}
	return &BillDetail{Bill: b, Items: items, TotalPrice: total, Status: status}, nil
}

// MarkPaid flags the bill paid. Owner-only.
func (s *BillService) MarkPaid(ctx context.Context, billID, callerID string) error {
	b, err := s.rm.Bills(s.db).GetByID(ctx, billID)
	if err != nil {
		return err
	}
	if b.UserID != callerID {
		return common.ErrForbidden
	}
	return s.rm.Bills(s.db).SetPaid(ctx, billID, true)
}

// AdvanceStatus moves one order item forward through the status catalog.
// Only the seller who owns the item's line, or an admin, may move it, only
// to a stage that exists, and never backwards or in place.
func (s *BillService) AdvanceStatus(ctx context.Context, itemID, callerID string, statusID int64) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		item, err := s.rm.OrderItems(tx).GetByID(ctx, itemID)
		if err != nil {
			return err
		}

		seller, err := s.rm.Sellers(tx).GetByUserID(ctx, callerID)
		switch {
		case err == nil:
			if seller.ID != item.SellerID {
				return common.ErrForbidden
			}
		case errors.Is(err, common.ErrNotFound):
			caller, uerr := s.rm.Users(tx).GetByID(ctx, callerID)
			if uerr != nil {
				return uerr
			}
			if !caller.IsAdmin {
				return common.ErrForbidden
			}
		default:
			return err
		}

		if _, err := s.rm.StatusCategories(tx).GetByID(ctx, statusID); err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return fmt.Errorf("%w: unknown status %d", common.ErrValidation, statusID)
			}
			return err
		}
		if statusID <= item.StatusID {
			return fmt.Errorf("%w: status moves forward only", common.ErrValidation)
		}

		return s.rm.OrderItems(tx).UpdateStatus(ctx, itemID, statusID)
	})
}

// authorizeRead rejects callers who neither own the bill nor are admins.
// Runs before any decryption so a refused caller never sees plaintext.
func (s *BillService) authorizeRead(ctx context.Context, b *models.Bill, callerID string) error {
	if b.UserID == callerID {
		return nil
	}
	caller, err := s.rm.Users(s.db).GetByID(ctx, callerID)
	if err != nil {
		return err
	}
	if !caller.IsAdmin {
		return common.ErrForbidden
	}
	return nil
}

// summarize builds the aggregate projection for one bill: total price as the
// sum of the snapshot price times amount, the derived status, and a
// best-effort thumbnail. Product lookups for the thumbnail are the only
// failures swallowed here; a missing picture must not hide the order.
func (s *BillService) summarize(ctx context.Context, b *models.Bill) (*BillSummary, error) {
	if err := s.decrypt(b); err != nil {
		return nil, err
	}

	items, err := s.rm.OrderItems(s.db).ListByBill(ctx, b.ID)
	if err != nil {
		return nil, err
	}

	sum := &BillSummary{Bill: b, ItemCount: len(items)}
	for _, it := range items {
		sum.TotalPrice += it.Price * it.Amount
	}

	sum.OrderStatus, err = s.deriveStatus(ctx, s.db, b, items)
	if err != nil {
		return nil, err
	}

	if len(items) > 0 {
		sum.ThumbnailName = items[0].Name
		productRepo := s.rm.Products(s.db)
		for _, it := range items {
			p, err := productRepo.GetByID(ctx, it.ProductID)
			if err != nil {
				s.logger.Debug(ctx, "thumbnail lookup failed", "bill_id", b.ID, "product_id", it.ProductID, "error", err)
				continue
			}
			if p.Image != "" {
				sum.Thumbnail = p.Image
				break
			}
		}
	}

	return sum, nil
}

// deriveStatus reduces the item statuses to one label. An unpaid or empty
// bill always reads as awaiting payment; otherwise the order is only as far
// along as its least advanced item.
func (s *BillService) deriveStatus(ctx context.Context, db dbx.DBTX, b *models.Bill, items []*models.OrderItem) (string, error) {
	if !b.IsPaid || len(items) == 0 {
		return StatusAwaitingPayment, nil
	}
	min := items[0].StatusID
	for _, it := range items[1:] {
		if it.StatusID < min {
			min = it.StatusID
		}
	}
	cat, err := s.rm.StatusCategories(db).GetByID(ctx, min)
	if err != nil {
		return "", err
	}
	return cat.Name, nil
}

func (s *BillService) decrypt(b *models.Bill) error {
	dec, err := s.cipher.DecryptFields(map[string]string{
		"address":        b.Address,
		"detail_address": b.DetailAddress,
		"recipient":      b.Recipient,
		"postal_code":    b.PostalCode,
	}, cryptox.BillFields)
	if err != nil {
		return err
	}
	b.Address = dec["address"]
	b.DetailAddress = dec["detail_address"]
	b.Recipient = dec["recipient"]
	b.PostalCode = dec["postal_code"]
	return nil
}
