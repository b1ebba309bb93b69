package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/oullim/market/internal/common"
	"github.com/oullim/market/internal/cryptox"
	"github.com/oullim/market/internal/dbx"
	"github.com/oullim/market/internal/logging"
	"github.com/oullim/market/internal/server/models"
	"github.com/oullim/market/internal/server/repositories/repomanager"
)

// SellerInput is the candidate payload for a merchant registration.
// Bank fields are plaintext here and encrypted before persistence.
type SellerInput struct {
	CompanyName    string
	BusinessNumber string
	BankName       string
	AccountNumber  string
	OwnerName      string
	AccountHolder  string
	ContactNumber  string
}

// SellerUpdateInput carries a partial update. Nil means "not supplied":
// the stored value is kept as-is, including its ciphertext.
type SellerUpdateInput struct {
	CompanyName    *string
	BusinessNumber *string
	BankName       *string
	AccountNumber  *string
	OwnerName      *string
	AccountHolder  *string
	ContactNumber  *string
}

// SellerService manages merchant registrations: one per user, with the
// settlement bank details encrypted at rest.
type SellerService struct {
	db     *sql.DB
	rm     repomanager.RepositoryManager
	cipher *cryptox.FieldCipher
	logger logging.Logger
}

func NewSellerService(db *sql.DB, rm repomanager.RepositoryManager, cipher *cryptox.FieldCipher, logger logging.Logger) *SellerService {
	return &SellerService{db: db, rm: rm, cipher: cipher, logger: logger}
}

// Apply files a merchant registration for userID. A second application by
// the same user yields ErrDuplicateSeller; the pre-check inside the
// transaction gives the common case a clean error, the unique index on
// user_id closes the race for the rest.
func (s *SellerService) Apply(ctx context.Context, userID string, in SellerInput) (*models.Seller, error) {
	var created *models.Seller
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.rm.Sellers(tx)

		_, err := repo.GetByUserID(ctx, userID)
		if err == nil {
			return common.ErrDuplicateSeller
		}
		if !errors.Is(err, common.ErrNotFound) {
			return err
		}

		sl, err := s.encrypt(in)
		if err != nil {
			return err
		}
		sl.UserID = userID

		created, err = repo.Create(ctx, sl)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "seller application filed", "user_id", userID, "seller_id", created.ID)
	return created, nil
}

// Get returns the caller's own registration, decrypted.
func (s *SellerService) Get(ctx context.Context, userID string) (*models.Seller, error) {
	sl, err := s.rm.Sellers(s.db).GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.decrypt(sl); err != nil {
		return nil, err
	}
	return sl, nil
}

// Update applies a partial update to the caller's registration. Supplied
// bank fields are re-encrypted; omitted fields keep their stored ciphertext
// untouched.
func (s *SellerService) Update(ctx context.Context, userID string, in SellerUpdateInput) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.rm.Sellers(tx)

		existing, err := repo.GetByUserID(ctx, userID)
		if err != nil {
			return err
		}

		if in.CompanyName != nil {
			existing.CompanyName = *in.CompanyName
		}
		if in.BusinessNumber != nil {
			existing.BusinessNumber = *in.BusinessNumber
		}
		if in.OwnerName != nil {
			existing.OwnerName = *in.OwnerName
		}
		if in.ContactNumber != nil {
			existing.ContactNumber = *in.ContactNumber
		}

		bank := map[string]string{}
		if in.BankName != nil {
			bank["bank_name"] = *in.BankName
		}
		if in.AccountNumber != nil {
			bank["account_number"] = *in.AccountNumber
		}
		if in.AccountHolder != nil {
			bank["account_holder"] = *in.AccountHolder
		}
		if len(bank) > 0 {
			enc, err := s.cipher.EncryptFields(bank, cryptox.SellerFields)
			if err != nil {
				return err
			}
			if v, ok := enc["bank_name"]; ok {
				existing.BankName = v
			}
			if v, ok := enc["account_number"]; ok {
				existing.AccountNumber = v
			}
			if v, ok := enc["account_holder"]; ok {
				existing.AccountHolder = v
			}
		}

		return repo.Update(ctx, existing)
	})
}

// Delete withdraws the caller's own registration and clears the seller flag.
func (s *SellerService) Delete(ctx context.Context, userID string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.rm.Sellers(tx).DeleteByUserID(ctx, userID); err != nil {
			return err
		}
		return s.rm.Users(tx).SetSeller(ctx, userID, false)
	})
}

// Approve flags userID as a seller. Admin-only.
func (s *SellerService) Approve(ctx context.Context, adminID, userID string) error {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return err
	}
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := s.rm.Sellers(tx).GetByUserID(ctx, userID); err != nil {
			return err
		}
		return s.rm.Users(tx).SetSeller(ctx, userID, true)
	})
}

// Reject removes userID's registration and clears any seller flag. Admin-only.
func (s *SellerService) Reject(ctx context.Context, adminID, userID string) error {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return err
	}
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.rm.Sellers(tx).DeleteByUserID(ctx, userID); err != nil {
			return err
		}
		return s.rm.Users(tx).SetSeller(ctx, userID, false)
	})
}

func (s *SellerService) requireAdmin(ctx context.Context, callerID string) error {
	caller, err := s.rm.Users(s.db).GetByID(ctx, callerID)
	if err != nil {
		return err
	}
	if !caller.IsAdmin {
		return common.ErrForbidden
	}
	return nil
}

func (s *SellerService) encrypt(in SellerInput) (*models.Seller, error) {
	enc, err := s.cipher.EncryptFields(map[string]string{
		"bank_name":      in.BankName,
		"account_number": in.AccountNumber,
		"account_holder": in.AccountHolder,
	}, cryptox.SellerFields)
	if err != nil {
		return nil, err
	}
	return &models.Seller{
		CompanyName:    in.CompanyName,
		BusinessNumber: in.BusinessNumber,
		BankName:       enc["bank_name"],
		AccountNumber:  enc["account_number"],
		OwnerName:      in.OwnerName,
		AccountHolder:  enc["account_holder"],
		ContactNumber:  in.ContactNumber,
	}, nil
}

func (s *SellerService) decrypt(sl *models.Seller) error {
	dec, err := s.cipher.DecryptFields(map[string]string{
		"bank_name":      sl.BankName,
		"account_number": sl.AccountNumber,
		"account_holder": sl.AccountHolder,
	}, cryptox.SellerFields)
	if err != nil {
		return err
	}
	sl.BankName = dec["bank_name"]
	sl.AccountNumber = dec["account_number"]
	sl.AccountHolder = dec["account_holder"]
	return nil
}
