// Package services contains the server-side business logic. Each service
// composes the pipeline stages explicitly: validate → encrypt → persist on
// writes, load → decrypt → aggregate on reads. Nothing is hidden in
// serialization hooks; the repositories below this layer only ever see
// ciphertext for sensitive fields.
package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/oullim/market/internal/common"
	"github.com/oullim/market/internal/cryptox"
	"github.com/oullim/market/internal/dbx"
	"github.com/oullim/market/internal/logging"
	"github.com/oullim/market/internal/server/models"
	"github.com/oullim/market/internal/server/repositories/repomanager"
	"github.com/oullim/market/internal/validation"
)

// maxDeliveriesPerUser caps how many saved addresses one account may hold.
const maxDeliveriesPerUser = 5

// DeliveryInput is the candidate payload for creating or replacing a saved
// shipping address. All fields arrive as plaintext and never reach the
// repository in that form.
type DeliveryInput struct {
	Address       string
	DetailAddress string
	Recipient     string
	PostalCode    string
}

// DeliveryService manages saved shipping addresses.
type DeliveryService struct {
	db     *sql.DB
	rm     repomanager.RepositoryManager
	cipher *cryptox.FieldCipher
	logger logging.Logger
}

func NewDeliveryService(db *sql.DB, rm repomanager.RepositoryManager, cipher *cryptox.FieldCipher, logger logging.Logger) *DeliveryService {
	return &DeliveryService{db: db, rm: rm, cipher: cipher, logger: logger}
}

// Create validates, encrypts and persists a new delivery for userID.
// The count check and the insert share one transaction, so a failure at any
// stage leaves no record. Two requests racing the cap from separate
// connections can still both pass the count; the cap is best-effort.
func (s *DeliveryService) Create(ctx context.Context, userID string, in DeliveryInput) (*models.Delivery, error) {
	if !validation.PostalCode(in.PostalCode) {
		return nil, fmt.Errorf("%w: postal code %q", common.ErrValidation, in.PostalCode)
	}

	var created *models.Delivery
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.rm.Deliveries(tx)

		n, err := repo.CountByUser(ctx, userID)
		if err != nil {
			return err
		}
		if n >= maxDeliveriesPerUser {
			return common.ErrLimitExceeded
		}

		d, err := s.encrypt(in)
		if err != nil {
			return err
		}
		d.UserID = userID

		created, err = repo.Create(ctx, d)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "delivery created", "user_id", userID, "delivery_id", created.ID)
	return created, nil
}

// Update replaces an existing delivery's fields. Only the owner may call it.
func (s *DeliveryService) Update(ctx context.Context, deliveryID, callerID string, in DeliveryInput) error {
	if !validation.PostalCode(in.PostalCode) {
		return fmt.Errorf("%w: postal code %q", common.ErrValidation, in.PostalCode)
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.rm.Deliveries(tx)

		existing, err := repo.GetByID(ctx, deliveryID)
		if err != nil {
			return err
		}
		if existing.UserID != callerID {
			return common.ErrForbidden
		}

		d, err := s.encrypt(in)
		if err != nil {
			return err
		}
		d.ID = existing.ID
		d.UserID = existing.UserID

		return repo.Update(ctx, d)
	})
}

// Delete removes a delivery. Owner-only, immediate, irreversible.
func (s *DeliveryService) Delete(ctx context.Context, deliveryID, callerID string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.rm.Deliveries(tx)

		existing, err := repo.GetByID(ctx, deliveryID)
		if err != nil {
			return err
		}
		if existing.UserID != callerID {
			return common.ErrForbidden
		}
		return repo.Delete(ctx, deliveryID)
	})
}

// List returns the user's deliveries with sensitive fields decrypted.
// A decryption failure aborts the whole call; blank or corrupted address
// data must never be served as if it were real.
func (s *DeliveryService) List(ctx context.Context, userID string) ([]*models.Delivery, error) {
	stored, err := s.rm.Deliveries(s.db).ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, d := range stored {
		if err := s.decrypt(d); err != nil {
			return nil, err
		}
	}
	return stored, nil
}

func (s *DeliveryService) encrypt(in DeliveryInput) (*models.Delivery, error) {
	enc, err := s.cipher.EncryptFields(map[string]string{
		"address":        in.Address,
		"detail_address": in.DetailAddress,
		"recipient":      in.Recipient,
		"postal_code":    in.PostalCode,
	}, cryptox.DeliveryFields)
	if err != nil {
		return nil, err
	}
	return &models.Delivery{
		Address:       enc["address"],
		DetailAddress: enc["detail_address"],
		Recipient:     enc["recipient"],
		PostalCode:    enc["postal_code"],
	}, nil
}

func (s *DeliveryService) decrypt(d *models.Delivery) error {
	dec, err := s.cipher.DecryptFields(map[string]string{
		"address":        d.Address,
		"detail_address": d.DetailAddress,
		"recipient":      d.Recipient,
		"postal_code":    d.PostalCode,
	}, cryptox.DeliveryFields)
	if err != nil {
		return err
	}
	d.Address = dec["address"]
	d.DetailAddress = dec["detail_address"]
	d.Recipient = dec["recipient"]
	d.PostalCode = dec["postal_code"]
	return nil
}
