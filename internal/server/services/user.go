package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/oullim/market/internal/common"
	"github.com/oullim/market/internal/cryptox"
	"github.com/oullim/market/internal/dbx"
	"github.com/oullim/market/internal/logging"
	"github.com/oullim/market/internal/server/auth"
	"github.com/oullim/market/internal/server/config"
	"github.com/oullim/market/internal/server/models"
	"github.com/oullim/market/internal/server/repositories/repomanager"
	"github.com/oullim/market/internal/validation"
)

// authCodeBytes sizes the random e-mail auth code (hex doubles it).
const authCodeBytes = 16

// SignupInput is the registration payload.
type SignupInput struct {
	Email    string
	Nickname string
	Password string
}

// ProfileUpdateInput carries a partial profile update. Nil means the field
// is not supplied and keeps its stored value.
type ProfileUpdateInput struct {
	Email        *string
	Nickname     *string
	Password     *string
	ProfileImage *string
	CustomsCode  *string
}

// UserService handles registration, activation, login and profile upkeep.
type UserService struct {
	db            *sql.DB
	rm            repomanager.RepositoryManager
	cipher        *cryptox.FieldCipher
	sender        EmailSender
	jwtSecret     []byte
	tokenValidity time.Duration
	logger        logging.Logger
}

func NewUserService(db *sql.DB, rm repomanager.RepositoryManager, cipher *cryptox.FieldCipher, sender EmailSender, cfg *config.Config, logger logging.Logger) *UserService {
	return &UserService{
		db:            db,
		rm:            rm,
		cipher:        cipher,
		sender:        sender,
		jwtSecret:     []byte(cfg.JWTSecret),
		tokenValidity: cfg.TokenValidityDuration,
		logger:        logger,
	}
}

// Register creates an inactive account and mails its activation code.
// A duplicate e-mail surfaces as ErrAlreadyExists from the repository.
// Mail dispatch happens after the commit; a send failure is logged but does
// not undo the account, the user can request a fresh code.
func (s *UserService) Register(ctx context.Context, in SignupInput) (*models.User, error) {
	if !validation.Signup(in.Email, in.Nickname, in.Password) {
		return nil, fmt.Errorf("%w: signup fields", common.ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	code, err := common.MakeRandHexString(authCodeBytes)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        in.Email,
		Nickname:     in.Nickname,
		PasswordHash: string(hash),
		AuthCode:     code,
		LoginType:    models.LoginTypeNormal,
	}

	created, err := s.rm.Users(s.db).Create(ctx, user)
	if err != nil {
		return nil, err
	}

	if err := s.sender.Send(ctx, created.Email, "Activate your account", code); err != nil {
		s.logger.Error(ctx, "auth code mail failed", "user_id", created.ID, "error", err)
	}

	s.logger.Info(ctx, "user registered", "user_id", created.ID)
	return created, nil
}

// Activate flips the account active when the presented code matches the
// outstanding one, and clears the code so it cannot be replayed.
func (s *UserService) Activate(ctx context.Context, email, code string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.rm.Users(tx)

		user, err := repo.GetByEmail(ctx, email)
		if err != nil {
			return err
		}
		if user.AuthCode == "" || user.AuthCode != code {
			return fmt.Errorf("%w: auth code mismatch", common.ErrValidation)
		}
		if err := repo.SetAuthCode(ctx, user.ID, ""); err != nil {
			return err
		}
		return repo.SetActive(ctx, user.ID, true)
	})
}

// IssueAuthCode stores a fresh code on the account and mails it. Used both
// to re-send an activation code and to start a password reset.
func (s *UserService) IssueAuthCode(ctx context.Context, email string) error {
	repo := s.rm.Users(s.db)

	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}

	code, err := common.MakeRandHexString(authCodeBytes)
	if err != nil {
		return err
	}
	if err := repo.SetAuthCode(ctx, user.ID, code); err != nil {
		return err
	}
	return s.sender.Send(ctx, user.Email, "Your verification code", code)
}

// ResetPassword replaces the password, gated on the outstanding auth code.
// The code is cleared on success so it cannot be replayed.
func (s *UserService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	if !validation.Password(newPassword) {
		return fmt.Errorf("%w: password policy", common.ErrValidation)
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.rm.Users(tx)

		user, err := repo.GetByEmail(ctx, email)
		if err != nil {
			return err
		}
		if user.AuthCode == "" || user.AuthCode != code {
			return fmt.Errorf("%w: auth code mismatch", common.ErrValidation)
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hashing password: %w", err)
		}
		user.PasswordHash = string(hash)

		if err := repo.Update(ctx, user); err != nil {
			return err
		}
		return repo.SetAuthCode(ctx, user.ID, "")
	})
}

// Login checks credentials and mints an access token. Unknown e-mail and
// wrong password both map to ErrUnauthorized so the response does not leak
// which one failed. Inactive accounts cannot log in.
func (s *UserService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.rm.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return "", common.ErrUnauthorized
		}
		return "", err
	}
	if !user.IsActive {
		return "", common.ErrUnauthorized
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", common.ErrUnauthorized
	}
	return auth.GenerateToken(user.ID, user.Email, user.Nickname, s.jwtSecret, s.tokenValidity)
}

// Get returns the user's own profile with the customs code decrypted.
func (s *UserService) Get(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.rm.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.CustomsCode != "" {
		dec, err := s.cipher.DecryptFields(map[string]string{"customs_code": user.CustomsCode}, cryptox.UserFields)
		if err != nil {
			return nil, err
		}
		user.CustomsCode = dec["customs_code"]
	}
	user.PasswordHash = ""
	return user, nil
}

// UpdateProfile applies a partial update to the caller's own account.
// A supplied password is re-hashed, a supplied customs code re-encrypted.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, in ProfileUpdateInput) error {
	if !validation.Update(in.Email, in.Nickname, in.Password) {
		return fmt.Errorf("%w: profile fields", common.ErrValidation)
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.rm.Users(tx)

		user, err := repo.GetByID(ctx, userID)
		if err != nil {
			return err
		}

		if in.Email != nil {
			user.Email = *in.Email
		}
		if in.Nickname != nil {
			user.Nickname = *in.Nickname
		}
		if in.Password != nil {
			hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
			if err != nil {
				return fmt.Errorf("hashing password: %w", err)
			}
			user.PasswordHash = string(hash)
		}
		if in.ProfileImage != nil {
			user.ProfileImage = *in.ProfileImage
		}
		if in.CustomsCode != nil {
			if *in.CustomsCode == "" {
				user.CustomsCode = ""
			} else {
				enc, err := s.cipher.EncryptFields(map[string]string{"customs_code": *in.CustomsCode}, cryptox.UserFields)
				if err != nil {
					return err
				}
				user.CustomsCode = enc["customs_code"]
			}
		}

		return repo.Update(ctx, user)
	})
}

// Deactivate puts the caller's own account dormant. The record stays; the
// account simply cannot log in until reactivated.
func (s *UserService) Deactivate(ctx context.Context, userID string) error {
	return s.rm.Users(s.db).SetActive(ctx, userID, false)
}
