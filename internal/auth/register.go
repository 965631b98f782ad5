package auth

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/xcelerate-fit/xcelerate-backend/internal/profiles"
	"github.com/xcelerate-fit/xcelerate-backend/internal/users"
	"github.com/xcelerate-fit/xcelerate-backend/pkg/config"
	"github.com/xcelerate-fit/xcelerate-backend/pkg/db"
	"github.com/xcelerate-fit/xcelerate-backend/pkg/db/models"
	pkgerrors "github.com/xcelerate-fit/xcelerate-backend/pkg/errors"
	"github.com/xcelerate-fit/xcelerate-backend/pkg/security"
)

// RegisterRequest contains the payload required to create an account.
type RegisterRequest struct {
	FullName string `json:"full_name" validate:"required,max=120"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterService handles the sign-up transaction.
type RegisterService interface {
	Register(ctx context.Context, req RegisterRequest) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// RegisterServiceParams packages the dependencies for the registration flow.
type RegisterServiceParams struct {
	DB             *db.Client
	PasswordConfig config.PasswordConfig
}

type registerService struct {
	tx          txRunner
	passwordCfg config.PasswordConfig
}

// NewRegisterService builds a registration service with the provided dependencies.
func NewRegisterService(params RegisterServiceParams) (RegisterService, error) {
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "database client required")
	}
	return &registerService{
		tx:          params.DB,
		passwordCfg: params.PasswordConfig,
	}, nil
}

// Register creates the user row and its one-to-one profile in a single transaction.
func (s *registerService) Register(ctx context.Context, req RegisterRequest) error {
	email := users.NormalizeEmail(req.Email)
	if email == "" {
		return pkgerrors.Field("email", "email is required")
	}
	fullName, err := profiles.NormalizeFullName(req.FullName)
	if err != nil {
		return err
	}
	if err := security.ValidateNewPassword(req.Password, req.Password, s.passwordCfg.MinLength); err != nil {
		return pkgerrors.Field("password", err.Error())
	}

	passwordHash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		userRepo := users.NewRepository(tx)
		profileRepo := profiles.NewRepository(tx)

		if _, err := userRepo.FindByEmail(ctx, email); err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check user email")
		}

		user, err := userRepo.Create(ctx, users.CreateUserDTO{
			Email:        email,
			PasswordHash: passwordHash,
			FullName:     fullName,
		})
		if err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "email already registered")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
		}

		now := time.Now().UTC()
		if err := profileRepo.Upsert(ctx, &models.Profile{
			ID:        user.ID,
			FullName:  &fullName,
			Email:     &user.Email,
			CreatedAt: now,
			UpdatedAt: now,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create profile")
		}
		return nil
	})
}
