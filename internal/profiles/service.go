package profiles

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/xcelerate-fit/xcelerate-backend/pkg/db/models"
	pkgerrors "github.com/xcelerate-fit/xcelerate-backend/pkg/errors"
)

const maxFullNameLength = 120

// ProfileDTO is the public profile shape.
type ProfileDTO struct {
	ID        uuid.UUID `json:"id"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FromModel maps a profile row onto its DTO.
func FromModel(p *models.Profile) *ProfileDTO {
	if p == nil {
		return nil
	}
	dto := &ProfileDTO{ID: p.ID, CreatedAt: p.CreatedAt, UpdatedAt: p.UpdatedAt}
	if p.FullName != nil {
		dto.FullName = *p.FullName
	}
	if p.Email != nil {
		dto.Email = *p.Email
	}
	return dto
}

// Service reads and edits profile rows.
type Service interface {
	GetByID(ctx context.Context, id uuid.UUID) (*ProfileDTO, error)
	Update(ctx context.Context, id uuid.UUID, patch Patch) (*ProfileDTO, error)
}

// Patch names the profile fields to change. Nil fields are left as stored.
type Patch struct {
	FullName *string
	Email    *string
}

func (p Patch) IsEmpty() bool {
	return p.FullName == nil && p.Email == nil
}

func (p Patch) columns() []string {
	var cols []string
	if p.FullName != nil {
		cols = append(cols, "full_name")
	}
	if p.Email != nil {
		cols = append(cols, "email")
	}
	return cols
}

type service struct {
	repo Repository
	now  func() time.Time
}

// NewService wires profile dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "profiles repository required")
	}
	return &service{repo: repo, now: time.Now}, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*ProfileDTO, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "profile id required")
	}
	profile, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load profile")
	}
	return FromModel(profile), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, patch Patch) (*ProfileDTO, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "profile id required")
	}
	if patch.IsEmpty() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no profile fields provided")
	}
	clean, err := normalizePatch(patch)
	if err != nil {
		return nil, err
	}
	profile, err := s.repo.Patch(ctx, id, clean, s.now().UTC())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update profile")
	}
	return FromModel(profile), nil
}

func normalizePatch(patch Patch) (Patch, error) {
	var out Patch
	if patch.FullName != nil {
		name, err := NormalizeFullName(*patch.FullName)
		if err != nil {
			return Patch{}, err
		}
		out.FullName = &name
	}
	if patch.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*patch.Email))
		if email == "" {
			return Patch{}, pkgerrors.Field("email", "email cannot be blank")
		}
		out.Email = &email
	}
	return out, nil
}

// NormalizeFullName trims the name and enforces its length cap. An empty name is allowed.
func NormalizeFullName(fullName string) (string, error) {
	name := strings.TrimSpace(fullName)
	if len([]rune(name)) > maxFullNameLength {
		return "", pkgerrors.Field("full_name", "full name is too long")
	}
	return name, nil
}
