package profiles

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xcelerate-fit/xcelerate-backend/pkg/db/models"
)

// Repository persists profile rows.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	Upsert(ctx context.Context, profile *models.Profile) error
	UpdateFullName(ctx context.Context, id uuid.UUID, fullName string, at time.Time) (*models.Profile, error)
	Patch(ctx context.Context, id uuid.UUID, patch Patch, at time.Time) (*models.Profile, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository binds the profile repository to the provided GORM DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.WithContext(ctx).First(&profile, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// Upsert inserts the profile or refreshes name and email on an existing row.
func (r *repository) Upsert(ctx context.Context, profile *models.Profile) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"full_name", "email", "updated_at"}),
	}).Create(profile).Error
}

// UpdateFullName writes full_name and updated_at, creating the row when it is missing.
func (r *repository) UpdateFullName(ctx context.Context, id uuid.UUID, fullName string, at time.Time) (*models.Profile, error) {
	return r.Patch(ctx, id, Patch{FullName: &fullName}, at)
}

// Patch upserts the row. On conflict only the columns set in patch and updated_at
// are overwritten, so absent fields keep their stored values.
func (r *repository) Patch(ctx context.Context, id uuid.UUID, patch Patch, at time.Time) (*models.Profile, error) {
	profile := &models.Profile{ID: id, FullName: patch.FullName, Email: patch.Email, CreatedAt: at, UpdatedAt: at}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns(append(patch.columns(), "updated_at")),
	}).Create(profile).Error
	if err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}
