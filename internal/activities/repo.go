package activities

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/xcelerate-fit/xcelerate-backend/pkg/db/models"
	"github.com/xcelerate-fit/xcelerate-backend/pkg/pagination"
)

// Repository persists activity rows.
type Repository interface {
	Create(ctx context.Context, activity *models.Activity) error
	List(ctx context.Context, params listActivitiesParams) ([]models.Activity, error)
	Delete(ctx context.Context, userID, id uuid.UUID) (bool, error)
	ListSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]models.Activity, int64, error)
}

type listActivitiesParams struct {
	UserID uuid.UUID
	Limit  int
	Cursor *pagination.Cursor
}

type repository struct {
	db *gorm.DB
}

// NewRepository binds the activity repository to the provided GORM DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, activity *models.Activity) error {
	return r.db.WithContext(ctx).Create(activity).Error
}

// List returns the user's activities newest first, keyed on (date, id).
func (r *repository) List(ctx context.Context, params listActivitiesParams) ([]models.Activity, error) {
	query := r.db.WithContext(ctx).
		Where("user_id = ?", params.UserID).
		Order("date DESC").
		Order("id DESC").
		Limit(params.Limit)
	if params.Cursor != nil {
		clause, args := params.Cursor.KeysetClause("date", "id")
		query = query.Where(clause, args...)
	}

	var rows []models.Activity
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Delete removes the activity when it belongs to the user.
func (r *repository) Delete(ctx context.Context, userID, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.Activity{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ListSince returns activities dated on or after since plus the count of older ones.
func (r *repository) ListSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]models.Activity, int64, error) {
	var rows []models.Activity
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND date >= ?", userID, since).
		Order("date DESC").
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	var older int64
	if err := r.db.WithContext(ctx).
		Model(&models.Activity{}).
		Where("user_id = ? AND date < ?", userID, since).
		Count(&older).Error; err != nil {
		return nil, 0, err
	}
	return rows, older, nil
}
