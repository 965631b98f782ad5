package users

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xcelerate-fit/xcelerate-backend/pkg/db/models"
	"github.com/xcelerate-fit/xcelerate-backend/pkg/types"
)

// Repository reads and writes the users table: credentials, display name and the
// jsonb preferences behind the settings screens.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx rebinds the repository to tx so registration can create the user and the
// profile atomically.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

func (r *Repository) scoped(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx)
}

func (r *Repository) Create(ctx context.Context, dto CreateUserDTO) (*models.User, error) {
	user := dto.ToModel()
	if err := r.scoped(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// FindByEmail matches on the normalized address; gorm.ErrRecordNotFound when absent.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.first(r.scoped(ctx), "email = ?", NormalizeEmail(email))
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return r.first(r.scoped(ctx), "id = ?", id)
}

func (r *Repository) first(q *gorm.DB, where string, arg any) (*models.User, error) {
	var user models.User
	if err := q.Where(where, arg).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateLastLogin leaves updated_at alone; signing in is not a profile edit.
func (r *Repository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.scoped(ctx).Model(&models.User{}).Where("id = ?", id).UpdateColumn("last_login_at", at).Error
}

func (r *Repository) UpdateFullName(ctx context.Context, id uuid.UUID, fullName string) error {
	return r.touch(ctx, id, map[string]any{"full_name": fullName})
}

func (r *Repository) UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error {
	return r.touch(ctx, id, map[string]any{"password_hash": hash})
}

// MergePreferences applies patch over the stored preferences. The row is locked for
// the read-modify-write on Postgres, so two screens saving different toggles at the
// same time both land. Keys the patch does not name are kept.
func (r *Repository) MergePreferences(ctx context.Context, id uuid.UUID, patch types.PreferencesPatch) (*models.User, error) {
	var user models.User
	err := r.scoped(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, "id = ?", id).Error; err != nil {
			return err
		}
		user.Preferences = user.Preferences.Merge(patch)
		user.UpdatedAt = time.Now().UTC()
		return tx.Model(&user).UpdateColumns(map[string]any{
			"preferences": user.Preferences,
			"updated_at":  user.UpdatedAt,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// touch updates columns plus updated_at, reporting gorm.ErrRecordNotFound when no
// row matched.
func (r *Repository) touch(ctx context.Context, id uuid.UUID, columns map[string]any) error {
	columns["updated_at"] = time.Now().UTC()
	result := r.scoped(ctx).Model(&models.User{}).Where("id = ?", id).UpdateColumns(columns)
	switch {
	case result.Error != nil:
		return result.Error
	case result.RowsAffected == 0:
		return gorm.ErrRecordNotFound
	}
	return nil
}
