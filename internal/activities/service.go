package activities

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/xcelerate-fit/xcelerate-backend/pkg/db/models"
	pkgerrors "github.com/xcelerate-fit/xcelerate-backend/pkg/errors"
	"github.com/xcelerate-fit/xcelerate-backend/pkg/pagination"
)

const (
	dateLayout         = "2006-01-02"
	maxDurationMinutes = 24 * 60
	maxTypeLength      = 64
	maxNotesLength     = 1000
)

// ActivityDTO is the transport shape of a logged activity.
type ActivityDTO struct {
	ID           uuid.UUID `json:"id"`
	ActivityType string    `json:"activity_type"`
	Duration     int       `json:"duration"`
	Date         string    `json:"date"`
	Notes        *string   `json:"notes,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// FromModel maps an activity row onto its DTO.
func FromModel(a models.Activity) ActivityDTO {
	return ActivityDTO{
		ID:           a.ID,
		ActivityType: a.ActivityType,
		Duration:     a.Duration,
		Date:         a.Date.Format(dateLayout),
		Notes:        a.Notes,
		CreatedAt:    a.CreatedAt,
	}
}

// CreateInput carries a new activity submitted by the client.
type CreateInput struct {
	ActivityType string
	Duration     int
	Date         string
	Notes        *string
}

// ListResult wraps returned activities and the cursor for the next page.
type ListResult struct {
	Items  []ActivityDTO `json:"items"`
	Cursor string        `json:"cursor"`
}

// Service manages a user's own activity log.
type Service interface {
	List(ctx context.Context, userID uuid.UUID, params pagination.Params) (*ListResult, error)
	Create(ctx context.Context, userID uuid.UUID, input CreateInput) (*ActivityDTO, error)
	Delete(ctx context.Context, userID, activityID uuid.UUID) error
}

type service struct {
	repo Repository
}

// NewService wires activity dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "activities repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID, params pagination.Params) (*ListResult, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user id required")
	}
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	rows, err := s.repo.List(ctx, listActivitiesParams{
		UserID: userID,
		Limit:  pagination.LimitWithBuffer(params.Limit),
		Cursor: cursor,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list activities")
	}

	page, more := pagination.Page(rows, params.Limit)
	result := &ListResult{Items: make([]ActivityDTO, 0, len(page))}
	for _, row := range page {
		result.Items = append(result.Items, FromModel(row))
	}
	if more {
		last := page[len(page)-1]
		result.Cursor = pagination.EncodeCursor(pagination.Cursor{At: last.Date, ID: last.ID})
	}
	return result, nil
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, input CreateInput) (*ActivityDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user id required")
	}
	activity, err := input.toModel(userID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, activity); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create activity")
	}
	dto := FromModel(*activity)
	return &dto, nil
}

func (s *service) Delete(ctx context.Context, userID, activityID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user id required")
	}
	if activityID == uuid.Nil {
		return pkgerrors.Field("activityId", "activity id required")
	}
	found, err := s.repo.Delete(ctx, userID, activityID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete activity")
	}
	if !found {
		return pkgerrors.New(pkgerrors.CodeNotFound, "activity not found")
	}
	return nil
}

func (in CreateInput) toModel(userID uuid.UUID) (*models.Activity, error) {
	activityType := strings.TrimSpace(in.ActivityType)
	if activityType == "" || utf8.RuneCountInString(activityType) > maxTypeLength {
		return nil, pkgerrors.Field("activity_type", "activity type is required")
	}
	if in.Duration <= 0 || in.Duration > maxDurationMinutes {
		return nil, pkgerrors.Field("duration", "duration must be between 1 and 1440 minutes")
	}
	date, err := time.Parse(dateLayout, strings.TrimSpace(in.Date))
	if err != nil {
		return nil, pkgerrors.Field("date", "date must be YYYY-MM-DD")
	}

	var notes *string
	if in.Notes != nil {
		trimmed := strings.TrimSpace(*in.Notes)
		if utf8.RuneCountInString(trimmed) > maxNotesLength {
			return nil, pkgerrors.Field("notes", "notes are too long")
		}
		if trimmed != "" {
			notes = &trimmed
		}
	}

	return &models.Activity{
		ID:           uuid.New(),
		UserID:       userID,
		ActivityType: activityType,
		Duration:     in.Duration,
		Date:         date,
		Notes:        notes,
	}, nil
}
