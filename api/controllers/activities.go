package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/xcelerate-fit/xcelerate-backend/api/responses"
	"github.com/xcelerate-fit/xcelerate-backend/api/validators"
	"github.com/xcelerate-fit/xcelerate-backend/internal/activities"
	pkgerrors "github.com/xcelerate-fit/xcelerate-backend/pkg/errors"
	"github.com/xcelerate-fit/xcelerate-backend/pkg/logger"
)

type createActivityRequest struct {
	ActivityType string  `json:"activity_type" validate:"required,notblank,max=64"`
	Duration     int     `json:"duration" validate:"required,min=1,max=1440"`
	Date         string  `json:"date" validate:"required,calendar_date"`
	Notes        *string `json:"notes" validate:"omitempty,max=1000"`
}

// ListActivities pages through the caller's activities, newest first.
func ListActivities(svc activities.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "activities service unavailable"))
			return
		}

		userID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params, err := validators.ParsePage(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.List(r.Context(), userID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// CreateActivity records a new activity for the caller.
func CreateActivity(svc activities.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "activities service unavailable"))
			return
		}

		userID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body createActivityRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		created, err := svc.Create(r.Context(), userID, activities.CreateInput{
			ActivityType: strings.TrimSpace(body.ActivityType),
			Duration:     body.Duration,
			Date:         strings.TrimSpace(body.Date),
			Notes:        body.Notes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

// DeleteActivity removes one of the caller's activities.
func DeleteActivity(svc activities.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "activities service unavailable"))
			return
		}

		userID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		activityID, err := uuid.Parse(strings.TrimSpace(chi.URLParam(r, "activityId")))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid activity id"))
			return
		}

		if err := svc.Delete(r.Context(), userID, activityID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted", "id": activityID.String()})
	}
}
