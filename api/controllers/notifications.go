package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/xcelerate-fit/xcelerate-backend/api/responses"
	"github.com/xcelerate-fit/xcelerate-backend/api/validators"
	"github.com/xcelerate-fit/xcelerate-backend/internal/notifications"
	pkgerrors "github.com/xcelerate-fit/xcelerate-backend/pkg/errors"
	"github.com/xcelerate-fit/xcelerate-backend/pkg/logger"
)

const notificationsStreamEvent = "notifications"

type previewNotificationsRequest struct {
	Activities []notifications.Activity `json:"activities" validate:"max=1000"`
}

type importReadStateRequest struct {
	IDs []string `json:"ids" validate:"required,max=500"`
}

// ListNotifications derives the caller's header notifications from their stored activities.
func ListNotifications(svc notifications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "notifications service unavailable"))
			return
		}

		req, err := notificationRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.List(r.Context(), req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// PreviewNotifications derives notifications from a client-held activity list.
func PreviewNotifications(svc notifications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "notifications service unavailable"))
			return
		}

		req, err := notificationRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body previewNotificationsRequest
		if err := validators.DecodeJSONBodyLenient(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Preview(r.Context(), req, body.Activities)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// MarkNotificationRead adds one notification id to the caller's read set.
func MarkNotificationRead(svc notifications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "notifications service unavailable"))
			return
		}

		req, err := notificationRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		notificationID := strings.TrimSpace(chi.URLParam(r, "notificationId"))
		if notificationID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Field("notificationId", "is required"))
			return
		}

		result, err := svc.MarkRead(r.Context(), req, notificationID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// MarkAllNotificationsRead marks every currently derived notification as read.
func MarkAllNotificationsRead(svc notifications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "notifications service unavailable"))
			return
		}

		req, err := notificationRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.MarkAllRead(r.Context(), req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// ImportNotificationReadState merges a browser-held list of read ids into the read set.
func ImportNotificationReadState(svc notifications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "notifications service unavailable"))
			return
		}

		userID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body importReadStateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		imported, err := svc.ImportReadState(r.Context(), userID, body.IDs)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]int{"imported": imported})
	}
}

// StreamNotifications pushes a fresh derivation as a server-sent event on connect and
// on every refresh tick until the client goes away.
func StreamNotifications(svc notifications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "notifications service unavailable"))
			return
		}

		req, err := notificationRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		flusher, ok := w.(http.Flusher)
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "streaming unsupported"))
			return
		}

		// the server write timeout would otherwise cut long-lived streams
		_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

		started := false
		emit := func(result *notifications.Result) error {
			payload, err := json.Marshal(result)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode notifications")
			}
			if !started {
				header := w.Header()
				header.Set("Content-Type", "text/event-stream")
				header.Set("Cache-Control", "no-cache")
				header.Set("Connection", "keep-alive")
				header.Set("X-Accel-Buffering", "no")
				w.WriteHeader(http.StatusOK)
				started = true
			}
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", notificationsStreamEvent, payload); err != nil {
				return err
			}
			flusher.Flush()
			return nil
		}

		if err := svc.Stream(r.Context(), req, emit); err != nil {
			if !started {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			if logg != nil {
				logg.Error(r.Context(), "notifications.stream_failed", err)
			}
		}
	}
}
