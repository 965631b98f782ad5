package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/xcelerate-fit/xcelerate-backend/api/middleware"
	"github.com/xcelerate-fit/xcelerate-backend/internal/notifications"
	pkgerrors "github.com/xcelerate-fit/xcelerate-backend/pkg/errors"
)

func requireUserID(r *http.Request) (uuid.UUID, error) {
	userID := middleware.UserUUIDFromContext(r.Context())
	if userID == uuid.Nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	return userID, nil
}

// notificationRequest scopes a derivation to the caller and their negotiated locale.
func notificationRequest(r *http.Request) (notifications.Request, error) {
	userID, err := requireUserID(r)
	if err != nil {
		return notifications.Request{}, err
	}
	return notifications.Request{
		UserID: userID,
		Locale: middleware.LocaleFromContext(r.Context()),
	}, nil
}
