package controllers

import (
	"net/http"

	"github.com/xcelerate-fit/xcelerate-backend/api/responses"
	"github.com/xcelerate-fit/xcelerate-backend/internal/header"
	pkgerrors "github.com/xcelerate-fit/xcelerate-backend/pkg/errors"
	"github.com/xcelerate-fit/xcelerate-backend/pkg/logger"
)

// GetHeader returns the dashboard header: user summary, notifications, menu and logout action.
func GetHeader(svc header.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "header service unavailable"))
			return
		}

		req, err := notificationRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Get(r.Context(), req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
