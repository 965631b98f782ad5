package controllers

import (
	"net/http"

	"github.com/xcelerate-fit/xcelerate-backend/api/middleware"
	"github.com/xcelerate-fit/xcelerate-backend/api/responses"
	"github.com/xcelerate-fit/xcelerate-backend/api/validators"
	"github.com/xcelerate-fit/xcelerate-backend/internal/auth"
	pkgerrors "github.com/xcelerate-fit/xcelerate-backend/pkg/errors"
	"github.com/xcelerate-fit/xcelerate-backend/pkg/logger"
)

// AccessTokenHeader mirrors the freshly minted access token so clients can pick it up
// without parsing the body.
const AccessTokenHeader = middleware.AccessTokenHeader

func writeSignedIn(w http.ResponseWriter, status int, result *auth.LoginResponse) {
	w.Header().Set(AccessTokenHeader, result.AccessToken)
	responses.WriteSuccessStatus(w, status, result)
}

// AuthLogin exchanges email and password for an access/refresh pair.
func AuthLogin(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var body auth.LoginRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeSignedIn(w, http.StatusOK, result)
	}
}

// AuthRegister creates the account with its profile row and signs the new user in,
// so the settings screen can load straight after sign-up.
func AuthRegister(reg auth.RegisterService, svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if reg == nil || svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var body auth.RegisterRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := reg.Register(r.Context(), body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), auth.LoginRequest{Email: body.Email, Password: body.Password})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeSignedIn(w, http.StatusCreated, result)
	}
}

// SessionGet reports the refresh session behind the presented access token.
func SessionGet(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		userID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		session, err := svc.Session(r.Context(), userID, middleware.AccessIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, session)
	}
}

// Me returns the authenticated user.
func Me(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		userID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := svc.CurrentUser(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, user)
	}
}
