package controllers

import (
	"net/http"

	"github.com/xcelerate-fit/xcelerate-backend/api/responses"
	"github.com/xcelerate-fit/xcelerate-backend/internal/schemafix"
)

// SchemaFix returns the database repair instructions and script.
func SchemaFix() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, schemafix.Get())
	}
}

// SchemaFixScript serves the repair SQL as a downloadable file.
func SchemaFixScript() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteText(w, http.StatusOK, schemafix.Script(), schemafix.Filename)
	}
}
