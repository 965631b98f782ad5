package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/xcelerate-fit/xcelerate-backend/internal/schemafix"
)

func TestSchemaFixJSON(t *testing.T) {
	resp := httptest.NewRecorder()
	SchemaFix()(resp, httptest.NewRequest(http.MethodGet, "/api/public/schema-fix", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	var envelope struct {
		Data schemafix.Artifact `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Title != schemafix.Title || len(envelope.Data.Steps) != 6 {
		t.Fatalf("unexpected artifact %+v", envelope.Data)
	}
	if envelope.Data.SQL != schemafix.Script() {
		t.Fatal("sql must be served verbatim")
	}
}

func TestSchemaFixScriptDownload(t *testing.T) {
	resp := httptest.NewRecorder()
	SchemaFixScript()(resp, httptest.NewRequest(http.MethodGet, "/api/public/schema-fix.sql", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if ct := resp.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Fatalf("unexpected content type %q", ct)
	}
	if cd := resp.Header().Get("Content-Disposition"); !strings.Contains(cd, schemafix.Filename) {
		t.Fatalf("unexpected disposition %q", cd)
	}
	if resp.Body.String() != schemafix.Script() {
		t.Fatal("script body mismatch")
	}
}
