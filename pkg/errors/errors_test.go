package errors

import (
	"context"
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestMetadataForKnownCodes(t *testing.T) {
	tests := []struct {
		code      Code
		status    int
		publicMsg string
		retryable bool
		detailsOK bool
	}{
		{code: CodeValidation, status: http.StatusBadRequest, publicMsg: "validation failed", detailsOK: true},
		{code: CodeUnauthorized, status: http.StatusUnauthorized, publicMsg: "authentication required"},
		{code: CodeForbidden, status: http.StatusForbidden, publicMsg: "access denied"},
		{code: CodeNotFound, status: http.StatusNotFound, publicMsg: "resource not found"},
		{code: CodeConflict, status: http.StatusConflict, publicMsg: "conflict detected"},
		{code: CodeIdempotency, status: http.StatusConflict, publicMsg: "idempotency key reused", detailsOK: true},
		{code: CodeRateLimit, status: http.StatusTooManyRequests, publicMsg: "rate limit exceeded"},
		{code: CodeInternal, status: http.StatusInternalServerError, publicMsg: "internal server error", retryable: true},
		{code: CodeDependency, status: http.StatusServiceUnavailable, publicMsg: "dependency unavailable", retryable: true, detailsOK: true},
	}

	for _, tt := range tests {
		meta := MetadataFor(tt.code)
		if meta.HTTPStatus != tt.status {
			t.Fatalf("code %s expected status %d got %d", tt.code, tt.status, meta.HTTPStatus)
		}
		if meta.PublicMessage != tt.publicMsg {
			t.Fatalf("code %s expected public message %q got %q", tt.code, tt.publicMsg, meta.PublicMessage)
		}
		if meta.Retryable != tt.retryable {
			t.Fatalf("code %s expected retryable %v got %v", tt.code, tt.retryable, meta.Retryable)
		}
		if meta.DetailsAllowed != tt.detailsOK {
			t.Fatalf("code %s expected details allowed %v got %v", tt.code, tt.detailsOK, meta.DetailsAllowed)
		}
	}
}

func TestMetadataForUnknownCodeDefaultsToInternal(t *testing.T) {
	meta := MetadataFor("SOMETHING_UNKNOWN")
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected internal status, got %d", meta.HTTPStatus)
	}
}

func TestErrorConstructors(t *testing.T) {
	base := New(CodeValidation, "missing foo")
	if base.Code() != CodeValidation {
		t.Fatalf("expected validation code, got %s", base.Code())
	}
	if base.Message() != "missing foo" {
		t.Fatalf("unexpected message %q", base.Message())
	}
	if base.Details() != nil {
		t.Fatalf("details should be nil by default")
	}

	detail := map[string]any{"field": "foo"}
	base.WithDetails(detail)
	if base.Details() == nil {
		t.Fatalf("details should be preserved")
	}

	cause := stdErrors.New("boom")
	wrapped := Wrap(CodeConflict, cause, "ctx")
	if !stdErrors.Is(wrapped, cause) {
		t.Fatalf("Wrap did not preserve cause")
	}
	if wrapped.Code() != CodeConflict {
		t.Fatalf("unexpected code %s", wrapped.Code())
	}
}

func TestAsReturnsTypedError(t *testing.T) {
	err := New(CodeForbidden, "no entry")
	if got := As(err); got == nil || got.Code() != CodeForbidden {
		t.Fatalf("As failed to return typed error")
	}
	if As(nil) != nil {
		t.Fatalf("As(nil) should return nil")
	}
}

func TestIsCodeFollowsWrapping(t *testing.T) {
	inner := New(CodeNotFound, "profile not found")
	outer := fmt.Errorf("load header: %w", inner)
	if !IsCode(outer, CodeNotFound) {
		t.Fatalf("expected wrapped not found to match")
	}
	if IsCode(outer, CodeConflict) {
		t.Fatalf("unexpected conflict match")
	}
	if IsCode(stdErrors.New("plain"), CodeInternal) {
		t.Fatalf("untyped errors carry no code")
	}
}

func TestFieldDetails(t *testing.T) {
	err := Field("new_password", "new password must be at least 6 characters")
	if err.Code() != CodeValidation {
		t.Fatalf("expected validation code, got %s", err.Code())
	}
	details, ok := err.Details().(map[string]string)
	if !ok || details["new_password"] == "" {
		t.Fatalf("expected field details, got %#v", err.Details())
	}
}

func TestDumpCollectsChain(t *testing.T) {
	err := Wrap(CodeDependency, stdErrors.New("connection refused"), "list activities")
	dump := Dump(fmt.Errorf("notifications: %w", err))
	if dump.Code != CodeDependency {
		t.Fatalf("expected dependency code, got %s", dump.Code)
	}
	if len(dump.Chain) != 3 {
		t.Fatalf("expected three chain entries, got %v", dump.Chain)
	}
	if dump.PGCode != "" {
		t.Fatalf("expected no pg code, got %q", dump.PGCode)
	}
}

func TestDumpFlagsSchemaDrift(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "42703", Message: `column "activity_type" does not exist`, TableName: "activities"}
	dump := Dump(Wrap(CodeDependency, pgErr, "create activity"))
	if !dump.SchemaDrift {
		t.Fatal("expected undefined column to flag schema drift")
	}
	fields := dump.Fields()
	if fields["pg_table"] != "activities" || fields["schema_drift"] != true {
		t.Fatalf("unexpected fields %#v", fields)
	}
	if _, ok := fields["pg_constraint"]; ok {
		t.Fatal("expected empty pg fields to be omitted")
	}

	sqlite := Dump(stdErrors.New("table activities has no column named activity_type"))
	if !sqlite.SchemaDrift {
		t.Fatal("expected sqlite missing column to flag schema drift")
	}

	unique := Dump(&pgconn.PgError{Code: "23505"})
	if unique.SchemaDrift {
		t.Fatal("unique violation is not schema drift")
	}
}

func TestIsMatchesByCode(t *testing.T) {
	err := fmt.Errorf("delete activity: %w", New(CodeNotFound, "activity not found"))
	if !stdErrors.Is(err, New(CodeNotFound, "")) {
		t.Fatal("expected code match through wrapping")
	}
	if stdErrors.Is(err, New(CodeConflict, "")) {
		t.Fatal("different codes must not match")
	}
}

func TestClassify(t *testing.T) {
	typed := New(CodeRateLimit, "slow down")
	if Classify(typed) != typed {
		t.Fatal("typed errors pass through unchanged")
	}
	if got := Classify(fmt.Errorf("list activities: %w", context.DeadlineExceeded)); got.Code() != CodeDependency {
		t.Fatalf("expected deadline to classify as dependency, got %s", got.Code())
	}
	if got := Classify(stdErrors.New("boom")); got.Code() != CodeInternal {
		t.Fatalf("expected internal, got %s", got.Code())
	}
	if got := Classify(nil); got.Code() != CodeInternal {
		t.Fatalf("expected internal for nil, got %s", got.Code())
	}
}

func TestServerCodesHideMessages(t *testing.T) {
	for _, code := range []Code{CodeInternal, CodeDependency} {
		if MetadataFor(code).ExposeMessage {
			t.Fatalf("%s must not expose internal messages", code)
		}
	}
	if !MetadataFor(CodeValidation).ExposeMessage {
		t.Fatal("validation messages are meant for the caller")
	}
}
