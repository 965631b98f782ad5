package validators

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	pkgerrors "github.com/xcelerate-fit/xcelerate-backend/pkg/errors"
	"github.com/xcelerate-fit/xcelerate-backend/pkg/pagination"
)

func queryValue(r *http.Request, key string) (string, bool) {
	v := strings.TrimSpace(r.URL.Query().Get(key))
	return v, v != ""
}

// ParseQueryInt returns defaultVal when key is absent and a field error when the
// value is not an integer within [min, max].
func ParseQueryInt(r *http.Request, key string, defaultVal, min, max int) (int, error) {
	raw, ok := queryValue(r, key)
	if !ok {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(raw)
	switch {
	case err != nil:
		return 0, pkgerrors.Field(key, "must be a whole number")
	case n < min || n > max:
		return 0, pkgerrors.Field(key, fmt.Sprintf("must be between %d and %d", min, max))
	}
	return n, nil
}

// ParsePage reads ?limit and ?cursor for keyset listings. A cursor that fails to
// decode is a validation error, not a silent restart from page one.
func ParsePage(r *http.Request) (pagination.Params, error) {
	limit, err := ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
	if err != nil {
		return pagination.Params{}, err
	}
	cursor, _ := queryValue(r, "cursor")
	if _, err := pagination.ParseCursor(cursor); err != nil {
		return pagination.Params{}, pkgerrors.Field("cursor", "is invalid")
	}
	return pagination.Params{Limit: limit, Cursor: cursor}, nil
}
