package middleware

import (
	"net/http"
	"strings"

	"github.com/xcelerate-fit/xcelerate-backend/pkg/logger"
)

const localeHeader = "X-Locale"

type localeMatcher interface {
	Match(candidates ...string) string
}

// Locale negotiates the response language from ?lang=, X-Locale, then Accept-Language.
func Locale(matcher localeMatcher, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if matcher == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			candidates := make([]string, 0, 3)
			for _, value := range []string{
				r.URL.Query().Get("lang"),
				r.Header.Get(localeHeader),
				r.Header.Get("Accept-Language"),
			} {
				if value = strings.TrimSpace(value); value != "" {
					candidates = append(candidates, value)
				}
			}

			locale := matcher.Match(candidates...)
			w.Header().Set("Content-Language", locale)

			ctx := WithLocale(r.Context(), locale)
			if logg != nil {
				ctx = logg.WithLocale(ctx, locale)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
