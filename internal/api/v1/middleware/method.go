package middleware

import (
	"net/http"

	"github.com/vetted/companion/pkg/httpext"
)

// RequirePost rejects every other method with 405 and a JSON error body
func RequirePost(message string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				httpext.JsonError(w, message, http.StatusMethodNotAllowed)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
