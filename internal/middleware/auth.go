package middleware

import (
	"net/http"
	"strings"

	"propertyhub/listingsync/internal/auth"
	"propertyhub/listingsync/internal/common"
	"propertyhub/listingsync/internal/logging"
)

// TriggerAuthMiddleware requires an HS256 bearer token signed with secret.
// An empty secret leaves the trigger open.
func TriggerAuthMiddleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if secret == "" {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			token := ""
			if strings.HasPrefix(authHeader, "Bearer ") {
				token = strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
			}

			claims, err := auth.ParseTriggerToken(token, secret)
			if err != nil {
				logging.Warn("Rejected sync trigger", "remote_addr", r.RemoteAddr, "error", err.Error())
				common.RespondError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.SetTriggerClaims(r.Context(), claims)))
		})
	}
}
