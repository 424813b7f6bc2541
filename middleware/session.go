package middleware

import (
	"context"
	"net/http"
	"strings"

	"media-tracker-go/logcolors"

	log "github.com/sirupsen/logrus"
)

type contextKey string

const userIDKey contextKey = "userID"

// SessionResolver maps a session token to a user ID. A false return
// means the token is missing, unknown or expired.
type SessionResolver interface {
	UserForSession(token string) (string, bool)
}

// BearerToken extracts the token from an Authorization: Bearer header.
func BearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return ""
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// SessionMiddleware resolves the bearer token into a user ID and
// attaches it to the request context. Requests without a valid session
// pass through unauthenticated; handlers that need a user check
// UserID themselves.
func SessionMiddleware(resolver SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			userID, ok := resolver.UserForSession(token)
			if !ok {
				log.Debugf("%s Rejected stale or unknown session from %s", logcolors.LogSession, r.RemoteAddr)
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserID returns the authenticated user ID from the request context,
// or "" when the request is unauthenticated.
func UserID(r *http.Request) string {
	if id, ok := r.Context().Value(userIDKey).(string); ok {
		return id
	}
	return ""
}
