package middleware

import (
	"context"
	"net/http"

	"github.com/sharehub/nepse-ledger-backend/internal/api/response"
	"github.com/sharehub/nepse-ledger-backend/internal/validation"
)

type contextKey string

const userIDKey contextKey = "userID"

// RequireUser extracts the caller's user ID from the X-User-ID header and
// stores it on the request context. All ledger data is scoped per user, so
// routes behind this middleware can rely on a valid, non-empty ID.
// Returns 401 when the header is missing and 400 when it is not a UUID.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := r.Header.Get("X-User-ID")

		if userID == "" {
			response.RespondError(w, http.StatusUnauthorized, "missing user", "X-User-ID header is required")
			return
		}

		if err := validation.ValidateUUID(userID); err != nil {
			response.RespondError(w, http.StatusBadRequest, "invalid user ID format", err.Error())
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserID returns the authenticated user ID stored by RequireUser, or the
// empty string when the middleware did not run.
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

// WithUserID returns a context carrying the given user ID, as RequireUser
// would have stored it. Intended for handler tests.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}
