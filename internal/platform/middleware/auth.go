package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"ongfinder/pkg/domain"
	"ongfinder/pkg/requestcontext"
)

// Claims is what the token validator yields for an authenticated request.
type Claims struct {
	UserID int64
	Kind   domain.UserKind
}

// TokenValidator verifies a bearer token and extracts its claims.
type TokenValidator interface {
	ValidateToken(tokenString string) (*Claims, error)
}

func writeJSONError(w http.ResponseWriter, status int, code, desc string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"error":"` + code + `","error_description":"` + desc + `"}`))
}

// RequireAuth rejects requests without a valid bearer token and stores the
// verified caller identity in the context. Handlers must take ids from the
// context, never from request parameters naming the caller.
func RequireAuth(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const bearerPrefix = "Bearer "
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), bearerPrefix)
			if !ok {
				logger.WarnContext(r.Context(), "unauthorized access - missing token",
					"request_id", requestcontext.RequestID(r.Context()),
				)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Missing or invalid Authorization header")
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(r.Context(), "unauthorized access - invalid token",
					"error", err,
					"request_id", requestcontext.RequestID(r.Context()),
				)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Invalid or expired token")
				return
			}

			ctx := requestcontext.WithUserID(r.Context(), claims.UserID)
			ctx = requestcontext.WithUserKind(ctx, claims.Kind)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireKind gates a route group to one account kind. Mounted after
// RequireAuth.
func RequireKind(kind domain.UserKind) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if requestcontext.UserKind(r.Context()) != kind {
				writeJSONError(w, http.StatusForbidden, "forbidden", "This endpoint is not available for your account type")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
