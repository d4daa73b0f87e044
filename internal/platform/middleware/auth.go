package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	id "daystar/pkg/domain"
	"daystar/pkg/requestcontext"
)

// JWTClaims represents the claims the access gate needs from a validated token.
type JWTClaims struct {
	UserID id.UserID
	Role   string
	JTI    string
}

// JWTValidator defines the interface for validating bearer tokens.
type JWTValidator interface {
	ValidateToken(tokenString string) (*JWTClaims, error)
}

// RevocationList reports whether a token JTI has been revoked by logout.
type RevocationList interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// RequireAuth resolves the bearer credential to a (userID, role) pair or
// rejects the request with 401. Revoked tokens are treated as invalid.
// trl may be nil when no revocation list is configured.
func RequireAuth(validator JWTValidator, trl RevocationList, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const bearerPrefix = "Bearer "
			authHeader := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(authHeader, bearerPrefix)
			if !ok || token == "" {
				writeUnauthorized(w, "Missing or invalid Authorization header")
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(r.Context(), "unauthorized access - invalid token",
					"error", err,
					"request_id", requestcontext.RequestID(r.Context()),
				)
				writeUnauthorized(w, "Invalid or expired token")
				return
			}

			if trl != nil {
				revoked, err := trl.IsRevoked(r.Context(), claims.JTI)
				if err != nil {
					// A revocation list outage does not block the request.
					logger.ErrorContext(r.Context(), "revocation check failed",
						"error", err,
						"request_id", requestcontext.RequestID(r.Context()),
					)
				} else if revoked {
					writeUnauthorized(w, "Invalid or expired token")
					return
				}
			}

			ctx := requestcontext.WithUserID(r.Context(), claims.UserID)
			ctx = requestcontext.WithRole(ctx, claims.Role)
			ctx = requestcontext.WithTokenID(ctx, claims.JTI)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole passes only requests whose authenticated role is in the allowed
// set. Must be mounted after RequireAuth.
func RequireRole(logger *slog.Logger, roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := requestcontext.Role(r.Context())
			if !allowed[role] {
				logger.WarnContext(r.Context(), "forbidden - insufficient role",
					"role", role,
					"path", r.URL.Path,
					"request_id", requestcontext.RequestID(r.Context()),
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				_, _ = w.Write([]byte(`{"error":"forbidden","error_description":"Insufficient role for this operation"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetUserID retrieves the authenticated user ID from the context.
func GetUserID(ctx context.Context) id.UserID {
	return requestcontext.UserID(ctx)
}

// GetRole retrieves the authenticated role from the context.
func GetRole(ctx context.Context) string {
	return requestcontext.Role(ctx)
}

func writeUnauthorized(w http.ResponseWriter, description string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized","error_description":"` + description + `"}`))
}
