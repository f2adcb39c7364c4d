package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"cibn-digital-library/internal/models"
	"cibn-digital-library/internal/response"
	"cibn-digital-library/internal/services"
)

type contextKey string

const claimsContextKey contextKey = "claims"

// Authenticator gates routes on a verified bearer token.
type Authenticator struct {
	tokens *services.TokenService
}

// NewAuthenticator creates the token-checking middleware factory.
func NewAuthenticator(tokens *services.TokenService) *Authenticator {
	return &Authenticator{tokens: tokens}
}

// RequireToken extracts and verifies the bearer token. A missing token
// is 401; an invalid or expired token is 403; a role outside
// allowedRoles (when given) is 403. Verified claims are attached to the
// request context for downstream handlers.
func (a *Authenticator) RequireToken(allowedRoles ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				response.Error(w, http.StatusUnauthorized, "Access denied. No token provided.")
				return
			}

			claims, err := a.tokens.Verify(token)
			if err != nil {
				response.Error(w, http.StatusForbidden, "Invalid or expired token")
				return
			}

			if len(allowedRoles) > 0 && !roleAllowed(claims.Role, allowedRoles) {
				response.Error(w, http.StatusForbidden, "Insufficient permissions")
				return
			}

			ctx := context.WithValue(r.Context(), claimsContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireOwnerOrAdmin allows the request through only when the
// authenticated id equals the named route parameter, or the caller is
// an admin. Must run after RequireToken.
func (a *Authenticator) RequireOwnerOrAdmin(paramName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := GetClaims(r.Context())
			if claims == nil {
				response.Error(w, http.StatusUnauthorized, "Authentication required")
				return
			}

			ownerID := chi.URLParam(r, paramName)
			if claims.Subject != ownerID && claims.Role != models.RoleAdmin {
				response.Error(w, http.StatusForbidden, "You do not have permission to access this resource")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// GetClaims retrieves the verified token claims from the request
// context, nil when the request was not authenticated.
func GetClaims(ctx context.Context) *services.Claims {
	claims, ok := ctx.Value(claimsContextKey).(*services.Claims)
	if !ok {
		return nil
	}
	return claims
}

// SetClaims attaches claims to a context (for tests).
func SetClaims(ctx context.Context, claims *services.Claims) context.Context {
	return context.WithValue(ctx, claimsContextKey, claims)
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func roleAllowed(role models.Role, allowed []models.Role) bool {
	for _, candidate := range allowed {
		if role == candidate {
			return true
		}
	}
	return false
}
