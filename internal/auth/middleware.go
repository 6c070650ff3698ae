package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/calebhoward/bastion/internal/guard"
	"github.com/calebhoward/bastion/pkg/api"
)

// contextKey is a custom type for context keys
type contextKey string

// UserContextKey is the key for storing token claims in request context
const UserContextKey contextKey = "user"

// RevocationChecker is the slice of the revocation registry the gate needs.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// LockChecker is the slice of the credential guard the gate needs.
type LockChecker interface {
	CheckLocked(ctx context.Context, identity string) (guard.LockState, error)
}

// GateConfig controls the authenticated request gate.
type GateConfig struct {
	// FailClosed governs what happens when the revocation check itself fails:
	// true denies the request (503), false lets it through. Invalid or expired
	// tokens are always denied regardless.
	FailClosed bool
}

// Middleware validates the Bearer token on every request, rejects revoked
// tokens and barred identities, and injects the claims into the request
// context. Both checkers are optional; passing nil skips that check.
func Middleware(tm *TokenManager, revocations RevocationChecker, locks LockChecker, config GateConfig) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				api.WriteUnauthorized(w, "missing authorization header")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				api.WriteUnauthorized(w, "invalid authorization header format")
				return
			}

			claims, err := tm.ValidateToken(parts[1])
			if err != nil {
				api.WriteUnauthorized(w, "invalid or expired token")
				return
			}

			if revocations != nil && claims.ID != "" {
				revoked, err := revocations.IsRevoked(r.Context(), claims.ID)
				if err != nil {
					if config.FailClosed {
						api.WriteStoreUnavailable(w, "unable to verify token status")
						return
					}
					// Fail open: availability wins, the error was already logged
					// by the registry.
				}
				if revoked {
					api.WriteUnauthorized(w, "token has been revoked")
					return
				}
			}

			if locks != nil && claims.Email != "" {
				state, err := locks.CheckLocked(r.Context(), claims.Email)
				if err != nil {
					if config.FailClosed {
						api.WriteStoreUnavailable(w, "unable to verify account status")
						return
					}
				}
				if state.Locked {
					api.WriteUnauthorized(w, "account is temporarily locked")
					return
				}
			}

			ctx := context.WithValue(r.Context(), UserContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole enforces role-based access on routes mounted after Middleware.
func RequireRole(role string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := ClaimsFromRequest(r)
			if claims == nil {
				api.WriteUnauthorized(w, "authentication required")
				return
			}
			if claims.Role != role {
				api.WriteForbidden(w, "insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ClaimsFromRequest extracts token claims from the request context.
func ClaimsFromRequest(r *http.Request) *TokenClaims {
	claims, ok := r.Context().Value(UserContextKey).(*TokenClaims)
	if !ok {
		return nil
	}
	return claims
}

// TokenFromRequest returns the raw Bearer token, or "" when absent.
func TokenFromRequest(r *http.Request) string {
	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}
