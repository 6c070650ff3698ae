package guard

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/calebhoward/bastion/internal/models"
	"github.com/calebhoward/bastion/internal/store"
)

const revokedKeyPrefix = "token:revoked:"

// RevocationRegistry records token identifiers (jti claims) that must be
// rejected before their natural expiry. Each marker's TTL equals the token's
// remaining lifetime, so the store prunes itself and no cleanup job is needed.
type RevocationRegistry struct {
	store  store.ExpiringStore
	logger *slog.Logger
}

// NewRevocationRegistry creates a registry backed by the shared store.
func NewRevocationRegistry(s store.ExpiringStore, logger *slog.Logger) *RevocationRegistry {
	return &RevocationRegistry{store: s, logger: logger}
}

// Revoke marks tokenID as unusable for the remainder of its lifetime. Revoking
// an already-revoked token is harmless; a token with no lifetime left needs no
// marker at all.
func (r *RevocationRegistry) Revoke(ctx context.Context, tokenID string, remaining time.Duration) error {
	if remaining <= 0 {
		return nil
	}

	if err := r.store.Set(ctx, revokedKeyPrefix+tokenID, "1", remaining); err != nil {
		r.logger.Error("failed to record token revocation",
			slog.String("jti", tokenID),
			slog.Any("error", err))
		return fmt.Errorf("revoke token: %w", models.ErrStoreUnavailable)
	}

	r.logger.Info("token revoked",
		slog.String("jti", tokenID),
		slog.Duration("remaining_lifetime", remaining))
	return nil
}

// IsRevoked reports whether tokenID has been revoked. Store errors are
// surfaced as ErrStoreUnavailable; the caller decides fail-open versus
// fail-closed, not the registry.
func (r *RevocationRegistry) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	exists, err := r.store.Exists(ctx, revokedKeyPrefix+tokenID)
	if err != nil {
		r.logger.Error("failed to check token revocation",
			slog.String("jti", tokenID),
			slog.Any("error", err))
		return false, fmt.Errorf("revocation check: %w", models.ErrStoreUnavailable)
	}
	return exists, nil
}
