package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/calebhoward/bastion/internal/auth"
	"github.com/calebhoward/bastion/internal/guard"
	"github.com/calebhoward/bastion/internal/models"
	"github.com/calebhoward/bastion/internal/users"
	pkglogger "github.com/calebhoward/bastion/pkg/logger"
)

// AuthResponse is returned on successful login.
type AuthResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
	Role        string `json:"role"`
}

// AuthService wires the credential guard, the user registry and token
// issuance into the login/logout flows. It surfaces only sentinel errors and
// lock states; store internals never reach the handler layer.
type AuthService struct {
	registry    *users.Registry
	guard       *guard.CredentialGuard
	revocations *guard.RevocationRegistry
	tokens      *auth.TokenManager
	logger      *slog.Logger
}

// NewAuthService creates an AuthService.
func NewAuthService(
	registry *users.Registry,
	credGuard *guard.CredentialGuard,
	revocations *guard.RevocationRegistry,
	tokens *auth.TokenManager,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		registry:    registry,
		guard:       credGuard,
		revocations: revocations,
		tokens:      tokens,
		logger:      logger,
	}
}

// Login runs the full credential flow: lockout check first, then credential
// verification, then counter bookkeeping. The returned LockState carries the
// retry-after duration whenever err is ErrAccountLocked.
//
// The lockout check runs before the password is ever inspected, so a locked
// identity learns nothing about credential validity.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResponse, guard.LockState, error) {
	state, err := s.guard.CheckLocked(ctx, email)
	if err != nil {
		return nil, guard.Unlocked, err
	}
	if state.Locked {
		s.logger.Warn("login rejected, identity locked",
			slog.String("email", pkglogger.SanitizedEmail(email)),
			slog.Duration("retry_after", state.RetryAfter))
		return nil, state, models.ErrAccountLocked
	}

	user, err := s.registry.Verify(email, password)
	if err != nil {
		if !errors.Is(err, models.ErrInvalidCredentials) {
			return nil, guard.Unlocked, err
		}

		state, recordErr := s.guard.RecordFailure(ctx, email)
		if recordErr != nil {
			return nil, guard.Unlocked, recordErr
		}
		s.logger.Info("login failed",
			slog.String("email", pkglogger.SanitizedEmail(email)),
			slog.Bool("locked", state.Locked))
		if state.Locked {
			return nil, state, models.ErrAccountLocked
		}
		return nil, guard.Unlocked, models.ErrInvalidCredentials
	}

	if err := s.guard.RecordSuccess(ctx, email); err != nil {
		// The login itself succeeded; a failed counter reset is logged by the
		// guard and must not block the user.
		s.logger.Warn("lockout reset failed after successful login",
			slog.String("email", pkglogger.SanitizedEmail(email)))
	}

	token, err := s.tokens.GenerateAccessToken(user.Email, user.Role)
	if err != nil {
		s.logger.Error("token generation failed", slog.Any("error", err))
		return nil, guard.Unlocked, err
	}

	s.logger.Info("login succeeded",
		slog.String("email", pkglogger.SanitizedEmail(email)))

	return &AuthResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.tokens.AccessExpiry().Seconds()),
		Role:        user.Role,
	}, guard.Unlocked, nil
}

// Logout revokes the presented token for its remaining lifetime. Expired
// tokens need no marker; revoking one is a no-op.
func (s *AuthService) Logout(ctx context.Context, tokenString string) error {
	claims, err := s.tokens.ValidateToken(tokenString)
	if err != nil {
		return models.ErrUnauthorized
	}
	return s.revocations.Revoke(ctx, claims.ID, claims.RemainingLifetime(time.Now()))
}
