// Package guard implements the credential guard and the token revocation
// registry. Both keep all of their state in the shared expiring store so that
// every process instance sees the same lockout counters and revocation
// markers.
package guard

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/calebhoward/bastion/internal/models"
	"github.com/calebhoward/bastion/internal/store"
)

const (
	failureKeyPrefix = "login:failures:"
	lockKeyPrefix    = "login:lock:"
)

// LockState describes whether an identity may currently attempt a login.
type LockState struct {
	Locked     bool
	RetryAfter time.Duration // remaining lockout, zero when unlocked
}

// Unlocked is the zero LockState.
var Unlocked = LockState{}

// Config holds credential guard tuning. Threshold and window are deployment
// choices, not protocol constants.
type Config struct {
	FailureThreshold int           // consecutive failures before lockout
	LockoutWindow    time.Duration // how long a locked identity stays barred
	FailOpen         bool          // store errors: allow login checks (true) or bar them (false)
}

// DefaultConfig returns the standard 5-failures / 15-minute policy.
func DefaultConfig() Config {
	return Config{
		FailureThreshold: 5,
		LockoutWindow:    15 * time.Minute,
		FailOpen:         true,
	}
}

// CredentialGuard tracks failed login attempts per identity and enforces a
// timed lockout once the failure threshold is crossed.
type CredentialGuard struct {
	store  store.ExpiringStore
	config Config
	logger *slog.Logger
}

// NewCredentialGuard creates a guard backed by the shared store.
func NewCredentialGuard(s store.ExpiringStore, config Config, logger *slog.Logger) *CredentialGuard {
	return &CredentialGuard{
		store:  s,
		config: config,
		logger: logger,
	}
}

// CheckLocked reports whether identity is currently barred from login. It is
// read-only and must run before credential verification: a locked identity's
// password is never inspected, so the lock leaks no timing or validity signal.
//
// When the store is unreachable the configured policy applies: fail-open
// treats the identity as unlocked (logged at error level), fail-closed
// surfaces ErrStoreUnavailable so the caller can answer with a 5xx.
func (g *CredentialGuard) CheckLocked(ctx context.Context, identity string) (LockState, error) {
	state, err := g.checkLocked(ctx, identity)
	if err != nil {
		return g.storeFailure("lockout check", identity, err)
	}
	return state, nil
}

func (g *CredentialGuard) checkLocked(ctx context.Context, identity string) (LockState, error) {
	remaining, err := g.store.TTL(ctx, lockKeyPrefix+identity)
	if err != nil {
		return Unlocked, err
	}
	if remaining <= 0 {
		// Lock absent or lapsed. Expiry is lazy: the store's TTL does the
		// sweeping, nothing to clean up here.
		return Unlocked, nil
	}
	return LockState{Locked: true, RetryAfter: remaining}, nil
}

// Strict returns a view of the guard whose CheckLocked always surfaces store
// errors, regardless of the guard's fail-open setting. The authenticated
// request gate uses it so that its own fail-closed policy decides what a
// store outage means, instead of the login path's policy deciding for it.
func (g *CredentialGuard) Strict() *StrictGuard {
	return &StrictGuard{guard: g}
}

// StrictGuard is a read-only lockout checker that never swallows store errors.
type StrictGuard struct {
	guard *CredentialGuard
}

// CheckLocked reports whether identity is currently barred. Store errors are
// logged and returned wrapped as ErrStoreUnavailable.
func (s *StrictGuard) CheckLocked(ctx context.Context, identity string) (LockState, error) {
	state, err := s.guard.checkLocked(ctx, identity)
	if err != nil {
		s.guard.logger.Error("credential guard store error",
			slog.String("op", "lockout check"),
			slog.Any("error", err))
		return Unlocked, fmt.Errorf("lockout check for %q: %w", identity, models.ErrStoreUnavailable)
	}
	return state, nil
}

// RecordFailure atomically increments the identity's failure counter and, when
// the counter reaches the threshold, transitions the identity to Locked for the
// configured window. The counter keeps its original TTL so a new lockout cycle
// starts clean once both entries expire together.
func (g *CredentialGuard) RecordFailure(ctx context.Context, identity string) (LockState, error) {
	count, err := g.store.Incr(ctx, failureKeyPrefix+identity, g.config.LockoutWindow)
	if err != nil {
		return g.storeFailure("failure count", identity, err)
	}

	if count < int64(g.config.FailureThreshold) {
		return Unlocked, nil
	}

	// SetNX: only the attempt that crosses the threshold establishes the lock.
	// Further failures while locked neither shorten nor extend it.
	created, err := g.store.SetNX(ctx, lockKeyPrefix+identity, "1", g.config.LockoutWindow)
	if err != nil {
		return g.storeFailure("lock write", identity, err)
	}
	if created {
		g.logger.Warn("identity locked out",
			slog.Int64("failed_attempts", count),
			slog.Duration("lockout_window", g.config.LockoutWindow))
		return LockState{Locked: true, RetryAfter: g.config.LockoutWindow}, nil
	}

	remaining, err := g.store.TTL(ctx, lockKeyPrefix+identity)
	if err != nil {
		return g.storeFailure("lock ttl", identity, err)
	}
	return LockState{Locked: true, RetryAfter: remaining}, nil
}

// RecordSuccess clears the identity's failure counter and any lock entry. A
// successful login always resets state, even when a lock was about to lapse.
func (g *CredentialGuard) RecordSuccess(ctx context.Context, identity string) error {
	err := g.store.Delete(ctx, failureKeyPrefix+identity, lockKeyPrefix+identity)
	if err != nil {
		g.logger.Error("failed to reset lockout state", slog.Any("error", err))
		return fmt.Errorf("reset lockout state: %w", models.ErrStoreUnavailable)
	}
	return nil
}

func (g *CredentialGuard) storeFailure(op, identity string, err error) (LockState, error) {
	g.logger.Error("credential guard store error",
		slog.String("op", op),
		slog.Any("error", err))

	if g.config.FailOpen {
		// Availability over strictness: an unreachable store must not bar
		// every login. The error is logged, the caller sees Unlocked.
		return Unlocked, nil
	}
	return Unlocked, fmt.Errorf("%s for %q: %w", op, identity, models.ErrStoreUnavailable)
}
