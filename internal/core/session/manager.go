package session

import (
	"context"
	"time"

	"github.com/google/uuid"

	"wego/internal/domain"
)

// Policy carries the two expiry deadlines. Whichever is reached first
// invalidates the session.
type Policy struct {
	AbsoluteTTL time.Duration // hard cap regardless of activity
	IdleTTL     time.Duration // sliding inactivity deadline
}

func DefaultPolicy() Policy {
	return Policy{
		AbsoluteTTL: 14 * 24 * time.Hour,
		IdleTTL:     7 * 24 * time.Hour,
	}
}

// Manager binds verified logins to bearer tokens and resolves the operator id
// back out of them. The caller never passes a user id alongside the token;
// identity always re-derives from the token itself.
type Manager struct {
	codec tokenCodec
	store Store
	pol   Policy
	now   func() time.Time
}

func NewManager(secret []byte, issuer string, pol Policy, store Store) *Manager {
	m := &Manager{
		store: store,
		pol:   pol,
		now:   time.Now,
	}
	m.codec = tokenCodec{secret: secret, issuer: issuer, ttl: pol.AbsoluteTTL, now: func() time.Time { return m.now() }}
	return m
}

// Issue creates a session for uid and returns the signed token. Call only
// after the credential check has succeeded.
func (m *Manager) Issue(ctx context.Context, uid int64) (string, error) {
	sid := uuid.NewString()
	now := m.now()
	rec := Record{UserID: uid, IssuedAt: now, LastSeen: now}
	if err := m.store.Save(ctx, sid, rec, m.storeTTL(rec, now)); err != nil {
		return "", domain.Wrap(domain.KindInternal, "session save failed", err)
	}
	token, err := m.codec.issue(uid, sid)
	if err != nil {
		return "", domain.Wrap(domain.KindInternal, "token signing failed", err)
	}
	return token, nil
}

// Resolve validates token and returns the bound user id, sliding the
// inactivity deadline forward. Any failure mode is the same Unauthenticated
// error: tampered, expired, idle too long, or logged out.
func (m *Manager) Resolve(ctx context.Context, token string) (int64, error) {
	claims, err := m.codec.parse(token)
	if err != nil {
		return 0, domain.E(domain.KindUnauthenticated, "invalid or expired session")
	}

	rec, ok, err := m.store.Get(ctx, claims.SID)
	if err != nil {
		return 0, domain.Wrap(domain.KindInternal, "session lookup failed", err)
	}
	now := m.now()
	if !ok || rec.UserID != claims.UID ||
		now.Sub(rec.LastSeen) > m.pol.IdleTTL ||
		now.Sub(rec.IssuedAt) > m.pol.AbsoluteTTL {
		_ = m.store.Delete(ctx, claims.SID)
		return 0, domain.E(domain.KindUnauthenticated, "invalid or expired session")
	}

	rec.LastSeen = now
	if err := m.store.Save(ctx, claims.SID, rec, m.storeTTL(rec, now)); err != nil {
		return 0, domain.Wrap(domain.KindInternal, "session refresh failed", err)
	}
	return rec.UserID, nil
}

// Destroy logs the session out. Idempotent: a malformed or already-dead token
// is not an error.
func (m *Manager) Destroy(ctx context.Context, token string) error {
	claims, err := m.codec.parse(token)
	if err != nil {
		return nil
	}
	if err := m.store.Delete(ctx, claims.SID); err != nil {
		return domain.Wrap(domain.KindInternal, "session delete failed", err)
	}
	return nil
}

// storeTTL caps the sliding window at the remaining absolute lifetime so a
// record never outlives its token.
func (m *Manager) storeTTL(rec Record, now time.Time) time.Duration {
	remaining := rec.IssuedAt.Add(m.pol.AbsoluteTTL).Sub(now)
	if remaining < m.pol.IdleTTL {
		return remaining
	}
	return m.pol.IdleTTL
}
