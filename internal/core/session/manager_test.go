package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wego/internal/domain"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestManager(pol Policy) (*Manager, *fakeClock) {
	clock := &fakeClock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	store := NewMemoryStore()
	store.now = clock.Now
	m := NewManager([]byte("test-secret"), "wego-test", pol, store)
	m.now = clock.Now
	return m, clock
}

func TestIssueAndResolve(t *testing.T) {
	t.Parallel()
	m, _ := newTestManager(DefaultPolicy())
	ctx := context.Background()

	token, err := m.Issue(ctx, 42)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	uid, err := m.Resolve(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), uid)
}

func TestResolveTamperedToken(t *testing.T) {
	t.Parallel()
	m, _ := newTestManager(DefaultPolicy())
	ctx := context.Background()

	token, err := m.Issue(ctx, 42)
	require.NoError(t, err)

	_, err = m.Resolve(ctx, token+"x")
	require.Error(t, err)
	assert.Equal(t, domain.KindUnauthenticated, domain.KindOf(err))

	_, err = m.Resolve(ctx, "not.a.token")
	require.Error(t, err)
	assert.Equal(t, domain.KindUnauthenticated, domain.KindOf(err))
}

func TestResolveIdleTimeout(t *testing.T) {
	t.Parallel()
	m, clock := newTestManager(DefaultPolicy())
	ctx := context.Background()

	token, err := m.Issue(ctx, 7)
	require.NoError(t, err)

	// unused past the inactivity deadline but well inside the hard cap
	clock.Advance(7*24*time.Hour + time.Minute)

	_, err = m.Resolve(ctx, token)
	require.Error(t, err)
	assert.Equal(t, domain.KindUnauthenticated, domain.KindOf(err))
}

func TestResolveSlidingWindow(t *testing.T) {
	t.Parallel()
	m, clock := newTestManager(DefaultPolicy())
	ctx := context.Background()

	token, err := m.Issue(ctx, 7)
	require.NoError(t, err)

	// activity every 6 days keeps the session alive past the 7 day idle limit
	for i := 0; i < 2; i++ {
		clock.Advance(6 * 24 * time.Hour)
		_, err = m.Resolve(ctx, token)
		require.NoError(t, err)
	}
}

func TestResolveAbsoluteLifetime(t *testing.T) {
	t.Parallel()
	m, clock := newTestManager(DefaultPolicy())
	ctx := context.Background()

	token, err := m.Issue(ctx, 7)
	require.NoError(t, err)

	// keep the session active so only the hard cap can kill it
	for i := 0; i < 4; i++ {
		clock.Advance(4 * 24 * time.Hour)
		if _, err := m.Resolve(ctx, token); err != nil {
			// 16 days in: the 14 day cap must have fired
			assert.Greater(t, i, 2)
			assert.Equal(t, domain.KindUnauthenticated, domain.KindOf(err))
			return
		}
	}
	t.Fatal("session survived past its absolute lifetime")
}

func TestDestroyIsIdempotent(t *testing.T) {
	t.Parallel()
	m, _ := newTestManager(DefaultPolicy())
	ctx := context.Background()

	token, err := m.Issue(ctx, 9)
	require.NoError(t, err)

	require.NoError(t, m.Destroy(ctx, token))
	require.NoError(t, m.Destroy(ctx, token))        // second logout
	require.NoError(t, m.Destroy(ctx, "garbage"))    // never logged in

	_, err = m.Resolve(ctx, token)
	require.Error(t, err)
	assert.Equal(t, domain.KindUnauthenticated, domain.KindOf(err))
}

func TestResolveAfterLogoutOnOtherManagerSharedStore(t *testing.T) {
	t.Parallel()
	// two managers over one store behave like two replicas
	clock := &fakeClock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	store := NewMemoryStore()
	store.now = clock.Now

	a := NewManager([]byte("shared"), "wego-test", DefaultPolicy(), store)
	a.now = clock.Now
	b := NewManager([]byte("shared"), "wego-test", DefaultPolicy(), store)
	b.now = clock.Now

	ctx := context.Background()
	token, err := a.Issue(ctx, 5)
	require.NoError(t, err)

	uid, err := b.Resolve(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, int64(5), uid)

	require.NoError(t, b.Destroy(ctx, token))
	_, err = a.Resolve(ctx, token)
	require.Error(t, err)
}
