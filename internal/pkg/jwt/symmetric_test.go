package jwt

import (
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

type seqUUID struct{ n int }

func (g *seqUUID) Generate() string {
	g.n++
	return "jti-" + strconv.Itoa(g.n)
}

func newTestJWT(t *testing.T, clk *fakeClock) *Symmetric {
	t.Helper()

	s, err := NewHS512(Config{
		Secret:     []byte(strings.Repeat("s", 64)),
		Issuer:     "desatrip",
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 7 * 24 * time.Hour,
		Clock:      clk,
		UUID:       &seqUUID{},
	})
	require.NoError(t, err)

	return s
}

func TestNewHS512Config(t *testing.T) {
	clk := &fakeClock{now: time.Now()}

	t.Run("ShortSecret", func(t *testing.T) {
		_, err := NewHS512(Config{
			Secret:     []byte("too-short"),
			AccessTTL:  time.Minute,
			RefreshTTL: time.Hour,
			Clock:      clk,
			UUID:       &seqUUID{},
		})
		assert.ErrorIs(t, err, ErrSigningKeyTooShort)
	})

	t.Run("AccessTTLNotShorter", func(t *testing.T) {
		_, err := NewHS512(Config{
			Secret:     []byte(strings.Repeat("s", 64)),
			AccessTTL:  time.Hour,
			RefreshTTL: time.Hour,
			Clock:      clk,
			UUID:       &seqUUID{},
		})
		assert.ErrorIs(t, err, ErrTTLOrder)
	})
}

func TestIssuePair(t *testing.T) {
	clk := &fakeClock{now: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)}
	s := newTestJWT(t, clk)

	pair, err := s.IssuePair(42)
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)
	assert.Equal(t, clk.now.Add(7*24*time.Hour), pair.RefreshExpiresAt)

	access, err := s.Verify(pair.AccessToken, UseAccess)
	require.NoError(t, err)
	refresh, err := s.Verify(pair.RefreshToken, UseRefresh)
	require.NoError(t, err)

	// both tokens of a pair share one subject and one jti
	assert.Equal(t, "42", access.Subject)
	assert.Equal(t, "42", refresh.Subject)
	assert.Equal(t, pair.JTI, access.ID)
	assert.Equal(t, pair.JTI, refresh.ID)
	assert.Equal(t, UseAccess, access.Use)
	assert.Equal(t, UseRefresh, refresh.Use)
}

func TestVerifyUseDiscrimination(t *testing.T) {
	clk := &fakeClock{now: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)}
	s := newTestJWT(t, clk)

	pair, err := s.IssuePair(42)
	require.NoError(t, err)

	_, err = s.Verify(pair.RefreshToken, UseAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = s.Verify(pair.AccessToken, UseRefresh)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyExpired(t *testing.T) {
	clk := &fakeClock{now: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)}
	s := newTestJWT(t, clk)

	pair, err := s.IssuePair(42)
	require.NoError(t, err)

	clk.now = clk.now.Add(16 * time.Minute)

	_, err = s.Verify(pair.AccessToken, UseAccess)
	assert.ErrorIs(t, err, ErrTokenExpired)

	// the refresh token outlives the access token
	_, err = s.Verify(pair.RefreshToken, UseRefresh)
	assert.NoError(t, err)
}

func TestVerifyTampered(t *testing.T) {
	clk := &fakeClock{now: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)}
	s := newTestJWT(t, clk)

	pair, err := s.IssuePair(42)
	require.NoError(t, err)

	tampered := pair.AccessToken[:len(pair.AccessToken)-4] + "xxxx"
	_, err = s.Verify(tampered, UseAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = s.Verify("not-a-token", UseAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyWrongSecret(t *testing.T) {
	clk := &fakeClock{now: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)}
	s := newTestJWT(t, clk)

	other, err := NewHS512(Config{
		Secret:     []byte(strings.Repeat("x", 64)),
		Issuer:     "desatrip",
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 7 * 24 * time.Hour,
		Clock:      clk,
		UUID:       &seqUUID{},
	})
	require.NoError(t, err)

	pair, err := s.IssuePair(42)
	require.NoError(t, err)

	_, err = other.Verify(pair.AccessToken, UseAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
