package jwt

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidSigningMethod is returned when the JWT signing method is not supported.
	ErrInvalidSigningMethod = errors.New("invalid JWT signing method")

	// ErrSigningKeyTooShort is returned when the HS512 signing key is less than 64 bytes.
	ErrSigningKeyTooShort = errors.New("HS512 signing key must be at least 64 bytes (512 bits)")

	// ErrTTLOrder is returned when the access TTL is not shorter than the refresh TTL.
	ErrTTLOrder = errors.New("access token TTL must be shorter than refresh token TTL")

	// ErrTokenExpired is returned when the JWT token has expired.
	ErrTokenExpired = errors.New("JWT token has expired")

	// ErrInvalidToken is returned when the token is malformed or fails validation.
	ErrInvalidToken = errors.New("invalid token")
)

// Pair is one issued session: a short-lived access token and a longer-lived
// refresh token. Both carry the same subject and the same jti, so the pair can
// be correlated and revoked as a unit.
type Pair struct {
	// AccessToken authenticates API requests.
	AccessToken string
	// RefreshToken is exchanged for a new pair; it is never sent on API calls.
	RefreshToken string
	// JTI is the session identifier shared by both tokens.
	JTI string
	// RefreshExpiresAt is when the refresh token stops being exchangeable.
	RefreshExpiresAt time.Time
}

// TokenUse discriminates access tokens from refresh tokens so one cannot be
// presented in place of the other.
type TokenUse string

const (
	// UseAccess marks an access token.
	UseAccess TokenUse = "access"
	// UseRefresh marks a refresh token.
	UseRefresh TokenUse = "refresh"
)

// JWT mints and verifies access/refresh pairs.
type JWT interface {
	// IssuePair creates a signed access/refresh pair for the subject.
	IssuePair(subjectID int64) (Pair, error)
	// Verify parses and validates a token of the given use and returns claims.
	Verify(tokenStr string, use TokenUse) (Claims, error)
}

type clocker interface {
	Now() time.Time
}

type generator interface {
	Generate() string
}

type jwtContextKey struct{}

// Config defines the inputs for building a JWT implementation.
type Config struct {
	// Secret is the HMAC signing key, shared by both tokens of a pair.
	Secret []byte
	// Issuer is the token issuer value.
	Issuer string
	// AccessTTL is the access token time-to-live.
	AccessTTL time.Duration
	// RefreshTTL is the refresh token time-to-live.
	RefreshTTL time.Duration
	// Clock provides the current time source.
	Clock clocker
	// UUID generates session IDs (jti).
	UUID generator
}

// Claims wraps the registered claims with the token-use discriminator.
//
// Subject carries the account id and ID carries the session jti.
type Claims struct {
	jwt.RegisteredClaims
	// Use is "access" or "refresh".
	Use TokenUse `json:"use"`
}

// GetAuth returns the JWT claims stored in the context, if any.
func GetAuth(ctx context.Context) *Claims {
	clm, ok := ctx.Value(jwtContextKey{}).(Claims)
	if !ok {
		return nil
	}

	return &clm
}

// SetAuth stores JWT claims in the context.
func SetAuth(ctx context.Context, clm Claims) context.Context {
	return context.WithValue(ctx, jwtContextKey{}, clm)
}
