package jwt

import (
	"errors"
	"strconv"
	"time"

	libJWT "github.com/golang-jwt/jwt/v5"
)

// Symmetric implements JWT signing and verification using an HMAC secret.
type Symmetric struct {
	secret     []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	clock      clocker
	uuid       generator
}

// NewHS512 constructs a Symmetric JWT implementation using HS512.
//
// The access TTL must be strictly shorter than the refresh TTL; a pair where
// the refresh credential outlives nothing would be useless.
func NewHS512(cfg Config) (*Symmetric, error) {
	if len(cfg.Secret) < 64 {
		return nil, ErrSigningKeyTooShort
	}
	if cfg.AccessTTL <= 0 || cfg.RefreshTTL <= 0 || cfg.AccessTTL >= cfg.RefreshTTL {
		return nil, ErrTTLOrder
	}

	return &Symmetric{
		secret:     cfg.Secret,
		issuer:     cfg.Issuer,
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
		clock:      cfg.Clock,
		uuid:       cfg.UUID,
	}, nil
}

// IssuePair creates a signed access/refresh pair sharing one fresh jti.
func (s *Symmetric) IssuePair(subjectID int64) (Pair, error) {
	now := s.clock.Now()
	jti := s.uuid.Generate()

	access, err := s.sign(subjectID, jti, now, s.accessTTL, UseAccess)
	if err != nil {
		return Pair{}, err
	}

	refresh, err := s.sign(subjectID, jti, now, s.refreshTTL, UseRefresh)
	if err != nil {
		return Pair{}, err
	}

	return Pair{
		AccessToken:      access,
		RefreshToken:     refresh,
		JTI:              jti,
		RefreshExpiresAt: now.Add(s.refreshTTL),
	}, nil
}

// Verify parses and validates a JWT string and checks its declared use.
func (s *Symmetric) Verify(tokenStr string, use TokenUse) (Claims, error) {
	var claims Claims

	token, err := libJWT.ParseWithClaims(tokenStr, &claims,
		func(t *libJWT.Token) (any, error) {
			if t.Method != libJWT.SigningMethodHS512 {
				return nil, ErrInvalidSigningMethod
			}
			return s.secret, nil
		},
		libJWT.WithIssuer(s.issuer),
		libJWT.WithValidMethods([]string{libJWT.SigningMethodHS512.Alg()}),
		libJWT.WithIssuedAt(),
		libJWT.WithExpirationRequired(),
		libJWT.WithTimeFunc(s.clock.Now),
	)

	if err != nil {
		if errors.Is(err, libJWT.ErrTokenExpired) {
			return Claims{}, ErrTokenExpired
		}
		return Claims{}, ErrInvalidToken
	}

	if !token.Valid || claims.Use != use {
		return Claims{}, ErrInvalidToken
	}

	return claims, nil
}

func (s *Symmetric) sign(subjectID int64, jti string, now time.Time, ttl time.Duration, use TokenUse) (string, error) {
	return libJWT.
		NewWithClaims(libJWT.SigningMethodHS512, Claims{
			RegisteredClaims: libJWT.RegisteredClaims{
				ID:        jti,
				Subject:   strconv.FormatInt(subjectID, 10),
				Issuer:    s.issuer,
				IssuedAt:  libJWT.NewNumericDate(now),
				NotBefore: libJWT.NewNumericDate(now),
				ExpiresAt: libJWT.NewNumericDate(now.Add(ttl)),
			},
			Use: use,
		}).
		SignedString(s.secret)
}
