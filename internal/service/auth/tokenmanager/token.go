package tokenmanager

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/avoronkov/authd/internal/apperrors"
	"github.com/avoronkov/authd/internal/models"
)

const (
	defaultAccessTokenTTL  = 300 * time.Second
	defaultRefreshTokenTTL = 24 * time.Hour
	defaultSigningMethod   = "HS256"
)

const (
	TokenTypeAccess  = "access_token"
	TokenTypeRefresh = "refresh_token"

	// ScopeAdmin is embedded iff the user is a superuser at issuance time
	ScopeAdmin = "admin"
)

// Claims is the claim set carried by both tokens of a pair.
// Access and refresh tokens of one issuance share user_id, email, jti
// and scope; they differ in token_type and exp.
type Claims struct {
	UserID    int64  `json:"user_id"`
	Email     string `json:"email"`
	Scope     string `json:"scope,omitempty"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// Token manager config with sensible defaults
type Config struct {
	// Secret key to sign tokens
	// Required to be set
	SecretKey string

	// JWT MAC (Message Authentication Code) algorithm
	// If not set than default is used
	Alg string

	// Access and refresh token lifetimes
	// If not set than default is used
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

type TokenManager struct {
	key string
	alg jwt.SigningMethod

	accessTTL  time.Duration
	refreshTTL time.Duration
}

func New(cfg Config) (*TokenManager, error) {
	if cfg.SecretKey == "" {
		return nil, errors.New("secret key must not be empty")
	}

	if cfg.Alg == "" {
		cfg.Alg = defaultSigningMethod
	}
	alg := jwt.GetSigningMethod(cfg.Alg)
	if alg == nil {
		return nil, fmt.Errorf("unknown signing method: %q", cfg.Alg)
	}

	setDefaultDuration := func(field *time.Duration, def time.Duration) {
		if *field == 0 {
			*field = def
		}
	}
	setDefaultDuration(&cfg.AccessTTL, defaultAccessTokenTTL)
	setDefaultDuration(&cfg.RefreshTTL, defaultRefreshTokenTTL)

	return &TokenManager{
		key:        cfg.SecretKey,
		alg:        alg,
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
	}, nil
}

// RefreshTTL returns the refresh token lifetime, the caller uses it as
// cache entry TTL when registering token liveness
func (m *TokenManager) RefreshTTL() time.Duration {
	return m.refreshTTL
}

// Issue mints a signed access/refresh pair for the user with a fresh jti.
// No side effects: registering the refresh token in the liveness cache is
// the caller's job.
func (m *TokenManager) Issue(user models.User) (models.TokenPair, error) {
	now := time.Now().Truncate(time.Second)

	base := Claims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID: uuid.NewString(),
		},
	}
	if user.IsSuperuser {
		base.Scope = ScopeAdmin
	}

	return m.signPair(base, now, jwt.NewNumericDate(now.Add(m.refreshTTL)))
}

// Rotate mints a new pair from claims extracted from a validated and
// still cached refresh token. The jti is replaced, everything else is
// carried over verbatim. The rotated refresh token intentionally gets no
// exp claim: that is what the wire format always did, a non-expiring
// rotated refresh token and all.
func (m *TokenManager) Rotate(old Claims) (models.TokenPair, error) {
	now := time.Now().Truncate(time.Second)

	next := old
	next.ID = uuid.NewString()

	return m.signPair(next, now, nil)
}

func (m *TokenManager) signPair(base Claims, now time.Time, refreshExp *jwt.NumericDate) (models.TokenPair, error) {
	var pair models.TokenPair

	accessClaims := base
	accessClaims.TokenType = TokenTypeAccess
	accessClaims.ExpiresAt = jwt.NewNumericDate(now.Add(m.accessTTL))

	access, err := jwt.NewWithClaims(m.alg, accessClaims).SignedString([]byte(m.key))
	if err != nil {
		return pair, fmt.Errorf("error while signing access token. Err: %w", err)
	}

	refreshClaims := base
	refreshClaims.TokenType = TokenTypeRefresh
	refreshClaims.ExpiresAt = refreshExp

	refresh, err := jwt.NewWithClaims(m.alg, refreshClaims).SignedString([]byte(m.key))
	if err != nil {
		return pair, fmt.Errorf("error while signing refresh token. Err: %w", err)
	}

	return models.TokenPair{Access: access, Refresh: refresh}, nil
}

// Decode verifies the signature and expiry and returns the claims.
// Pure function: no cache lookups here.
func (m *TokenManager) Decode(tokenString string) (Claims, error) {
	claims := &Claims{}

	_, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(t *jwt.Token) (any, error) { return []byte(m.key), nil },
		jwt.WithValidMethods([]string{m.alg.Alg()}),
	)

	switch {
	case err == nil:
		return *claims, nil
	case errors.Is(err, jwt.ErrTokenExpired):
		return Claims{}, apperrors.Wrap(apperrors.KindTokenExpired, "token is expired", err)
	default:
		return Claims{}, apperrors.Wrap(apperrors.KindTokenInvalid, "token is invalid", err)
	}
}
