package tokenmanager

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avoronkov/authd/internal/apperrors"
	"github.com/avoronkov/authd/internal/models"
)

func Test_TokenManager(t *testing.T) {
	t.Parallel()

	testUser := models.User{
		ID:       42,
		Email:    "a@x.com",
		IsActive: true,
	}

	newManager := func(t *testing.T, accessTTL time.Duration, refreshTTL time.Duration) *TokenManager {
		m, err := New(Config{SecretKey: "test-secret-key", AccessTTL: accessTTL, RefreshTTL: refreshTTL})
		require.NoError(t, err, "token manager should be created without errors")
		return m
	}

	parseClaims := func(t *testing.T, tokenString string) Claims {
		t.Helper()
		claims := &Claims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
			return []byte("test-secret-key"), nil
		})
		require.NoError(t, err)
		require.True(t, token.Valid, "token should be valid")
		return *claims
	}

	t.Run("new defaults", func(t *testing.T) {
		m, err := New(Config{SecretKey: "secret"})
		require.NoError(t, err, "token manager should be created without errors")

		require.Equal(t, "secret", m.key, "secret key should be set")
		require.Equal(t, defaultAccessTokenTTL, m.accessTTL, "default access token TTL should be set")
		require.Equal(t, defaultRefreshTokenTTL, m.refreshTTL, "default refresh token TTL")
		require.Equal(t, defaultSigningMethod, m.alg.Alg(), "default signing method should be set")
	})

	t.Run("new requires secret", func(t *testing.T) {
		_, err := New(Config{})
		require.Error(t, err)
	})

	t.Run("Issue", func(t *testing.T) {
		t.Run("pair shares base claims but not token type", func(t *testing.T) {
			m := newManager(t, 5*time.Minute, 24*time.Hour)

			pair, err := m.Issue(testUser)
			require.NoError(t, err)

			access := parseClaims(t, pair.Access)
			refresh := parseClaims(t, pair.Refresh)

			assert.Equal(t, TokenTypeAccess, access.TokenType)
			assert.Equal(t, TokenTypeRefresh, refresh.TokenType)
			assert.Equal(t, access.UserID, refresh.UserID)
			assert.Equal(t, access.Email, refresh.Email)
			assert.Equal(t, access.ID, refresh.ID, "one issuance shares one jti")
		})

		t.Run("claims match the user", func(t *testing.T) {
			m := newManager(t, 5*time.Minute, 24*time.Hour)

			pair, err := m.Issue(testUser)
			require.NoError(t, err)

			claims := parseClaims(t, pair.Access)
			assert.Equal(t, int64(42), claims.UserID)
			assert.Equal(t, "a@x.com", claims.Email)
			assert.NotEmpty(t, claims.ID, "token has to has jti")
		})

		t.Run("admin scope only for superuser", func(t *testing.T) {
			m := newManager(t, 5*time.Minute, 24*time.Hour)

			pair, err := m.Issue(testUser)
			require.NoError(t, err)
			assert.Empty(t, parseClaims(t, pair.Access).Scope, "regular user should get no scope claim")

			superuser := testUser
			superuser.IsSuperuser = true
			pair, err = m.Issue(superuser)
			require.NoError(t, err)
			assert.Equal(t, ScopeAdmin, parseClaims(t, pair.Access).Scope)
			assert.Equal(t, ScopeAdmin, parseClaims(t, pair.Refresh).Scope)
		})

		t.Run("expiry deltas", func(t *testing.T) {
			m := newManager(t, 5*time.Minute, 24*time.Hour)

			pair, err := m.Issue(testUser)
			require.NoError(t, err)

			access := parseClaims(t, pair.Access)
			refresh := parseClaims(t, pair.Refresh)

			require.NotNil(t, access.ExpiresAt)
			require.NotNil(t, refresh.ExpiresAt)
			assert.WithinDuration(t, time.Now().Add(5*time.Minute), access.ExpiresAt.Time, time.Second)
			assert.WithinDuration(t, time.Now().Add(24*time.Hour), refresh.ExpiresAt.Time, time.Second)
			assert.True(t, access.ExpiresAt.Time.Before(refresh.ExpiresAt.Time), "access token must expire before refresh token")
		})

		t.Run("jti unique per issuance", func(t *testing.T) {
			m := newManager(t, 5*time.Minute, 24*time.Hour)

			pair1, err := m.Issue(testUser)
			require.NoError(t, err)
			pair2, err := m.Issue(testUser)
			require.NoError(t, err)

			assert.NotEqual(t, parseClaims(t, pair1.Access).ID, parseClaims(t, pair2.Access).ID, "jti must differ for identical base claims")
		})
	})

	t.Run("Decode", func(t *testing.T) {
		t.Run("round trip", func(t *testing.T) {
			m := newManager(t, 5*time.Minute, 24*time.Hour)

			pair, err := m.Issue(testUser)
			require.NoError(t, err)

			claims, err := m.Decode(pair.Access)
			require.NoError(t, err)
			assert.Equal(t, testUser.ID, claims.UserID)
			assert.Equal(t, testUser.Email, claims.Email)
		})

		t.Run("expired token", func(t *testing.T) {
			m := newManager(t, -time.Minute, 24*time.Hour)

			pair, err := m.Issue(testUser)
			require.NoError(t, err)

			_, err = m.Decode(pair.Access)
			require.Error(t, err)
			require.Equal(t, apperrors.KindTokenExpired, apperrors.KindOf(err))
		})

		t.Run("wrong signature", func(t *testing.T) {
			m := newManager(t, 5*time.Minute, 24*time.Hour)
			other, err := New(Config{SecretKey: "other-secret"})
			require.NoError(t, err)

			pair, err := other.Issue(testUser)
			require.NoError(t, err)

			_, err = m.Decode(pair.Refresh)
			require.Error(t, err)
			require.Equal(t, apperrors.KindTokenInvalid, apperrors.KindOf(err))
		})

		t.Run("garbage token", func(t *testing.T) {
			m := newManager(t, 5*time.Minute, 24*time.Hour)

			_, err := m.Decode("asdf.qwer.zxcv")
			require.Error(t, err)
			require.Equal(t, apperrors.KindTokenInvalid, apperrors.KindOf(err))
		})
	})

	t.Run("Rotate", func(t *testing.T) {
		t.Run("carries claims with new jti", func(t *testing.T) {
			m := newManager(t, 5*time.Minute, 24*time.Hour)

			superuser := testUser
			superuser.IsSuperuser = true
			pair, err := m.Issue(superuser)
			require.NoError(t, err)
			oldClaims, err := m.Decode(pair.Refresh)
			require.NoError(t, err)

			rotated, err := m.Rotate(oldClaims)
			require.NoError(t, err)

			access := parseClaims(t, rotated.Access)
			refresh := parseClaims(t, rotated.Refresh)

			assert.Equal(t, oldClaims.UserID, access.UserID)
			assert.Equal(t, oldClaims.Email, access.Email)
			assert.Equal(t, oldClaims.Scope, access.Scope)
			assert.NotEqual(t, oldClaims.ID, access.ID, "rotation must mint a new jti")
			assert.Equal(t, access.ID, refresh.ID, "rotated pair shares one jti")
		})

		t.Run("rotated access token expires", func(t *testing.T) {
			m := newManager(t, 5*time.Minute, 24*time.Hour)

			pair, err := m.Issue(testUser)
			require.NoError(t, err)
			oldClaims, err := m.Decode(pair.Refresh)
			require.NoError(t, err)

			rotated, err := m.Rotate(oldClaims)
			require.NoError(t, err)

			access := parseClaims(t, rotated.Access)
			require.NotNil(t, access.ExpiresAt)
			assert.WithinDuration(t, time.Now().Add(5*time.Minute), access.ExpiresAt.Time, time.Second)
		})

		// Known wire format discrepancy kept on purpose: the initial
		// issuance sets exp on the refresh token but rotation does not,
		// so a rotated refresh token never expires on its own.
		t.Run("rotated refresh token has no exp", func(t *testing.T) {
			m := newManager(t, 5*time.Minute, 24*time.Hour)

			pair, err := m.Issue(testUser)
			require.NoError(t, err)
			oldClaims, err := m.Decode(pair.Refresh)
			require.NoError(t, err)

			rotated, err := m.Rotate(oldClaims)
			require.NoError(t, err)

			refresh := parseClaims(t, rotated.Refresh)
			assert.Nil(t, refresh.ExpiresAt, "rotated refresh token carries no exp claim")

			_, err = m.Decode(rotated.Refresh)
			require.NoError(t, err, "rotated refresh token should still decode")
		})
	})
}
