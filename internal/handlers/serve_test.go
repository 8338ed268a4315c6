package handlers

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/avoronkov/authd/internal/apperrors"
	"github.com/avoronkov/authd/internal/handlers/claimsctx"
	"github.com/avoronkov/authd/internal/logger"
	"github.com/avoronkov/authd/internal/service/auth/tokenmanager"
)

func TestServe(t *testing.T) {
	get := func(t *testing.T, h http.Handler) (int, string) {
		t.Helper()

		srv := httptest.NewServer(h)
		defer srv.Close()

		resp, err := http.Get(srv.URL + "/test")
		require.NoError(t, err)
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		defer resp.Body.Close() // nolint:errcheck

		return resp.StatusCode, string(body)
	}

	t.Run("no error writes nothing extra", func(t *testing.T) {
		h := serve(logger.NewNoOpLogger(), func(w http.ResponseWriter, r *http.Request) error {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
			return nil
		})

		status, body := get(t, h)
		require.Equal(t, http.StatusOK, status)
		require.Equal(t, "ok", body)
	})

	t.Run("classified errors map to kind status and message", func(t *testing.T) {
		tests := []struct {
			name     string
			err      error
			status   int
			expected string
		}{
			{
				name:     "passwords dont match",
				err:      apperrors.New(apperrors.KindPasswordsDontMatch, "fields password and password2 don't match"),
				status:   http.StatusBadRequest,
				expected: `{"message": "PasswordsDontMatch: fields password and password2 don't match"}`,
			},
			{
				name:     "not activated",
				err:      apperrors.New(apperrors.KindUserIsNotActivated, "user with email=a@x.com is not activated"),
				status:   http.StatusForbidden,
				expected: `{"message": "UserIsNotActivated: user with email=a@x.com is not activated"}`,
			},
			{
				name:     "refresh token not found",
				err:      apperrors.New(apperrors.KindRefreshTokenNotFound, "refresh token not found"),
				status:   http.StatusNotFound,
				expected: `{"message": "RefreshTokenNotFound: refresh token not found"}`,
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				h := serve(logger.NewNoOpLogger(), func(w http.ResponseWriter, r *http.Request) error {
					return tt.err
				})

				status, body := get(t, h)
				require.Equal(t, tt.status, status)
				require.JSONEq(t, tt.expected, body)
			})
		}
	})

	t.Run("unclassified errors become 500 without detail leak", func(t *testing.T) {
		h := serve(logger.NewNoOpLogger(), func(w http.ResponseWriter, r *http.Request) error {
			return errors.New("pq: connection refused on 10.0.0.5")
		})

		status, body := get(t, h)
		require.Equal(t, http.StatusInternalServerError, status)
		require.JSONEq(t, `{"message": "InternalServerError: internal server error"}`, body)
		require.NotContains(t, body, "10.0.0.5")
	})
}

func TestRequireScope(t *testing.T) {
	inner := func(w http.ResponseWriter, r *http.Request) error {
		_, _ = w.Write([]byte("granted"))
		return nil
	}
	guarded := serve(logger.NewNoOpLogger(), requireScope(tokenmanager.ScopeAdmin)(inner))

	do := func(t *testing.T, h http.Handler) (int, string) {
		t.Helper()

		srv := httptest.NewServer(h)
		defer srv.Close()

		resp, err := http.Get(srv.URL + "/test")
		require.NoError(t, err)
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		defer resp.Body.Close() // nolint:errcheck

		return resp.StatusCode, string(body)
	}

	withClaims := func(next http.Handler, claims tokenmanager.Claims) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(claimsctx.New(r.Context(), claims)))
		})
	}

	t.Run("no claims", func(t *testing.T) {
		status, body := do(t, guarded)
		require.Equal(t, http.StatusUnauthorized, status)
		require.JSONEq(t, `{"message": "Unauthorized: authorization required"}`, body)
	})

	t.Run("claims without admin scope", func(t *testing.T) {
		status, body := do(t, withClaims(guarded, tokenmanager.Claims{Email: "a@x.com"}))
		require.Equal(t, http.StatusForbidden, status)
		require.JSONEq(t, `{"message": "Forbidden: insufficient scopes"}`, body)
	})

	t.Run("admin scope", func(t *testing.T) {
		status, body := do(t, withClaims(guarded, tokenmanager.Claims{Email: "a@x.com", Scope: tokenmanager.ScopeAdmin}))
		require.Equal(t, http.StatusOK, status)
		require.Equal(t, "granted", body)
	})
}
