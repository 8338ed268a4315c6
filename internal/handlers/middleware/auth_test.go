package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/avoronkov/authd/internal/apperrors"
	"github.com/avoronkov/authd/internal/handlers/claimsctx"
	"github.com/avoronkov/authd/internal/service/auth/tokenmanager"
)

// Allow to use a function as access token decoder
type decoderFunc func(tokenString string) (tokenmanager.Claims, error)

func (f decoderFunc) DecodeAccess(tokenString string) (tokenmanager.Claims, error) {
	return f(tokenString)
}

func TestAuthenticate(t *testing.T) {
	// Handler that reports whether claims were attached to the context
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := claimsctx.FromContext(r.Context())
		if !ok {
			_, _ = w.Write([]byte("anonymous"))
			return
		}
		_, _ = w.Write([]byte(claims.Email))
	})

	okDecoder := decoderFunc(func(tokenString string) (tokenmanager.Claims, error) {
		require.Equal(t, "valid-token", tokenString)
		return tokenmanager.Claims{Email: "a@x.com"}, nil
	})
	failDecoder := decoderFunc(func(tokenString string) (tokenmanager.Claims, error) {
		return tokenmanager.Claims{}, apperrors.New(apperrors.KindTokenInvalid, "token is invalid")
	})

	get := func(t *testing.T, decoder accessDecoder, header string) string {
		t.Helper()

		srv := httptest.NewServer(Authenticate(decoder)(handler))
		defer srv.Close()

		req, err := http.NewRequest(http.MethodGet, srv.URL+"/test", nil)
		require.NoError(t, err)
		if header != "" {
			req.Header.Set("Authorization", header)
		}

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		defer resp.Body.Close() // nolint:errcheck

		require.Equal(t, http.StatusOK, resp.StatusCode, "authenticate middleware must never fail the request")
		return string(body)
	}

	t.Run("valid bearer token attaches claims", func(t *testing.T) {
		require.Equal(t, "a@x.com", get(t, okDecoder, "Bearer valid-token"))
	})

	t.Run("scheme is case insensitive", func(t *testing.T) {
		require.Equal(t, "a@x.com", get(t, okDecoder, "bearer valid-token"))
	})

	t.Run("no header leaves request unauthenticated", func(t *testing.T) {
		require.Equal(t, "anonymous", get(t, okDecoder, ""))
	})

	t.Run("malformed header leaves request unauthenticated", func(t *testing.T) {
		require.Equal(t, "anonymous", get(t, okDecoder, "Token valid-token"))
		require.Equal(t, "anonymous", get(t, okDecoder, "Bearer"))
	})

	t.Run("bad token leaves request unauthenticated", func(t *testing.T) {
		require.Equal(t, "anonymous", get(t, failDecoder, "Bearer expired-or-forged"))
	})
}
