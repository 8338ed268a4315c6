package middleware

import (
	"net/http"
	"strings"

	"github.com/avoronkov/authd/internal/handlers/claimsctx"
	"github.com/avoronkov/authd/internal/service/auth/tokenmanager"
)

type accessDecoder interface {
	DecodeAccess(tokenString string) (tokenmanager.Claims, error)
}

// Authenticate inspects the 'Authorization: Bearer <token>' header when
// present and attaches the decoded claims to the request context.
//
// It never fails the request: a missing header, a malformed header or a
// bad token just leave the request unauthenticated. Endpoints that need
// credentials fail closed in their own authorization check.
func Authenticate(decoder accessDecoder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := decoder.DecodeAccess(token)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := claimsctx.New(r.Context(), claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}

	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", false
	}

	return token, true
}
