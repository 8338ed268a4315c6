package handlers

import (
	"errors"
	"net/http"

	"github.com/avoronkov/authd/internal/apperrors"
	"github.com/avoronkov/authd/internal/handlers/claimsctx"
	"github.com/avoronkov/authd/internal/handlers/render"
	"github.com/avoronkov/authd/internal/logger"
)

// apiFunc is a handler that reports failures instead of rendering them,
// so every route shares one classification point
type apiFunc func(w http.ResponseWriter, r *http.Request) error

// serve is the outermost stage of every route: it classifies whatever
// the inner stages raised and renders the uniform error body. Unknown
// errors become a 500 without leaking internals.
func serve(l logger.Logger, h apiFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		err := h(w, r)
		if err == nil {
			return
		}

		var appErr *apperrors.Error
		if !errors.As(err, &appErr) {
			l.Error("unclassified handler error", "method", r.Method, "uri", r.RequestURI, "error", err.Error())
			err = apperrors.New(apperrors.KindInternal, "internal server error")
			_ = errors.As(err, &appErr)
		}

		render.Message(w, appErr.Error(), appErr.Kind.HTTPStatus())
	})
}

// requireScope guards a handler: the request must carry decoded claims
// and the declared scope must match the claim's scope value. Runs inside
// serve, so its failures get the uniform rendering too.
func requireScope(scope string) func(apiFunc) apiFunc {
	return func(next apiFunc) apiFunc {
		return func(w http.ResponseWriter, r *http.Request) error {
			claims, ok := claimsctx.FromContext(r.Context())
			if !ok {
				return apperrors.New(apperrors.KindUnauthorized, "authorization required")
			}

			if claims.Scope != scope {
				return apperrors.New(apperrors.KindForbidden, "insufficient scopes")
			}

			return next(w, r)
		}
	}
}
