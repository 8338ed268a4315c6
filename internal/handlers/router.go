package handlers

import (
	"net/http"

	"github.com/avoronkov/authd/internal/handlers/middleware"
	"github.com/avoronkov/authd/internal/logger"
	"github.com/avoronkov/authd/internal/service/auth/tokenmanager"
)

// chain applies middlewares in the given order: m1(m2(...(h)))
func chain(h http.Handler, mds ...func(next http.Handler) http.Handler) http.Handler {
	for i := len(mds) - 1; i >= 0; i-- {
		h = mds[i](h)
	}
	return h
}

type accessDecoder interface {
	DecodeAccess(tokenString string) (tokenmanager.Claims, error)
}

func NewRouter(
	auth authService,
	users userService,
	decoder accessDecoder,
	l logger.Logger,
) http.Handler {
	admin := requireScope(tokenmanager.ScopeAdmin)

	v1 := http.NewServeMux()

	v1.Handle("POST /register", serve(l, handleRegister(auth)))
	v1.Handle("POST /login", serve(l, handleLogin(auth)))
	v1.Handle("POST /refresh", serve(l, handleRefresh(auth)))

	v1.Handle("GET /users", serve(l, admin(handleListUsers(users))))
	v1.Handle("POST /users", serve(l, admin(handleCreateUser(users))))
	v1.Handle("GET /users/{id}", serve(l, admin(handleGetUser(users))))
	v1.Handle("PUT /users/{id}", serve(l, admin(handleReplaceUser(users))))
	v1.Handle("PATCH /users/{id}", serve(l, admin(handlePatchUser(users))))
	v1.Handle("DELETE /users/{id}", serve(l, admin(handleDeleteUser(users))))

	root := http.NewServeMux()
	root.Handle("/auth/v1/", http.StripPrefix("/auth/v1", v1))

	return chain(root,
		middleware.LoggerMiddleware(l),
		middleware.Authenticate(decoder),
	)
}
