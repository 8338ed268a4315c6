package integration

import (
	"net/http/httptest"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stretchr/testify/require"

	"github.com/avoronkov/authd/internal/handlers"
	"github.com/avoronkov/authd/internal/logger"
	"github.com/avoronkov/authd/internal/repository"
	"github.com/avoronkov/authd/internal/repository/postgres"
	"github.com/avoronkov/authd/internal/service/auth"
	"github.com/avoronkov/authd/internal/service/auth/tokenmanager"
	"github.com/avoronkov/authd/internal/service/user"
	"github.com/avoronkov/authd/internal/testutil"
	"github.com/avoronkov/authd/internal/tokencache"
)

const SecretKey = "test-secret"

type Services struct {
	AuthService *auth.AuthService
	UserService *user.UserService
	UserRepo    repository.UserRepo
}

// Create db transaction and run server with that connection (one connection cause one transaction)
// The created transaction passed to inner function: so, you can safely use it to seed data
func ServeWithTx(dbpool *pgxpool.Pool, cache tokencache.Cache, t *testing.T, fn func(tx pgx.Tx, srvURL string, services Services)) {
	testutil.WithTx(dbpool, t, func(tx pgx.Tx) {
		// Initialize repositories
		userRepo := &postgres.UserRepo{DB: tx}

		// Initialize services
		tokenManager, err := tokenmanager.New(tokenmanager.Config{SecretKey: SecretKey})
		require.NoError(t, err, "token manager should be created without errors")

		hasher := auth.NewPBKDF2Hasher(SecretKey)

		as, err := auth.NewService(tokenManager, hasher, userRepo, cache)
		require.NoError(t, err, "auth service starting error")

		us := user.NewService(hasher, userRepo)

		// Complete all together as router
		router := handlers.NewRouter(as, us, as, logger.NewNoOpLogger())

		// Run http server with the router in transaction
		srv := httptest.NewServer(router)
		defer srv.Close()

		fn(tx, srv.URL, Services{
			AuthService: as,
			UserService: us,
			UserRepo:    userRepo,
		})
	})
}
