package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/avoronkov/authd/internal/apperrors"
	"github.com/avoronkov/authd/internal/models"
	"github.com/avoronkov/authd/internal/repository"
)

type UserRepo struct {
	DB DBTX
}

const createUser = `-- name: CreateUser
INSERT INTO users (email, password, is_active, is_superuser, confirmed)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, email, password, is_active, is_superuser, confirmed, created, last_login
`

func (r *UserRepo) Create(ctx context.Context, params repository.CreateUserParams) (models.User, error) {
	rows, _ := r.DB.Query(ctx, createUser,
		params.Email, params.PasswordHash, params.IsActive, params.IsSuperuser, params.Confirmed)
	user, err := pgx.CollectOneRow(rows, rowToUser)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgerrcode.IsIntegrityConstraintViolation(pgErr.Code) {
			return user, apperrors.Wrap(apperrors.KindUserAlreadyExists, "user with this email already exists", err)
		}
		return user, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

const getUserByEmail = `-- name: GetUserByEmail
SELECT id, email, password, is_active, is_superuser, confirmed, created, last_login
FROM users
WHERE email = $1
`

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (models.User, error) {
	rows, _ := r.DB.Query(ctx, getUserByEmail, email)
	user, err := pgx.CollectOneRow(rows, rowToUser)

	switch {
	case err == nil:
		return user, nil
	case errors.Is(err, pgx.ErrNoRows):
		return user, apperrors.Newf(apperrors.KindRecordNotFound, "user with email=%s is not found", email)
	default:
		return user, fmt.Errorf("db error: %w", err)
	}
}

const getUserByID = `-- name: GetUserByID
SELECT id, email, password, is_active, is_superuser, confirmed, created, last_login
FROM users
WHERE id = $1
`

func (r *UserRepo) GetByID(ctx context.Context, id int64) (models.User, error) {
	rows, _ := r.DB.Query(ctx, getUserByID, id)
	user, err := pgx.CollectOneRow(rows, rowToUser)

	switch {
	case err == nil:
		return user, nil
	case errors.Is(err, pgx.ErrNoRows):
		return user, apperrors.Newf(apperrors.KindRecordNotFound, "user with id=%d is not found", id)
	default:
		return user, fmt.Errorf("db error: %w", err)
	}
}

const listUsers = `-- name: ListUsers
SELECT id, email, password, is_active, is_superuser, confirmed, created, last_login
FROM users
ORDER BY id
`

func (r *UserRepo) List(ctx context.Context) ([]models.User, error) {
	rows, _ := r.DB.Query(ctx, listUsers)
	users, err := pgx.CollectRows(rows, rowToUser)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return users, nil
}

const updateUser = `-- name: UpdateUser
UPDATE users
SET email = COALESCE($2, email),
    password = COALESCE($3, password),
    is_active = COALESCE($4, is_active),
    is_superuser = COALESCE($5, is_superuser),
    confirmed = COALESCE($6, confirmed)
WHERE id = $1
RETURNING id, email, password, is_active, is_superuser, confirmed, created, last_login
`

func (r *UserRepo) Update(ctx context.Context, id int64, params repository.UpdateUserParams) (models.User, error) {
	rows, _ := r.DB.Query(ctx, updateUser,
		id, params.Email, params.PasswordHash, params.IsActive, params.IsSuperuser, params.Confirmed)
	user, err := pgx.CollectOneRow(rows, rowToUser)

	switch {
	case err == nil:
		return user, nil
	case errors.Is(err, pgx.ErrNoRows):
		return user, apperrors.Newf(apperrors.KindRecordNotFound, "user with id=%d is not found", id)
	default:
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgerrcode.IsIntegrityConstraintViolation(pgErr.Code) {
			return user, apperrors.Wrap(apperrors.KindUserAlreadyExists, "user with this email already exists", err)
		}
		return user, fmt.Errorf("db error: %w", err)
	}
}

const deleteUser = `-- name: DeleteUser
DELETE FROM users
WHERE id = $1
`

func (r *UserRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.DB.Exec(ctx, deleteUser, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperrors.Newf(apperrors.KindRecordNotFound, "user with id=%d is not found", id)
	}

	return nil
}

func rowToUser(row pgx.CollectableRow) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.IsActive, &u.IsSuperuser, &u.Confirmed, &u.Created, &u.LastLogin)
	return u, err
}
