package repository

import (
	"context"

	"github.com/avoronkov/authd/internal/models"
)

type CreateUserParams struct {
	Email        string
	PasswordHash string
	IsActive     bool
	IsSuperuser  bool
	Confirmed    bool
}

// UpdateUserParams carries the mutable user fields. Nil means "keep the
// stored value", so the same call serves full and partial updates.
type UpdateUserParams struct {
	Email        *string
	PasswordHash *string
	IsActive     *bool
	IsSuperuser  *bool
	Confirmed    *bool
}

// User repository interface
type UserRepo interface {
	// Create user
	// If user with the email exists already has to return error with
	// kind apperrors.KindUserAlreadyExists
	Create(ctx context.Context, params CreateUserParams) (models.User, error)

	// Get user by email or id
	// If user not found must return error with kind apperrors.KindRecordNotFound
	GetByEmail(ctx context.Context, email string) (models.User, error)
	GetByID(ctx context.Context, id int64) (models.User, error)

	// List all users ordered by id
	List(ctx context.Context) ([]models.User, error)

	// Update user fields set in params
	// If user not found must return error with kind apperrors.KindRecordNotFound
	Update(ctx context.Context, id int64, params UpdateUserParams) (models.User, error)

	// Delete user by id
	// Deleting an absent id must return error with kind apperrors.KindRecordNotFound
	Delete(ctx context.Context, id int64) error
}
