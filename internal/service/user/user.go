package user

import (
	"context"
	"fmt"

	"github.com/avoronkov/authd/internal/apperrors"
	"github.com/avoronkov/authd/internal/models"
	"github.com/avoronkov/authd/internal/repository"
	"github.com/avoronkov/authd/internal/service/auth"
)

type CreateParams struct {
	Email       string
	Password    string
	IsActive    bool
	IsSuperuser bool
	Confirmed   bool
}

// UpdateParams: nil fields keep the stored values, so one type serves
// both full and partial updates
type UpdateParams struct {
	Email       *string
	Password    *string
	IsActive    *bool
	IsSuperuser *bool
	Confirmed   *bool
}

// Admin facing user management service
type UserService struct {
	hasher auth.PasswordHasher
	users  repository.UserRepo
}

func NewService(hasher auth.PasswordHasher, users repository.UserRepo) *UserService {
	return &UserService{
		hasher: hasher,
		users:  users,
	}
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.users.List(ctx)
}

// Create a user on behalf of an admin. Unlike registration, integrity
// violations here surface as a generic BadRequest: the admin path
// reports them without the dedicated UserAlreadyExists kind.
func (s *UserService) Create(ctx context.Context, params CreateParams) (models.User, error) {
	var user models.User

	hash, err := s.hasher.Hash(params.Password)
	if err != nil {
		return user, fmt.Errorf("can't use this as password, error=%w", err)
	}

	user, err = s.users.Create(ctx, repository.CreateUserParams{
		Email:        params.Email,
		PasswordHash: hash,
		IsActive:     params.IsActive,
		IsSuperuser:  params.IsSuperuser,
		Confirmed:    params.Confirmed,
	})
	if err != nil {
		if apperrors.IsKind(err, apperrors.KindUserAlreadyExists) {
			return user, apperrors.Wrap(apperrors.KindBadRequest, "duplicate key value violates unique constraint", err)
		}
		return user, err
	}

	return user, nil
}

func (s *UserService) Get(ctx context.Context, id int64) (models.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *UserService) Update(ctx context.Context, id int64, params UpdateParams) (models.User, error) {
	var user models.User

	repoParams := repository.UpdateUserParams{
		Email:       params.Email,
		IsActive:    params.IsActive,
		IsSuperuser: params.IsSuperuser,
		Confirmed:   params.Confirmed,
	}

	if params.Password != nil {
		hash, err := s.hasher.Hash(*params.Password)
		if err != nil {
			return user, fmt.Errorf("can't use this as password, error=%w", err)
		}
		repoParams.PasswordHash = &hash
	}

	user, err := s.users.Update(ctx, id, repoParams)
	if err != nil {
		if apperrors.IsKind(err, apperrors.KindUserAlreadyExists) {
			return user, apperrors.Wrap(apperrors.KindBadRequest, "duplicate key value violates unique constraint", err)
		}
		return user, err
	}

	return user, nil
}

func (s *UserService) Delete(ctx context.Context, id int64) error {
	return s.users.Delete(ctx, id)
}
