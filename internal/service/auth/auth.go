package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/avoronkov/authd/internal/apperrors"
	"github.com/avoronkov/authd/internal/models"
	"github.com/avoronkov/authd/internal/repository"
	"github.com/avoronkov/authd/internal/service/auth/tokenmanager"
	"github.com/avoronkov/authd/internal/tokencache"
)

// Auth service: glues the user store, the password hasher, the token
// manager and the refresh token liveness cache together
type AuthService struct {
	tokens *tokenmanager.TokenManager
	hasher PasswordHasher
	users  repository.UserRepo
	cache  tokencache.Cache
}

func NewService(tokens *tokenmanager.TokenManager, hasher PasswordHasher, users repository.UserRepo, cache tokencache.Cache) (*AuthService, error) {
	if tokens == nil || hasher == nil || users == nil || cache == nil {
		return nil, errors.New("token manager, hasher, user repo and cache must not be nil")
	}

	return &AuthService{
		tokens: tokens,
		hasher: hasher,
		users:  users,
		cache:  cache,
	}, nil
}

// Register creates an activated user with the hashed password.
// Duplicate email surfaces as UserAlreadyExists.
func (s *AuthService) Register(ctx context.Context, email string, password string) (models.User, error) {
	var user models.User

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return user, fmt.Errorf("can't use this as password, error=%w", err)
	}

	// Registration activates immediately, there is no confirmation step
	// enforced at login
	return s.users.Create(ctx, repository.CreateUserParams{
		Email:        email,
		PasswordHash: hash,
		IsActive:     true,
	})
}

// Login checks the credentials and issues a token pair. The refresh
// token liveness marker is written to the cache before returning: a pair
// whose refresh token is not cached is unusable for refresh.
//
// Unknown email and wrong password yield the same RecordNotFound to keep
// them indistinguishable.
func (s *AuthService) Login(ctx context.Context, email string, password string) (models.TokenPair, error) {
	var pair models.TokenPair

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return pair, err
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		return pair, apperrors.Newf(apperrors.KindRecordNotFound, "user with email=%s is not found", email)
	}

	if !user.IsActive {
		return pair, apperrors.Newf(apperrors.KindUserIsNotActivated, "user with email=%s is not activated", email)
	}

	pair, err = s.tokens.Issue(user)
	if err != nil {
		return pair, fmt.Errorf("token could not generated, sorry. %w", err)
	}

	err = s.cache.Set(ctx, pair.Refresh, tokencache.LivenessMarker, s.tokens.RefreshTTL())
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("error while saving refresh token liveness. Err: %w", err)
	}

	return pair, nil
}

// Refresh exchanges a live refresh token for a new pair.
//
// Cache presence is the only liveness proof and is checked before the
// signature. The old cache key is not evicted and the rotated refresh
// token is not registered in the cache: both match the wire behavior
// this service always had.
func (s *AuthService) Refresh(ctx context.Context, refresh string) (models.TokenPair, error) {
	var pair models.TokenPair

	_, found, err := s.cache.Get(ctx, refresh)
	if err != nil {
		return pair, fmt.Errorf("error while checking refresh token liveness. Err: %w", err)
	}
	if !found {
		return pair, apperrors.New(apperrors.KindRefreshTokenNotFound, "refresh token not found")
	}

	claims, err := s.tokens.Decode(refresh)
	if err != nil {
		return pair, err
	}

	return s.tokens.Rotate(claims)
}

// DecodeAccess verifies a bearer token, used by the authentication middleware
func (s *AuthService) DecodeAccess(tokenString string) (tokenmanager.Claims, error) {
	return s.tokens.Decode(tokenString)
}
