package handlers

import (
	"context"
	"net/http"

	"github.com/avoronkov/authd/internal/apperrors"
	"github.com/avoronkov/authd/internal/handlers/render"
	"github.com/avoronkov/authd/internal/models"
)

type authService interface {
	// Register user with email and password
	// Has to return kind apperrors.KindUserAlreadyExists if email is taken
	Register(ctx context.Context, email string, password string) (models.User, error)

	// Login user with email and password
	// Unknown email, wrong password: kind apperrors.KindRecordNotFound
	// Inactive user: kind apperrors.KindUserIsNotActivated
	Login(ctx context.Context, email string, password string) (models.TokenPair, error)

	// Refresh tokens using refresh token
	// Token missing in cache: kind apperrors.KindRefreshTokenNotFound
	// Bad or expired token: kind apperrors.KindTokenInvalid or KindTokenExpired
	Refresh(ctx context.Context, refresh string) (models.TokenPair, error)
}

func handleRegister(auth authService) apiFunc {
	type registerRequest struct {
		Email     string `json:"email" validate:"required,email"`
		Password  string `json:"password" validate:"required,max=100"`
		Password2 string `json:"password2" validate:"required,max=100"`
	}

	return func(w http.ResponseWriter, r *http.Request) error {
		data, err := render.BindAndValidate[registerRequest](r)
		if err != nil {
			return err
		}

		if data.Password != data.Password2 {
			return apperrors.New(apperrors.KindPasswordsDontMatch, "fields password and password2 don't match")
		}

		user, err := auth.Register(r.Context(), data.Email, data.Password)
		if err != nil {
			return err
		}

		render.JSON(w, toUserResponse(user))
		return nil
	}
}

func handleLogin(auth authService) apiFunc {
	type loginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,max=100"`
	}

	return func(w http.ResponseWriter, r *http.Request) error {
		data, err := render.BindAndValidate[loginRequest](r)
		if err != nil {
			return err
		}

		pair, err := auth.Login(r.Context(), data.Email, data.Password)
		if err != nil {
			return err
		}

		render.JSON(w, toTokenResponse(pair))
		return nil
	}
}

func handleRefresh(auth authService) apiFunc {
	type refreshRequest struct {
		RefreshToken string `json:"refresh_token" validate:"required"`
	}

	return func(w http.ResponseWriter, r *http.Request) error {
		data, err := render.BindAndValidate[refreshRequest](r)
		if err != nil {
			return err
		}

		pair, err := auth.Refresh(r.Context(), data.RefreshToken)
		if err != nil {
			return err
		}

		render.JSON(w, toTokenResponse(pair))
		return nil
	}
}
