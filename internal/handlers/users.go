package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/avoronkov/authd/internal/apperrors"
	"github.com/avoronkov/authd/internal/handlers/render"
	"github.com/avoronkov/authd/internal/models"
	"github.com/avoronkov/authd/internal/service/user"
)

type userService interface {
	List(ctx context.Context) ([]models.User, error)

	// Create user on behalf of an admin
	// Integrity violations: kind apperrors.KindBadRequest
	Create(ctx context.Context, params user.CreateParams) (models.User, error)

	// Get, Update, Delete by id
	// Absent id: kind apperrors.KindRecordNotFound
	Get(ctx context.Context, id int64) (models.User, error)
	Update(ctx context.Context, id int64, params user.UpdateParams) (models.User, error)
	Delete(ctx context.Context, id int64) error
}

func handleListUsers(users userService) apiFunc {
	return func(w http.ResponseWriter, r *http.Request) error {
		list, err := users.List(r.Context())
		if err != nil {
			return err
		}

		render.JSON(w, toUserResponses(list))
		return nil
	}
}

func handleCreateUser(users userService) apiFunc {
	type createRequest struct {
		Email       string `json:"email" validate:"required,email"`
		Password    string `json:"password" validate:"required,max=100"`
		IsActive    bool   `json:"is_active"`
		IsSuperuser bool   `json:"is_superuser"`
		Confirmed   bool   `json:"confirmed"`
	}

	return func(w http.ResponseWriter, r *http.Request) error {
		data, err := render.BindAndValidate[createRequest](r)
		if err != nil {
			return err
		}

		created, err := users.Create(r.Context(), user.CreateParams{
			Email:       data.Email,
			Password:    data.Password,
			IsActive:    data.IsActive,
			IsSuperuser: data.IsSuperuser,
			Confirmed:   data.Confirmed,
		})
		if err != nil {
			return err
		}

		render.JSONStatus(w, toUserResponse(created), http.StatusCreated)
		return nil
	}
}

func handleGetUser(users userService) apiFunc {
	return func(w http.ResponseWriter, r *http.Request) error {
		id, err := userID(r)
		if err != nil {
			return err
		}

		found, err := users.Get(r.Context(), id)
		if err != nil {
			return err
		}

		render.JSON(w, toUserResponse(found))
		return nil
	}
}

// handleReplaceUser serves PUT: the whole mutable field set is required
func handleReplaceUser(users userService) apiFunc {
	type replaceRequest struct {
		Email       *string `json:"email" validate:"required,email"`
		Password    *string `json:"password" validate:"required,max=100"`
		IsActive    *bool   `json:"is_active" validate:"required"`
		IsSuperuser *bool   `json:"is_superuser" validate:"required"`
		Confirmed   *bool   `json:"confirmed" validate:"required"`
	}

	return func(w http.ResponseWriter, r *http.Request) error {
		id, err := userID(r)
		if err != nil {
			return err
		}

		data, err := render.BindAndValidate[replaceRequest](r)
		if err != nil {
			return err
		}

		updated, err := users.Update(r.Context(), id, user.UpdateParams{
			Email:       data.Email,
			Password:    data.Password,
			IsActive:    data.IsActive,
			IsSuperuser: data.IsSuperuser,
			Confirmed:   data.Confirmed,
		})
		if err != nil {
			return err
		}

		render.JSON(w, toUserResponse(updated))
		return nil
	}
}

// handlePatchUser serves PATCH: any subset of the mutable fields
func handlePatchUser(users userService) apiFunc {
	type patchRequest struct {
		Email       *string `json:"email" validate:"omitempty,email"`
		Password    *string `json:"password" validate:"omitempty,max=100"`
		IsActive    *bool   `json:"is_active"`
		IsSuperuser *bool   `json:"is_superuser"`
		Confirmed   *bool   `json:"confirmed"`
	}

	return func(w http.ResponseWriter, r *http.Request) error {
		id, err := userID(r)
		if err != nil {
			return err
		}

		data, err := render.BindAndValidate[patchRequest](r)
		if err != nil {
			return err
		}

		updated, err := users.Update(r.Context(), id, user.UpdateParams{
			Email:       data.Email,
			Password:    data.Password,
			IsActive:    data.IsActive,
			IsSuperuser: data.IsSuperuser,
			Confirmed:   data.Confirmed,
		})
		if err != nil {
			return err
		}

		render.JSON(w, toUserResponse(updated))
		return nil
	}
}

func handleDeleteUser(users userService) apiFunc {
	return func(w http.ResponseWriter, r *http.Request) error {
		id, err := userID(r)
		if err != nil {
			return err
		}

		if err := users.Delete(r.Context(), id); err != nil {
			return err
		}

		render.JSON(w, struct{}{})
		return nil
	}
}

func userID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		return 0, apperrors.Newf(apperrors.KindBadRequest, "invalid user id: %q", r.PathValue("id"))
	}
	return id, nil
}
