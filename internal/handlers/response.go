package handlers

import (
	"time"

	"github.com/avoronkov/authd/internal/models"
)

// userResponse is the public projection of a user record. The password
// hash is allowlisted out here: there is no field for it to leak into.
type userResponse struct {
	ID          int64      `json:"id"`
	Email       string     `json:"email"`
	IsActive    bool       `json:"is_active"`
	IsSuperuser bool       `json:"is_superuser"`
	Confirmed   bool       `json:"confirmed"`
	Created     time.Time  `json:"created"`
	LastLogin   *time.Time `json:"last_login"`
}

func toUserResponse(u models.User) userResponse {
	return userResponse{
		ID:          u.ID,
		Email:       u.Email,
		IsActive:    u.IsActive,
		IsSuperuser: u.IsSuperuser,
		Confirmed:   u.Confirmed,
		Created:     u.Created,
		LastLogin:   u.LastLogin,
	}
}

func toUserResponses(users []models.User) []userResponse {
	responses := make([]userResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, toUserResponse(u))
	}
	return responses
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func toTokenResponse(pair models.TokenPair) tokenResponse {
	return tokenResponse{
		AccessToken:  pair.Access,
		RefreshToken: pair.Refresh,
	}
}
