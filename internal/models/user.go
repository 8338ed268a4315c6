package models

import (
	"time"
)

// User is the identity record stored in the user table.
// PasswordHash must never leave the service: response projections are
// built explicitly by the handlers layer.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	IsActive     bool
	IsSuperuser  bool
	Confirmed    bool
	Created      time.Time

	// LastLogin is kept nullable and is not written by any handler
	LastLogin *time.Time
}
