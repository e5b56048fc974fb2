package domain

import (
	"errors"
	"time"
)

// ErrOwnerNotFound indicates that the owner is not found.
var ErrOwnerNotFound = errors.New("owner not found")

// Owner holds the identity that owns accounts.
type Owner struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	FirstName string    `json:"first_name"`
	CreatedAt time.Time `json:"created_at"`
}
