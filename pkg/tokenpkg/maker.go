// Package tokenpkg provides creation and verification of access tokens.
package tokenpkg

import "time"

// Maker is an interface for managing tokens.
type Maker interface {
	// CreateToken creates a new token for a specific owner and duration.
	CreateToken(ownerID int64, username string, duration time.Duration) (string, *Payload, error)
	// VerifyToken checks if the token is valid or not.
	VerifyToken(token string) (*Payload, error)
}

// NewMaker returns the Maker of the given type, "paseto" or "jwt".
func NewMaker(tokenType, symmetricKey string) (Maker, error) {
	if tokenType == "jwt" {
		return NewJWTMaker(symmetricKey)
	}

	return NewPasetoMaker(symmetricKey)
}
