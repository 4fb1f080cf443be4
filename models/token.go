package models

import (
	"fmt"
	"strconv"

	"github.com/golang-jwt/jwt/v5"
)

// Token is a parsed bearer token. The sync server only validates tokens
// issued elsewhere, so SignedString is populated by test helpers and the
// client CLI when it builds a request.
type Token struct {
	*jwt.Token `json:"-"`
	jwt.RegisteredClaims

	SignedString string `json:"-"`

	// UserID is the "sub" claim parsed as int64.
	UserID int64 `json:"-"`
}

// GetUserID parses the subject claim as the owner id.
func (t *Token) GetUserID() (int64, error) {
	sub, err := t.GetSubject()
	if err != nil {
		return 0, fmt.Errorf("error extracting subject from token: %w", err)
	}

	userID, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("error converting subject %q to user id: %w", sub, err)
	}

	return userID, nil
}

func (t *Token) String() string {
	return t.SignedString
}
