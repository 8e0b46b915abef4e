// Package domain contains entities without logic, just meta-data.
package domain

import (
	"errors"

	"github.com/google/uuid"
)

const MaxNicknameLen = 36

var (
	ErrNicknameTooLong = errors.New("nickname too long")
	ErrNicknameEmpty   = errors.New("nickname empty")
)

type UserID string

type User struct {
	ID       UserID `json:"id"`
	Nickname string `json:"nickname"`
	Email    string `json:"email,omitempty"`
}

// NewUser is a tiny helper to avoid ad-hoc struct literals in adapters.
func NewUser(nickname string) (*User, error) {
	if len(nickname) == 0 {
		return nil, ErrNicknameEmpty
	}
	if len(nickname) > MaxNicknameLen {
		return nil, ErrNicknameTooLong
	}
	return &User{ID: UserID(uuid.NewString()), Nickname: nickname}, nil
}

// MentionToken is the text a message must contain for "mentions only"
// notification filtering to fire for this user.
func (u *User) MentionToken() string {
	return "@" + u.Nickname
}
