package session

import (
	"context"
	"errors"
	"strings"
	"time"
)

var ErrMissingIdentity = errors.New("missing session identity")

// Session is the signed-in club for one chat. It is handed to controllers
// and workflows explicitly and is only mutated by Load and Clear.
type Session struct {
	UserID   string    `json:"userId"`
	Image    string    `json:"image"`
	LoadedAt time.Time `json:"loadedAt"`
}

func (s *Session) Load(userID, image string, now time.Time) {
	s.UserID = strings.TrimSpace(userID)
	s.Image = image
	s.LoadedAt = now
}

func (s *Session) Clear() {
	*s = Session{}
}

func (s *Session) Active() bool {
	return s != nil && s.UserID != ""
}

// Identity returns the club id or ErrMissingIdentity.
func (s *Session) Identity() (string, error) {
	if !s.Active() {
		return "", ErrMissingIdentity
	}
	return s.UserID, nil
}

// Store persists sessions by Telegram user id across restarts.
type Store interface {
	Load(ctx context.Context, tgID int64) (Session, bool, error)
	Save(ctx context.Context, tgID int64, s Session) error
	Delete(ctx context.Context, tgID int64) error
}
