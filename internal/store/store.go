// Package store persists the operator session: the bearer token and the cached [models.User] issued with it.
//
// Every backend implements [TokenStore] and keeps the pair consistent: a token is never
// observable without its user, or the reverse. [Save] writes both in a single operation,
// [Load] reports a partial or unreadable record as absent, and [Clear] is idempotent.
//
// Backends:
//   - [SQLiteStore] : single-row table in the local database, durable across restarts
//   - [KeyringStore] : OS credential manager, one JSON entry per session
//   - [MemoryStore] : process lifetime only, used in tests
package store

import (
	"fmt"
	"strings"

	"github.com/desertthunder/gaana/internal/models"
	"github.com/desertthunder/gaana/internal/shared"
)

// TokenStore is durable storage for the session token and cached user.
type TokenStore interface {
	Save(token string, user models.User) error // Save writes token and user together
	Load() (Session, error)                    // Load returns the stored pair, or an empty Session
	Clear() error                              // Clear removes both; clearing an empty store is not an error
}

// Session is a stored (token, user) pair. The zero value means no session.
type Session struct {
	Token string
	User  *models.User
}

// Empty reports whether no session is stored.
func (s Session) Empty() bool {
	return s.Token == "" || s.User == nil
}

func checkSave(token string) error {
	if strings.TrimSpace(token) == "" {
		return fmt.Errorf("%w: empty session token", shared.ErrInvalidInput)
	}
	return nil
}

func newSession(token string, user models.User) Session {
	u := user
	return Session{Token: token, User: &u}
}
