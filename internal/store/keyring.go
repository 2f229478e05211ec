package store

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/desertthunder/gaana/internal/models"
	"github.com/desertthunder/gaana/internal/shared"
	"github.com/zalando/go-keyring"
)

const (
	keyringService = "gaana"
	keyringUser    = "session"
)

type keyringEntry struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// KeyringStore implements [TokenStore] on the OS keychain/credential manager.
//
// The pair is encoded as one JSON secret so both halves are written by a single call.
type KeyringStore struct {
	service string
	user    string
}

// NewKeyringStore creates a [KeyringStore]; an empty service defaults to "gaana".
func NewKeyringStore(service string) *KeyringStore {
	if service == "" {
		service = keyringService
	}
	return &KeyringStore{service: service, user: keyringUser}
}

func (k *KeyringStore) Save(token string, user models.User) error {
	if err := checkSave(token); err != nil {
		return err
	}

	data, err := json.Marshal(keyringEntry{Token: token, User: &user})
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	if err := keyring.Set(k.service, k.user, string(data)); err != nil {
		return fmt.Errorf("%w: failed to save session: %v", shared.ErrSessionStore, err)
	}
	return nil
}

// Load returns the stored session. An entry that cannot be decoded, or lacks either half, is treated as absent.
func (k *KeyringStore) Load() (Session, error) {
	secret, err := keyring.Get(k.service, k.user)
	if errors.Is(err, keyring.ErrNotFound) {
		return Session{}, nil
	}
	if err != nil {
		return Session{}, fmt.Errorf("%w: failed to load session: %v", shared.ErrSessionStore, err)
	}

	var entry keyringEntry
	if err := json.Unmarshal([]byte(secret), &entry); err != nil {
		return Session{}, nil
	}

	if entry.Token == "" || entry.User == nil {
		return Session{}, nil
	}
	return newSession(entry.Token, *entry.User), nil
}

func (k *KeyringStore) Clear() error {
	err := keyring.Delete(k.service, k.user)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("%w: failed to clear session: %v", shared.ErrSessionStore, err)
	}
	return nil
}
