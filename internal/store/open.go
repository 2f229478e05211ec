package store

import (
	"fmt"

	"github.com/desertthunder/gaana/internal/shared"
)

// Open builds the [TokenStore] selected by cfg.Session.Backend.
//
// The returned close function releases any underlying resources and is never nil.
func Open(cfg *shared.Config) (TokenStore, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Session.Backend {
	case shared.BackendSQLite, "":
		s, db, err := OpenSQLiteStore(cfg.Database.Path, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns)
		if err != nil {
			return nil, noop, fmt.Errorf("%w: %v", shared.ErrSessionStore, err)
		}
		return s, db.Close, nil
	case shared.BackendKeyring:
		return NewKeyringStore(""), noop, nil
	case shared.BackendMemory:
		return NewMemoryStore(), noop, nil
	default:
		return nil, noop, fmt.Errorf("%w: unknown session backend %q", shared.ErrInvalidConfig, cfg.Session.Backend)
	}
}
