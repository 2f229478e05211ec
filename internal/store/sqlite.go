package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/gaana/internal/models"
	"github.com/desertthunder/gaana/internal/shared"
)

// SQLiteStore implements [TokenStore] on the single-row sessions table.
//
// The table is created by [shared.RunMigrations].
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new [SQLiteStore] with the given database connection
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// OpenSQLiteStore opens the database at path, applies migrations and returns the store with its connection.
//
// The caller owns the returned [sql.DB] and must close it.
func OpenSQLiteStore(path string, maxOpen, maxIdle int) (*SQLiteStore, *sql.DB, error) {
	db, err := shared.NewDatabase(path)
	if err != nil {
		return nil, nil, err
	}
	shared.ConfigureDatabase(db, maxOpen, maxIdle)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return NewSQLiteStore(db), db, nil
}

// Save upserts the session row. Token and user columns are written by one statement.
func (s *SQLiteStore) Save(token string, user models.User) error {
	if err := checkSave(token); err != nil {
		return err
	}

	now := time.Now().UTC()
	query := `
		INSERT INTO sessions (id, token, user_id, email, name, role, created_at, updated_at)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			token = excluded.token,
			user_id = excluded.user_id,
			email = excluded.email,
			name = excluded.name,
			role = excluded.role,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at
	`

	_, err := s.db.Exec(query, token, string(user.ID), user.Email, user.Name, string(user.Role), now, now)
	if err != nil {
		return fmt.Errorf("%w: failed to save session: %v", shared.ErrSessionStore, err)
	}
	return nil
}

// Load reads the session row, returning an empty [Session] when none is stored.
func (s *SQLiteStore) Load() (Session, error) {
	query := `SELECT token, user_id, email, name, role FROM sessions WHERE id = 1`

	var (
		token  string
		userID string
		email  string
		name   string
		role   string
	)

	err := s.db.QueryRow(query).Scan(&token, &userID, &email, &name, &role)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, nil
	}
	if err != nil {
		return Session{}, fmt.Errorf("%w: failed to query session: %v", shared.ErrSessionStore, err)
	}

	if token == "" {
		return Session{}, nil
	}

	return newSession(token, models.User{
		ID:    models.ID(userID),
		Email: email,
		Name:  name,
		Role:  models.Role(role),
	}), nil
}

// Clear deletes the session row.
func (s *SQLiteStore) Clear() error {
	if _, err := s.db.Exec(`DELETE FROM sessions WHERE id = 1`); err != nil {
		return fmt.Errorf("%w: failed to clear session: %v", shared.ErrSessionStore, err)
	}
	return nil
}
