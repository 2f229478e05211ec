package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/gaana/internal/models"
	"github.com/desertthunder/gaana/internal/services"
	"github.com/desertthunder/gaana/internal/shared"
	"github.com/desertthunder/gaana/internal/store"
)

// LoginPath is the entry point operators are sent to when their session ends.
const LoginPath = "/login"

// DefaultLoginEndpoint is the API path that exchanges credentials for a token.
const DefaultLoginEndpoint = "/api/auth/login"

// Login failure messages shown to the operator.
const (
	MsgMissingCredentials = "Please fill in all details"
	MsgRejected           = "Invalid email or password"
	MsgConnectivity       = "Unable to reach the server. Please try again."
)

// State is the session state published to front-ends.
type State int

const (
	StateLoading State = iota
	StateUnauthenticated
	StateAuthenticatedUser
	StateAuthenticatedAdmin
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthenticatedUser:
		return "authenticated-user"
	case StateAuthenticatedAdmin:
		return "authenticated-admin"
	default:
		return "unknown"
	}
}

// Authenticated reports whether s is one of the authenticated states.
func (s State) Authenticated() bool {
	return s == StateAuthenticatedUser || s == StateAuthenticatedAdmin
}

// FailureKind classifies a failed login.
type FailureKind int

const (
	FailureNone FailureKind = iota
	FailureMissingCredentials
	FailureRejected
	FailureConnectivity
)

// LoginResult is the outcome of [Manager.Login].
type LoginResult struct {
	Success bool
	Kind    FailureKind
	Message string
	User    *models.User
	Err     error
}

// Navigator moves the active front-end to a route.
type Navigator interface {
	Navigate(path string)
}

// Options configures a [Manager].
type Options struct {
	LoginEndpoint string      // defaults to [DefaultLoginEndpoint]
	AdminRole     models.Role // defaults to [models.DefaultAdminRole]
	Navigator     Navigator   // optional
	Logger        *log.Logger // optional
}

type loginResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Manager owns the session lifecycle: login, logout, hydration and reaction to rejected tokens.
type Manager struct {
	api       *services.APIService
	tokens    store.TokenStore
	endpoint  string
	adminRole models.Role
	navigator Navigator
	logger    *log.Logger

	mu         sync.RWMutex
	hydrated   bool
	token      string
	user       *models.User
	generation uint64

	subMu  sync.Mutex
	subs   map[int]func(State)
	nextID int

	unlisten func()
}

// NewManager creates a [Manager] and registers it for session-invalid signals from api.
//
// The manager starts in [StateLoading]; call [Manager.Hydrate] before making guard decisions.
func NewManager(api *services.APIService, tokens store.TokenStore, opts Options) *Manager {
	if opts.LoginEndpoint == "" {
		opts.LoginEndpoint = DefaultLoginEndpoint
	}
	if opts.AdminRole == "" {
		opts.AdminRole = models.DefaultAdminRole
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	m := &Manager{
		api:       api,
		tokens:    tokens,
		endpoint:  opts.LoginEndpoint,
		adminRole: opts.AdminRole,
		navigator: opts.Navigator,
		logger:    opts.Logger,
		subs:      make(map[int]func(State)),
	}
	m.unlisten = api.OnSessionInvalid(m.handleSessionInvalid)
	return m
}

// SetNavigator replaces the navigator used after a rejected session.
func (m *Manager) SetNavigator(n Navigator) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.navigator = n
}

// Close detaches the manager from the API service.
func (m *Manager) Close() {
	if m.unlisten != nil {
		m.unlisten()
	}
}

// Hydrate loads the stored session and leaves [StateLoading].
//
// A store that cannot be read hydrates as unauthenticated and the error is returned.
func (m *Manager) Hydrate() error {
	session, err := m.tokens.Load()

	m.mu.Lock()
	m.hydrated = true
	if err == nil && !session.Empty() {
		m.token = session.Token
		m.user = session.User
	} else {
		m.token, m.user = "", nil
	}
	state := m.stateLocked()
	m.mu.Unlock()

	m.publish(state)
	if err != nil {
		return fmt.Errorf("failed to restore session: %w", err)
	}
	m.logger.Debug("session restored", "state", state)
	return nil
}

// Login exchanges credentials for a session.
//
// A blank email or an empty password is rejected before any network call.
func (m *Manager) Login(ctx context.Context, email, password string) LoginResult {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return LoginResult{
			Kind:    FailureMissingCredentials,
			Message: MsgMissingCredentials,
			Err:     shared.ErrMissingCredentials,
		}
	}

	m.mu.RLock()
	gen := m.generation
	m.mu.RUnlock()

	resp, err := m.api.PostJSON(ctx, m.endpoint, map[string]string{"email": email, "password": password})
	if err != nil {
		return m.loginFailure(err)
	}

	var payload loginResponse
	if err := resp.Decode(&payload); err != nil || payload.Token == "" {
		m.logger.Warn("login response missing token", "status", resp.StatusCode)
		return LoginResult{
			Kind:    FailureRejected,
			Message: MsgRejected,
			Err:     fmt.Errorf("%w: response carried no token", shared.ErrAuthFailed),
		}
	}

	user := models.User{Email: email}
	if payload.User != nil {
		user = *payload.User
	}

	m.mu.Lock()
	if m.generation != gen {
		m.mu.Unlock()
		m.logger.Debug("discarding login that completed after logout", "email", email)
		return LoginResult{
			Kind:    FailureRejected,
			Message: MsgRejected,
			Err:     fmt.Errorf("%w: session ended while signing in", shared.ErrAuthFailed),
		}
	}
	if err := m.tokens.Save(payload.Token, user); err != nil {
		m.mu.Unlock()
		return LoginResult{Kind: FailureRejected, Message: err.Error(), Err: err}
	}
	m.generation++
	m.hydrated = true
	m.token = payload.Token
	m.user = &user
	state := m.stateLocked()
	m.mu.Unlock()

	m.logger.Info("logged in", "email", user.Email, "role", user.Role)
	m.publish(state)

	u := user
	return LoginResult{Success: true, User: &u}
}

func (m *Manager) loginFailure(err error) LoginResult {
	var apiErr *services.APIError
	if errors.As(err, &apiErr) {
		msg := apiErr.Message
		if msg == "" {
			msg = MsgRejected
		}
		m.logger.Warn("login rejected", "status", apiErr.StatusCode)
		return LoginResult{
			Kind:    FailureRejected,
			Message: msg,
			Err:     fmt.Errorf("%w: %w", shared.ErrAuthFailed, err),
		}
	}

	m.logger.Error("login failed", "error", err)
	return LoginResult{Kind: FailureConnectivity, Message: MsgConnectivity, Err: err}
}

// Logout clears the stored session. It makes no remote call and is idempotent.
func (m *Manager) Logout() error {
	m.mu.Lock()
	err := m.tokens.Clear()
	m.generation++
	m.hydrated = true
	m.token, m.user = "", nil
	m.mu.Unlock()

	m.logger.Info("logged out")
	m.publish(StateUnauthenticated)
	return err
}

// handleSessionInvalid ends the session when the API rejects the token currently held.
func (m *Manager) handleSessionInvalid(signal services.SessionInvalid) {
	if signal.Token == "" {
		return
	}

	m.mu.Lock()
	if signal.Token != m.token {
		m.mu.Unlock()
		m.logger.Debug("ignoring rejection of a stale token", "path", signal.Path)
		return
	}
	if err := m.tokens.Clear(); err != nil {
		m.logger.Error("failed to clear rejected session", "error", err)
	}
	m.generation++
	m.token, m.user = "", nil
	nav := m.navigator
	m.mu.Unlock()

	m.logger.Warn("session rejected by API", "method", signal.Method, "path", signal.Path)
	m.publish(StateUnauthenticated)
	if nav != nil {
		nav.Navigate(LoginPath)
	}
}

// State returns the current session state.
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.stateLocked()
}

func (m *Manager) stateLocked() State {
	switch {
	case !m.hydrated:
		return StateLoading
	case m.token == "" || m.user == nil:
		return StateUnauthenticated
	case m.user.HasRole(m.adminRole):
		return StateAuthenticatedAdmin
	default:
		return StateAuthenticatedUser
	}
}

// IsAuthenticated reports whether a session token is held.
func (m *Manager) IsAuthenticated() bool {
	return m.State().Authenticated()
}

// IsAdmin reports whether the held session belongs to an admin.
func (m *Manager) IsAdmin() bool {
	return m.State() == StateAuthenticatedAdmin
}

// User returns a copy of the cached profile, or nil when unauthenticated.
func (m *Manager) User() *models.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.user == nil {
		return nil
	}
	u := *m.user
	return &u
}

// Subscribe registers fn for state changes. The returned function unsubscribes.
func (m *Manager) Subscribe(fn func(State)) func() {
	m.subMu.Lock()
	defer m.subMu.Unlock()

	id := m.nextID
	m.nextID++
	m.subs[id] = fn

	return func() {
		m.subMu.Lock()
		defer m.subMu.Unlock()
		delete(m.subs, id)
	}
}

func (m *Manager) publish(s State) {
	m.subMu.Lock()
	subs := make([]func(State), 0, len(m.subs))
	for _, fn := range m.subs {
		subs = append(subs, fn)
	}
	m.subMu.Unlock()

	for _, fn := range subs {
		fn(s)
	}
}

// MarshalJSON reports the session for `auth status --json`.
func (m *Manager) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		State string       `json:"state"`
		User  *models.User `json:"user,omitempty"`
	}{m.State().String(), m.User()})
}
