package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/desertthunder/gaana/internal/models"
	"github.com/desertthunder/gaana/internal/services"
	"github.com/desertthunder/gaana/internal/shared"
	"github.com/desertthunder/gaana/internal/store"
	tu "github.com/desertthunder/gaana/internal/testing"
)

const (
	adminEmail = "admin@gaana.tree"
	userEmail  = "listener@gaana.tree"
	password   = "hunter2"
)

type fixture struct {
	manager   *Manager
	tokens    *store.MemoryStore
	api       *services.APIService
	navigator *tu.RecordingNavigator
	requests  *atomic.Int32
}

// setupManager starts a fake catalog API with a login endpoint and a songs endpoint.
//
// onLogin, when set, runs inside the login handler before the response is written.
func setupManager(t *testing.T, onLogin func(*Manager)) *fixture {
	t.Helper()

	f := &fixture{
		tokens:    store.NewMemoryStore(),
		navigator: &tu.RecordingNavigator{},
		requests:  &atomic.Int32{},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		f.requests.Add(1)

		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)

		if onLogin != nil {
			onLogin(f.manager)
		}

		w.Header().Set("Content-Type", "application/json")
		switch {
		case body["email"] == adminEmail && body["password"] == password:
			json.NewEncoder(w).Encode(map[string]any{
				"token": "tok-admin",
				"user":  map[string]any{"id": 1, "email": adminEmail, "name": "Asha", "role": "ADMIN"},
			})
		case body["email"] == userEmail && body["password"] == password:
			json.NewEncoder(w).Encode(map[string]any{
				"token": "tok-user",
				"user":  map[string]any{"id": 2, "email": userEmail, "role": "USER"},
			})
		case body["email"] == "quiet@gaana.tree":
			w.WriteHeader(http.StatusUnauthorized)
		default:
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"message":"Bad credentials"}`))
		}
	})
	mux.HandleFunc("GET /api/songs", func(w http.ResponseWriter, r *http.Request) {
		f.requests.Add(1)
		if r.Header.Get("Authorization") != "Bearer tok-admin" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`{"songs":[]}`))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	f.api = services.NewAPIService(server.URL, services.NewClient(f.tokens, 0, 0))
	f.manager = NewManager(f.api, f.tokens, Options{Navigator: f.navigator})
	t.Cleanup(f.manager.Close)
	return f
}

func TestManager(t *testing.T) {
	t.Run("Hydrate", func(t *testing.T) {
		t.Run("Starts Loading", func(t *testing.T) {
			f := setupManager(t, nil)
			if f.manager.State() != StateLoading {
				t.Errorf("expected loading, got %s", f.manager.State())
			}
			if f.manager.IsAuthenticated() {
				t.Error("loading must not count as authenticated")
			}
		})

		t.Run("Empty Store", func(t *testing.T) {
			f := setupManager(t, nil)
			if err := f.manager.Hydrate(); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if f.manager.State() != StateUnauthenticated {
				t.Errorf("expected unauthenticated, got %s", f.manager.State())
			}
		})

		t.Run("Stored Admin", func(t *testing.T) {
			f := setupManager(t, nil)
			f.tokens.Save("tok-admin", models.User{Email: adminEmail, Role: "ADMIN"})

			f.manager.Hydrate()
			if !f.manager.IsAdmin() {
				t.Errorf("expected admin, got %s", f.manager.State())
			}
			if u := f.manager.User(); u == nil || u.Email != adminEmail {
				t.Errorf("expected cached user, got %+v", u)
			}
		})

		t.Run("Role Compared Exactly", func(t *testing.T) {
			f := setupManager(t, nil)
			f.tokens.Save("tok", models.User{Email: adminEmail, Role: "admin"})

			f.manager.Hydrate()
			if f.manager.State() != StateAuthenticatedUser {
				t.Errorf("expected authenticated-user, got %s", f.manager.State())
			}
		})
	})

	t.Run("Login", func(t *testing.T) {
		t.Run("Blank Credentials Make No Request", func(t *testing.T) {
			f := setupManager(t, nil)
			f.manager.Hydrate()

			for _, creds := range [][2]string{{"", password}, {adminEmail, ""}, {"  ", "  "}} {
				res := f.manager.Login(context.Background(), creds[0], creds[1])
				if res.Success || res.Kind != FailureMissingCredentials {
					t.Errorf("expected missing credentials for %q, got %+v", creds, res)
				}
				if res.Message != MsgMissingCredentials {
					t.Errorf("unexpected message %q", res.Message)
				}
				if !errors.Is(res.Err, shared.ErrMissingCredentials) {
					t.Errorf("expected ErrMissingCredentials, got %v", res.Err)
				}
			}
			if n := f.requests.Load(); n != 0 {
				t.Errorf("expected no requests, got %d", n)
			}
		})

		t.Run("Admin Success", func(t *testing.T) {
			f := setupManager(t, nil)
			f.manager.Hydrate()

			var states []State
			f.manager.Subscribe(func(s State) { states = append(states, s) })

			res := f.manager.Login(context.Background(), adminEmail, password)
			if !res.Success {
				t.Fatalf("expected success, got %+v", res)
			}
			if res.User == nil || res.User.Name != "Asha" || res.User.ID != "1" {
				t.Errorf("unexpected user %+v", res.User)
			}
			if !f.manager.IsAuthenticated() || !f.manager.IsAdmin() {
				t.Errorf("expected admin session, got %s", f.manager.State())
			}

			session, _ := f.tokens.Load()
			if session.Token != "tok-admin" || session.User.Email != adminEmail {
				t.Errorf("expected pair persisted, got %+v", session)
			}
			if len(states) != 1 || states[0] != StateAuthenticatedAdmin {
				t.Errorf("expected published admin state, got %v", states)
			}
		})

		t.Run("Non-Admin Success", func(t *testing.T) {
			f := setupManager(t, nil)
			f.manager.Hydrate()

			res := f.manager.Login(context.Background(), userEmail, password)
			if !res.Success {
				t.Fatalf("expected success, got %+v", res)
			}
			if f.manager.State() != StateAuthenticatedUser || f.manager.IsAdmin() {
				t.Errorf("expected authenticated-user, got %s", f.manager.State())
			}
		})

		t.Run("Rejected With Server Message", func(t *testing.T) {
			f := setupManager(t, nil)
			f.manager.Hydrate()

			res := f.manager.Login(context.Background(), adminEmail, "wrong")
			if res.Success || res.Kind != FailureRejected {
				t.Fatalf("expected rejection, got %+v", res)
			}
			if res.Message != "Bad credentials" {
				t.Errorf("expected server message, got %q", res.Message)
			}
			if !errors.Is(res.Err, shared.ErrAuthFailed) {
				t.Errorf("expected ErrAuthFailed, got %v", res.Err)
			}
			if f.manager.IsAuthenticated() {
				t.Error("rejected login must not authenticate")
			}
		})

		t.Run("Whitespace Password Is Sent", func(t *testing.T) {
			f := setupManager(t, nil)
			f.manager.Hydrate()

			res := f.manager.Login(context.Background(), adminEmail, "   ")
			if res.Kind != FailureRejected {
				t.Errorf("expected server rejection, got %+v", res)
			}
			if n := f.requests.Load(); n != 1 {
				t.Errorf("expected one login request, got %d", n)
			}
		})

		t.Run("Rejected Without Message", func(t *testing.T) {
			f := setupManager(t, nil)
			f.manager.Hydrate()

			res := f.manager.Login(context.Background(), "quiet@gaana.tree", password)
			if res.Message != MsgRejected {
				t.Errorf("expected generic message, got %q", res.Message)
			}
			if len(f.navigator.Paths()) != 0 {
				t.Error("unauthenticated 401 must not request navigation")
			}
		})

		t.Run("Connectivity Failure", func(t *testing.T) {
			tokens := store.NewMemoryStore()
			client := &http.Client{Transport: tu.NewMockRoundTripper(nil, errors.New("connection refused"))}
			m := NewManager(services.NewAPIService("http://example.com", client), tokens, Options{})
			m.Hydrate()

			res := m.Login(context.Background(), adminEmail, password)
			if res.Kind != FailureConnectivity || res.Message != MsgConnectivity {
				t.Errorf("expected connectivity failure, got %+v", res)
			}
			if !errors.Is(res.Err, shared.ErrServiceUnavailable) {
				t.Errorf("expected ErrServiceUnavailable, got %v", res.Err)
			}
		})

		t.Run("Completed After Logout Is Discarded", func(t *testing.T) {
			f := setupManager(t, func(m *Manager) { m.Logout() })
			f.manager.Hydrate()

			res := f.manager.Login(context.Background(), adminEmail, password)
			if res.Success {
				t.Error("login overtaken by logout must not succeed")
			}
			if f.manager.IsAuthenticated() {
				t.Error("session must stay cleared")
			}
			if session, _ := f.tokens.Load(); !session.Empty() {
				t.Errorf("expected empty store, got %+v", session)
			}
		})
	})

	t.Run("Logout", func(t *testing.T) {
		t.Run("Clears Session", func(t *testing.T) {
			f := setupManager(t, nil)
			f.manager.Hydrate()
			f.manager.Login(context.Background(), adminEmail, password)

			if err := f.manager.Logout(); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if f.manager.IsAuthenticated() || f.manager.User() != nil {
				t.Error("expected no session after logout")
			}
			if session, _ := f.tokens.Load(); !session.Empty() {
				t.Errorf("expected empty store, got %+v", session)
			}
		})

		t.Run("Idempotent", func(t *testing.T) {
			f := setupManager(t, nil)
			f.manager.Hydrate()

			if err := f.manager.Logout(); err != nil {
				t.Fatalf("first logout failed: %v", err)
			}
			if err := f.manager.Logout(); err != nil {
				t.Fatalf("second logout failed: %v", err)
			}
		})

		t.Run("Login Logout Sequences", func(t *testing.T) {
			f := setupManager(t, nil)
			f.manager.Hydrate()
			ctx := context.Background()

			steps := []struct {
				name string
				run  func()
				want bool
			}{
				{"login", func() { f.manager.Login(ctx, adminEmail, password) }, true},
				{"login again", func() { f.manager.Login(ctx, userEmail, password) }, true},
				{"logout", func() { f.manager.Logout() }, false},
				{"failed login", func() { f.manager.Login(ctx, adminEmail, "nope") }, false},
				{"login", func() { f.manager.Login(ctx, adminEmail, password) }, true},
				{"logout", func() { f.manager.Logout() }, false},
			}
			for _, step := range steps {
				step.run()
				if got := f.manager.IsAuthenticated(); got != step.want {
					t.Errorf("after %s: expected authenticated=%v, got %v", step.name, step.want, got)
				}
			}
		})
	})

	t.Run("Session Invalid", func(t *testing.T) {
		t.Run("Stored Token Rejected", func(t *testing.T) {
			f := setupManager(t, nil)
			f.tokens.Save("tok-expired", models.User{Email: adminEmail, Role: "ADMIN"})
			f.manager.Hydrate()

			var states []State
			f.manager.Subscribe(func(s State) { states = append(states, s) })

			_, err := services.NewSongsClient(f.api).List(context.Background())
			if !errors.Is(err, shared.ErrSessionInvalid) {
				t.Fatalf("expected ErrSessionInvalid, got %v", err)
			}

			if session, _ := f.tokens.Load(); !session.Empty() {
				t.Errorf("expected empty store, got %+v", session)
			}
			if f.manager.State() != StateUnauthenticated {
				t.Errorf("expected unauthenticated, got %s", f.manager.State())
			}
			if paths := f.navigator.Paths(); len(paths) != 1 || paths[0] != LoginPath {
				t.Errorf("expected navigation to %s, got %v", LoginPath, paths)
			}
			if len(states) != 1 || states[0] != StateUnauthenticated {
				t.Errorf("expected unauthenticated published, got %v", states)
			}
		})

		t.Run("Stale Token Ignored", func(t *testing.T) {
			f := setupManager(t, nil)
			f.manager.Hydrate()
			f.manager.Login(context.Background(), adminEmail, password)

			f.manager.handleSessionInvalid(services.SessionInvalid{Token: "tok-previous", Path: "/api/songs"})

			if !f.manager.IsAdmin() {
				t.Error("rejection of a previous token must not end the current session")
			}
			if len(f.navigator.Paths()) != 0 {
				t.Error("no navigation expected for a stale token")
			}
		})

		t.Run("Unauthenticated Request Ignored", func(t *testing.T) {
			f := setupManager(t, nil)
			f.manager.Hydrate()

			f.manager.handleSessionInvalid(services.SessionInvalid{Path: "/api/songs"})
			if len(f.navigator.Paths()) != 0 {
				t.Error("no navigation expected without a token")
			}
		})

		t.Run("Valid Session Keeps Working", func(t *testing.T) {
			f := setupManager(t, nil)
			f.manager.Hydrate()
			f.manager.Login(context.Background(), adminEmail, password)

			if _, err := services.NewSongsClient(f.api).List(context.Background()); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !f.manager.IsAdmin() {
				t.Error("expected session to remain")
			}
		})
	})

	t.Run("Subscribe", func(t *testing.T) {
		f := setupManager(t, nil)

		calls := 0
		unsubscribe := f.manager.Subscribe(func(State) { calls++ })
		f.manager.Hydrate()
		unsubscribe()
		f.manager.Logout()

		if calls != 1 {
			t.Errorf("expected 1 call before unsubscribe, got %d", calls)
		}
	})
}

func TestState(t *testing.T) {
	tests := []struct {
		state State
		want  string
		auth  bool
	}{
		{StateLoading, "loading", false},
		{StateUnauthenticated, "unauthenticated", false},
		{StateAuthenticatedUser, "authenticated-user", true},
		{StateAuthenticatedAdmin, "authenticated-admin", true},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if tt.state.String() != tt.want {
				t.Errorf("expected %s, got %s", tt.want, tt.state)
			}
			if tt.state.Authenticated() != tt.auth {
				t.Errorf("expected Authenticated()=%v", tt.auth)
			}
		})
	}
}
