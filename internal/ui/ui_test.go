package ui

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/gaana/internal/auth"
	"github.com/desertthunder/gaana/internal/models"
	"github.com/desertthunder/gaana/internal/shared"
)

type fakeCatalog struct {
	mu     sync.Mutex
	songs  []models.Song
	albums []models.Album
	calls  []string
	err    error
}

func (f *fakeCatalog) record(call string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
	return f.err
}

func (f *fakeCatalog) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

type fakeSongs struct{ *fakeCatalog }

func (f fakeSongs) List(ctx context.Context) ([]models.Song, error) {
	return f.songs, f.record("songs.list")
}
func (f fakeSongs) Remove(ctx context.Context, id models.ID) error {
	return f.record("songs.remove " + id.String())
}
func (f fakeSongs) Like(ctx context.Context, id models.ID) error {
	return f.record("songs.like " + id.String())
}
func (f fakeSongs) Unlike(ctx context.Context, id models.ID) error {
	return f.record("songs.unlike " + id.String())
}

type fakeAlbums struct{ *fakeCatalog }

func (f fakeAlbums) List(ctx context.Context) ([]models.Album, error) {
	return f.albums, f.record("albums.list")
}
func (f fakeAlbums) Remove(ctx context.Context, id models.ID) error {
	return f.record("albums.remove " + id.String())
}
func (f fakeAlbums) Like(ctx context.Context, id models.ID) error {
	return f.record("albums.like " + id.String())
}
func (f fakeAlbums) Unlike(ctx context.Context, id models.ID) error {
	return f.record("albums.unlike " + id.String())
}
func (f fakeAlbums) UpdateSubscription(ctx context.Context, id models.ID, plan models.SubscriptionPlan) error {
	return f.record("albums.plan " + id.String() + " " + string(plan))
}

type fakeSession struct {
	mu    sync.Mutex
	state auth.State
	subs  []func(auth.State)
}

func (s *fakeSession) State() auth.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *fakeSession) User() *models.User {
	if s.State() == auth.StateAuthenticatedAdmin {
		return &models.User{Email: "admin@gaana.tree", Role: models.DefaultAdminRole}
	}
	return nil
}

func (s *fakeSession) Subscribe(fn func(auth.State)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
	return func() {}
}

func (s *fakeSession) set(state auth.State) {
	s.mu.Lock()
	s.state = state
	subs := append(([]func(auth.State))(nil), s.subs...)
	s.mu.Unlock()
	for _, fn := range subs {
		fn(state)
	}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press sends msg and runs the returned command, feeding a resulting [Msg] back into the model.
func press(t *testing.T, m *Model, msg tea.Msg) tea.Msg {
	t.Helper()
	_, cmd := m.Update(msg)
	if cmd == nil {
		return nil
	}
	out := cmd()
	if next, ok := out.(Msg); ok {
		m.Update(next)
	}
	return out
}

func setupModel(t *testing.T, state auth.State) (*Model, *fakeCatalog, *fakeSession) {
	t.Helper()
	catalog := &fakeCatalog{
		songs: []models.Song{
			{ID: "1", Name: "Tum Hi Ho", Album: "Aashiqui 2", Likes: 3},
			{ID: "2", Name: "Kesariya", Album: models.NoAlbum},
		},
		albums: []models.Album{
			{ID: "10", Name: "Aashiqui 2", SubscriptionPlan: models.PlanFree},
			{ID: "11", Name: "Brahmastra", SubscriptionPlan: models.PlanPlatinum},
		},
	}
	session := &fakeSession{state: state}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	m := NewModel(ctx, fakeSongs{catalog}, fakeAlbums{catalog}, session)
	t.Cleanup(m.Close)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m.Update(m.fetchSongs()())
	m.Update(m.fetchAlbums()())
	return m, catalog, session
}

func TestModel(t *testing.T) {
	t.Run("Init Loads Both Catalogs", func(t *testing.T) {
		m, _, _ := setupModel(t, auth.StateAuthenticatedAdmin)

		if got := len(m.songList.Items()); got != 2 {
			t.Errorf("expected 2 songs, got %d", got)
		}
		if got := len(m.albumList.Items()); got != 2 {
			t.Errorf("expected 2 albums, got %d", got)
		}
		if m.view != SongsView {
			t.Errorf("expected songs view, got %v", m.view)
		}
		if !strings.Contains(m.View(), "Tum Hi Ho") {
			t.Error("expected song title in view")
		}
	})

	t.Run("Tab Switches Catalog", func(t *testing.T) {
		m, _, _ := setupModel(t, auth.StateAuthenticatedAdmin)

		m.Update(tea.KeyMsg{Type: tea.KeyTab})
		if m.view != AlbumsView {
			t.Fatalf("expected albums view, got %v", m.view)
		}
		if !strings.Contains(m.View(), "Brahmastra") {
			t.Error("expected album title in view")
		}

		m.Update(tea.KeyMsg{Type: tea.KeyTab})
		if m.view != SongsView {
			t.Errorf("expected songs view, got %v", m.view)
		}
	})

	t.Run("Like Refreshes List", func(t *testing.T) {
		m, catalog, _ := setupModel(t, auth.StateAuthenticatedAdmin)

		out := press(t, m, runes("l"))
		if _, ok := out.(Msg); !ok {
			t.Fatalf("expected Msg, got %T", out)
		}

		calls := catalog.Calls()
		if calls[len(calls)-1] != "songs.like 1" {
			t.Errorf("expected like of song 1, got %v", calls)
		}
		if m.status != "Liked 'Tum Hi Ho'" {
			t.Errorf("unexpected status %q", m.status)
		}
	})

	t.Run("Unlike Album", func(t *testing.T) {
		m, catalog, _ := setupModel(t, auth.StateAuthenticatedAdmin)

		m.Update(tea.KeyMsg{Type: tea.KeyTab})
		press(t, m, runes("u"))

		calls := catalog.Calls()
		if calls[len(calls)-1] != "albums.unlike 10" {
			t.Errorf("expected unlike of album 10, got %v", calls)
		}
	})

	t.Run("Delete Requires Confirmation", func(t *testing.T) {
		m, catalog, _ := setupModel(t, auth.StateAuthenticatedAdmin)
		before := len(catalog.Calls())

		m.Update(runes("d"))
		if m.view != ConfirmView {
			t.Fatalf("expected confirm view, got %v", m.view)
		}
		if !strings.Contains(m.View(), "Delete song 'Tum Hi Ho'?") {
			t.Errorf("unexpected confirm view %q", m.View())
		}

		m.Update(runes("n"))
		if m.view != SongsView {
			t.Errorf("expected songs view after decline, got %v", m.view)
		}
		if len(catalog.Calls()) != before {
			t.Error("declined delete should make no request")
		}

		m.Update(runes("d"))
		press(t, m, runes("y"))

		calls := catalog.Calls()
		if calls[before] != "songs.remove 1" {
			t.Errorf("expected remove of song 1, got %v", calls)
		}
		if m.status != "Deleted 'Tum Hi Ho'" {
			t.Errorf("unexpected status %q", m.status)
		}
	})

	t.Run("Plan Cycles On Albums Only", func(t *testing.T) {
		m, catalog, _ := setupModel(t, auth.StateAuthenticatedAdmin)
		before := len(catalog.Calls())

		_, cmd := m.Update(runes("p"))
		if cmd != nil {
			t.Error("plan key should be ignored on songs")
		}

		m.Update(tea.KeyMsg{Type: tea.KeyTab})
		press(t, m, runes("p"))

		calls := catalog.Calls()
		if calls[before] != "albums.plan 10 SILVER" {
			t.Errorf("expected plan change to SILVER, got %v", calls)
		}
	})

	t.Run("Failed Action Shows Error", func(t *testing.T) {
		m, catalog, _ := setupModel(t, auth.StateAuthenticatedAdmin)
		catalog.err = errors.New("boom")

		press(t, m, runes("l"))

		if m.err == nil {
			t.Fatal("expected error to be recorded")
		}
		if m.view != SongsView {
			t.Errorf("expected to stay on songs view, got %v", m.view)
		}
		if !strings.Contains(m.View(), "Error: boom") {
			t.Error("expected error in view")
		}
	})

	t.Run("Rejected Session Ends Browser", func(t *testing.T) {
		m, catalog, _ := setupModel(t, auth.StateAuthenticatedAdmin)
		catalog.err = shared.ErrSessionInvalid

		press(t, m, runes("r"))

		if m.view != EndedView {
			t.Fatalf("expected ended view, got %v", m.view)
		}
		if !strings.Contains(m.View(), "Session expired") {
			t.Errorf("unexpected view %q", m.View())
		}
	})

	t.Run("Session Change Ends Browser", func(t *testing.T) {
		m, _, session := setupModel(t, auth.StateAuthenticatedAdmin)

		session.set(auth.StateUnauthenticated)
		m.Update(m.waitForSession()())

		if m.view != EndedView {
			t.Fatalf("expected ended view, got %v", m.view)
		}

		_, cmd := m.Update(runes("q"))
		if cmd == nil {
			t.Error("expected quit command")
		}
	})

	t.Run("Non Admin Starts Ended", func(t *testing.T) {
		m, _, _ := setupModel(t, auth.StateAuthenticatedUser)

		if m.view != EndedView {
			t.Fatalf("expected ended view, got %v", m.view)
		}
		if !strings.Contains(m.View(), "Admin role required") {
			t.Errorf("unexpected view %q", m.View())
		}
	})

	t.Run("Session Wait Stops With Context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		catalog := &fakeCatalog{}
		m := NewModel(ctx, fakeSongs{catalog}, fakeAlbums{catalog}, &fakeSession{state: auth.StateAuthenticatedAdmin})
		cancel()

		if msg := m.waitForSession()(); msg != nil {
			t.Errorf("expected nil message, got %v", msg)
		}
	})
}

func TestNextPlan(t *testing.T) {
	tests := []struct {
		in, want models.SubscriptionPlan
	}{
		{"", models.PlanSilver},
		{models.PlanFree, models.PlanSilver},
		{models.PlanGold, models.PlanPlatinum},
		{models.PlanPlatinum, models.PlanFree},
		{"BRONZE", models.PlanFree},
	}

	for _, tt := range tests {
		if got := nextPlan(tt.in); got != tt.want {
			t.Errorf("nextPlan(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
