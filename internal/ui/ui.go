package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/gaana/internal/auth"
	"github.com/desertthunder/gaana/internal/models"
	"github.com/desertthunder/gaana/internal/shared"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	SongsView ViewState = iota
	AlbumsView
	ConfirmView
	EndedView
)

// SongCatalog is the subset of the songs client the browser drives.
type SongCatalog interface {
	List(ctx context.Context) ([]models.Song, error)
	Remove(ctx context.Context, id models.ID) error
	Like(ctx context.Context, id models.ID) error
	Unlike(ctx context.Context, id models.ID) error
}

// AlbumCatalog is the subset of the albums client the browser drives.
type AlbumCatalog interface {
	List(ctx context.Context) ([]models.Album, error)
	Remove(ctx context.Context, id models.ID) error
	Like(ctx context.Context, id models.ID) error
	Unlike(ctx context.Context, id models.ID) error
	UpdateSubscription(ctx context.Context, id models.ID, plan models.SubscriptionPlan) error
}

// Session is the view of [auth.Manager] the browser observes.
type Session interface {
	State() auth.State
	User() *models.User
	Subscribe(fn func(auth.State)) func()
}

// pendingDelete is the entity awaiting y/n confirmation.
type pendingDelete struct {
	tab  ViewState
	id   models.ID
	name string
}

// Model represents the TUI application state.
type Model struct {
	ctx         context.Context
	view        ViewState
	tab         ViewState
	songs       SongCatalog
	albums      AlbumCatalog
	session     Session
	states      chan auth.State
	unsubscribe func()
	width       int
	height      int
	songList    list.Model
	albumList   list.Model
	pending     *pendingDelete
	ended       auth.State
	status      string
	err         error
	help        help.Model
	keys        keyMap
}

// NewModel creates a new TUI model and subscribes it to session changes.
func NewModel(ctx context.Context, songs SongCatalog, albums AlbumCatalog, session Session) *Model {
	m := &Model{
		ctx:       ctx,
		view:      SongsView,
		tab:       SongsView,
		songs:     songs,
		albums:    albums,
		session:   session,
		states:    make(chan auth.State, 4),
		songList:  newList("Songs", nil),
		albumList: newList("Albums", nil),
		help:      help.New(),
		keys:      newKeyMap(),
	}
	m.unsubscribe = session.Subscribe(func(s auth.State) {
		select {
		case m.states <- s:
		default:
		}
	})

	if state := session.State(); state != auth.StateAuthenticatedAdmin && state != auth.StateLoading {
		m.end(state)
	}
	return m
}

func newList(title string, items []list.Item) list.Model {
	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = title
	l.Styles.Title = styles.title
	return l
}

// Close detaches the model from the session.
func (m *Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}

// Init fetches both catalogs and starts listening for session changes.
func (m *Model) Init() tea.Cmd {
	if m.view == EndedView {
		return m.waitForSession()
	}
	return tea.Batch(m.fetchSongs(), m.fetchAlbums(), m.waitForSession())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.songList.SetSize(msg.Width-4, msg.Height-8)
		m.albumList.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case SongsView, AlbumsView:
			return m.handleListKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case EndedView:
			if key.Matches(msg, m.keys.quit) {
				return m, tea.Quit
			}
			return m, nil
		}

	case Msg:
		return m.handleMsg(msg)
	}

	return m.updateLists(msg)
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgSongsFetched:
		res := msg.data.(songsResult)
		if res.err != nil {
			return m, m.fail(res.err)
		}
		items := make([]list.Item, len(res.songs))
		for i, s := range res.songs {
			items[i] = songItem{song: s}
		}
		cmd := m.songList.SetItems(items)
		m.songList.Title = fmt.Sprintf("Songs (%d)", len(items))
		return m, cmd

	case MsgAlbumsFetched:
		res := msg.data.(albumsResult)
		if res.err != nil {
			return m, m.fail(res.err)
		}
		items := make([]list.Item, len(res.albums))
		for i, a := range res.albums {
			items[i] = albumItem{album: a}
		}
		cmd := m.albumList.SetItems(items)
		m.albumList.Title = fmt.Sprintf("Albums (%d)", len(items))
		return m, cmd

	case MsgActionDone:
		res := msg.data.(actionResult)
		if res.err != nil {
			return m, m.fail(res.err)
		}
		m.status, m.err = res.status, nil
		if res.tab == AlbumsView {
			return m, m.fetchAlbums()
		}
		return m, m.fetchSongs()

	case MsgSessionChanged:
		state := msg.data.(auth.State)
		if state != auth.StateAuthenticatedAdmin && state != auth.StateLoading {
			m.end(state)
		}
		return m, m.waitForSession()
	}
	return m, nil
}

// fail records err, switching to the ended view when the session was rejected.
func (m *Model) fail(err error) tea.Cmd {
	if errors.Is(err, shared.ErrSessionInvalid) {
		m.end(auth.StateUnauthenticated)
		return nil
	}
	m.err = err
	m.status = ""
	return nil
}

func (m *Model) end(state auth.State) {
	m.view = EndedView
	m.ended = state
	m.pending = nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case SongsView, AlbumsView:
		return m.renderBrowser()
	case ConfirmView:
		return m.renderConfirm()
	case EndedView:
		return m.renderEnded()
	default:
		return ""
	}
}

func (m *Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	active := m.activeList()
	if active.FilterState() == list.Filtering {
		return m.updateLists(msg)
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.tab):
		if m.tab == SongsView {
			m.tab = AlbumsView
		} else {
			m.tab = SongsView
		}
		m.view = m.tab
		return m, nil
	case key.Matches(msg, m.keys.refresh):
		m.status, m.err = "Refreshing...", nil
		if m.tab == AlbumsView {
			return m, m.fetchAlbums()
		}
		return m, m.fetchSongs()
	case key.Matches(msg, m.keys.like):
		return m, m.likeSelected(true)
	case key.Matches(msg, m.keys.unlike):
		return m, m.likeSelected(false)
	case key.Matches(msg, m.keys.remove):
		if id, name, ok := m.selected(); ok {
			m.pending = &pendingDelete{tab: m.tab, id: id, name: name}
			m.view = ConfirmView
		}
		return m, nil
	case key.Matches(msg, m.keys.plan):
		if m.tab == AlbumsView {
			return m, m.cyclePlan()
		}
		return m, nil
	}

	return m.updateLists(msg)
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.no), key.Matches(msg, m.keys.quit):
		m.pending = nil
		m.view = m.tab
		return m, nil
	case key.Matches(msg, m.keys.yes):
		p := m.pending
		m.pending = nil
		m.view = m.tab
		if p == nil {
			return m, nil
		}
		m.status = fmt.Sprintf("Deleting '%s'...", p.name)
		return m, m.remove(*p)
	}
	return m, nil
}

func (m *Model) activeList() *list.Model {
	if m.tab == AlbumsView {
		return &m.albumList
	}
	return &m.songList
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.tab {
	case SongsView:
		m.songList, cmd = m.songList.Update(msg)
	case AlbumsView:
		m.albumList, cmd = m.albumList.Update(msg)
	}
	return m, cmd
}

// selected returns the id and name of the highlighted entity in the active tab.
func (m *Model) selected() (models.ID, string, bool) {
	switch item := m.activeList().SelectedItem().(type) {
	case songItem:
		return item.song.ID, item.song.Name, true
	case albumItem:
		return item.album.ID, item.album.Name, true
	default:
		return "", "", false
	}
}

func (m *Model) fetchSongs() tea.Cmd {
	return func() tea.Msg {
		songs, err := m.songs.List(m.ctx)
		return songsFetchedMsg(songs, err)
	}
}

func (m *Model) fetchAlbums() tea.Cmd {
	return func() tea.Msg {
		albums, err := m.albums.List(m.ctx)
		return albumsFetchedMsg(albums, err)
	}
}

func (m *Model) likeSelected(like bool) tea.Cmd {
	id, name, ok := m.selected()
	if !ok {
		return nil
	}
	tab := m.tab
	return func() tea.Msg {
		var err error
		switch {
		case tab == AlbumsView && like:
			err = m.albums.Like(m.ctx, id)
		case tab == AlbumsView:
			err = m.albums.Unlike(m.ctx, id)
		case like:
			err = m.songs.Like(m.ctx, id)
		default:
			err = m.songs.Unlike(m.ctx, id)
		}
		verb := "Liked"
		if !like {
			verb = "Unliked"
		}
		return actionDoneMsg(tab, fmt.Sprintf("%s '%s'", verb, name), err)
	}
}

func (m *Model) remove(p pendingDelete) tea.Cmd {
	return func() tea.Msg {
		var err error
		if p.tab == AlbumsView {
			err = m.albums.Remove(m.ctx, p.id)
		} else {
			err = m.songs.Remove(m.ctx, p.id)
		}
		return actionDoneMsg(p.tab, fmt.Sprintf("Deleted '%s'", p.name), err)
	}
}

func (m *Model) cyclePlan() tea.Cmd {
	item, ok := m.albumList.SelectedItem().(albumItem)
	if !ok {
		return nil
	}
	plan := nextPlan(item.album.SubscriptionPlan)
	return func() tea.Msg {
		err := m.albums.UpdateSubscription(m.ctx, item.album.ID, plan)
		return actionDoneMsg(AlbumsView, fmt.Sprintf("'%s' moved to %s", item.album.Name, plan), err)
	}
}

func (m *Model) waitForSession() tea.Cmd {
	return func() tea.Msg {
		select {
		case s := <-m.states:
			return sessionChangedMsg(s)
		case <-m.ctx.Done():
			return nil
		}
	}
}

func (m *Model) renderTabs() string {
	tabs := []string{}
	for _, t := range []struct {
		view  ViewState
		label string
	}{{SongsView, "Songs"}, {AlbumsView, "Albums"}} {
		if t.view == m.tab {
			tabs = append(tabs, styles.activeTab.Render(t.label))
		} else {
			tabs = append(tabs, styles.tab.Render(t.label))
		}
	}

	line := strings.Join(tabs, " ")
	if u := m.session.User(); u != nil {
		line = fmt.Sprintf("%s   %s", line, styles.help.Render(u.Email))
	}
	return line
}

func (m *Model) renderBrowser() string {
	var status string
	switch {
	case m.err != nil:
		status = styles.err.Render(fmt.Sprintf("Error: %v", m.err))
	case m.status != "":
		status = styles.ok.Render(m.status)
	}

	helpKeys := []key.Binding{m.keys.tab, m.keys.like, m.keys.unlike, m.keys.remove}
	if m.tab == AlbumsView {
		helpKeys = append(helpKeys, m.keys.plan)
	}
	helpKeys = append(helpKeys, m.keys.refresh, m.keys.quit)
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n\n%s\n%s\n%s", m.renderTabs(), m.activeList().View(), status, helpView)
}

func (m *Model) renderConfirm() string {
	if m.pending == nil {
		return ""
	}
	kind := "song"
	if m.pending.tab == AlbumsView {
		kind = "album"
	}
	title := styles.title.Render(fmt.Sprintf("Delete %s '%s'?", kind, m.pending.name))
	warn := styles.warn.Render("This cannot be undone.")

	helpKeys := []key.Binding{m.keys.yes, m.keys.no}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n\n%s", title, warn, helpView)
}

func (m *Model) renderEnded() string {
	var msg string
	switch m.ended {
	case auth.StateAuthenticatedUser:
		msg = "Admin role required.\n\nSign in with an admin account using `gaana auth login`."
	default:
		msg = "Session expired.\n\nSign in again with `gaana auth login`."
	}

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.quit})
	return fmt.Sprintf("%s\n\n%s", styles.err.Render(msg), helpView)
}
