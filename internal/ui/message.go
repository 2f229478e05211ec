package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/gaana/internal/auth"
	"github.com/desertthunder/gaana/internal/models"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgSongsFetched MsgKind = iota
	MsgAlbumsFetched
	MsgActionDone
	MsgSessionChanged
)

type songsResult struct {
	songs []models.Song
	err   error
}

type albumsResult struct {
	albums []models.Album
	err    error
}

type actionResult struct {
	tab    ViewState
	status string
	err    error
}

// songsFetchedMsg is the constructor for [MsgSongsFetched]
func songsFetchedMsg(songs []models.Song, err error) Msg {
	return Msg{kind: MsgSongsFetched, data: songsResult{songs, err}}
}

// albumsFetchedMsg is the constructor for [MsgAlbumsFetched]
func albumsFetchedMsg(albums []models.Album, err error) Msg {
	return Msg{kind: MsgAlbumsFetched, data: albumsResult{albums, err}}
}

// actionDoneMsg is the constructor for [MsgActionDone]
func actionDoneMsg(tab ViewState, status string, err error) Msg {
	return Msg{kind: MsgActionDone, data: actionResult{tab, status, err}}
}

// sessionChangedMsg is the constructor for [MsgSessionChanged]
func sessionChangedMsg(s auth.State) Msg {
	return Msg{kind: MsgSessionChanged, data: s}
}
