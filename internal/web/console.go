// Package web implements the server-rendered admin console.
//
// # Pages
//
//	GET  /                 → login page, or /add-song when signed in
//	GET  /login            → login page, or /add-song when signed in
//	POST /login            → sign in
//	POST /logout           → sign out
//	GET  /forbidden        → shown to signed-in operators without the admin role
//	GET  /add-song         → song upload form with album dropdown (admin)
//	GET  /list-songs       → song table with like, unlike and delete (admin)
//	GET  /add-album        → album upload form with plan selector (admin)
//	GET  /list-albums      → album table with plan changes (admin)
//	GET  /admin-profile    → cached operator profile (admin)
//
// Any other GET falls through to the guarded add-song page.
//
// # Session
//
// The console is bound to localhost and serves a single operator: the session is the one held
// by the [auth.Manager], shared with the CLI through the token store. When the API rejects the
// session mid-request, handlers redirect to the login page after the manager has cleared it.
//
// Requests must address the console by the host it listens on, and form posts must come from its
// own pages (see [server.SameOrigin]).
//
// # Flash Messages
//
// One-shot messages survive the post/redirect/get cycle in a short-lived cookie.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"regexp"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/gaana/internal/auth"
	"github.com/desertthunder/gaana/internal/models"
	"github.com/desertthunder/gaana/internal/server"
	"github.com/desertthunder/gaana/internal/services"
)

//go:embed templates/*.html
var templateFS embed.FS

// MaxUploadBytes bounds the multipart form accepted by the upload pages.
const MaxUploadBytes = 64 << 20

var pageFiles = map[string]string{
	"login":         "login.html",
	"add-song":      "add_song.html",
	"list-songs":    "list_songs.html",
	"add-album":     "add_album.html",
	"list-albums":   "list_albums.html",
	"admin-profile": "profile.html",
	"forbidden":     "forbidden.html",
}

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}){1,2}$`)

var funcs = template.FuncMap{
	"safeColor": func(s string) template.CSS {
		if hexColor.MatchString(s) {
			return template.CSS(s)
		}
		return "transparent"
	},
}

// Console serves the admin pages.
type Console struct {
	manager *auth.Manager
	songs   *services.SongsClient
	albums  *services.AlbumsClient
	addr    string
	logger  *log.Logger
	pages   map[string]*template.Template
}

// New parses the embedded templates and builds a [Console] served at addr.
func New(manager *auth.Manager, songs *services.SongsClient, albums *services.AlbumsClient, addr string, logger *log.Logger) (*Console, error) {
	pages := make(map[string]*template.Template, len(pageFiles))
	for name, file := range pageFiles {
		tmpl, err := template.New(name).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+file)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", file, err)
		}
		pages[name] = tmpl
	}

	return &Console{
		manager: manager,
		songs:   songs,
		albums:  albums,
		addr:    addr,
		logger:  logger,
		pages:   pages,
	}, nil
}

// Navigate implements [auth.Navigator]. The browser is redirected by the handler that observed the rejection.
func (c *Console) Navigate(path string) {
	c.logger.Warn("session ended, sending operator to login", "path", path)
}

// Handler returns the console's routes wrapped in logging, panic recovery and the same-origin check.
func (c *Console) Handler() http.Handler {
	router := server.NewBasicRouter()
	router.Use(server.Recover(c.logger), server.Logging(c.logger), server.SameOrigin(c.addr))

	admin := server.Guard(c.manager, server.GuardOptions{RequireAdmin: true})
	signedIn := server.Guard(c.manager, server.GuardOptions{})

	router.HandleFunc(http.MethodGet, "/{$}", c.loginPage)
	router.HandleFunc(http.MethodGet, "/login", c.loginPage)
	router.HandleFunc(http.MethodPost, "/login", c.login)
	router.HandleFunc(http.MethodPost, "/logout", c.logout)
	router.HandleFunc(http.MethodGet, "/forbidden", c.forbidden, signedIn)

	router.HandleFunc(http.MethodGet, "/add-song", c.addSongPage, admin)
	router.HandleFunc(http.MethodPost, "/add-song", c.addSong, admin)
	router.HandleFunc(http.MethodGet, "/list-songs", c.listSongs, admin)
	router.HandleFunc(http.MethodPost, "/list-songs/{id}/{action}", c.songAction, admin)

	router.HandleFunc(http.MethodGet, "/add-album", c.addAlbumPage, admin)
	router.HandleFunc(http.MethodPost, "/add-album", c.addAlbum, admin)
	router.HandleFunc(http.MethodGet, "/list-albums", c.listAlbums, admin)
	router.HandleFunc(http.MethodPost, "/list-albums/{id}/{action}", c.albumAction, admin)

	router.HandleFunc(http.MethodGet, "/admin-profile", c.profile, admin)

	router.HandleFunc(http.MethodGet, "/", c.addSongPage, admin)
	return router
}

type pageData struct {
	Title  string
	Active string
	User   *models.User
	Flash  *Flash
	Error  string
	Form   map[string]string
	Songs  []models.Song
	Albums []models.Album
	Plans  []models.SubscriptionPlan
}

func (c *Console) render(w http.ResponseWriter, r *http.Request, status int, page string, data pageData) {
	tmpl, ok := c.pages[page]
	if !ok {
		http.Error(w, "page not found", http.StatusNotFound)
		return
	}

	data.Active = page
	data.User = c.manager.User()
	data.Flash = takeFlash(w, r)
	if data.Form == nil {
		data.Form = map[string]string{}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if err := tmpl.ExecuteTemplate(w, "layout", data); err != nil {
		c.logger.Error("failed to render page", "page", page, "error", err)
	}
}
