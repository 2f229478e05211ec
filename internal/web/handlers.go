package web

import (
	"errors"
	"mime/multipart"
	"net/http"
	"path/filepath"

	"github.com/desertthunder/gaana/internal/auth"
	"github.com/desertthunder/gaana/internal/models"
	"github.com/desertthunder/gaana/internal/server"
	"github.com/desertthunder/gaana/internal/services"
	"github.com/desertthunder/gaana/internal/shared"
)

// Operator-facing messages.
const (
	MsgLoggedIn       = "Admin logged in successfully!"
	MsgLoggedOut      = "Logout successful!"
	MsgSongAdded      = "Song added!"
	MsgAlbumAdded     = "Album added!"
	MsgSongFailed     = "Something went wrong while adding song. Please try again"
	MsgAlbumFailed    = "Error adding album. Please try again"
	MsgAlbumsFailed   = "Failed to load albums"
	MsgSongsFailed    = "Failed to load songs"
	MsgSessionExpired = "Your session has expired. Please log in again."
	MsgActionFailed   = "Something went wrong. Please try again"
	MsgAudioRequired  = "Please upload an audio file"
)

var songFields = []string{"name", "desc", "album", "genre", "lyricsWriter", "singers", "releasedDate", "mood", "language"}

var albumFields = []string{"name", "desc", "bgColor", "subscriptionPlan"}

func formValues(r *http.Request, fields []string) map[string]string {
	values := make(map[string]string, len(fields))
	for _, f := range fields {
		values[f] = r.FormValue(f)
	}
	return values
}

// apiFailure routes an API error: a rejected session goes to login, anything else is flashed.
//
// It returns false when err is nil.
func (c *Console) apiFailure(w http.ResponseWriter, r *http.Request, err error, fallback, back string) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, shared.ErrSessionInvalid) {
		setFlash(w, "error", MsgSessionExpired)
		server.Redirect(w, r, server.LoginPath)
		return true
	}

	c.logger.Error("catalog request failed", "path", r.URL.Path, "error", err)
	msg := fallback
	var apiErr *services.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		msg = apiErr.Message
	}
	setFlash(w, "error", msg)
	server.Redirect(w, r, back)
	return true
}

func (c *Console) loginPage(w http.ResponseWriter, r *http.Request) {
	if c.manager.IsAuthenticated() {
		http.Redirect(w, r, "/add-song", http.StatusSeeOther)
		return
	}
	c.render(w, r, http.StatusOK, "login", pageData{Title: "Login"})
}

func (c *Console) login(w http.ResponseWriter, r *http.Request) {
	email := r.FormValue("email")
	res := c.manager.Login(r.Context(), email, r.FormValue("password"))
	if res.Success {
		setFlash(w, "success", MsgLoggedIn)
		server.Redirect(w, r, "/add-song")
		return
	}

	status := http.StatusUnauthorized
	switch res.Kind {
	case auth.FailureMissingCredentials:
		status = http.StatusBadRequest
	case auth.FailureConnectivity:
		status = http.StatusServiceUnavailable
	}
	c.logger.Warn("login failed", "email", email, "reason", res.Message)
	c.render(w, r, status, "login", pageData{
		Title: "Login",
		Error: res.Message,
		Form:  map[string]string{"email": email},
	})
}

func (c *Console) logout(w http.ResponseWriter, r *http.Request) {
	if err := c.manager.Logout(); err != nil {
		c.logger.Error("failed to clear session", "error", err)
	}
	setFlash(w, "success", MsgLoggedOut)
	server.Redirect(w, r, server.LoginPath)
}

func (c *Console) forbidden(w http.ResponseWriter, r *http.Request) {
	c.render(w, r, http.StatusForbidden, "forbidden", pageData{Title: "Forbidden"})
}

func (c *Console) profile(w http.ResponseWriter, r *http.Request) {
	c.render(w, r, http.StatusOK, "admin-profile", pageData{Title: "Profile"})
}

func (c *Console) addSongPage(w http.ResponseWriter, r *http.Request) {
	c.renderAddSong(w, r, http.StatusOK, "", nil)
}

func (c *Console) renderAddSong(w http.ResponseWriter, r *http.Request, status int, errMsg string, form map[string]string) {
	albums, err := c.albums.List(r.Context())
	if errors.Is(err, shared.ErrSessionInvalid) {
		c.apiFailure(w, r, err, "", "")
		return
	}
	if err != nil {
		c.logger.Error("failed to load albums", "error", err)
		if errMsg == "" {
			errMsg = MsgAlbumsFailed
		}
	}

	c.render(w, r, status, "add-song", pageData{
		Title:  "Add Song",
		Error:  errMsg,
		Form:   form,
		Albums: albums,
	})
}

func (c *Console) addSong(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(MaxUploadBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		c.renderAddSong(w, r, http.StatusBadRequest, MsgSongFailed, nil)
		return
	}
	form := formValues(r, songFields)

	req, err := models.SongForm{
		Name:         form["name"],
		Desc:         form["desc"],
		Album:        form["album"],
		Genre:        form["genre"],
		LyricsWriter: form["lyricsWriter"],
		Singers:      form["singers"],
		ReleasedDate: form["releasedDate"],
		Mood:         form["mood"],
		Language:     form["language"],
	}.Request()
	if err != nil {
		c.renderAddSong(w, r, http.StatusBadRequest, err.Error(), form)
		return
	}

	audio, err := formUpload(r, services.SongAudioField)
	if err != nil {
		c.renderAddSong(w, r, http.StatusBadRequest, MsgSongFailed, form)
		return
	}
	if audio.Empty() {
		c.renderAddSong(w, r, http.StatusBadRequest, MsgAudioRequired, form)
		return
	}
	defer audio.Close()

	image, err := formUpload(r, services.SongImageField)
	if err != nil {
		c.renderAddSong(w, r, http.StatusBadRequest, MsgSongFailed, form)
		return
	}
	defer image.Close()

	if _, err := c.songs.Add(r.Context(), req, audio, image); c.apiFailure(w, r, err, MsgSongFailed, "/add-song") {
		return
	}

	c.logger.Info("song added", "name", req.Name, "album", req.Album)
	setFlash(w, "success", MsgSongAdded)
	server.Redirect(w, r, "/add-song")
}

func (c *Console) listSongs(w http.ResponseWriter, r *http.Request) {
	songs, err := c.songs.List(r.Context())
	if errors.Is(err, shared.ErrSessionInvalid) {
		c.apiFailure(w, r, err, "", "")
		return
	}

	data := pageData{Title: "Songs", Songs: songs}
	if err != nil {
		c.logger.Error("failed to load songs", "error", err)
		data.Error = MsgSongsFailed
	}
	c.render(w, r, http.StatusOK, "list-songs", data)
}

func (c *Console) songAction(w http.ResponseWriter, r *http.Request) {
	id := models.ID(r.PathValue("id"))

	var err error
	switch action := r.PathValue("action"); action {
	case "like":
		err = c.songs.Like(r.Context(), id)
	case "unlike":
		err = c.songs.Unlike(r.Context(), id)
	case "delete":
		err = c.songs.Remove(r.Context(), id)
	default:
		http.NotFound(w, r)
		return
	}

	if c.apiFailure(w, r, err, MsgActionFailed, "/list-songs") {
		return
	}
	server.Redirect(w, r, "/list-songs")
}

func (c *Console) addAlbumPage(w http.ResponseWriter, r *http.Request) {
	c.render(w, r, http.StatusOK, "add-album", pageData{
		Title: "Add Album",
		Plans: models.Plans,
		Form:  map[string]string{"subscriptionPlan": string(models.PlanFree)},
	})
}

func (c *Console) addAlbum(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(MaxUploadBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		c.render(w, r, http.StatusBadRequest, "add-album", pageData{Title: "Add Album", Plans: models.Plans, Error: MsgAlbumFailed})
		return
	}
	form := formValues(r, albumFields)

	req, err := models.NewAlbumRequest(form["name"], form["desc"], form["bgColor"], form["subscriptionPlan"])
	if err != nil {
		c.render(w, r, http.StatusBadRequest, "add-album", pageData{Title: "Add Album", Plans: models.Plans, Error: err.Error(), Form: form})
		return
	}

	image, err := formUpload(r, services.AlbumImageField)
	if err != nil {
		c.render(w, r, http.StatusBadRequest, "add-album", pageData{Title: "Add Album", Plans: models.Plans, Error: MsgAlbumFailed, Form: form})
		return
	}
	defer image.Close()

	if _, err := c.albums.Add(r.Context(), req, image); c.apiFailure(w, r, err, MsgAlbumFailed, "/add-album") {
		return
	}

	c.logger.Info("album added", "name", req.Name, "plan", req.SubscriptionPlan)
	setFlash(w, "success", MsgAlbumAdded)
	server.Redirect(w, r, "/add-album")
}

func (c *Console) listAlbums(w http.ResponseWriter, r *http.Request) {
	albums, err := c.albums.List(r.Context())
	if errors.Is(err, shared.ErrSessionInvalid) {
		c.apiFailure(w, r, err, "", "")
		return
	}

	data := pageData{Title: "Albums", Albums: albums, Plans: models.Plans}
	if err != nil {
		c.logger.Error("failed to load albums", "error", err)
		data.Error = MsgAlbumsFailed
	}
	c.render(w, r, http.StatusOK, "list-albums", data)
}

func (c *Console) albumAction(w http.ResponseWriter, r *http.Request) {
	id := models.ID(r.PathValue("id"))

	var err error
	switch action := r.PathValue("action"); action {
	case "like":
		err = c.albums.Like(r.Context(), id)
	case "unlike":
		err = c.albums.Unlike(r.Context(), id)
	case "delete":
		err = c.albums.Remove(r.Context(), id)
	case "subscription":
		plan, perr := models.ParsePlan(r.FormValue("plan"))
		if perr != nil {
			setFlash(w, "error", perr.Error())
			server.Redirect(w, r, "/list-albums")
			return
		}
		err = c.albums.UpdateSubscription(r.Context(), id, plan)
	default:
		http.NotFound(w, r)
		return
	}

	if c.apiFailure(w, r, err, MsgActionFailed, "/list-albums") {
		return
	}
	server.Redirect(w, r, "/list-albums")
}

// formUpload converts a multipart file field into an [services.Upload]. A missing field yields an empty upload.
func formUpload(r *http.Request, field string) (services.Upload, error) {
	if r.MultipartForm == nil {
		return services.Upload{}, nil
	}

	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return services.Upload{}, nil
	}
	if err != nil {
		return services.Upload{}, err
	}
	return newUpload(field, file, header), nil
}

func newUpload(field string, file multipart.File, header *multipart.FileHeader) services.Upload {
	ctype := header.Header.Get("Content-Type")
	if ctype == "" {
		ctype = "application/octet-stream"
	}
	return services.Upload{
		FieldName:   field,
		Filename:    filepath.Base(header.Filename),
		ContentType: ctype,
		Reader:      file,
	}
}
