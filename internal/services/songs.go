package services

import (
	"context"

	"github.com/desertthunder/gaana/internal/models"
)

const songsPath = "/api/songs"

// Song upload field names.
const (
	SongAudioField = "audio"
	SongImageField = "image"
)

// SongsClient wraps the /api/songs endpoints.
type SongsClient struct {
	api *APIService
}

func NewSongsClient(api *APIService) *SongsClient {
	return &SongsClient{api: api}
}

// Add uploads a song: the JSON request plus its audio file and cover image.
//
// The returned song is nil when the API does not echo the created entity.
func (c *SongsClient) Add(ctx context.Context, req models.SongRequest, audio, image Upload) (*models.Song, error) {
	if audio.FieldName == "" {
		audio.FieldName = SongAudioField
	}
	if image.FieldName == "" {
		image.FieldName = SongImageField
	}

	resp, err := c.api.PostMultipart(ctx, songsPath, req, audio, image)
	if err != nil {
		return nil, err
	}
	if err := requireCreated(resp, songsPath); err != nil {
		return nil, err
	}
	return decodeCreated[models.Song](resp), nil
}

// List returns every song in the catalog.
func (c *SongsClient) List(ctx context.Context) ([]models.Song, error) {
	resp, err := c.api.Get(ctx, songsPath)
	if err != nil {
		return nil, err
	}
	return decodeList[models.Song](resp, "songs")
}

func (c *SongsClient) Remove(ctx context.Context, id models.ID) error {
	return c.send(ctx, id, "")
}

func (c *SongsClient) Like(ctx context.Context, id models.ID) error {
	return c.send(ctx, id, "like")
}

func (c *SongsClient) Unlike(ctx context.Context, id models.ID) error {
	return c.send(ctx, id, "unlike")
}

func (c *SongsClient) send(ctx context.Context, id models.ID, action string) error {
	path, err := entityPath(songsPath, id, action)
	if err != nil {
		return err
	}

	if action == "" {
		_, err = c.api.Delete(ctx, path)
	} else {
		_, err = c.api.Post(ctx, path, nil)
	}
	return err
}
