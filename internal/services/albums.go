package services

import (
	"context"

	"github.com/desertthunder/gaana/internal/models"
)

const albumsPath = "/api/albums"

// AlbumImageField is the multipart field carrying the album cover.
const AlbumImageField = "file"

// AlbumsClient wraps the /api/albums endpoints.
type AlbumsClient struct {
	api *APIService
}

func NewAlbumsClient(api *APIService) *AlbumsClient {
	return &AlbumsClient{api: api}
}

// Add uploads an album: the JSON request plus its cover image.
func (c *AlbumsClient) Add(ctx context.Context, req models.AlbumRequest, image Upload) (*models.Album, error) {
	if image.FieldName == "" {
		image.FieldName = AlbumImageField
	}

	resp, err := c.api.PostMultipart(ctx, albumsPath, req, image)
	if err != nil {
		return nil, err
	}
	if err := requireCreated(resp, albumsPath); err != nil {
		return nil, err
	}
	return decodeCreated[models.Album](resp), nil
}

// List returns every album in the catalog.
func (c *AlbumsClient) List(ctx context.Context) ([]models.Album, error) {
	resp, err := c.api.Get(ctx, albumsPath)
	if err != nil {
		return nil, err
	}
	return decodeList[models.Album](resp, "albums")
}

func (c *AlbumsClient) Remove(ctx context.Context, id models.ID) error {
	path, err := entityPath(albumsPath, id, "")
	if err != nil {
		return err
	}
	_, err = c.api.Delete(ctx, path)
	return err
}

func (c *AlbumsClient) Like(ctx context.Context, id models.ID) error {
	return c.post(ctx, id, "like")
}

func (c *AlbumsClient) Unlike(ctx context.Context, id models.ID) error {
	return c.post(ctx, id, "unlike")
}

// UpdateSubscription moves an album to a different subscription plan.
func (c *AlbumsClient) UpdateSubscription(ctx context.Context, id models.ID, plan models.SubscriptionPlan) error {
	path, err := entityPath(albumsPath, id, "subscription")
	if err != nil {
		return err
	}
	_, err = c.api.PutJSON(ctx, path, models.SubscriptionUpdate{Plan: plan})
	return err
}

func (c *AlbumsClient) post(ctx context.Context, id models.ID, action string) error {
	path, err := entityPath(albumsPath, id, action)
	if err != nil {
		return err
	}
	_, err = c.api.Post(ctx, path, nil)
	return err
}
