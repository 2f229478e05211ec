package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/gaana/internal/formatter"
	"github.com/desertthunder/gaana/internal/models"
	"github.com/desertthunder/gaana/internal/services"
	"github.com/desertthunder/gaana/internal/shared"
	"github.com/urfave/cli/v3"
)

// AlbumsAdd uploads an album with its cover image.
func (r *Runner) AlbumsAdd(ctx context.Context, cmd *cli.Command) error {
	req, err := models.NewAlbumRequest(cmd.String("name"), cmd.String("desc"), cmd.String("bg-color"), cmd.String("plan"))
	if err != nil {
		return err
	}

	image, err := services.OpenUpload(cmd.String("image"))
	if err != nil {
		return err
	}
	defer image.Close()

	r.logger.Info("uploading album", "name", req.Name, "plan", req.SubscriptionPlan, "image", image.Filename)

	album, err := r.albums.Add(ctx, req, image)
	if err != nil {
		return sessionError(err)
	}

	if album != nil && album.ID != "" {
		return r.writePlain("✓ Album added! [%s]\n", album.ID)
	}
	return r.writePlain("✓ Album added!\n")
}

// AlbumsList prints the album catalog.
func (r *Runner) AlbumsList(ctx context.Context, cmd *cli.Command) error {
	albums, err := r.albums.List(ctx)
	if err != nil {
		return sessionError(err)
	}

	r.logger.Debug("fetched albums", "count", len(albums))
	return r.writeListing(cmd, func(f formatter.Format, pretty bool) ([]byte, error) {
		return formatter.Albums(albums, f, pretty)
	})
}

// AlbumsRemove deletes an album by ID.
func (r *Runner) AlbumsRemove(ctx context.Context, cmd *cli.Command) error {
	id, err := albumID(cmd)
	if err != nil {
		return err
	}
	if err := r.albums.Remove(ctx, id); err != nil {
		return notFound(err, shared.ErrAlbumNotFound)
	}
	return r.writePlain("✓ Deleted album %s\n", id)
}

// AlbumsLike likes an album by ID.
func (r *Runner) AlbumsLike(ctx context.Context, cmd *cli.Command) error {
	id, err := albumID(cmd)
	if err != nil {
		return err
	}
	if err := r.albums.Like(ctx, id); err != nil {
		return notFound(err, shared.ErrAlbumNotFound)
	}
	return r.writePlain("✓ Liked album %s\n", id)
}

// AlbumsUnlike removes a like from an album by ID.
func (r *Runner) AlbumsUnlike(ctx context.Context, cmd *cli.Command) error {
	id, err := albumID(cmd)
	if err != nil {
		return err
	}
	if err := r.albums.Unlike(ctx, id); err != nil {
		return notFound(err, shared.ErrAlbumNotFound)
	}
	return r.writePlain("✓ Unliked album %s\n", id)
}

// AlbumsSubscription moves an album to another subscription plan.
func (r *Runner) AlbumsSubscription(ctx context.Context, cmd *cli.Command) error {
	id, err := albumID(cmd)
	if err != nil {
		return err
	}
	plan, err := models.ParsePlan(cmd.String("plan"))
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidFlag, err)
	}

	if err := r.albums.UpdateSubscription(ctx, id, plan); err != nil {
		return notFound(err, shared.ErrAlbumNotFound)
	}
	return r.writePlain("✓ Album %s moved to %s\n", id, plan)
}

func albumID(cmd *cli.Command) (models.ID, error) {
	id := cmd.StringArg("id")
	if id == "" {
		return "", fmt.Errorf("%w: album ID", shared.ErrMissingArgument)
	}
	return models.ID(id), nil
}
