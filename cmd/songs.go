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

// SongsAdd uploads a song from local audio and image files.
func (r *Runner) SongsAdd(ctx context.Context, cmd *cli.Command) error {
	form := models.SongForm{
		Name:         cmd.String("name"),
		Desc:         cmd.String("desc"),
		Album:        cmd.String("album"),
		Genre:        cmd.String("genre"),
		LyricsWriter: cmd.String("lyrics-writer"),
		Singers:      cmd.String("singers"),
		ReleasedDate: cmd.String("released"),
		Mood:         cmd.String("mood"),
		Language:     cmd.String("language"),
	}
	req, err := form.Request()
	if err != nil {
		return err
	}

	audio, err := services.OpenUpload(cmd.String("audio"))
	if err != nil {
		return err
	}
	defer audio.Close()

	var image services.Upload
	if path := cmd.String("image"); path != "" {
		if image, err = services.OpenUpload(path); err != nil {
			return err
		}
		defer image.Close()
	}

	r.logger.Info("uploading song", "name", req.Name, "audio", audio.Filename, "type", audio.ContentType)

	song, err := r.songs.Add(ctx, req, audio, image)
	if err != nil {
		return sessionError(err)
	}

	if song != nil && song.ID != "" {
		return r.writePlain("✓ Song added! [%s]\n", song.ID)
	}
	return r.writePlain("✓ Song added!\n")
}

// SongsList prints the song catalog.
func (r *Runner) SongsList(ctx context.Context, cmd *cli.Command) error {
	songs, err := r.songs.List(ctx)
	if err != nil {
		return sessionError(err)
	}

	r.logger.Debug("fetched songs", "count", len(songs))
	return r.writeListing(cmd, func(f formatter.Format, pretty bool) ([]byte, error) {
		return formatter.Songs(songs, f, pretty)
	})
}

// SongsRemove deletes a song by ID.
func (r *Runner) SongsRemove(ctx context.Context, cmd *cli.Command) error {
	id, err := songID(cmd)
	if err != nil {
		return err
	}
	if err := r.songs.Remove(ctx, id); err != nil {
		return notFound(err, shared.ErrSongNotFound)
	}
	return r.writePlain("✓ Deleted song %s\n", id)
}

// SongsLike likes a song by ID.
func (r *Runner) SongsLike(ctx context.Context, cmd *cli.Command) error {
	id, err := songID(cmd)
	if err != nil {
		return err
	}
	if err := r.songs.Like(ctx, id); err != nil {
		return notFound(err, shared.ErrSongNotFound)
	}
	return r.writePlain("✓ Liked song %s\n", id)
}

// SongsUnlike removes a like from a song by ID.
func (r *Runner) SongsUnlike(ctx context.Context, cmd *cli.Command) error {
	id, err := songID(cmd)
	if err != nil {
		return err
	}
	if err := r.songs.Unlike(ctx, id); err != nil {
		return notFound(err, shared.ErrSongNotFound)
	}
	return r.writePlain("✓ Unliked song %s\n", id)
}

func songID(cmd *cli.Command) (models.ID, error) {
	id := cmd.StringArg("id")
	if id == "" {
		return "", fmt.Errorf("%w: song ID", shared.ErrMissingArgument)
	}
	return models.ID(id), nil
}
