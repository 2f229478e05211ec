// submodule cmd contains command definitions
package main

import (
	"github.com/desertthunder/gaana/internal/shared"
	"github.com/urfave/cli/v3"
)

func idArg() []cli.Argument {
	return []cli.Argument{&cli.StringArg{Name: "id", UsageText: "entity ID"}}
}

// setupCommand handles setup operations for the database and config file.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "database",
				Usage: "Initialize the session database and run migrations",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "rollback",
						Usage: "Roll back the most recent migration instead",
					},
				},
				Action: r.SetupDatabase,
			},
			{
				Name:  "config",
				Usage: "Write config.toml from the built-in defaults",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupConfig,
			},
		},
	}
}

// authCommand handles authentication operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage the operator session",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Sign in and store the session token",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "email",
						Aliases: []string{"e"},
						Usage:   "Account email",
						Sources: cli.EnvVars(shared.EnvEmail),
					},
					&cli.StringFlag{
						Name:    "password",
						Aliases: []string{"p"},
						Usage:   "Account password (prompted when omitted)",
						Sources: cli.EnvVars(shared.EnvPassword),
					},
				},
				Action: r.AuthLogin,
			},
			{
				Name:   "logout",
				Usage:  "Clear the stored session",
				Action: r.AuthLogout,
			},
			{
				Name:  "status",
				Usage: "Show the current session state",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.AuthStatus,
			},
			{
				Name:   "whoami",
				Usage:  "Show the cached operator profile",
				Before: r.requireSession(false),
				Action: r.AuthWhoami,
			},
		},
	}
}

// songsCommand handles song catalog operations
func songsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "songs",
		Aliases: []string{"song"},
		Usage:   "Manage songs",
		Before:  r.requireSession(true),
		Commands: []*cli.Command{
			{
				Name:  "add",
				Usage: "Upload a song with its audio file and cover image",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Usage: "Song name", Required: true},
					&cli.StringFlag{Name: "desc", Usage: "Description"},
					&cli.StringFlag{Name: "album", Usage: "Album name (defaults to none)"},
					&cli.StringFlag{Name: "genre", Usage: "Genre"},
					&cli.StringFlag{Name: "lyrics-writer", Usage: "Lyrics writer"},
					&cli.StringFlag{Name: "singers", Usage: "Comma-separated singers"},
					&cli.StringFlag{Name: "released", Usage: "Release date (YYYY-MM-DD)"},
					&cli.StringFlag{Name: "mood", Usage: "Mood"},
					&cli.StringFlag{Name: "language", Usage: "Language"},
					&cli.StringFlag{Name: "audio", Usage: "Path to the audio file", Required: true},
					&cli.StringFlag{Name: "image", Usage: "Path to the cover image"},
				},
				Action: r.SongsAdd,
			},
			{
				Name:   "list",
				Usage:  "List songs",
				Flags:  outputFlags(),
				Action: r.SongsList,
			},
			{
				Name:      "remove",
				Aliases:   []string{"rm", "delete"},
				Usage:     "Delete a song",
				Arguments: idArg(),
				Action:    r.SongsRemove,
			},
			{
				Name:      "like",
				Usage:     "Like a song",
				Arguments: idArg(),
				Action:    r.SongsLike,
			},
			{
				Name:      "unlike",
				Usage:     "Unlike a song",
				Arguments: idArg(),
				Action:    r.SongsUnlike,
			},
		},
	}
}

// albumsCommand handles album catalog operations
func albumsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "albums",
		Aliases: []string{"album"},
		Usage:   "Manage albums",
		Before:  r.requireSession(true),
		Commands: []*cli.Command{
			{
				Name:  "add",
				Usage: "Upload an album with its cover image",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Usage: "Album name", Required: true},
					&cli.StringFlag{Name: "desc", Usage: "Description"},
					&cli.StringFlag{Name: "bg-color", Usage: "Background color (#rrggbb)"},
					&cli.StringFlag{Name: "plan", Usage: "Subscription plan: FREE, SILVER, GOLD or PLATINUM", Value: "FREE"},
					&cli.StringFlag{Name: "image", Usage: "Path to the cover image", Required: true},
				},
				Action: r.AlbumsAdd,
			},
			{
				Name:   "list",
				Usage:  "List albums",
				Flags:  outputFlags(),
				Action: r.AlbumsList,
			},
			{
				Name:      "remove",
				Aliases:   []string{"rm", "delete"},
				Usage:     "Delete an album",
				Arguments: idArg(),
				Action:    r.AlbumsRemove,
			},
			{
				Name:      "like",
				Usage:     "Like an album",
				Arguments: idArg(),
				Action:    r.AlbumsLike,
			},
			{
				Name:      "unlike",
				Usage:     "Unlike an album",
				Arguments: idArg(),
				Action:    r.AlbumsUnlike,
			},
			{
				Name:      "subscription",
				Aliases:   []string{"plan"},
				Usage:     "Change an album's subscription plan",
				Arguments: idArg(),
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "plan", Usage: "FREE, SILVER, GOLD or PLATINUM", Required: true},
				},
				Action: r.AlbumsSubscription,
			},
		},
	}
}

// apiCommand handles direct authenticated API calls
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "api",
		Usage:  "Direct authenticated API calls",
		Before: r.requireSession(false),
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Direct GET against the catalog API, prints raw JSON",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.APIGet,
			},
		},
	}
}

// serveCommand starts the web console.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the web admin console",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Usage: "Listen address (defaults to server.host:server.port)",
			},
			&cli.BoolFlag{
				Name:  "open",
				Usage: "Open the console in the default browser",
			},
		},
		Action: r.Serve,
	}
}

// tuiCommand returns the top-level TUI command for interactive catalog management.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive catalog browser",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "Where to write logs while the TUI is running",
				Value: "./tmp/gaana-tui.log",
			},
		},
		Before: r.requireSession(true),
		Action: r.TUI,
	}
}
