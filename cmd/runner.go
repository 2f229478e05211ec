package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/gaana/internal/auth"
	"github.com/desertthunder/gaana/internal/formatter"
	"github.com/desertthunder/gaana/internal/models"
	"github.com/desertthunder/gaana/internal/services"
	"github.com/desertthunder/gaana/internal/shared"
	"github.com/desertthunder/gaana/internal/store"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	tokens     store.TokenStore
	api        *services.APIService
	manager    *auth.Manager
	songs      *services.SongsClient
	albums     *services.AlbumsClient
	logger     *log.Logger
	output     io.Writer
	prompt     func(label string) (string, error)
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Tokens     store.TokenStore
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
	Prompt     func(label string) (string, error)
}

// NewRunner creates a new Runner with the provided configuration.
//
// Without a token store the session lives in memory. Without an HTTP client the authenticated
// client from [services.NewClient] is built over the store.
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Tokens == nil {
		opts.Tokens = store.NewMemoryStore()
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = services.NewClient(opts.Tokens, opts.Config.API.RequestsPerSecond, opts.Config.API.Burst)
	}
	if opts.Prompt == nil {
		opts.Prompt = promptTerminal
	}

	api := services.NewAPIService(opts.Config.API.BaseURL, opts.HTTPClient)
	manager := auth.NewManager(api, opts.Tokens, auth.Options{
		LoginEndpoint: opts.Config.Auth.LoginPath,
		AdminRole:     models.Role(opts.Config.Auth.AdminRole),
		Logger:        opts.Logger,
	})

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		tokens:     opts.Tokens,
		api:        api,
		manager:    manager,
		songs:      services.NewSongsClient(api),
		albums:     services.NewAlbumsClient(api),
		logger:     opts.Logger,
		output:     opts.Output,
		prompt:     opts.Prompt,
	}
}

// Close detaches the session manager from the API service.
func (r *Runner) Close() {
	r.manager.Close()
}

// SetLogger replaces the logger used by command actions.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, songsCommand, albumsCommand, apiCommand, serveCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// hydrate restores the stored session once per process.
func (r *Runner) hydrate() {
	if r.manager.State() != auth.StateLoading {
		return
	}
	if err := r.manager.Hydrate(); err != nil {
		r.logger.Warn("failed to restore session", "error", err)
	}
}

// requireSession returns a Before hook that stops the command before any API call when no
// session is held, or when admin is set and the session lacks the admin role.
func (r *Runner) requireSession(admin bool) cli.BeforeFunc {
	return func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
		r.hydrate()

		switch state := r.manager.State(); {
		case !state.Authenticated():
			return ctx, fmt.Errorf("%w: run `gaana auth login` first", shared.ErrNotAuthenticated)
		case admin && state != auth.StateAuthenticatedAdmin:
			email := ""
			if u := r.manager.User(); u != nil {
				email = u.Email
			}
			return ctx, fmt.Errorf("%w: signed in as %s", shared.ErrForbidden, email)
		}
		return ctx, nil
	}
}

// sessionError rewrites a rejected session into a hint to sign in again.
func sessionError(err error) error {
	if errors.Is(err, shared.ErrSessionInvalid) {
		return fmt.Errorf("%w: sign in again with `gaana auth login`", err)
	}
	return err
}

// notFound marks a 404 from the API with sentinel.
func notFound(err, sentinel error) error {
	if services.StatusOf(err) == http.StatusNotFound {
		return fmt.Errorf("%w: %w", sentinel, err)
	}
	return sessionError(err)
}

func outputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print JSON output",
		},
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Output format: text, csv, markdown or json",
			Value:   "text",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Write the listing to a file instead of stdout",
		},
	}
}

// writeListing renders a listing with the output flags of cmd.
func (r *Runner) writeListing(cmd *cli.Command, render func(formatter.Format, bool) ([]byte, error)) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}
	if cmd.Bool("json") {
		format = formatter.FormatJSON
	}

	data, err := render(format, cmd.Bool("pretty"))
	if err != nil {
		return fmt.Errorf("failed to render listing: %w", err)
	}
	if !bytes.HasSuffix(data, []byte("\n")) {
		data = append(data, '\n')
	}

	if path := cmd.String("output"); path != "" {
		if err := formatter.WriteExport(path, data); err != nil {
			return err
		}
		return r.writePlain("✓ Wrote %s listing to %s\n", format, path)
	}

	if _, err := r.output.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// promptTerminal reads a line from the terminal without echo.
func promptTerminal(label string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("%w: stdin is not a terminal", shared.ErrMissingCredentials)
	}

	fmt.Fprint(os.Stderr, label)
	secret, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", label, err)
	}
	return string(secret), nil
}
