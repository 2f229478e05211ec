package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/gaana/internal/server"
	"github.com/desertthunder/gaana/internal/shared"
	"github.com/desertthunder/gaana/internal/web"
	"github.com/urfave/cli/v3"
)

// Serve runs the web console until the process is interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	r.hydrate()

	addr := cmd.String("addr")
	if addr == "" {
		addr = r.config.Server.Addr()
	}

	console, err := web.New(r.manager, r.songs, r.albums, addr, shared.WithLogger(r.logger, "component", "console"))
	if err != nil {
		return fmt.Errorf("failed to build console: %w", err)
	}
	r.manager.SetNavigator(console)
	url := fmt.Sprintf("http://%s/", addr)

	ready := func() {
		r.writePlain("Console running at %s (Ctrl+C to stop)\n", url)
		if cmd.Bool("open") {
			if err := shared.OpenBrowser(url); err != nil {
				r.logger.Warn("failed to open browser", "error", err)
			}
		}
	}

	return server.Run(ctx, addr, console.Handler(), r.logger, ready)
}
