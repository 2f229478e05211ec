package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/gaana/internal/auth"
	"github.com/urfave/cli/v3"
)

// AuthLogin exchanges credentials for a session and stores it.
//
// The password is prompted for when neither --password nor GAANA_PASSWORD is set.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	r.hydrate()

	email := cmd.String("email")
	password := cmd.String("password")
	if strings.TrimSpace(email) != "" && password == "" {
		secret, err := r.prompt("Password: ")
		if err != nil {
			r.logger.Debug("no password prompt available", "error", err)
		}
		password = secret
	}

	r.logger.Info("signing in", "email", email, "api", r.api.BaseURL())

	result := r.manager.Login(ctx, email, password)
	if !result.Success {
		return fmt.Errorf("%s: %w", result.Message, result.Err)
	}

	if err := r.writePlain("✓ Signed in as %s (%s)\n", result.User.Email, result.User.DisplayRole()); err != nil {
		return err
	}
	if !r.manager.IsAdmin() {
		r.logger.Warn("catalog commands require the admin role", "role", result.User.Role)
	}
	return nil
}

// AuthLogout clears the stored session. No API call is made.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	r.hydrate()

	if err := r.manager.Logout(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return r.writePlain("✓ Logout successful!\n")
}

// AuthStatus reports the session state from the token store.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	r.hydrate()

	if cmd.Bool("json") {
		return r.writeJSON(r.manager, cmd.Bool("pretty"))
	}

	state := r.manager.State()
	switch state {
	case auth.StateAuthenticatedAdmin, auth.StateAuthenticatedUser:
		u := r.manager.User()
		r.writePlain("✓ Signed in as %s\n", u.Email)
		r.writePlain("Role: %s\n", u.DisplayRole())
		if state == auth.StateAuthenticatedUser {
			r.writePlain("Admin access: ✗ catalog commands are unavailable\n")
		} else {
			r.writePlain("Admin access: ✓\n")
		}
	default:
		r.writePlain("✗ Not signed in\n")
	}
	return r.writePlain("API: %s\n", r.api.BaseURL())
}

// AuthWhoami prints the cached operator profile.
func (r *Runner) AuthWhoami(ctx context.Context, cmd *cli.Command) error {
	u := r.manager.User()
	if u == nil {
		return nil
	}

	r.writePlain("Name:  %s\n", u.DisplayName())
	r.writePlain("Email: %s\n", u.Email)
	return r.writePlain("Role:  %s\n", u.DisplayRole())
}
