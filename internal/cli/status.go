package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/existflow/folio/internal/apperr"
	"github.com/existflow/folio/internal/model"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show backend and session status",
	Long: `Check that the backend is reachable and whether the saved admin token
is still accepted. The saved token is never modified.`,
	RunE: runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	a, err := openApp(appConfig)
	if err != nil {
		return err
	}
	defer a.Close()

	creds, err := a.tokens.Get()
	if err != nil {
		return fmt.Errorf("failed to read saved session: %w", err)
	}

	var (
		g          errgroup.Group
		profile    model.AdminProfile
		profileErr error
	)
	ctx := cmd.Context()
	g.Go(func() error {
		return a.client.Health(ctx)
	})
	if !creds.Empty() {
		g.Go(func() error {
			profile, profileErr = a.client.GetAdminProfile(ctx)
			return nil
		})
	}
	healthErr := g.Wait()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "🌐 Server:  %s\n", a.client.BaseURL())
	if healthErr != nil {
		fmt.Fprintf(out, "   Health:  ✗ %s\n", describe(healthErr))
	} else {
		fmt.Fprintln(out, "   Health:  ✓ ok")
	}

	switch {
	case creds.Empty():
		fmt.Fprintln(out, "👤 Admin:   not logged in")
	case profileErr == nil:
		email := profile.Email
		if email == "" {
			email = creds.Email
		}
		fmt.Fprintf(out, "👤 Admin:   %s\n", email)
	case errors.Is(profileErr, apperr.ErrAuth):
		fmt.Fprintln(out, "👤 Admin:   saved token rejected, run 'folio auth login'")
	default:
		fmt.Fprintf(out, "👤 Admin:   %s (not verified: %s)\n", creds.Email, describe(profileErr))
	}
	fmt.Fprintf(out, "🔑 Tokens:  %s store\n", a.cfg.TokenStore)
	return nil
}
