package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"golang.org/x/mod/semver"

	"github.com/magabrotheeeer/nutrition-app/internal/lib/sl"
)

// Compatible сообщает, совместимы ли версии клиента и сервера:
// обе корректны по semver и совпадает мажорная версия.
func Compatible(client, server string) bool {
	if !semver.IsValid(client) || !semver.IsValid(server) {
		return false
	}
	return semver.Major(client) == semver.Major(server)
}

func newOnboardingCommand(app *App) *cobra.Command {
	var flags bodyFlags

	cmd := &cobra.Command{
		Use:   "onboarding",
		Short: "Welcome screen: backend status and optional body setup",
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Nutrition App")
			fmt.Fprintln(out, "Track your body metrics and daily macros.")
			fmt.Fprintln(out)

			printBackendStatus(cmd, app, out)

			if sess := app.Store.Session(); sess.Valid() {
				fmt.Fprintf(out, "User: %s\n", sess.Email)
				fmt.Fprintf(out, "User ID: %s\n", sess.UserUID)
			} else {
				fmt.Fprintln(out, "User: not signed in")
			}

			patch, changed, err := flags.patch(cmd)
			if err != nil {
				return err
			}
			if changed {
				if err := app.Store.UpdateBodyCurrent(cmd.Context(), patch); err != nil {
					return err
				}
				fmt.Fprintln(out, "Body measurements saved.")
				app.reportSync(out)
			}
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func printBackendStatus(cmd *cobra.Command, app *App, out io.Writer) {
	health, err := app.API.Health(cmd.Context())
	if err != nil {
		app.Log.Warn("health check failed", sl.Err(err))
		fmt.Fprintf(out, "Backend: offline (%v)\n", err)
		return
	}
	fmt.Fprintf(out, "Backend: online (%s)\n", health.Version)
	if !Compatible(Version, health.Version) {
		fmt.Fprintf(out, "warning: client %s may be incompatible with server %s\n", Version, health.Version)
	}
}
