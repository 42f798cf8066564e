package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSyncCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Synchronize the local profile with your account",
	}

	pull := &cobra.Command{
		Use:   "pull",
		Short: "Replace the local profile with the remote one",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := app.session()
			if err != nil {
				return err
			}
			view, err := app.API.GetProfile(cmd.Context(), sess.Token)
			if err != nil {
				return err
			}
			app.Store.Replace(cmd.Context(), view.Profile)
			fmt.Fprintln(cmd.OutOrStdout(), "Local profile updated from your account")
			return nil
		},
	}

	push := &cobra.Command{
		Use:   "push",
		Short: "Upload the local profile to your account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := app.session()
			if err != nil {
				return err
			}
			if err := app.API.PushProfile(cmd.Context(), sess.Token, app.Store.Snapshot()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Account updated from the local profile")
			return nil
		},
	}

	cmd.AddCommand(pull, push)
	return cmd
}
