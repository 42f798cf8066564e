package cli

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator"
	"github.com/spf13/cobra"

	"github.com/magabrotheeeer/nutrition-app/internal/apiclient"
	"github.com/magabrotheeeer/nutrition-app/internal/models"
)

type credentials struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6"`
}

type registration struct {
	credentials
	Username string `validate:"required,max=50"`
}

func newRegisterCommand(app *App) *cobra.Command {
	var creds registration

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := validator.New().Struct(creds); err != nil {
				return err
			}
			ctx := cmd.Context()

			if _, err := app.API.Register(ctx, creds.Email, creds.Username, creds.Password); err != nil {
				if errors.Is(err, apiclient.ErrConflict) {
					return errors.New("an account with this email already exists")
				}
				return err
			}
			res, err := app.API.Login(ctx, creds.Email, creds.Password)
			if err != nil {
				return err
			}

			// локальный профиль (в том числе данные онбординга) становится удалённым
			app.Store.UpdateCommon(ctx, models.CommonPatch{
				Username: &creds.Username,
				Email:    &creds.Email,
				Password: &creds.Password,
			})
			app.Store.Login(ctx, models.Session{UserUID: res.UserUID, Email: creds.Email, Token: res.Token}, nil)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Welcome, %s! Your account is ready.\n", creds.Username)
			app.reportSync(out)
			return nil
		},
	}
	cmd.Flags().StringVar(&creds.Email, "email", "", "Email")
	cmd.Flags().StringVar(&creds.Username, "username", "", "Display name")
	cmd.Flags().StringVar(&creds.Password, "password", "", "Password (at least 6 characters)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newLoginCommand(app *App) *cobra.Command {
	var creds credentials

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and load your profile",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := validator.New().Struct(creds); err != nil {
				return err
			}
			ctx := cmd.Context()

			res, err := app.API.Login(ctx, creds.Email, creds.Password)
			if err != nil {
				if errors.Is(err, apiclient.ErrUnauthorized) {
					return errors.New("invalid email or password")
				}
				return err
			}

			var remote *models.Profile
			view, err := app.API.GetProfile(ctx, res.Token)
			switch {
			case err == nil:
				remote = &view.Profile
			case errors.Is(err, apiclient.ErrNotFound):
			default:
				return err
			}

			app.Store.Login(ctx, models.Session{UserUID: res.UserUID, Email: creds.Email, Token: res.Token}, remote)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Signed in as %s\n", creds.Email)
			app.reportSync(out)
			return nil
		},
	}
	cmd.Flags().StringVar(&creds.Email, "email", "", "Email")
	cmd.Flags().StringVar(&creds.Password, "password", "", "Password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newLogoutCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and reset local data to defaults",
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			if sess := app.Store.Session(); sess.Valid() {
				if err := app.API.Logout(cmd.Context(), sess.Token); err != nil {
					fmt.Fprintf(out, "warning: could not revoke session: %v\n", err)
				}
			}
			app.Store.SignOut(cmd.Context())
			fmt.Fprintln(out, "Signed out")
			return nil
		},
	}
}
