// Package cli содержит команды CLI-клиента. Каждая команда соответствует
// экрану приложения и работает с локальным контейнером состояния store.Store.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/magabrotheeeer/nutrition-app/internal/apiclient"
	"github.com/magabrotheeeer/nutrition-app/internal/models"
	"github.com/magabrotheeeer/nutrition-app/internal/store"
)

// Version версия клиента. Переопределяется при сборке через -ldflags.
var Version = "v1.0.0"

// ErrNotSignedIn команда требует входа.
var ErrNotSignedIn = errors.New("not signed in: run `nutrition login` first")

// API операции HTTP API, которые использует клиент.
type API interface {
	Health(ctx context.Context) (*apiclient.Health, error)
	Register(ctx context.Context, email, username, password string) (string, error)
	Login(ctx context.Context, email, password string) (*apiclient.LoginResult, error)
	Logout(ctx context.Context, token string) error
	GetProfile(ctx context.Context, token string) (*apiclient.ProfileView, error)
	PushProfile(ctx context.Context, token string, profile models.Profile) error
	CreatePurchase(ctx context.Context, token, paymentToken string) (*apiclient.Payment, error)
	PurchaseStatus(ctx context.Context, token string) (*apiclient.PurchaseStatus, error)
}

// App зависимости команд.
type App struct {
	Store *store.Store
	API   API
	Log   *slog.Logger
}

// NewRootCommand собирает дерево команд nutrition.
func NewRootCommand(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "nutrition",
		Short:         "nutrition tracks your body metrics and daily macros",
		Long:          "nutrition keeps your profile, body metrics and macros on this device and mirrors them to your account.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newOnboardingCommand(app),
		newRegisterCommand(app),
		newLoginCommand(app),
		newLogoutCommand(app),
		newHomeCommand(app),
		newBodyCommand(app),
		newGoalCommand(app),
		newMacrosCommand(app),
		newSubscriptionCommand(app),
		newPurchaseCommand(app),
		newSyncCommand(app),
	)
	return root
}

// session возвращает текущую сессию или ErrNotSignedIn.
func (a *App) session() (*models.Session, error) {
	sess := a.Store.Session()
	if !sess.Valid() {
		return nil, ErrNotSignedIn
	}
	return sess, nil
}

// reportSync печатает сообщение об ошибке удалённой синхронизации, если оно есть.
func (a *App) reportSync(w io.Writer) {
	if msg := a.Store.LastError(); msg != "" {
		fmt.Fprintf(w, "warning: %s (changes are saved on this device)\n", msg)
	}
}
