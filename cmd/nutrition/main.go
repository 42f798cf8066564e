// Command nutrition CLI-клиент: онбординг, профиль, макронутриенты и покупки.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/magabrotheeeer/nutrition-app/internal/apiclient"
	"github.com/magabrotheeeer/nutrition-app/internal/cli"
	"github.com/magabrotheeeer/nutrition-app/internal/config"
	"github.com/magabrotheeeer/nutrition-app/internal/lib/logger"
	"github.com/magabrotheeeer/nutrition-app/internal/lib/sl"
	"github.com/magabrotheeeer/nutrition-app/internal/localstore"
	"github.com/magabrotheeeer/nutrition-app/internal/store"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.LoadClient()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	log := logger.NewFile(cfg.Env, config.Logger{
		LogFile:       filepath.Join(filepath.Dir(cfg.StatePath), "nutrition.log"),
		LogMaxSizeMB:  10,
		LogMaxBackups: 3,
		LogMaxAgeDays: 28,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	local, err := localstore.New(cfg.StatePath)
	if err != nil {
		log.Error("failed to open local storage", sl.Err(err))
		fmt.Fprintln(os.Stderr, "cannot open local storage:", err)
		return 1
	}
	defer local.Close()

	api := apiclient.New(cfg.APIURL, cfg.RequestTimeout)
	st := store.NewDefault(
		store.WithPersister(local),
		store.WithSyncer(api),
		store.WithLogger(log),
	)
	if err := st.Restore(ctx); err != nil {
		log.Warn("failed to restore local state, using defaults", sl.Err(err))
	}

	log.Debug("client started", slog.String("api_url", cfg.APIURL), slog.String("state", cfg.StatePath))

	root := cli.NewRootCommand(&cli.App{Store: st, API: api, Log: log})
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}
	return 0
}
