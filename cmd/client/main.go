package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/activityhub/internal/client/cli"
	"github.com/dmitrijs2005/activityhub/internal/client/client"
	"github.com/dmitrijs2005/activityhub/internal/client/config"
	"github.com/dmitrijs2005/activityhub/internal/client/connectivity"
	"github.com/dmitrijs2005/activityhub/internal/client/credentials"
	"github.com/dmitrijs2005/activityhub/internal/client/pipeline"
	"github.com/dmitrijs2005/activityhub/internal/client/services"
	"github.com/dmitrijs2005/activityhub/internal/client/session"
	"github.com/dmitrijs2005/activityhub/internal/filex"
	"github.com/dmitrijs2005/activityhub/internal/logging"
	"github.com/jonboulle/clockwork"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, rest, err := config.Load(args)
	if err != nil {
		fmt.Fprintf(stderr, "config: %v\n", err)
		return 2
	}

	log := logging.New(stderr, cfg.LogLevel, cfg.LogFormat)

	store, closeStore, err := openStore(ctx, cfg.DatabasePath)
	if err != nil {
		log.Error(ctx, "failed to open credential store", "error", err)
		return 1
	}
	defer closeStore()

	sessions := session.NewController(store, log)
	defer sessions.Close()
	checker := connectivity.NewInterfaceChecker()

	httpClient := pipeline.New(pipeline.Options{
		Checker:        checker,
		Tokens:         sessions,
		OnUnauthorized: sessions,
		Timeout:        cfg.RequestTimeout,
		Log:            log,
	})
	api, err := client.NewAPIClient(cfg.BaseURL, httpClient, log)
	if err != nil {
		log.Error(ctx, "invalid api address", "error", err)
		return 2
	}

	var watcher *connectivity.Watcher
	status := func() connectivity.State { return connectivity.StateUnknown }
	if len(rest) == 0 {
		watcher = connectivity.NewWatcher(checker, clockwork.NewRealClock(), cfg.WatchInterval, log)
		status = watcher.State
	}

	app := cli.NewApp(ctx, cli.Deps{
		Auth:       services.NewAuthService(api, store, sessions),
		Activities: services.NewActivityService(api, sessions),
		Sessions:   sessions,
		Status:     status,
		In:         stdin,
		Out:        stdout,
		Log:        log,
	})
	defer app.Close()

	if watcher == nil {
		if err := app.Execute(ctx, rest); err != nil {
			if errors.Is(err, cli.ErrUnknownCommand) || errors.Is(err, cli.ErrNoCommand) {
				fmt.Fprintln(stderr, err)
				return 2
			}
			return 1
		}
		return 0
	}

	watcher.OnChange(app.ConnectivityChanged)
	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go watcher.Run(watchCtx)

	app.Root(ctx)
	return 0
}

// openStore returns the SQLite store at path, or a process-local store when
// path is empty.
func openStore(ctx context.Context, path string) (credentials.Store, func(), error) {
	if path == "" {
		return credentials.NewMemoryStore(), func() {}, nil
	}

	abs, err := filex.EnsureParentDir(path)
	if err != nil {
		return nil, nil, err
	}
	db, err := client.InitDatabase(ctx, abs)
	if err != nil {
		return nil, nil, err
	}
	return credentials.NewSQLiteStore(db), func() { _ = db.Close() }, nil
}
