package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bstanko/liftlog/internal/app"
	"github.com/bstanko/liftlog/internal/config"
	"github.com/bstanko/liftlog/internal/gym/exercises"
	"github.com/bstanko/liftlog/internal/gym/migrations"
	"github.com/bstanko/liftlog/internal/gym/progress"
	"github.com/bstanko/liftlog/internal/gym/settings"
	"github.com/bstanko/liftlog/internal/gym/workouts"
	"github.com/bstanko/liftlog/internal/localstore"
	"github.com/bstanko/liftlog/internal/logging"
	"github.com/bstanko/liftlog/internal/remote"
	"github.com/bstanko/liftlog/internal/resttimer"

	log "github.com/sirupsen/logrus"
)

func main() {
	fmt.Println("starting ...")

	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	flag.Parse()

	log.Warnf("---->> running in [%s] environment", *env)

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		panic(err)
	}

	logging.Setup(logging.LoggerSetupParams{
		LogFileName:   cfg.LogsPath,
		LogToStdout:   cfg.LogToStdout,
		LogLevel:      cfg.LogLevel,
		LogFormatJSON: false,
	})

	log.Debugf("using backend: [%s]", cfg.BackendURL)
	log.Debugf("using local db path: [%s]", cfg.LocalDBPath)

	apiKey := os.Getenv("LIFTLOG_API_KEY")
	if apiKey == "" {
		log.Errorf("backend API key not set, use LIFTLOG_API_KEY env var to set it")
	}

	local, err := localstore.Open(cfg.LocalDBPath)
	if err != nil {
		log.Fatalf("open local store: %s", err)
	}
	defer func() {
		if err := local.Close(); err != nil {
			log.Errorf("close local store: %s", err)
		}
	}()

	client := remote.NewClient(
		cfg.BackendURL, apiKey, cfg.UserID,
		&http.Client{Timeout: 30 * time.Second},
	)

	chOsInterrupt := make(chan os.Signal, 1)
	signal.Notify(chOsInterrupt, os.Interrupt, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a := app.New(app.Params{
		Exercises: exercises.NewStore(ctx, client, local),
		Workouts:  workouts.NewStore(ctx, client, local),
		Progress:  progress.NewStore(ctx, client, local),
		Settings:  settings.NewStore(ctx, client, local),
		RestTimer: resttimer.New(func() {
			log.Infof("rest over, back to work")
		}),
		Migrations: migrations.NewRunner(client),
	})
	defer a.Close()

	a.Initialize(ctx)
	if err := a.Err(); err != nil {
		log.Errorf("initialization finished with error: %s", err)
	}

	receivedSig := <-chOsInterrupt
	log.Warnf("signal [%s] received, killing everything ...", receivedSig)
}
