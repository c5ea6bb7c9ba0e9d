package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/accessdeck/webclient/internal/config"
	"github.com/accessdeck/webclient/internal/monitoring"
	"github.com/accessdeck/webclient/internal/notify"
	"github.com/accessdeck/webclient/internal/task"
	"github.com/accessdeck/webclient/internal/web"
	"github.com/accessdeck/webclient/internal/web/session/storage/inmem"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// noticeLifetime controls how long a transient UI notice stays visible
const noticeLifetime = 3 * time.Second

func main() {
	// Set up zerolog to use pretty printing
	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out: os.Stderr,
	})
	log.Info().Msg("starting up...")

	// Load the application configuration
	log.Info().Msg("loading configuration...")
	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatal().Err(err).Msg("could not load the configuration")
	}
	if cfg.IsEnvProduction() {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Debug().Str("config", fmt.Sprintf("%+v", cfg)).Msg("")

	// Create the client for the upstream monitoring API
	log.Info().Str("base_url", cfg.MonitorAPIBaseURL).Msg("initializing monitoring API client...")
	monitor, err := monitoring.New(cfg.MonitorAPIBaseURL, monitoring.Options{})
	if err != nil {
		log.Fatal().Err(err).Msg("could not initialize the monitoring API client")
	}

	// Create the in-memory portal session storage and schedule a task that sweeps expired sessions
	sessions, err := inmem.New()
	if err != nil {
		log.Fatal().Err(err).Msg("could not initialize the portal session storage")
	}
	sweepingTask := task.NewRepeating(func() {
		n, err := sessions.TerminateExpired(context.Background())
		if err != nil {
			log.Error().Err(err).Msg("could not sweep expired portal sessions")
		} else if n > 0 {
			log.Info().Int("amount", n).Msg("swept expired portal sessions")
		}
	}, time.Minute)
	sweepingTask.Start()
	defer sweepingTask.Stop(false)

	// Create the transient notice board and schedule its cleanup task
	notices := notify.NewBoard(noticeLifetime)
	notices.ScheduleCleanupTask(time.Minute)
	defer notices.StopCleanupTask()

	// Start up the web client
	log.Info().Str("listen_address", cfg.ListenAddress).Msg("starting up the web client...")
	service := &web.Service{
		Config:   cfg,
		Monitor:  monitor,
		Sessions: sessions,
		Notices:  notices,
	}
	serviceErrs := make(chan error, 1)
	go func() {
		if err := service.Startup(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serviceErrs <- err
		}
	}()
	go func() {
		err := <-serviceErrs
		log.Fatal().Err(err).Msg("the web client raised an unexpected error")
	}()
	defer func() {
		log.Info().Msg("shutting down the web client...")
		service.Shutdown()
	}()

	log.Info().Msg("done!")
	defer log.Info().Msg("shutting down...")

	// Wait for the application to be terminated
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt)
	<-shutdown
}
