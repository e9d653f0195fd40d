package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Wyydra/callstate/internal/adapter/driven/gateway/ws"
	"github.com/Wyydra/callstate/internal/adapter/driven/notify/console"
	"github.com/Wyydra/callstate/internal/adapter/driven/rest"
	"github.com/Wyydra/callstate/internal/adapter/driven/state/memory"
	handler "github.com/Wyydra/callstate/internal/adapter/driving/http"
	listener "github.com/Wyydra/callstate/internal/adapter/driving/ws"
	"github.com/Wyydra/callstate/internal/config"
	"github.com/Wyydra/callstate/internal/core/domain"
	"github.com/Wyydra/callstate/internal/core/service"
	"github.com/benbjohnson/clock"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	configPath := flag.String("config", os.Getenv("CALLSTATE_CONFIG"), "path to the JSON config file")
	flag.Parse()

	w := zerolog.ConsoleWriter{Out: os.Stdout}
	l := zerolog.New(w).With().Timestamp().Caller().Logger()

	cfg, err := config.Load(*configPath)
	if err != nil {
		l.Fatal().Err(err).Msg("Failed to load config")
	}
	level, err := zerolog.ParseLevel(cfg.Debug.LogLevel)
	if err != nil {
		l.Warn().Err(err).Str("level", cfg.Debug.LogLevel).Msg("Unknown log level, using info")
		level = zerolog.InfoLevel
	}
	l = l.Level(level)
	log.Logger = l

	userID := domain.UserID(cfg.Identity.UserID)
	store := memory.NewStore(userID, domain.Preferences{
		RingingEnabled: cfg.Calls.RingingEnabled,
		JoinUserSound:  cfg.Calls.JoinUserSound,
	})
	api := rest.NewClient(cfg.Server.URL, cfg.Server.Token, userID, cfg.Identity.TeamID)
	notifier := console.NewNotifier(l)

	loop := service.NewLoop()
	timers := service.NewTimers(clock.New(), loop)
	dispatcher := service.NewDispatcher(store, service.Gateways{
		Notifier: notifier,
		Threads:  api,
		Profiles: api,
	}, timers, service.Timeouts{
		JoinedUser:              cfg.Calls.JoinedUserTimeout(),
		Reaction:                cfg.Calls.ReactionTimeout(),
		LiveCaption:             cfg.Calls.LiveCaptionTimeout(),
		HostControlNotification: cfg.Calls.HostControlTimeout(),
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dialCtx, dialCancel := context.WithTimeout(ctx, 10*time.Second)
	conn, err := ws.Dial(dialCtx, cfg.WebSocketURL(), cfg.Server.Token)
	dialCancel()
	if err != nil {
		l.Fatal().Err(err).Msg("Failed to connect to server")
	}
	calls := ws.NewCalls(conn, loop)

	go loop.Run(ctx, dispatcher.Dispatch)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	listenerDone := make(chan struct{})
	go func() {
		defer close(listenerDone)
		l.Info().Str("url", cfg.WebSocketURL()).Msg("Listening for call events")
		if err := listener.NewListener(conn, loop).Run(ctx); err != nil && ctx.Err() == nil {
			l.Error().Err(err).Msg("Event stream ended")
		}
	}()

	var srv *http.Server
	if cfg.Debug.HTTPAddr != "" {
		h := handler.NewHandler(store, calls)
		srv = &http.Server{
			Addr:    cfg.Debug.HTTPAddr,
			Handler: h.NewRouter(),
		}
		go func() {
			l.Info().Str("addr", cfg.Debug.HTTPAddr).Msg("Starting debug server")
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				l.Fatal().Err(err).Msg("Failed to start debug server")
			}
		}()
	}

	select {
	case <-quit:
	case <-listenerDone:
	}
	l.Info().Msg("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if srv != nil {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			l.Error().Err(err).Msg("Debug server forced to shutdown")
		}
	}
	if err := calls.Leave(); err != nil {
		l.Error().Err(err).Msg("Failed to leave call")
	}

	cancel()
	if err := conn.Close(); err != nil {
		l.Error().Err(err).Msg("Failed to close connection")
	}
	loop.Stop()
	<-loop.Done()
	timers.Stop()
	l.Info().Msg("Exited")
}
