// devserver serves the dealer and product resolvers over HTTP for local
// development. Each POST /{domain} request carries an AppSync resolver event
// and receives the resolver payload.
//
// Usage:
//
//	devserver [-addr :8080] [-seed-file fixtures.yaml]
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/nisimpson/dynaroute"
	"github.com/nisimpson/dynaroute/internal/app"
	"github.com/nisimpson/dynaroute/internal/config"
	"github.com/nisimpson/dynaroute/internal/fixture"
	"github.com/nisimpson/dynaroute/internal/logger"
	"github.com/sirupsen/logrus"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logrus.WithError(err).Warn("could not load .env file")
	}

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load configuration")
	}

	addr := flag.String("addr", cfg.HTTPAddr, "HTTP listen address")
	seedFile := flag.String("seed-file", "", "YAML or JSON fixture loaded before serving")
	flag.Parse()

	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()
	a, err := app.New(ctx, cfg, log, dynaroute.Domains()...)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize")
	}
	defer a.Close()

	if *seedFile != "" {
		f, err := fixture.LoadFile(*seedFile)
		if err != nil {
			log.WithError(err).Fatal("failed to read seed file")
		}
		n, err := f.Apply(ctx, a.Repositories()...)
		if err != nil {
			log.WithError(err).Fatal("failed to load seed data")
		}
		log.WithFields(logrus.Fields{"file": *seedFile, "records": n}).Info("loaded seed data")
	}

	srv := &http.Server{
		Addr:         *addr,
		Handler:      newServer(a, log).Routes(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.WithFields(logrus.Fields{"addr": *addr, "backend": cfg.StoreBackend}).Info("starting devserver")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server error")
		}
	}()

	<-done
	log.Info("shutting down devserver")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("shutdown failed")
	}
}
