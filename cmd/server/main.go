package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/xtding233/hoops-sim/internal/coeff"
	"github.com/xtding233/hoops-sim/internal/config"
	"github.com/xtding233/hoops-sim/internal/server"
)

func main() {
	var cfg config.Server
	if err := config.ParseEnv(&cfg); err != nil {
		config.Exitf("config: %v", err)
	}
	log, err := config.Logger(cfg.LogLevel)
	if err != nil {
		config.Exitf("config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loader := coeff.NewLoader(cfg.ConfigDir)
	if _, err := loader.Load(""); err != nil {
		log.WithError(err).Fatal("load coefficients")
	}
	if cfg.WatchInterval > 0 {
		w := coeff.NewDirWatcher(loader.Paths().Dir(), cfg.WatchInterval, func(changed []string) {
			loader.Invalidate()
			log.WithField("files", changed).Info("coefficients reloaded")
		})
		go w.Run(ctx)
	}

	svc := server.NewService(loader, log,
		server.WithMaxGames(cfg.MaxGames),
		server.WithWorkers(cfg.Workers),
	)
	srv, err := server.New(cfg.GRPCAddr, cfg.HTTPAddr, svc)
	if err != nil {
		log.WithError(err).Fatal("listen")
	}
	if err := srv.Serve(ctx); err != nil {
		log.WithFields(logrus.Fields{"err": err}).Fatal("serve")
	}
	log.Info("shutdown complete")
}
