package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/baas-sample/internal/config"
	"github.com/MKhiriev/baas-sample/internal/handler"
	"github.com/MKhiriev/baas-sample/internal/logger"
	"github.com/MKhiriev/baas-sample/internal/server"
	"github.com/MKhiriev/baas-sample/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("baas-sample")
	cfg, err := config.GetStructuredConfig(log)
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
		syscall.SIGQUIT,
	)
	defer stop()

	handlers, err := handler.NewHandlers(ctx, cfg, models.NewAppBuildInfo(buildVersion, buildDate, buildCommit), log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating handlers")
	}

	srv := server.NewServer(handlers.HTTP.Init(), handlers.LiveQuery, cfg.Server, log.Component("server"))
	binding, err := srv.Start()
	if err != nil {
		log.Fatal().Err(err).Msg("error starting server")
	}
	log.Debug().Str("addr", binding.Addr.String()).Strs("services", binding.Services).Msg("listener bound")

	if err = srv.Run(ctx); err != nil {
		log.Err(err).Msg("server stopped with error")
	}

	if err = handlers.Close(context.Background()); err != nil {
		log.Err(err).Msg("error closing storages")
	}
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}

	if buildDate == "" {
		buildDate = "N/A"
	}

	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
