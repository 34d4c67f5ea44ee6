package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/ezekielswanson/join-date-serverless-function/internal/app/services"
	"github.com/ezekielswanson/join-date-serverless-function/internal/config"
	"github.com/ezekielswanson/join-date-serverless-function/internal/crm/hubspot"
	"github.com/ezekielswanson/join-date-serverless-function/internal/db"
	"github.com/ezekielswanson/join-date-serverless-function/internal/observability"
	"github.com/ezekielswanson/join-date-serverless-function/internal/server"
	"github.com/ezekielswanson/join-date-serverless-function/internal/server/routes"
	"github.com/ezekielswanson/join-date-serverless-function/pkg/eventpublisher"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file loaded", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		if errors.Is(err, config.ErrMissingCredential) {
			slog.Error("CRM credential is not provisioned, refusing to start", "error", err)
		} else {
			slog.Error("Failed to load configuration", "error", err)
		}
		return
	}

	level := slog.LevelInfo
	if cfg.IsLocalDevelopment() {
		level = slog.LevelDebug
	}
	log := slog.New(observability.WrapSlogHandler(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))
	slog.SetDefault(log)

	database, err := db.New(cfg.Database.Path)
	if err != nil {
		slog.Error("Failed to open database", "error", err)
		return
	}
	defer func() {
		if err := database.Close(); err != nil {
			slog.Error("Failed to close database", "error", err)
		}
	}()

	directory := hubspot.NewClient(cfg.CRM.BaseURL, cfg.CRM.Token)
	assigner := services.NewJoinDateAssigner(directory, services.WithLocation(cfg.JoinDate.Location))
	publisher := eventpublisher.Client{
		Endpoint: cfg.Publisher.Endpoint,
		Timeout:  cfg.Publisher.Timeout,
	}

	srv := server.New(log)
	srv.RegisterRouter(routes.NewWebhookRoutes(assigner, database, publisher, log))
	srv.RegisterRouter(routes.NewAPIRoutes(database))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	slog.Info("Starting server", "port", cfg.Server.Port, "timezone", cfg.JoinDate.Location.String())
	slog.Error("Closing server", "error", srv.Start(addr))
}
