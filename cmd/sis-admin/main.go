package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/noah-isme/sis-api/internal/repository"
	"github.com/noah-isme/sis-api/internal/service"
	"github.com/noah-isme/sis-api/pkg/config"
	"github.com/noah-isme/sis-api/pkg/database"
	"github.com/noah-isme/sis-api/pkg/logger"
	"github.com/noah-isme/sis-api/pkg/password"
	"github.com/noah-isme/sis-api/pkg/validation"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	admins := service.NewAdminService(
		repository.NewAdminRepository(db),
		repository.NewUserRepository(db),
		password.NewHasher(cfg.Password.BcryptCost),
		validation.New(),
		logr,
	)
	cli := &commandLine{
		db:      db.DB,
		admins:  admins,
		migrate: database.Migrate,
		out:     os.Stdout,
	}
	if err := cli.run(ctx, os.Args); err != nil {
		if !errors.Is(err, errHelp) {
			logr.Error("command failed", zap.Error(err))
		}
		stop()
		os.Exit(1)
	}
}
