package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pet-care-center/internal/adapters/auth/jwtauth"
	pg "pet-care-center/internal/adapters/storage/postgres"
	"pet-care-center/internal/config"
	"pet-care-center/internal/database"
	"pet-care-center/internal/platform/logger"
	"pet-care-center/internal/ports/auth"
	"pet-care-center/internal/router"

	"github.com/jmoiron/sqlx"
)

// @title Pet Care Center API
// @version 1.0
// @description Citas, hospedaje y facturación para dueños de mascotas.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.NewFromEnv().Error("config error", map[string]any{"error": err})
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: logger.ParseFormat(cfg.LogFormat),
		App:    cfg.App,
	})
	if s, ok := log.(interface{ Sync() error }); ok {
		defer func() { _ = s.Sync() }()
	}

	var db *sqlx.DB
	if cfg.Database.Enabled() {
		if cfg.Database.RunMigrations {
			if err := database.RunMigrations(cfg.Database.DSN, cfg.Database.MigrationsPath, log); err != nil {
				log.Error("migrations failed", map[string]any{"error": err})
				os.Exit(1)
			}
		}

		db, err = pg.Open(cfg.Database.DSN, pg.Options{
			MaxOpenConns: cfg.Database.MaxOpenConns,
			MaxIdleConns: cfg.Database.MaxIdleConns,
		})
		if err != nil {
			log.Error("database connection failed", map[string]any{"error": err})
			os.Exit(1)
		}
		defer db.Close()
	}

	// sin verifier para modo dev (header X-Debug-User-ID)
	var verifier auth.AuthVerifier
	if cfg.JWTSecret != "" {
		verifier = jwtauth.NewVerifier(cfg.JWTSecret, cfg.JWTIssuer)
	} else {
		log.Warn("AUTH_JWT_SECRET not set, debug auth header enabled", nil)
	}

	hours := cfg.Hours
	r := router.NewRouter(router.Options{
		AuthVerifier:         verifier,
		DB:                   db,
		Log:                  log,
		Now:                  cfg.Clock(),
		Hours:                &hours,
		AutoBillAppointments: cfg.AutoBillAppointments,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("starting server", map[string]any{"addr": srv.Addr, "timezone": cfg.Timezone})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", map[string]any{"error": err})
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("shutdown error", map[string]any{"error": err})
	}
	log.Info("server stopped", nil)
}
