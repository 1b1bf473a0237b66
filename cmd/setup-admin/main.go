// Command setup-admin creates a console admin or promotes an existing user.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/yigit/tam/internal/app/repositories"
	"github.com/yigit/tam/internal/app/services"
	"github.com/yigit/tam/internal/config"
	"github.com/yigit/tam/internal/db"
	"github.com/yigit/tam/internal/pkg/auth"
	"github.com/yigit/tam/internal/pkg/logger"
)

func main() {
	emailFlag := flag.String("email", "", "admin email address")
	passwordFlag := flag.String("password", "", "admin password (min 8 characters, letters and digits)")
	nameFlag := flag.String("name", "", "display name")
	configPath := flag.String("config", filepath.Join("configs", "config.yaml"), "path to the config file")
	flag.Parse()

	if *emailFlag == "" || *passwordFlag == "" {
		fmt.Fprintln(os.Stderr, "usage: setup-admin -email admin@example.com -password secret123 [-name \"Door Lead\"]")
		os.Exit(2)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load configuration")
	}
	lgr := logger.Configure(logger.Config{Level: cfg.Logging.Level, Format: logger.FormatText})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	database, err := db.NewPostgresDB(ctx, cfg)
	if err != nil {
		lgr.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer database.Close()

	// No tokens are issued here
	authService := services.NewAuthService(
		repositories.NewUserRepository(database.Pool),
		auth.NewJWTService(auth.JWTConfig{SecretKey: cfg.JWT.Secret, TokenIssuer: cfg.JWT.Issuer}),
		lgr,
	)

	created, err := authService.EnsureAdmin(ctx, *emailFlag, *passwordFlag, *nameFlag)
	if err != nil {
		lgr.Error().Err(err).Str("email", *emailFlag).Msg("Failed to set up admin")
		database.Close()
		os.Exit(1)
	}

	if created {
		lgr.Info().Str("email", *emailFlag).Msg("Admin account created")
	} else {
		lgr.Info().Str("email", *emailFlag).Msg("Existing user promoted to admin")
	}
}
