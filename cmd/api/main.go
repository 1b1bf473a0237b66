package main

import (
	"context"
	"os"

	"github.com/yigit/tam/internal/pkg/logger"
	"github.com/yigit/tam/internal/server"
)

// @title TAM Events API
// @version 1.0
// @description Event registration, payment approval and door check-in for TAM events

// @contact.name API Support
// @contact.email support@tam.events

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token for authorization

func main() {
	srv, err := server.NewServer(context.Background())
	if err != nil {
		// Details are logged within the setup functions
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
