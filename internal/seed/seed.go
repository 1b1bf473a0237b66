package seed

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/yigit/tam/internal/config"
)

// AdminProvisioner creates or promotes a console admin
type AdminProvisioner interface {
	EnsureAdmin(ctx context.Context, email, password, displayName string) (created bool, err error)
}

// EnsureAdmin provisions the admin account named in the configuration.
// Nothing happens unless both email and password are set.
func EnsureAdmin(ctx context.Context, cfg *config.Config, provisioner AdminProvisioner, lgr zerolog.Logger) error {
	if cfg.Admin.Email == "" || cfg.Admin.Password == "" {
		lgr.Debug().Msg("No admin credentials configured, skipping admin seed")
		return nil
	}

	created, err := provisioner.EnsureAdmin(ctx, cfg.Admin.Email, cfg.Admin.Password, cfg.Admin.Name)
	if err != nil {
		return err
	}

	if created {
		lgr.Info().Str("email", cfg.Admin.Email).Msg("Default admin account created")
	} else {
		lgr.Info().Str("email", cfg.Admin.Email).Msg("Default admin account verified")
	}
	return nil
}
