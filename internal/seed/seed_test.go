package seed

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/yigit/tam/internal/config"
)

type fakeProvisioner struct {
	calls   []string
	created bool
	err     error
}

func (f *fakeProvisioner) EnsureAdmin(ctx context.Context, email, password, displayName string) (bool, error) {
	f.calls = append(f.calls, email+"|"+displayName)
	return f.created, f.err
}

func TestEnsureAdmin(t *testing.T) {
	t.Run("skipped without credentials", func(t *testing.T) {
		cfg := &config.Config{}
		cfg.Admin.Email = "admin@tam.events"
		p := &fakeProvisioner{}

		assert.NoError(t, EnsureAdmin(context.Background(), cfg, p, zerolog.Nop()))
		assert.Empty(t, p.calls)
	})

	t.Run("provisions", func(t *testing.T) {
		cfg := &config.Config{}
		cfg.Admin.Email = "admin@tam.events"
		cfg.Admin.Password = "changeme123"
		cfg.Admin.Name = "Door Lead"
		p := &fakeProvisioner{created: true}

		assert.NoError(t, EnsureAdmin(context.Background(), cfg, p, zerolog.Nop()))
		assert.Equal(t, []string{"admin@tam.events|Door Lead"}, p.calls)
	})

	t.Run("propagates failure", func(t *testing.T) {
		cfg := &config.Config{}
		cfg.Admin.Email = "admin@tam.events"
		cfg.Admin.Password = "short"
		boom := errors.New("password too weak")

		err := EnsureAdmin(context.Background(), cfg, &fakeProvisioner{err: boom}, zerolog.Nop())
		assert.ErrorIs(t, err, boom)
	})
}
