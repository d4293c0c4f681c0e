package rota_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ansonyc/rota"
)

func TestConfig_SetDefaults(t *testing.T) {
	var cfg rota.Config
	cfg.SetDefaults()

	require.Equal(t, 30, cfg.Horizon)
	require.Equal(t, 365, cfg.MaxHorizon)
}

func TestConfig_Validate(t *testing.T) {
	t.Run("defaults are valid", func(t *testing.T) {
		var cfg rota.Config
		cfg.SetDefaults()
		require.NoError(t, cfg.Validate())
	})

	t.Run("negative horizon", func(t *testing.T) {
		cfg := rota.Config{Horizon: -1}
		cfg.SetDefaults()
		require.ErrorIs(t, cfg.Validate(), rota.ErrInvalidConfig)
	})

	t.Run("maxHorizon below horizon", func(t *testing.T) {
		cfg := rota.Config{Horizon: 100, MaxHorizon: 10}
		require.ErrorIs(t, cfg.Validate(), rota.ErrInvalidConfig)
	})
}

func TestLoadConfig(t *testing.T) {
	t.Run("full document", func(t *testing.T) {
		cfg, err := rota.LoadConfig([]byte("horizon: 7\nmaxHorizon: 60\n"))
		require.NoError(t, err)
		require.Equal(t, 7, cfg.Horizon)
		require.Equal(t, 60, cfg.MaxHorizon)
	})

	t.Run("empty document uses defaults", func(t *testing.T) {
		cfg, err := rota.LoadConfig(nil)
		require.NoError(t, err)
		require.Equal(t, 30, cfg.Horizon)
		require.Equal(t, 365, cfg.MaxHorizon)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := rota.LoadConfig([]byte("horizon: ["))
		require.ErrorIs(t, err, rota.ErrInvalidConfig)
	})

	t.Run("invalid values", func(t *testing.T) {
		_, err := rota.LoadConfig([]byte("horizon: 100\nmaxHorizon: 10\n"))
		require.ErrorIs(t, err, rota.ErrInvalidConfig)
	})
}
