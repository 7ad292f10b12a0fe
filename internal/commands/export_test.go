package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinsei-trade/permit-ledger/internal/config"
)

func loadedConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	require.NoError(t, err)
	return cfg
}

func TestApplyExportOverrides(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		modify func(*config.Config)
		check  func(*testing.T, *config.Config)
	}{
		{
			name: "no flags leave config untouched",
			args: nil,
			check: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, "ledger.csv", cfg.Export.Path)
				assert.Equal(t, "csv", cfg.Export.Format)
				assert.Equal(t, int64(0), cfg.Reconcile.ToleranceYen)
				assert.False(t, cfg.AI.Enabled)
			},
		},
		{
			name: "out and format",
			args: []string{"--out", "rows.xlsx", "--format", "xlsx"},
			check: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, "rows.xlsx", cfg.Export.Path)
				assert.Equal(t, "xlsx", cfg.Export.Format)
			},
		},
		{
			name: "tolerance",
			args: []string{"--tolerance", "5"},
			check: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, int64(5), cfg.Reconcile.ToleranceYen)
			},
		},
		{
			name: "explicit zero tolerance overrides config",
			args: []string{"--tolerance", "0"},
			modify: func(cfg *config.Config) {
				cfg.Reconcile.ToleranceYen = 10
			},
			check: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, int64(0), cfg.Reconcile.ToleranceYen)
			},
		},
		{
			name: "ai fallback on",
			args: []string{"--ai-fallback"},
			modify: func(cfg *config.Config) {
				cfg.AI.APIKey = "test-key"
			},
			check: func(t *testing.T, cfg *config.Config) {
				assert.True(t, cfg.AI.Enabled)
			},
		},
		{
			name: "ai fallback off overrides config",
			args: []string{"--ai-fallback=false"},
			modify: func(cfg *config.Config) {
				cfg.AI.Enabled = true
				cfg.AI.APIKey = "test-key"
			},
			check: func(t *testing.T, cfg *config.Config) {
				assert.False(t, cfg.AI.Enabled)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := loadedConfig(t)
			if tt.modify != nil {
				tt.modify(cfg)
			}

			cmd := newExportCommand(&app{cfg: cfg})
			require.NoError(t, cmd.ParseFlags(tt.args))

			require.NoError(t, applyExportOverrides(cmd.Flags(), cfg))
			tt.check(t, cfg)
		})
	}
}

func TestApplyExportOverrides_Revalidates(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "bad format", args: []string{"--format", "parquet"}, wantErr: "export.format"},
		{name: "negative tolerance", args: []string{"--tolerance", "-1"}, wantErr: "tolerance_yen"},
		{name: "ai fallback without key", args: []string{"--ai-fallback"}, wantErr: "ai.api_key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := loadedConfig(t)
			cfg.AI.APIKey = ""

			cmd := newExportCommand(&app{cfg: cfg})
			require.NoError(t, cmd.ParseFlags(tt.args))

			err := applyExportOverrides(cmd.Flags(), cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
