package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestStatusbarDefaults(t *testing.T) {
	enabled := false

	tests := []struct {
		name        string
		config      Config
		wantEnabled bool
		wantLine    float64
		wantBranch  float64
	}{
		{
			name:        "empty config uses defaults",
			config:      Config{},
			wantEnabled: true,
			wantLine:    60,
			wantBranch:  40,
		},
		{
			name: "explicit disable",
			config: Config{
				Statusbar: StatusbarConfig{Enabled: &enabled},
			},
			wantEnabled: false,
			wantLine:    60,
			wantBranch:  40,
		},
		{
			name: "custom thresholds",
			config: Config{
				Statusbar: StatusbarConfig{
					Thresholds: ThresholdConfig{Line: 80, Branch: 70},
				},
			},
			wantEnabled: true,
			wantLine:    80,
			wantBranch:  70,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantEnabled, tt.config.StatusbarEnabled())
			assert.Equal(t, tt.wantLine, tt.config.LineThreshold())
			assert.Equal(t, tt.wantBranch, tt.config.BranchThreshold())
		})
	}
}

func TestFileNameDefaults(t *testing.T) {
	cfg := Config{}
	assert.Equal(t, []string{"lcov.info", "coverage.info"}, cfg.FileNames())

	cfg.Coverage.FileNames = []string{"custom.info"}
	assert.Equal(t, []string{"custom.info"}, cfg.FileNames())
}

func TestUnmarshalExtensionSection(t *testing.T) {
	content := `
version: "1"
coverage:
  base_dir: reports
logging:
  level: debug
  file:
    enabled: true
    path: /tmp/coverlay.log
`
	var cfg Config
	require.NoError(t, yaml.Unmarshal([]byte(content), &cfg))

	// Known sections decode into typed fields, unknown top-level keys land
	// in Extensions.
	assert.Equal(t, "reports", cfg.Coverage.BaseDir)
	assert.Contains(t, cfg.Extensions, "logging")

	var logCfg struct {
		Level string `yaml:"level"`
		File  struct {
			Enabled bool   `yaml:"enabled"`
			Path    string `yaml:"path"`
		} `yaml:"file"`
	}
	require.NoError(t, cfg.UnmarshalExtension("logging", &logCfg))
	assert.Equal(t, "debug", logCfg.Level)
	assert.True(t, logCfg.File.Enabled)
	assert.Equal(t, "/tmp/coverlay.log", logCfg.File.Path)
}
