package config

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

//go:generate go run ../tools/schema-generator/

// CoverageConfig controls how coverage report files are located.
type CoverageConfig struct {
	// FileNames are the report file names (glob patterns) searched for under
	// BaseDir. Defaults to lcov.info and coverage.info.
	FileNames []string `yaml:"file_names,omitempty" toml:"file_names,omitempty" json:"file_names,omitempty" jsonschema:"description=Coverage report file name patterns to search for" jsonschema_extras:"x-priority=1,x-important=true"`
	// ManualPaths, when set, take precedence over pattern search entirely.
	ManualPaths []string `yaml:"manual_paths,omitempty" toml:"manual_paths,omitempty" json:"manual_paths,omitempty" jsonschema:"description=Explicit report file paths that bypass discovery"`
	// BaseDir is the directory searched for report files, relative to the
	// workspace root. Defaults to the workspace root itself.
	BaseDir string `yaml:"base_dir,omitempty" toml:"base_dir,omitempty" json:"base_dir,omitempty" jsonschema:"description=Directory searched for coverage report files"`
}

// ThresholdConfig holds the warn thresholds for the status indicator.
type ThresholdConfig struct {
	Line   float64 `yaml:"line,omitempty" toml:"line,omitempty" json:"line,omitempty" jsonschema:"description=Warn when workspace line coverage falls below this percentage (default 60)"`
	Branch float64 `yaml:"branch,omitempty" toml:"branch,omitempty" json:"branch,omitempty" jsonschema:"description=Warn when workspace branch coverage falls below this percentage (default 40)"`
}

// StatusbarConfig controls the persistent status indicator.
type StatusbarConfig struct {
	// Enabled toggles the status indicator. Defaults to true.
	Enabled    *bool           `yaml:"enabled,omitempty" toml:"enabled,omitempty" json:"enabled,omitempty" jsonschema:"description=Whether the status indicator is shown (default true)"`
	Thresholds ThresholdConfig `yaml:"thresholds,omitempty" toml:"thresholds,omitempty" json:"thresholds,omitempty" jsonschema:"description=Warn thresholds for aggregate coverage"`
}

// RunConfig configures the `coverlay run` test-run trigger.
type RunConfig struct {
	// Command is executed to regenerate coverage reports, e.g.
	// "go test -coverprofile=coverage.out ./...".
	Command string `yaml:"command,omitempty" toml:"command,omitempty" json:"command,omitempty" jsonschema:"description=Command that regenerates coverage reports"`
	// TimeoutSeconds bounds the command. Zero means no timeout.
	TimeoutSeconds int `yaml:"timeout_seconds,omitempty" toml:"timeout_seconds,omitempty" json:"timeout_seconds,omitempty" jsonschema:"description=Timeout for the run command in seconds (0 = none)"`
}

// EditorConfig configures the Neovim attachment.
type EditorConfig struct {
	// Server is the Neovim RPC address. Defaults to $NVIM.
	Server string `yaml:"server,omitempty" toml:"server,omitempty" json:"server,omitempty" jsonschema:"description=Neovim RPC server address (defaults to $NVIM)"`
}

// Config is the root coverlay.yml structure.
type Config struct {
	Version   string          `yaml:"version,omitempty" toml:"version,omitempty" json:"version,omitempty" jsonschema:"description=Config format version"`
	Coverage  CoverageConfig  `yaml:"coverage,omitempty" toml:"coverage,omitempty" json:"coverage,omitempty" jsonschema:"description=Report file discovery settings"`
	Statusbar StatusbarConfig `yaml:"statusbar,omitempty" toml:"statusbar,omitempty" json:"statusbar,omitempty" jsonschema:"description=Status indicator settings"`
	Run       RunConfig       `yaml:"run,omitempty" toml:"run,omitempty" json:"run,omitempty" jsonschema:"description=Test-run trigger settings"`
	Editor    EditorConfig    `yaml:"editor,omitempty" toml:"editor,omitempty" json:"editor,omitempty" jsonschema:"description=Editor attachment settings"`

	// Extensions captures all other top-level keys for extensibility
	// (e.g. the "logging" section).
	Extensions map[string]interface{} `yaml:",inline" toml:"-" json:"-" jsonschema:"-"`
}

// UnmarshalYAML captures known fields and funnels unknown top-level keys
// into Extensions.
func (c *Config) UnmarshalYAML(node *yaml.Node) error {
	type rawConfig struct {
		Version    string                 `yaml:"version,omitempty"`
		Coverage   CoverageConfig         `yaml:"coverage,omitempty"`
		Statusbar  StatusbarConfig        `yaml:"statusbar,omitempty"`
		Run        RunConfig              `yaml:"run,omitempty"`
		Editor     EditorConfig           `yaml:"editor,omitempty"`
		Extensions map[string]interface{} `yaml:",inline"`
	}

	var raw rawConfig
	if err := node.Decode(&raw); err != nil {
		return err
	}

	c.Version = raw.Version
	c.Coverage = raw.Coverage
	c.Statusbar = raw.Statusbar
	c.Run = raw.Run
	c.Editor = raw.Editor
	c.Extensions = raw.Extensions

	return nil
}

// UnmarshalExtension decodes a named extension section into a typed struct.
// Missing keys are not an error; the target simply stays zero-valued.
func (c *Config) UnmarshalExtension(key string, target interface{}) error {
	extensionConfig, ok := c.Extensions[key]
	if !ok {
		return nil
	}

	// mapstructure decodes the generic map into the typed target, reusing
	// the yaml tags so section structs only declare one tag set.
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  target,
		TagName: "yaml",
	})
	if err != nil {
		return fmt.Errorf("failed to create mapstructure decoder: %w", err)
	}

	if err := decoder.Decode(extensionConfig); err != nil {
		return fmt.Errorf("failed to decode extension config for '%s': %w", key, err)
	}

	return nil
}

// StatusbarEnabled reports whether the status indicator should be shown.
func (c *Config) StatusbarEnabled() bool {
	if c.Statusbar.Enabled == nil {
		return true
	}
	return *c.Statusbar.Enabled
}

// LineThreshold returns the configured line warn threshold, defaulting to 60.
func (c *Config) LineThreshold() float64 {
	if c.Statusbar.Thresholds.Line == 0 {
		return 60
	}
	return c.Statusbar.Thresholds.Line
}

// BranchThreshold returns the configured branch warn threshold, defaulting to 40.
func (c *Config) BranchThreshold() float64 {
	if c.Statusbar.Thresholds.Branch == 0 {
		return 40
	}
	return c.Statusbar.Thresholds.Branch
}

// FileNames returns the configured report file patterns with defaults applied.
func (c *Config) FileNames() []string {
	if len(c.Coverage.FileNames) == 0 {
		return []string{"lcov.info", "coverage.info"}
	}
	return c.Coverage.FileNames
}
