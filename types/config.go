/*
Copyright © 2025 GanttWing Authors
*/
package types

// AppConfig is the root configuration structure, populated by viper from
// the config file, environment variables and flags.
type AppConfig struct {
	// Config mirrors the --config flag for introspection.
	Config string `mapstructure:"config"`
	// Verbose enables diagnostic output on stderr.
	Verbose bool `mapstructure:"verbose"`

	Project   ProjectConfig   `mapstructure:"project" validate:"required"`
	Data      DataConfig      `mapstructure:"data" validate:"required"`
	History   HistoryConfig   `mapstructure:"history"`
	UI        UIConfig        `mapstructure:"ui"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// ProjectConfig describes where GanttWing keeps project files.
type ProjectConfig struct {
	// RootDir is the project-local directory, e.g. ".ganttwing".
	RootDir string `mapstructure:"rootDir" validate:"required"`
	// TemplatesDir holds starter plan templates, relative to RootDir.
	TemplatesDir string `mapstructure:"templatesDir"`
}

// DataConfig describes the plan data file.
type DataConfig struct {
	File   string `mapstructure:"file" validate:"required"`
	Format string `mapstructure:"format" validate:"required,oneof=json yaml toml"`
}

// HistoryConfig describes the change-history database.
type HistoryConfig struct {
	// File is the SQLite database path, relative to RootDir.
	File string `mapstructure:"file"`
	// Keep is how many change sets to retain; older sets are purged. Zero
	// means keep everything.
	Keep int `mapstructure:"keep" validate:"gte=0"`
}

// UIConfig holds terminal rendering options.
type UIConfig struct {
	// DayWidth is the number of cells one calendar day occupies in the
	// Gantt chart.
	DayWidth int `mapstructure:"dayWidth" validate:"gte=1,lte=4"`
}

// TelemetryConfig controls anonymous usage analytics. Disabled unless an
// API key is configured and Enabled is set.
type TelemetryConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	APIKey   string `mapstructure:"apiKey"`
	Endpoint string `mapstructure:"endpoint"`
}
