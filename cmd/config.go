package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ganttwing/ganttwing/types"
)

const (
	configName = ".ganttwing"
	envPrefix  = "GANTTWING"
)

// GlobalAppConfig holds the global application configuration instance.
var GlobalAppConfig types.AppConfig

// validate caches struct metadata; one instance per process is enough.
var validate *validator.Validate

func init() {
	validate = validator.New()
}

// validateAppConfig performs validation on the AppConfig struct.
func validateAppConfig(config *types.AppConfig) error {
	return validate.Struct(config)
}

// InitConfig reads in config file and ENV variables if set.
func InitConfig() {
	// Load .env file first if present. It's okay if it doesn't exist.
	_ = godotenv.Load()

	// Environment variable handling must be set up BEFORE reading the config
	// file so that env vars can influence config loading.
	viper.SetEnvPrefix(envPrefix) // e.g., GANTTWING_VERBOSE
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfgFileFlag := viper.GetString("config")

	// We need project.rootDir before the full unmarshal to locate the config
	// file itself, so fall back to the default directory name here.
	potentialProjectConfigDir := viper.GetString("project.rootDir")
	if potentialProjectConfigDir == "" {
		potentialProjectConfigDir = ".ganttwing"
	}

	if cfgFileFlag != "" {
		viper.SetConfigFile(cfgFileFlag)
	} else {
		if _, err := os.Stat(potentialProjectConfigDir); !os.IsNotExist(err) {
			// Project-specific config directory exists. Prioritize it.
			viper.AddConfigPath(potentialProjectConfigDir) // ./.ganttwing/.ganttwing.yaml
			viper.SetConfigName(configName)
		} else {
			home, err := os.UserHomeDir()
			cobra.CheckErr(err)
			viper.AddConfigPath(home) // $HOME/.ganttwing.yaml
			viper.AddConfigPath(".")  // ./.ganttwing.yaml
			viper.SetConfigName(configName)
		}
	}

	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("verbose") {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	} else {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			if cfgFileFlag != "" {
				fmt.Fprintln(os.Stderr, "Error: Specified config file not found:", cfgFileFlag)
			} else if viper.GetBool("verbose") {
				fmt.Fprintln(os.Stderr, "No config file found. Using defaults and environment variables.")
			}
		} else {
			fmt.Fprintln(os.Stderr, "Error reading config file:", viper.ConfigFileUsed(), "-", err)
		}
	}

	// Set default values
	viper.SetDefault("project.rootDir", ".ganttwing")
	viper.SetDefault("project.templatesDir", "templates")
	viper.SetDefault("data.file", "plan.json")
	viper.SetDefault("data.format", "json")
	viper.SetDefault("history.file", "history.db")
	viper.SetDefault("history.keep", 100)
	viper.SetDefault("ui.dayWidth", 2)
	viper.SetDefault("telemetry.enabled", false)
	viper.SetDefault("telemetry.apiKey", "")
	viper.SetDefault("telemetry.endpoint", "")

	if err := viper.Unmarshal(&GlobalAppConfig); err != nil {
		fmt.Fprintf(os.Stderr, "Error unmarshaling config: %s\n", err)
		os.Exit(1)
	}

	// A config file may exist but be missing these nested keys.
	if GlobalAppConfig.Project.RootDir == "" {
		GlobalAppConfig.Project.RootDir = viper.GetString("project.rootDir")
	}
	if GlobalAppConfig.Project.TemplatesDir == "" {
		GlobalAppConfig.Project.TemplatesDir = viper.GetString("project.templatesDir")
	}
	if GlobalAppConfig.Data.File == "" {
		GlobalAppConfig.Data.File = viper.GetString("data.file")
	}
	if GlobalAppConfig.History.File == "" {
		GlobalAppConfig.History.File = viper.GetString("history.file")
	}

	if err := validateAppConfig(&GlobalAppConfig); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration validation error: %s\n", err)
		os.Exit(1)
	}
}

// GetConfig returns a pointer to the global types.AppConfig instance.
func GetConfig() *types.AppConfig {
	return &GlobalAppConfig
}
