// Package config is for app wide settings that are unmarshalled
// from Viper (see: /cmd)
package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// HTTPConfig is settings for the built-in API server
type HTTPConfig struct {
	// address the API server listens on
	Addr string `mapstructure:"addr"`
}

// AlphaFoldConfig is settings for the database lookup path
type AlphaFoldConfig struct {
	// base URL serving the model files
	BaseURL string `mapstructure:"base-url"`

	// candidate model file patterns, most recent version first
	Models []string `mapstructure:"models"`

	// per-candidate request timeout in seconds
	TimeoutSeconds int `mapstructure:"timeout"`
}

// ESMFoldConfig is settings for the prediction path
type ESMFoldConfig struct {
	// folding API endpoint
	URL string `mapstructure:"url"`

	// maximum attempts before giving up on transient failures
	MaxAttempts int `mapstructure:"max-attempts"`

	// backoff delay before the second attempt, in seconds
	BaseDelaySeconds float64 `mapstructure:"base-delay"`

	// per-attempt request timeout in seconds
	TimeoutSeconds int `mapstructure:"timeout"`
}

// Config is the root-level settings struct and is a mix of settings
// available in fold.yaml and those available from the command line
type Config struct {
	// API server settings
	HTTP HTTPConfig `mapstructure:"http"`

	// database lookup settings
	AlphaFold AlphaFoldConfig `mapstructure:"alphafold"`

	// prediction settings
	ESMFold ESMFoldConfig `mapstructure:"esmfold"`
}

// Timeout returns the lookup timeout as a duration.
func (c AlphaFoldConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Timeout returns the per-attempt timeout as a duration.
func (c ESMFoldConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// BaseDelay returns the backoff base delay as a duration.
func (c ESMFoldConfig) BaseDelay() time.Duration {
	return time.Duration(c.BaseDelaySeconds * float64(time.Second))
}

// Setup registers defaults and config file locations with Viper.
// Settings resolve in order: flags, FOLD_* environment variables,
// fold.yaml in the working directory, defaults.
func Setup() {
	viper.SetDefault("http.addr", ":8036")
	viper.SetDefault("alphafold.base-url", "https://alphafold.ebi.ac.uk/files")
	viper.SetDefault("alphafold.models", []string{
		"AF-%s-F1-model_v4.pdb",
		"AF-%s-F1-model_v3.pdb",
	})
	viper.SetDefault("alphafold.timeout", 30)
	viper.SetDefault("esmfold.url", "https://api.esmatlas.com/foldSequence/v1/pdb/")
	viper.SetDefault("esmfold.max-attempts", 5)
	viper.SetDefault("esmfold.base-delay", 1.5)
	viper.SetDefault("esmfold.timeout", 90)

	viper.SetConfigName("fold")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.SetEnvPrefix("FOLD")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Fatalf("read config file: %v", err)
		}
	}
}

// NewConfig returns a new Config struct populated by Viper settings
// (either from the local fold.yaml) and/or command line arguments
func NewConfig() Config {
	var c Config

	err := viper.Unmarshal(&c)
	if err != nil {
		log.Fatalf("unable to decode into struct, %v", err)
	}

	return c
}
