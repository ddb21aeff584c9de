package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of every environment variable read by LoadEnvironment.
const EnvPrefix = "MOCKD"

// Environment holds settings resolved from MOCKD_* environment variables.
type Environment struct {
	LogLevel       string `mapstructure:"log_level"`
	LogFormat      string `mapstructure:"log_format"`
	MappingsDir    string `mapstructure:"mappings_dir"`
	CertificateDir string `mapstructure:"certificate_dir"`
}

// LoadEnvironment reads an optional .env file from dir and then the process
// environment. Variables already set in the process take precedence over the
// .env file.
func LoadEnvironment(dir string) (*Environment, error) {
	if dir == "" {
		dir = "."
	}
	if err := godotenv.Load(filepath.Join(dir, ".env")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("mappings_dir", DefaultMappingsDir)
	v.SetDefault("certificate_dir", DefaultCertificateDir)
	v.AutomaticEnv()

	var env Environment
	if err := v.Unmarshal(&env); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}
	return &env, nil
}

// Apply copies the engine directories onto cfg.
func (e *Environment) Apply(cfg *ServerConfiguration) {
	if e == nil || cfg == nil {
		return
	}
	if e.MappingsDir != "" {
		cfg.MappingsDir = e.MappingsDir
	}
	if e.CertificateDir != "" {
		cfg.CertificateDir = e.CertificateDir
	}
}
