package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/bz888/medirag/internal/model"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "MEDIRAG"

// Keys shared by flags, env and the config file.
const (
	KeyAPIURL     = "api_url"
	KeyProduction = "production"
	KeyDev        = "dev"
	KeyLogPath    = "log_path"
	KeyConfigFile = "config_file"
	KeyEnvFile    = "env_file"
)

const DefaultAPIURL = "http://localhost:8000"

const legacyProductionEnv = "NEXT_PUBLIC_IS_PRODUCTION"

type Config struct {
	APIURL     string `mapstructure:"api_url"`
	Production bool   `mapstructure:"production"`
	Dev        bool   `mapstructure:"dev"`
	LogPath    string `mapstructure:"log_path"`
}

// DefaultModel is the model a new session starts with.
func (c *Config) DefaultModel() model.Model {
	return model.Default(c.Production)
}

// Load resolves the configuration from v. Sources, highest first: flags
// already bound to v, the environment, the env file, the config file,
// defaults. The web-era NEXT_PUBLIC_* variables are still honoured.
func Load(v *viper.Viper) (*Config, error) {
	v.SetDefault(KeyAPIURL, DefaultAPIURL)
	v.SetDefault(KeyDev, false)
	v.SetDefault(KeyLogPath, "")

	if err := loadEnvFile(v.GetString(KeyEnvFile)); err != nil {
		return nil, err
	}
	v.SetDefault(KeyProduction, legacyProduction())

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(`-`, `_`, `.`, `_`))
	v.AutomaticEnv()
	if err := v.BindEnv(KeyAPIURL, envPrefix+"_API_URL", "NEXT_PUBLIC_API_URL"); err != nil {
		return nil, err
	}
	if err := v.BindEnv(KeyProduction, envPrefix+"_PRODUCTION"); err != nil {
		return nil, err
	}

	if err := readConfigFile(v, v.GetString(KeyConfigFile)); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	cfg.APIURL = strings.TrimSpace(cfg.APIURL)
	if err := validateURL(cfg.APIURL); err != nil {
		return nil, err
	}
	return cfg, nil
}

// legacyProduction reads NEXT_PUBLIC_IS_PRODUCTION the way the web client
// did: only the exact string "true" enables production, anything else is
// false. It only seeds the default, so every other source overrides it.
func legacyProduction() bool {
	return os.Getenv(legacyProductionEnv) == "true"
}

// loadEnvFile loads path into the process environment without overriding
// variables that are already set. An empty path means ".env", which may be
// absent.
func loadEnvFile(path string) error {
	explicit := path != ""
	if !explicit {
		path = ".env"
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) && !explicit {
			return nil
		}
		return fmt.Errorf("failed to stat env file: %w", err)
	}

	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

// readConfigFile reads path, or looks for medirag.{yaml,toml,json} in the
// working directory and the user config directory when path is empty.
func readConfigFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("medirag")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "medirag"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil
		}
		return fmt.Errorf("error reading config: %w", err)
	}
	return nil
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid api url %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return fmt.Errorf("invalid api url %q: must be an absolute http(s) url", raw)
	}
	return nil
}
