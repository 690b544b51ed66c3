// Package config loads CLI settings from config files, .env files and the environment.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/satishbabariya/querycatalog/internal/adapters/database"
	"github.com/satishbabariya/querycatalog/internal/debug"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

// AppFs is the filesystem config and .env files are read from.
var AppFs = afero.NewOsFs()

const (
	fileName  = ".querycatalog"
	envPrefix = "QUERYCATALOG"
)

// Config holds the application configuration
type Config struct {
	Provider       string
	DatabaseURL    string
	Debug          bool
	MaxConnections int
	MaxIdleTime    int
	ConnectTimeout int
	CacheSize      int

	// ConfigFile is the file the settings were read from, empty when none was found.
	ConfigFile string
}

// Database returns the adapter configuration.
func (c *Config) Database() database.Config {
	return database.Config{
		Provider:       c.Provider,
		URL:            c.DatabaseURL,
		MaxConnections: c.MaxConnections,
		MaxIdleTime:    c.MaxIdleTime,
		ConnectTimeout: c.ConnectTimeout,
	}
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetFs(AppFs)

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	_ = v.BindEnv("database_url", envPrefix+"_DATABASE_URL", "DATABASE_URL")

	v.SetDefault("provider", "sqlite")
	v.SetDefault("database_url", "file:querycatalog.db")
	v.SetDefault("debug", false)
	v.SetDefault("max_connections", database.DefaultMaxConnections)
	v.SetDefault("max_idle_time", database.DefaultMaxIdleTime)
	v.SetDefault("connect_timeout", database.DefaultConnectTimeout)
	v.SetDefault("cache_size", 256)
	return v
}

// Load reads configuration. An explicit path must exist; otherwise .querycatalog.yaml is
// looked up in the working directory, the home directory and ~/.config/querycatalog.
// Environment variables (QUERYCATALOG_*, and DATABASE_URL) win over the file.
func Load(path string) (*Config, error) {
	if err := loadDotenv(); err != nil {
		return nil, err
	}

	v := newViper()
	if path != "" {
		if _, err := AppFs.Stat(path); err != nil {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
		v.SetConfigFile(path)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			return nil, err
		}
		v.SetConfigName(fileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(home)
		v.AddConfigPath(filepath.Join(home, ".config", "querycatalog"))
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{
		Provider:       v.GetString("provider"),
		DatabaseURL:    v.GetString("database_url"),
		Debug:          v.GetBool("debug"),
		MaxConnections: v.GetInt("max_connections"),
		MaxIdleTime:    v.GetInt("max_idle_time"),
		ConnectTimeout: v.GetInt("connect_timeout"),
		CacheSize:      v.GetInt("cache_size"),
		ConfigFile:     v.ConfigFileUsed(),
	}
	debug.Debug("Loaded config", "file", cfg.ConfigFile, "provider", cfg.Provider)
	return cfg, nil
}

// loadDotenv applies .env without overriding variables already set, then .env.local with
// override.
func loadDotenv() error {
	for _, f := range []struct {
		name     string
		override bool
	}{{".env", false}, {".env.local", true}} {
		data, err := afero.ReadFile(AppFs, f.name)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return err
		}
		vars, err := godotenv.Parse(bytes.NewReader(data))
		if err != nil {
			return fmt.Errorf("failed to parse %s: %w", f.name, err)
		}
		for k, val := range vars {
			if _, set := os.LookupEnv(k); set && !f.override {
				continue
			}
			if err := os.Setenv(k, val); err != nil {
				return err
			}
		}
	}
	return nil
}

// DefaultPath returns ~/.config/querycatalog/.querycatalog.yaml.
func DefaultPath() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "querycatalog", fileName+".yaml"), nil
}

// Save writes cfg to path, or to DefaultPath when path is empty.
func Save(cfg *Config, path string) error {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	if err := AppFs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	v := viper.New()
	v.SetFs(AppFs)
	v.Set("provider", cfg.Provider)
	v.Set("database_url", cfg.DatabaseURL)
	v.Set("debug", cfg.Debug)
	v.Set("max_connections", cfg.MaxConnections)
	v.Set("max_idle_time", cfg.MaxIdleTime)
	v.Set("connect_timeout", cfg.ConnectTimeout)
	v.Set("cache_size", cfg.CacheSize)
	return v.WriteConfigAs(path)
}
