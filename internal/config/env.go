package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"recipechain/internal/layout"
)

// Environment variables that override file values
const (
	EnvAddr          = "RECIPECHAIN_ADDR"
	EnvDataDir       = "RECIPECHAIN_DATA_DIR"
	EnvWatch         = "RECIPECHAIN_WATCH"
	EnvDBPath        = "RECIPECHAIN_DB_PATH"
	EnvLayoutProfile = "RECIPECHAIN_LAYOUT_PROFILE"
	EnvLogLevel      = "RECIPECHAIN_LOG_LEVEL"
	EnvLogFormat     = "RECIPECHAIN_LOG_FORMAT"
)

// LoadDotEnv loads variables from a .env file without overriding ones
// already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides config values from RECIPECHAIN_* variables
func ApplyEnv(c *Config) {
	if v := os.Getenv(EnvAddr); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv(EnvDataDir); v != "" {
		c.Data.Dir = v
	}
	if v := os.Getenv(EnvWatch); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Data.Watch = b
		}
	}
	if v := os.Getenv(EnvDBPath); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv(EnvLayoutProfile); v != "" {
		c.Layout.Profile = layout.Profile(v)
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		c.Log.Format = v
	}
}
