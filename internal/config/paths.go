package config

import (
	"os"
	"path/filepath"
)

const (
	// EnvConfigPath names an explicit config file
	EnvConfigPath = "RECIPECHAIN_CONFIG"
	// ConfigFileName is the config file looked for in the working directory
	ConfigFileName = "recipechain.yaml"
	// TOMLConfigFileName is the TOML alternative to ConfigFileName
	TOMLConfigFileName = "recipechain.toml"
	// ConfigDirName is the directory under the XDG config home and /etc
	ConfigDirName = "recipechain"
)

// SearchPaths lists the candidate config files in lookup order. Candidates
// whose base directory is unknown (unset HOME, for instance) are left out.
func SearchPaths() []string {
	var paths []string
	if p := os.Getenv(EnvConfigPath); p != "" {
		paths = append(paths, p)
	}

	for _, name := range []string{ConfigFileName, TOMLConfigFileName} {
		if abs, err := filepath.Abs(name); err == nil {
			name = abs
		}
		paths = append(paths, name)
	}

	for _, dir := range []string{userConfigDir(), filepath.Join("/etc", ConfigDirName)} {
		if dir == "" {
			continue
		}
		paths = append(paths, filepath.Join(dir, "config.yaml"), filepath.Join(dir, "config.toml"))
	}
	return paths
}

// FindConfigPath returns the first existing candidate from SearchPaths, or
// "" when there is none.
func FindConfigPath() string {
	for _, p := range SearchPaths() {
		if fileExists(p) {
			return p
		}
	}
	return ""
}

// DefaultConfigPath is where `config init` writes a new file
func DefaultConfigPath() string {
	if dir := userConfigDir(); dir != "" {
		return filepath.Join(dir, "config.yaml")
	}
	return ConfigFileName
}

// EnsureConfigDir creates the directory holding configPath
func EnsureConfigDir(configPath string) error {
	return os.MkdirAll(filepath.Dir(configPath), 0755)
}

// userConfigDir is $XDG_CONFIG_HOME/recipechain, falling back to
// ~/.config/recipechain.
func userConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, ConfigDirName)
	}
	if home := os.Getenv("HOME"); home != "" {
		return filepath.Join(home, ".config", ConfigDirName)
	}
	return ""
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
