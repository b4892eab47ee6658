package config

import (
	"os"
	"path/filepath"
)

// RootPath returns the root directory for smartplan data.
// It uses $SMARTPLAN_PATH if set, otherwise defaults to ~/.smartplan.
func RootPath() string {
	if v := os.Getenv("SMARTPLAN_PATH"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".smartplan")
	}
	return filepath.Join(home, ".smartplan")
}

// ConfigPath returns the path to the smartplan config file.
func ConfigPath() string {
	return filepath.Join(RootPath(), "config.jsonc")
}

// DotenvPath returns the path to the smartplan .env file.
func DotenvPath() string {
	return filepath.Join(RootPath(), ".env")
}
