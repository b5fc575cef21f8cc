package config

import (
	"os"
	"path/filepath"

	"github.com/mrz1836/archon/internal/constants"
	"github.com/mrz1836/archon/internal/errors"
)

// GlobalConfigDir returns the global configuration directory (~/.archon).
// The ARCHON_HOME environment variable overrides the default location.
func GlobalConfigDir() (string, error) {
	if home := os.Getenv("ARCHON_HOME"); home != "" {
		return home, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to get user home directory")
	}
	return filepath.Join(home, constants.ArchonHome), nil
}

// ProjectConfigPath returns the project-local config path (.archon/config.yaml)
// relative to the current working directory.
func ProjectConfigPath() string {
	return filepath.Join("."+constants.AppName, "config.yaml")
}
