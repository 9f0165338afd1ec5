// Package config resolves sunprep's directories and runtime settings.
package config

import (
	"os"
	"path/filepath"
)

// Environment variables recognised by sunprep.
const (
	EnvHome      = "SUNPREP_HOME"
	EnvRoot      = "SUNPREP_ROOT"
	EnvCatalog   = "SUNPREP_CATALOG"
	EnvListen    = "SUNPREP_LISTEN"
	EnvToolsDir  = "SUNPREP_TOOLS_DIR"
	EnvOutputDir = "SUNPREP_OUTPUT_DIR"
	EnvLogLevel  = "SUNPREP_LOG_LEVEL"
)

// DataDir returns the directory holding sunprep's own files (config.yaml).
func DataDir() (string, error) {
	if d := os.Getenv(EnvHome); d != "" {
		return d, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".sunprep"), nil
}

// EnsureDataDir creates the data directory if needed and returns it.
func EnsureDataDir() (string, error) {
	d, err := DataDir()
	if err != nil {
		return "", err
	}
	return d, EnsureDir(d)
}

// EnsureDir creates dir and any parents. It is a no-op when dir exists.
func EnsureDir(dir string) error {
	return os.MkdirAll(dir, 0o755)
}

// DefaultConfigPath is the config file consulted when --config is not given.
func DefaultConfigPath() (string, error) {
	d, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(d, "config.yaml"), nil
}
