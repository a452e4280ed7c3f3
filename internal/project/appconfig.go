package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/piwi3910/BoardPlace/internal/model"
)

// userDirName is the per-user directory holding viewer state and presets.
const userDirName = ".boardplace"

// DefaultConfigDir returns ~/.boardplace, or ./.boardplace when the home
// directory cannot be determined.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, userDirName)
}

// DefaultConfigPath returns ~/.boardplace/config.json.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.json")
}

// SaveAppConfig writes the user defaults and recent solution list.
func SaveAppConfig(path string, config model.AppConfig) error {
	return writeUserFile(path, "app config", config)
}

// LoadAppConfig reads the user defaults. A missing file is not an error:
// the stock defaults are returned instead. Keys absent from the file keep
// their default values.
func LoadAppConfig(path string) (model.AppConfig, error) {
	config := model.DefaultAppConfig()
	found, err := readUserFile(path, "app config", &config)
	if err != nil {
		return model.AppConfig{}, err
	}
	if !found || config.RecentSolutions == nil {
		config.RecentSolutions = []string{}
	}
	return config, nil
}

// writeUserFile stores v as indented JSON, creating the parent directory.
// what names the file in error messages.
func writeUserFile(path, what string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create %s directory: %w", what, err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", what, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", what, err)
	}
	return nil
}

// readUserFile decodes path into v. It reports false, with no error, when
// the file does not exist.
func readUserFile(path, what string, v any) (bool, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", what, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("failed to parse %s: %w", what, err)
	}
	return true, nil
}
