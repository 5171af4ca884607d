// Package project handles persistence: engine configuration under the
// user's config directory and layout project files.
package project

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/piwi3910/PanelGrid/internal/model"
)

// DefaultConfigDir returns the default directory for application configuration.
// On all platforms this is ~/.panelgrid/
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".panelgrid")
}

// DefaultConfigPath returns the default path for the engine config file.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.json")
}

// SaveEngineConfig persists an EngineConfig to the given path as JSON.
// It creates any missing parent directories automatically.
func SaveEngineConfig(path string, config model.EngineConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadEngineConfig reads an EngineConfig from the given path.
// If the file does not exist, it returns DefaultEngineConfig with no error.
func LoadEngineConfig(path string) (model.EngineConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.DefaultEngineConfig(), nil
		}
		return model.EngineConfig{}, err
	}
	var config model.EngineConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return model.EngineConfig{}, err
	}
	return config, nil
}
