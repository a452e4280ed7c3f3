package project

import (
	"path/filepath"

	"github.com/piwi3910/BoardPlace/internal/model"
)

// DefaultPresetPath returns ~/.boardplace/presets.json.
func DefaultPresetPath() string {
	return filepath.Join(DefaultConfigDir(), "presets.json")
}

// SavePresets writes the preset store to a JSON file.
func SavePresets(path string, store model.PresetStore) error {
	return writeUserFile(path, "presets", store)
}

// LoadPresets reads a preset store from a JSON file.
// If the file does not exist, returns an empty store.
func LoadPresets(path string) (model.PresetStore, error) {
	var store model.PresetStore
	if _, err := readUserFile(path, "presets", &store); err != nil {
		return model.PresetStore{}, err
	}
	if store.Presets == nil {
		store.Presets = []model.Preset{}
	}
	return store, nil
}
