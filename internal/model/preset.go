package model

import (
	"time"

	"github.com/google/uuid"
)

// Preset is a named, reusable problem definition: the board, the component
// footprints and the settings to solve them with. It never holds results.
type Preset struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	CreatedAt   string      `json:"created_at"`
	UpdatedAt   string      `json:"updated_at"`
	Board       Board       `json:"board"`
	Components  []Component `json:"components"`
	Settings    Settings    `json:"settings"`
}

// NewPreset captures board, components and settings under name. The
// component slice is copied.
func NewPreset(name, description string, board Board, components []Component, settings Settings) Preset {
	now := time.Now().UTC().Format(time.RFC3339)
	return Preset{
		ID:          uuid.New().String()[:8],
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
		Board:       board,
		Components:  copyComponents(components),
		Settings:    settings,
	}
}

// Problem returns the preset's inputs. The component slice is a copy, so
// callers may change it freely.
func (p Preset) Problem() (Board, []Component, Settings) {
	return p.Board, copyComponents(p.Components), p.Settings
}

// PresetStore holds a collection of presets.
type PresetStore struct {
	Presets []Preset `json:"presets"`
}

func NewPresetStore() PresetStore {
	return PresetStore{
		Presets: []Preset{},
	}
}

// Put adds p, replacing any preset with the same name. A replaced preset
// keeps its ID and creation time.
func (ps *PresetStore) Put(p Preset) {
	if existing := ps.FindByName(p.Name); existing != nil {
		p.ID = existing.ID
		p.CreatedAt = existing.CreatedAt
		*existing = p
		return
	}
	ps.Presets = append(ps.Presets, p)
}

// Remove removes a preset by ID. Returns true if found and removed.
func (ps *PresetStore) Remove(id string) bool {
	for i, p := range ps.Presets {
		if p.ID == id {
			ps.Presets = append(ps.Presets[:i], ps.Presets[i+1:]...)
			return true
		}
	}
	return false
}

// FindByID returns a pointer to the preset with the given ID, or nil.
func (ps *PresetStore) FindByID(id string) *Preset {
	for i := range ps.Presets {
		if ps.Presets[i].ID == id {
			return &ps.Presets[i]
		}
	}
	return nil
}

// FindByName returns a pointer to the preset with the given name, or nil.
func (ps *PresetStore) FindByName(name string) *Preset {
	for i := range ps.Presets {
		if ps.Presets[i].Name == name {
			return &ps.Presets[i]
		}
	}
	return nil
}

func (ps *PresetStore) Names() []string {
	names := make([]string, len(ps.Presets))
	for i, p := range ps.Presets {
		names[i] = p.Name
	}
	return names
}

func copyComponents(components []Component) []Component {
	if components == nil {
		return []Component{}
	}
	cp := make([]Component, len(components))
	copy(cp, components)
	return cp
}
