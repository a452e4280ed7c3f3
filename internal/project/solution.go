package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/piwi3910/BoardPlace/internal/model"
)

// SolutionVersion is written to every solution file.
const SolutionVersion = "1.0.0"

// SolutionFile is the persisted outcome of a run: the inputs it was solved
// for and the result.
type SolutionFile struct {
	Version    string            `json:"version"`
	CreatedAt  string            `json:"created_at"`
	Board      model.Board       `json:"board"`
	Components []model.Component `json:"components"`
	Settings   model.Settings    `json:"settings"`
	Result     model.Result      `json:"result"`
}

// NewSolutionFile stamps a run with the current version and time.
func NewSolutionFile(board model.Board, components []model.Component, settings model.Settings, result model.Result) SolutionFile {
	return SolutionFile{
		Version:    SolutionVersion,
		CreatedAt:  time.Now().UTC().Format(time.RFC3339),
		Board:      board,
		Components: components,
		Settings:   settings,
		Result:     result,
	}
}

// SaveSolution writes a solution file as indented JSON.
func SaveSolution(path string, sf SolutionFile) error {
	data, err := json.MarshalIndent(sf, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal solution: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create solution directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write solution file: %w", err)
	}
	return nil
}

// LoadSolution reads a solution file written by SaveSolution.
func LoadSolution(path string) (SolutionFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return SolutionFile{}, fmt.Errorf("failed to read solution file: %w", err)
	}
	var sf SolutionFile
	if err := json.Unmarshal(data, &sf); err != nil {
		return SolutionFile{}, fmt.Errorf("failed to parse solution file: %w", err)
	}
	if sf.Version == "" {
		return SolutionFile{}, fmt.Errorf("invalid solution file: missing version field")
	}
	return sf, nil
}
