package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/piwi3910/PanelGrid/internal/model"
)

// projectVersion is written into every saved project file.
const projectVersion = "1.0.0"

// Project is the top-level structure for a saved layout: the source regions
// and the engine configuration used to process them.
type Project struct {
	Version   string             `json:"version"`
	Name      string             `json:"name"`
	CreatedAt string             `json:"created_at"`
	Regions   []model.Region     `json:"regions"`
	Config    model.EngineConfig `json:"config"`
}

// SaveProject writes a project to the specified path as indented JSON.
func SaveProject(path string, name string, regions []model.Region, config model.EngineConfig) error {
	p := Project{
		Version:   projectVersion,
		Name:      name,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Regions:   regions,
		Config:    config,
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal project: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create project directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write project file: %w", err)
	}
	return nil
}

// LoadProject reads a project file and returns the contained data.
func LoadProject(path string) (Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Project{}, fmt.Errorf("failed to read project file: %w", err)
	}
	var p Project
	if err := json.Unmarshal(data, &p); err != nil {
		return Project{}, fmt.Errorf("failed to parse project file: %w", err)
	}
	if p.Version == "" {
		return Project{}, fmt.Errorf("invalid project file: missing version field")
	}
	if p.Regions == nil {
		p.Regions = []model.Region{}
	}
	return p, nil
}
