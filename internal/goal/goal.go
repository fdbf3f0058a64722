// Package goal defines the goal records consumed from the markdown
// analyzer. Parsing goal files and phase scoring happen outside this
// module; here a goal is just an id with a phase and a completion figure.
package goal

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Goal is the analyzer's summary of one goal file.
type Goal struct {
	ID                string  `json:"id"`
	Phase             string  `json:"phase"`
	CompletionPercent float64 `json:"completion_percent"`
}

// Source yields the current goal set for a project.
type Source interface {
	Goals() ([]Goal, error)
}

// FileSource reads the analyzer's cached export from
// <project>/.goalkit/goals.json.
type FileSource struct {
	path string
}

// NewFileSource returns a source bound to the given project directory.
func NewFileSource(projectDir string) *FileSource {
	return &FileSource{path: filepath.Join(projectDir, ".goalkit", "goals.json")}
}

// Goals reads the export. A missing file means no goals, not an error.
func (s *FileSource) Goals() ([]Goal, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read goals export: %w", err)
	}

	var goals []Goal
	if err := json.Unmarshal(data, &goals); err != nil {
		return nil, fmt.Errorf("failed to parse goals export: %w", err)
	}
	return goals, nil
}
