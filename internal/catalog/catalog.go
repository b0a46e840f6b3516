// Package catalog reads and writes task files and carries the built-in
// sample day.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aristath/dayplanner/internal/scheduler"
)

// File is the on-disk shape of a day: an optional start hour and the task
// records. The format follows the extension: .json, .yaml or .yml.
type File struct {
	StartHour *int                 `json:"start_hour,omitempty" yaml:"start_hour,omitempty"`
	Tasks     []scheduler.TaskSpec `json:"tasks" yaml:"tasks"`
}

// Build validates the records and creates a fresh task collection. Every call
// returns new tasks, since a scheduling run consumes the ones it is given.
func (f *File) Build() ([]*scheduler.Task, error) {
	return scheduler.NewTasks(f.Tasks)
}

// Load reads a task file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var f File
	switch format(path) {
	case "json":
		err = json.Unmarshal(data, &f)
	case "yaml":
		err = yaml.Unmarshal(data, &f)
	default:
		return nil, fmt.Errorf("unsupported task file extension %q (want .json, .yaml or .yml)", filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if len(f.Tasks) == 0 {
		return nil, fmt.Errorf("%s: no tasks defined", path)
	}
	return &f, nil
}

// Write stores f at path in the format matching its extension.
func Write(path string, f *File) error {
	var (
		data []byte
		err  error
	)
	switch format(path) {
	case "json":
		data, err = json.MarshalIndent(f, "", "  ")
		data = append(data, '\n')
	case "yaml":
		data, err = yaml.Marshal(f)
	default:
		return fmt.Errorf("unsupported task file extension %q (want .json, .yaml or .yml)", filepath.Ext(path))
	}
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func format(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return "json"
	case ".yaml", ".yml":
		return "yaml"
	}
	return ""
}
