package importer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// PlanFile is the top-level structure of a project plan file.
type PlanFile struct {
	Project   ProjectImport `json:"project" yaml:"project"`
	Resources []string      `json:"resources,omitempty" yaml:"resources,omitempty"`
	Tasks     []TaskImport  `json:"tasks" yaml:"tasks"`
}

// ProjectImport defines the project-level fields in the plan file.
type ProjectImport struct {
	Name     string  `json:"name" yaml:"name"`
	Budget   float64 `json:"budget,omitempty" yaml:"budget,omitempty"`
	Currency string  `json:"currency,omitempty" yaml:"currency,omitempty"`
	Owner    string  `json:"owner,omitempty" yaml:"owner,omitempty"`
}

// TaskImport defines one task. Either End or Duration fixes the end date.
type TaskImport struct {
	Ref          string              `json:"ref" yaml:"ref"`
	ParentRef    *string             `json:"parent_ref,omitempty" yaml:"parent_ref,omitempty"`
	Name         string              `json:"name" yaml:"name"`
	Start        string              `json:"start" yaml:"start"`
	End          *string             `json:"end,omitempty" yaml:"end,omitempty"`
	Duration     *int                `json:"duration,omitempty" yaml:"duration,omitempty"`
	Progress     *float64            `json:"progress,omitempty" yaml:"progress,omitempty"`
	Assignee     string              `json:"assignee,omitempty" yaml:"assignee,omitempty"`
	Cost         *float64            `json:"cost,omitempty" yaml:"cost,omitempty"`
	Status       string              `json:"status,omitempty" yaml:"status,omitempty"`
	Order        *int                `json:"order,omitempty" yaml:"order,omitempty"`
	Predecessors []PredecessorImport `json:"predecessors,omitempty" yaml:"predecessors,omitempty"`
}

// PredecessorImport links to another task of the same file by ref.
type PredecessorImport struct {
	Ref  string `json:"ref" yaml:"ref"`
	Type string `json:"type,omitempty" yaml:"type,omitempty"`
}

// LoadPlanFile reads a plan file. Files ending in .yaml or .yml are parsed
// as YAML, everything else as JSON.
func LoadPlanFile(path string) (*PlanFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(data)
	default:
		return ParseJSON(data)
	}
}

func ParseJSON(data []byte) (*PlanFile, error) {
	var plan PlanFile
	if err := json.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("parsing plan file: %w", err)
	}
	return &plan, nil
}

func ParseYAML(data []byte) (*PlanFile, error) {
	var plan PlanFile
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("parsing plan file: %w", err)
	}
	return &plan, nil
}
