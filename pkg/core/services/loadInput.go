package services

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jakechorley/fairshift/pkg/core/model"
)

// LoadInput reads a YAML rendering of the core's input structures. This is
// an operations and test surface; the production spreadsheet ingest lives
// with an external collaborator.
func LoadInput(path string) (*model.Input, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input file: %w", err)
	}

	var in model.Input
	if err := yaml.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("failed to parse input file: %w", err)
	}

	if err := model.ValidateInput(&in); err != nil {
		return nil, err
	}

	return &in, nil
}
