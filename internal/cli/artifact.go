package cli

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mrz1836/archon/internal/domain"
	"github.com/mrz1836/archon/internal/errors"
)

// LoadArtifact reads and validates an artifact from a YAML file.
func LoadArtifact(path string) (*domain.Artifact, error) {
	data, err := os.ReadFile(path) //nolint:gosec // Path is user-supplied by design
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", errors.ErrArtifactNotFound, path)
		}
		return nil, errors.Wrapf(err, "failed to read artifact file %s", path)
	}

	var artifact domain.Artifact
	if err := yaml.Unmarshal(data, &artifact); err != nil {
		return nil, errors.Wrapf(err, "failed to parse artifact file %s", path)
	}

	if err := domain.ValidateArtifact(&artifact); err != nil {
		return nil, err
	}
	return &artifact, nil
}
