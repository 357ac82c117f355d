package export

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/julianstephens/fieldplan/internal/models"
)

// Plan is the YAML document shape used for export and import.
type Plan struct {
	Activities []models.Activity `yaml:"activities"`
}

// WriteYAML encodes the live activities as a Plan document.
func WriteYAML(w io.Writer, acts []models.Activity) error {
	plan := Plan{Activities: make([]models.Activity, 0, len(acts))}
	for _, a := range acts {
		if !a.IsDeleted() {
			plan.Activities = append(plan.Activities, a)
		}
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(plan); err != nil {
		return fmt.Errorf("failed to encode yaml: %w", err)
	}
	return enc.Close()
}

// ReadYAML decodes a Plan document. Activities without an id get a fresh
// one, and end dates are always derived from start and duration so a
// hand-edited file cannot carry a stale end date into the collection.
func ReadYAML(r io.Reader) ([]models.Activity, error) {
	var plan Plan
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&plan); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to decode yaml: %w", err)
	}

	acts := make([]models.Activity, 0, len(plan.Activities))
	for i, a := range plan.Activities {
		if err := prepare(&a); err != nil {
			return nil, fmt.Errorf("activity %d (%s): %w", i+1, a.SubjectName, err)
		}
		acts = append(acts, a)
	}
	return acts, nil
}
