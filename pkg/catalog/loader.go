package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/parley-labs/parley/pkg/domain"
)

// moduleFile is the on-disk YAML shape of a content pack.
type moduleFile struct {
	Topic  string                `yaml:"topic"`
	Lesson domain.MiniLessonCard `yaml:"mini_lesson"`
	Steps  []*domain.Step        `yaml:"steps"`
}

// LoadFile reads a module content pack from a YAML file and validates it the
// same way the built-in content is validated. Steps that omit pass_threshold
// get the default.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read module file: %w", err)
	}
	return Parse(data)
}

// Parse builds a catalog from raw YAML content.
func Parse(data []byte) (*Catalog, error) {
	var file moduleFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse module file: %w", err)
	}

	for _, step := range file.Steps {
		if step.PassThreshold == 0 {
			step.PassThreshold = domain.DefaultPassThreshold
		}
	}

	return New(file.Topic, file.Steps, file.Lesson)
}
