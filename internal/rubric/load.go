package rubric

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads a rubric override file. Fields present in the file replace
// the built-in values; lists (categories, mechanisms, critical mechanisms)
// are replaced wholesale and multipliers are merged by name.
// An empty path returns the built-in rubric.
func Load(path string) (*Rubric, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rubric: %w", err)
	}

	r, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("rubric %s: %w", path, err)
	}
	return r, nil
}

// Parse decodes rubric YAML on top of the built-in rubric and validates it
func Parse(data []byte) (*Rubric, error) {
	r := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(r); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode: %w", err)
	}

	if err := r.finalize(); err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}
	return r, nil
}
