package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadFile reads pool parameters from a YAML file.
//
// Unknown keys are rejected so that a typo never silently drops a field.
// Defaults are applied but validation is left to the caller, which may still
// apply command-line overrides.
func LoadFile(path string) (*PoolParams, error) {
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes pool parameters from YAML bytes.
func Parse(data []byte) (*PoolParams, error) {
	var params PoolParams

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&params); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
	}

	params.ApplyDefaults()
	return &params, nil
}
