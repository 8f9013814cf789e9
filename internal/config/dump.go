package config

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Dump renders cfg as YAML with two-space indentation.
func Dump(cfg *Config) (string, error) {
	var buf strings.Builder
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(cfg); err != nil {
		return "", fmt.Errorf("failed to encode config: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return "", fmt.Errorf("failed to encode config: %w", err)
	}
	return buf.String(), nil
}
