package flowconfig

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/aretw0/formflow/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Format selects the parser for a document.
type Format int

const (
	// FormatAuto sniffs the document: JSON when it starts with '{', YAML otherwise.
	FormatAuto Format = iota
	FormatJSON
	FormatYAML
)

// Decode parses a configuration document into a FlowConfig.
func Decode(data []byte, format Format) (*domain.FlowConfig, error) {
	if format == FormatAuto {
		format = FormatYAML
		if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '{' {
			format = FormatJSON
		}
	}

	var doc map[string]any
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse config json: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse config yaml: %w", err)
		}
	}
	if doc == nil {
		return nil, fmt.Errorf("config document is empty")
	}

	var cfg domain.FlowConfig
	if err := mapstructure.Decode(doc, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}
