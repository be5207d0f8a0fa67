package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	matchAll = "all"
	matchAny = "any"
)

// queryConfig is a condition set combined with all (&&) or any (||)
type queryConfig struct {
	Match      string            `yaml:"match" json:"match"`
	Conditions []conditionConfig `yaml:"conditions" json:"conditions"`
}

// conditionConfig applies one capability to the path it names. Value is the
// operand of binary operators; Values holds the operands of in, notIn and
// between.
type conditionConfig struct {
	Path   string        `yaml:"path" json:"path"`
	Op     string        `yaml:"op" json:"op"`
	Value  interface{}   `yaml:"value" json:"value"`
	Values []interface{} `yaml:"values" json:"values"`
}

func loadQueryConfig(path string) (*queryConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading query: %w", err)
	}

	cfg := &queryConfig{}
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing query json: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing query yaml: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *queryConfig) validate() error {
	switch c.Match {
	case "":
		c.Match = matchAll
	case matchAll, matchAny:
	default:
		return fmt.Errorf("match: must be %q or %q, got %q", matchAll, matchAny, c.Match)
	}

	if len(c.Conditions) == 0 {
		return fmt.Errorf("conditions: at least one condition is required")
	}
	for i, cond := range c.Conditions {
		if cond.Path == "" {
			return fmt.Errorf("conditions[%d].path: required", i)
		}
		if cond.Op == "" {
			return fmt.Errorf("conditions[%d].op: required", i)
		}
	}
	return nil
}
