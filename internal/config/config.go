// Package config loads the source catalog and group layout from YAML.
package config

import (
	"fmt"
	"os"

	"github.com/RobinCoderZhao/feedbridge/internal/bridge"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

// Source describes one configured publisher. Kind is either "feed" for a
// standard syndication feed or the name of a bespoke bridge.
type Source struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
	Kind string `yaml:"kind"`
}

// Group is an ordered, named list of source ids shown as one tab.
type Group struct {
	Name    string   `yaml:"name"`
	Sources []string `yaml:"sources"`
}

// Config is the full runtime configuration.
type Config struct {
	Sources map[string]Source `yaml:"sources"`
	Groups  []Group           `yaml:"groups"`
}

// Load reads a YAML config file, expanding environment variables first.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	if len(cfg.Sources) == 0 {
		return nil, fmt.Errorf("config %s defines no sources", path)
	}
	return &cfg, nil
}

// AllSourceIDs returns the unique source ids across all groups, in group
// order. Ids without a catalog entry are kept; the aggregator skips them
// with a logged warning.
func (c *Config) AllSourceIDs() []string {
	return lo.Uniq(lo.FlatMap(c.Groups, func(g Group, _ int) []string {
		return g.Sources
	}))
}

// SourceNames maps each configured source id to its display name.
func (c *Config) SourceNames() map[string]string {
	names := make(map[string]string, len(c.Sources))
	for id, s := range c.Sources {
		names[id] = s.Name
	}
	return names
}

// Descriptor converts a catalog entry to the descriptor bridges consume.
func (c *Config) Descriptor(id string) (bridge.Descriptor, bool) {
	s, ok := c.Sources[id]
	if !ok {
		return bridge.Descriptor{}, false
	}
	return bridge.Descriptor{ID: id, Name: s.Name, URL: s.URL, Kind: s.Kind}, true
}
