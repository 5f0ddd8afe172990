// Package config loads gate deployments from YAML.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/creastat/gate/behaviour"
	"github.com/creastat/gate/core"
	"github.com/creastat/gate/entity"
	"github.com/creastat/infra/telemetry"
	"gopkg.in/yaml.v3"
)

// DefaultLogLevel is used when the log level is not configured
const DefaultLogLevel = "info"

// Config describes a set of entities and the behaviours attached to them
type Config struct {
	Log      LogConfig      `yaml:"log"`
	Entities []EntityConfig `yaml:"entities"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string `yaml:"level"`
}

// EntityConfig declares one entity instance
type EntityConfig struct {
	// Type is the entity type name
	Type string `yaml:"type"`
	// Behaviour is attached after the entity is created. Empty means none.
	Behaviour string `yaml:"behaviour"`
	// Properties are the entity's properties with their initial values
	Properties map[string]core.Value `yaml:"properties"`
}

// Load reads and parses a YAML configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %q: %w", path, err)
	}
	return Parse(data)
}

// Parse parses and validates a YAML configuration
func Parse(data []byte) (*Config, error) {
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks that every entity is well formed
func (c *Config) Validate() error {
	var errs []error
	for i, ec := range c.Entities {
		if ec.Type == "" {
			errs = append(errs, fmt.Errorf("entity %d: type must be set", i))
		}
		if ec.Behaviour != "" && len(ec.Properties) == 0 {
			errs = append(errs, fmt.Errorf("entity %d (%s): behaviour %q needs properties", i, ec.Type, ec.Behaviour))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// TelemetryConfig returns the logger configuration
func (c *Config) TelemetryConfig() telemetry.Config {
	return telemetry.Config{Level: c.Log.Level}
}

// Build creates every declared entity, adds it to store and attaches its
// behaviour through manager. On failure the entities built so far are
// detached and removed from store again.
func (c *Config) Build(store *entity.Store, manager *behaviour.Manager) ([]*entity.ReactiveEntityInstance, error) {
	built := make([]*entity.ReactiveEntityInstance, 0, len(c.Entities))
	for i, ec := range c.Entities {
		e := entity.NewReactiveEntityInstance(ec.Type, ec.Properties)

		if ec.Behaviour != "" {
			if _, err := manager.Attach(e, ec.Behaviour); err != nil {
				for _, b := range built {
					manager.Detach(b)
					store.Remove(b.ID)
				}
				return nil, fmt.Errorf("entity %d (%s): %w", i, ec.Type, err)
			}
		}

		store.Add(e)
		built = append(built, e)
	}
	return built, nil
}
