// Package config loads YAML configuration with environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Validator is an interface for configuration validation.
type Validator interface {
	Validate() error
}

// Load overlays target with the YAML file at filename (skipped when it does
// not exist) and then with environment variables starting with envPrefix.
// A double underscore in a variable name separates nesting levels, so with
// prefix "FOLIO_" the variable FOLIO_HTTP__PORT sets http.port.
//
// target should already hold defaults; keys absent from both sources keep
// their value. If target implements Validator it is validated last.
func Load[T any](filename, envPrefix string, target *T) error {
	k := koanf.New(".")

	if filename != "" {
		if _, err := os.Stat(filename); err == nil {
			if err := k.Load(file.Provider(filename), yaml.Parser()); err != nil {
				return fmt.Errorf("failed to read config file %s: %w", filename, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to access config file %s: %w", filename, err)
		}
	}

	if envPrefix != "" {
		if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
			key := strings.ToLower(strings.TrimPrefix(s, envPrefix))
			return strings.ReplaceAll(key, "__", ".")
		}), nil); err != nil {
			return fmt.Errorf("failed to load env overrides: %w", err)
		}
	}

	if err := k.Unmarshal("", target); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}

	if validator, ok := any(target).(Validator); ok {
		if err := validator.Validate(); err != nil {
			return fmt.Errorf("config validation failed: %w", err)
		}
	}

	return nil
}
