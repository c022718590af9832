// Package config loads the service configuration from a YAML document and
// the process environment.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/dimspell/svctemplate/internal/model"
	"gopkg.in/yaml.v3"
)

const (
	PathEnvVar        = "APP_CONFIG_PATH"
	PortEnvVar        = "SERVICE_PORT"
	CORSOriginsEnvVar = "CORS_ALLOWED_ORIGINS"

	DefaultPort      uint16 = 8080
	DefaultHelloName        = "World"
)

// LookupEnvFunc has the signature of os.LookupEnv.
type LookupEnvFunc func(key string) (string, bool)

// ServiceConfig is the `svc.svc-template` section of the config document.
type ServiceConfig struct {
	HelloName string `yaml:"hello-name" validate:"min=2,max=100"`
}

func Default() ServiceConfig {
	return ServiceConfig{HelloName: DefaultHelloName}
}

type document struct {
	Svc struct {
		Template ServiceConfig `yaml:"svc-template"`
	} `yaml:"svc"`
}

// Parse decodes and validates a config document. Missing sections and keys
// keep their defaults, so an empty document yields Default().
func Parse(data []byte) (ServiceConfig, error) {
	var doc document
	doc.Svc.Template = Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return ServiceConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}

	cfg := doc.Svc.Template
	if err := model.Validate(cfg); err != nil {
		return ServiceConfig{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Load reads the config document at path. An empty path means no document,
// so Default() is returned.
func Load(path string) (ServiceConfig, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return ServiceConfig{}, fmt.Errorf("failed to open config file at %s: %w", path, err)
	}
	return Parse(data)
}

// PortFromEnv reads SERVICE_PORT. An unset variable means DefaultPort; a
// value that is not a 16-bit unsigned integer is an error.
func PortFromEnv(lookup LookupEnvFunc) (uint16, error) {
	value, ok := lookup(PortEnvVar)
	if !ok {
		return DefaultPort, nil
	}

	port, err := strconv.ParseUint(value, 10, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", PortEnvVar, value, err)
	}
	return uint16(port), nil
}
