// Package config loads advisorbot settings from YAML, .env files and
// ADVISOR_* environment variables.
package config

import (
	"encoding/json"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"github.com/rxtech-lab/argo-advisor/internal/version"
	"github.com/rxtech-lab/argo-advisor/pkg/errors"
)

// Backend selects the order source behind the advisor.
type Backend string

const (
	BackendMemory Backend = "memory"
	BackendDuckDB Backend = "duckdb"
)

// Config is the advisorbot configuration.
type Config struct {
	Version      string  `yaml:"version" json:"version,omitempty" jsonschema:"title=Version,description=Advisorbot version the file was written for"`
	DataPath     string  `yaml:"data_path" json:"data_path" jsonschema:"title=Data Path,description=CSV file of order book records,required" validate:"required"`
	Backend      Backend `yaml:"backend" json:"backend" jsonschema:"title=Backend,description=Order source used for queries,enum=memory,enum=duckdb,default=memory" validate:"required,oneof=memory duckdb"`
	LogLevel     string  `yaml:"log_level" json:"log_level" jsonschema:"title=Log Level,enum=debug,enum=info,enum=warn,enum=error,default=info" validate:"required,oneof=debug info warn error"`
	ListenAddr   string  `yaml:"listen_addr" json:"listen_addr" jsonschema:"title=Listen Address,description=Address the HTTP API binds to,default=:8080" validate:"required,hostname_port"`
	ShowProgress bool    `yaml:"show_progress" json:"show_progress" jsonschema:"title=Show Progress,description=Render a progress bar while loading"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		DataPath:     "20200317.csv",
		Backend:      BackendMemory,
		LogLevel:     "info",
		ListenAddr:   ":8080",
		ShowProgress: false,
	}
}

// Validate checks field constraints and that the config version is
// compatible with the running binary.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid config", err)
	}

	return version.CheckConfigCompatibility(version.GetVersion(), c.Version)
}

// GenerateSchemaJSON returns the JSON schema of Config.
func GenerateSchemaJSON() (string, error) {
	r := new(jsonschema.Reflector)
	r.DoNotReference = true
	schema := r.Reflect(&Config{})

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", err
	}

	return string(data), nil
}
