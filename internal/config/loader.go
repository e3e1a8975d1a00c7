package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rxtech-lab/argo-advisor/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Load merges the YAML file at path over Defaults, then applies .env files and
// ADVISOR_* environment variables. An empty path skips the file. The result
// is not validated; call Validate after applying command line overrides.
func Load(path string, envFiles ...string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to read config %s", path)
		}

		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to parse config %s", path)
		}
	}

	// a missing .env is not an error
	_ = godotenv.Load(envFiles...)

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	setStr(&cfg.DataPath, "ADVISOR_DATA_PATH")
	setStr((*string)(&cfg.Backend), "ADVISOR_BACKEND")
	setStr(&cfg.LogLevel, "ADVISOR_LOG_LEVEL")
	setStr(&cfg.ListenAddr, "ADVISOR_LISTEN_ADDR")
	setBool(&cfg.ShowProgress, "ADVISOR_SHOW_PROGRESS")
}

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}
