package version

import (
	"testing"

	"github.com/rxtech-lab/argo-advisor/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckConfigCompatibility(t *testing.T) {
	tests := []struct {
		name          string
		binary        string
		config        string
		expectError   bool
		errorContains string
	}{
		{name: "exact match", binary: "1.2.0", config: "1.2.0"},
		{name: "binary patch higher", binary: "1.2.1", config: "1.2.0"},
		{name: "config patch higher", binary: "1.2.0", config: "1.2.5"},
		{name: "v prefix on both", binary: "v1.2.0", config: "v1.2.3"},
		{name: "v prefix on one side", binary: "v0.4.0", config: "0.4.9"},
		{name: "binary is main", binary: "main", config: "1.3.0"},
		{name: "config is main", binary: "1.2.0", config: "main"},
		{name: "config version omitted", binary: "1.2.0", config: ""},
		{
			name: "binary minor higher", binary: "1.3.0", config: "1.2.0",
			expectError: true, errorContains: "minor version mismatch",
		},
		{
			name: "binary minor lower", binary: "1.1.0", config: "1.2.0",
			expectError: true, errorContains: "minor version mismatch",
		},
		{
			name: "major differs", binary: "2.0.0", config: "1.2.0",
			expectError: true, errorContains: "major version mismatch",
		},
		{
			name: "invalid binary version", binary: "not-a-version", config: "1.2.0",
			expectError: true, errorContains: "invalid binary version",
		},
		{
			name: "invalid config version", binary: "1.2.0", config: "one.two",
			expectError: true, errorContains: "invalid config version",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckConfigCompatibility(tt.binary, tt.config)
			if !tt.expectError {
				assert.NoError(t, err)

				return
			}

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorContains)
			assert.True(t, errors.HasCode(err, errors.ErrCodeVersionMismatch))
		})
	}
}

func TestGetVersion(t *testing.T) {
	original := Version
	defer func() { Version = original }()

	Version = "v0.3.1"
	assert.Equal(t, "v0.3.1", GetVersion())
}
