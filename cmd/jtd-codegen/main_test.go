package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunEmitsJSTarget(t *testing.T) {
	cfg := &config{Target: "js", LogLevel: "info", LogFormat: "logfmt"}
	stdin := strings.NewReader(`{"type": "string"}`)
	var stdout bytes.Buffer

	err := run(cfg, nil, stdin, &stdout)
	assert.NoError(t, err)
	assert.Contains(t, stdout.String(), "export function validate(instance)")
}

func TestRunTargetAliasesCanonicalize(t *testing.T) {
	cases := []struct {
		alias string
		want  string
	}{
		{"js", "js"},
		{"javascript", "js"},
		{"py", "python"},
		{"python", "python"},
		{"rs", "rust"},
		{"rust", "rust"},
		{"lua", "lua"},
	}
	for _, tt := range cases {
		got, ok := targetAliases[tt.alias]
		assert.True(t, ok, tt.alias)
		assert.Equal(t, tt.want, got, tt.alias)
	}
}

func TestRunUnknownTargetErrors(t *testing.T) {
	cfg := &config{Target: "cobol", LogLevel: "info", LogFormat: "logfmt"}
	stdin := strings.NewReader(`{}`)
	var stdout bytes.Buffer

	err := run(cfg, nil, stdin, &stdout)
	assert.Error(t, err)
}

func TestRunInvalidSchemaReportsErrorFormat(t *testing.T) {
	cfg := &config{Target: "js", LogLevel: "info", LogFormat: "logfmt"}
	stdin := strings.NewReader(`{"type": "string", "enum": ["a"]}`)
	var stdout bytes.Buffer

	err := run(cfg, nil, stdin, &stdout)
	assert.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "Invalid JTD schema:"))
}

func TestRunRustTarget(t *testing.T) {
	cfg := &config{Target: "rust", LogLevel: "info", LogFormat: "logfmt"}
	stdin := strings.NewReader(`{"type": "uint8"}`)
	var stdout bytes.Buffer

	err := run(cfg, nil, stdin, &stdout)
	assert.NoError(t, err)
	assert.Contains(t, stdout.String(), "pub fn validate(instance: &Value) -> Vec<JtdError>")
}
