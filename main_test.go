package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunStdin(t *testing.T) {
	var out bytes.Buffer
	err := run(nil, strings.NewReader(`{"a": 1, "b": "x"}`+"\n"+`{"a": 2}`), &out)
	require.NoError(t, err)

	want := `{
		"$schema": "http://json-schema.org/draft-04/schema",
		"type": "object",
		"properties": {"a": {"type": "number"}, "b": {"type": "string"}},
		"required": ["a"]
	}`
	assert.JSONEq(t, want, out.String())
}

func TestRunFiles(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.json")
	b := filepath.Join(dir, "b.json")
	require.NoError(t, os.WriteFile(a, []byte(`[1, 2]`), 0o644))
	require.NoError(t, os.WriteFile(b, []byte(`["x"]`), 0o644))

	var out bytes.Buffer
	require.NoError(t, run([]string{"-parallel", "2", a, b}, nil, &out))

	want := `{
		"$schema": "http://json-schema.org/draft-04/schema",
		"type": "array",
		"items": {"anyOf": [{"type": "number"}, {"type": "string"}]}
	}`
	assert.JSONEq(t, want, out.String())
}

func TestRunMissingFile(t *testing.T) {
	var out bytes.Buffer
	err := run([]string{filepath.Join(t.TempDir(), "nope.json")}, nil, &out)
	assert.Error(t, err)
}

func TestRunMalformed(t *testing.T) {
	var out bytes.Buffer
	err := run(nil, strings.NewReader(`{"a": `), &out)
	assert.Error(t, err)
}

func TestRunYAML(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run([]string{"-format", "yaml"}, strings.NewReader(`true`), &out))
	assert.Contains(t, out.String(), "type: boolean")
}

func TestRunOpenAPI(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run([]string{"-format", "openapi"}, strings.NewReader(`{"id": 1}`), &out))
	assert.Contains(t, out.String(), `"openapi"`)
	assert.Contains(t, out.String(), `"3.0.3"`)
	assert.Contains(t, out.String(), `"Sample"`)
}

func TestRunUnknownFormat(t *testing.T) {
	var out bytes.Buffer
	err := run([]string{"-format", "xml"}, strings.NewReader(`1`), &out)
	assert.ErrorIs(t, err, errUnknownFormat)
}

func TestParseConfigServe(t *testing.T) {
	t.Setenv("SHAPEINFER_ADDR", ":7070")

	cfg, err := parseConfig([]string{"-serve", "-addr", ":9999"})
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.serve)

	cfg, err = parseConfig([]string{"-serve"})
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.serve)

	cfg, err = parseConfig([]string{"-addr", ":9999", "a.json"})
	require.NoError(t, err)
	assert.Empty(t, cfg.serve)
	assert.Equal(t, []string{"a.json"}, cfg.files)
}
