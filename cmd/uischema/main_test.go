package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-uischema/pkg/schema"
)

var (
	profilePath   = filepath.Join("..", "..", "testdata", "schemas", "profile.json")
	dashboardPath = filepath.Join("..", "..", "testdata", "schemas", "dashboard.yaml")
	invalidPath   = filepath.Join("..", "..", "testdata", "schemas", "invalid.json")
	dataPath      = filepath.Join("..", "..", "testdata", "data", "profile.json")
)

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	app := newApp(&stdout, &stderr)
	err := app.Run(append([]string{"uischema"}, args...))
	return stdout.String(), stderr.String(), err
}

func TestValidate_ReportsEveryFile(t *testing.T) {
	stdout, _, err := run(t, "validate", profilePath, invalidPath, dashboardPath)
	require.Error(t, err)
	assert.Equal(t, "1 of 3 schemas failed validation", err.Error())

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "ok   "+dashboardPath))
	assert.True(t, strings.HasPrefix(lines[1], "FAIL "+invalidPath+": Validation failed: "))
	assert.Contains(t, lines[1], `root.id: Missing required field "id"`)
	assert.Equal(t, "ok   "+profilePath, lines[2])
}

func TestValidate_RequiresFiles(t *testing.T) {
	_, _, err := run(t, "validate")
	require.Error(t, err)
}

func TestValidate_UniqueIDs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dup.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"version":"1","root":{"id":"a","type":"Row","children":[{"id":"a","type":"Text"}]}}`), 0o644))

	_, _, err := run(t, "validate", path)
	require.NoError(t, err)

	stdout, _, err := run(t, "validate", "--unique-ids", path)
	require.Error(t, err)
	assert.Contains(t, stdout, `Duplicate component id "a"`)
}

func TestFormat_Compact(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tiny.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"root": {"type": "Text", "id": "a"}, "version": "1"}`), 0o644))

	stdout, _, err := run(t, "format", "--compact", path)
	require.NoError(t, err)
	assert.Equal(t, `{"version":"1","root":{"id":"a","type":"Text"}}`+"\n", stdout)
}

func TestFormat_YAMLInput(t *testing.T) {
	stdout, _, err := run(t, "format", dashboardPath)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &decoded))
	assert.Equal(t, "1.0.0", decoded["version"])
	assert.Contains(t, stdout, "\n  \"root\"")
}

func TestFields_Unique(t *testing.T) {
	stdout, _, err := run(t, "fields", "--unique", profilePath)
	require.NoError(t, err)
	assert.Equal(t, []string{"user.name", "form.email", "labels.email", "orders", "flags.showOrders", "order.id"},
		strings.Split(strings.TrimSpace(stdout), "\n"))
}

func TestFields_JSON(t *testing.T) {
	stdout, _, err := run(t, "fields", profilePath)
	require.NoError(t, err)

	var fields []map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &fields))
	require.Len(t, fields, 6)
	assert.Equal(t, "email", fields[1]["componentId"])
	assert.Equal(t, "binding", fields[1]["property"])
}

func TestFields_Markdown(t *testing.T) {
	stdout, _, err := run(t, "fields", "--format", "markdown", profilePath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "# Profile\n"))
	assert.Contains(t, stdout, "6 binding(s) across 6 distinct path(s).")
	assert.Contains(t, stdout, "| email | props.placeholder | `labels.email` |")

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fields.tpl"), []byte("{{ fields|length }} fields"), 0o644))
	stdout, _, err = run(t, "fields", "--format", "markdown", "--templates", dir, profilePath)
	require.NoError(t, err)
	assert.Equal(t, "6 fields", stdout)

	_, _, err = run(t, "fields", "--format", "xml", profilePath)
	require.Error(t, err)
}

func TestResolve_BindsAndAdapts(t *testing.T) {
	stdout, stderr, err := run(t, "resolve", "--data", dataPath, "--platform", "mobile-native", profilePath)
	require.NoError(t, err)
	assert.Empty(t, stderr)

	var out schema.UISchema
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	assert.Equal(t, "Welcome back, Ada", out.Root.Children[0].Text)
	assert.Equal(t, "onChangeText", out.Root.Children[1].Events[0].Event)
	assert.Equal(t, "onPress", out.Root.Children[3].Events[0].Event)
}

func TestResolve_Prune(t *testing.T) {
	data := filepath.Join(t.TempDir(), "hidden.yaml")
	require.NoError(t, os.WriteFile(data, []byte("flags:\n  showOrders: false\n"), 0o644))

	stdout, _, err := run(t, "resolve", "--prune", "--data", data, profilePath)
	require.NoError(t, err)

	var out schema.UISchema
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	require.Len(t, out.Root.Children, 3)
	assert.Equal(t, "save", out.Root.Children[2].ID)
}

func TestResolve_RejectsUnknownSanitizer(t *testing.T) {
	_, _, err := run(t, "resolve", "--sanitize", "aggressive", profilePath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "aggressive")
}

func TestAdapt_WarnsAboutUnsupportedComponents(t *testing.T) {
	stdout, stderr, err := run(t, "adapt", "--platform", "mini-program", dashboardPath)
	require.NoError(t, err)
	assert.Contains(t, stderr, `component type "Chart" is not supported on mini-program`)
	assert.Contains(t, stdout, `"onTap"`)

	_, stderr, err = run(t, "--quiet", "adapt", "--platform", "mini-program", dashboardPath)
	require.NoError(t, err)
	assert.Empty(t, stderr)
}

func TestAdapt_RequiresPlatform(t *testing.T) {
	_, _, err := run(t, "adapt", profilePath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mobile-native")
}

func TestAdapt_InteractivePrompt(t *testing.T) {
	original := selectPlatform
	t.Cleanup(func() { selectPlatform = original })

	var offered []string
	selectPlatform = func(options []string) (string, error) {
		offered = options
		return "mobile-web", nil
	}

	stdout, _, err := run(t, "adapt", "--interactive", profilePath)
	require.NoError(t, err)
	assert.Equal(t, []string{"mini-program", "mobile-native", "mobile-web", "web"}, offered)

	var out schema.UISchema
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	assert.Equal(t, "onTap", out.Root.Children[3].Events[0].Event)
}

func TestAdapt_CustomMappings(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tv.yaml"), []byte("default:\n  events:\n    onClick: onSelect\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "web.yaml"), []byte("default: {}\n"), 0o644))

	stdout, _, err := run(t, "adapt", "--mappings", dir, "--platform", "tv", profilePath)
	require.NoError(t, err)
	assert.Contains(t, stdout, `"onSelect"`)
}
