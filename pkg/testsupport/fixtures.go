package testsupport

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-uischema/pkg/codec"
	"github.com/goliatone/go-uischema/pkg/schema"
)

// LoadSchema reads a JSON or YAML fixture and deserializes it. Testing helpers
// fail the test on error to keep contract tests concise.
func LoadSchema(t testing.TB, path string) schema.UISchema {
	t.Helper()

	s, err := LoadSchemaFromPath(path)
	if err != nil {
		t.Fatalf("load schema: %v", err)
	}
	return s
}

// LoadSchemaFromPath returns a schema without requiring testing.T, allowing
// callers to wire fixtures in setup functions.
func LoadSchemaFromPath(path string) (schema.UISchema, error) {
	if path == "" {
		return schema.UISchema{}, errors.New("testsupport: schema path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return schema.UISchema{}, fmt.Errorf("testsupport: read schema: %w", err)
	}

	var result codec.DeserializeResult
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		result = codec.DeserializeYAML(string(data))
	default:
		result = codec.Deserialize(string(data))
	}
	if !result.Success {
		return schema.UISchema{}, fmt.Errorf("testsupport: deserialize %s: %s", path, result.Error)
	}
	return result.Schema, nil
}

// LoadData reads a JSON object fixture into a DataContext.
func LoadData(t testing.TB, path string) schema.DataContext {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("load data: %v", err)
	}
	var out schema.DataContext
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal data: %v", err)
	}
	return out
}

// WriteGolden writes value as indented JSON when UPDATE_GOLDENS is set.
func WriteGolden(t testing.TB, path string, value any) {
	t.Helper()

	if os.Getenv("UPDATE_GOLDENS") == "" {
		return
	}
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		t.Fatalf("marshal golden: %v", err)
	}
	WriteMaybeGolden(t, path, append(payload, '\n'))
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t testing.TB, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t testing.TB, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// CompareGoldenJSON decodes golden and got as generic JSON and returns a
// go-cmp diff, so formatting and key order never cause failures.
func CompareGoldenJSON(t testing.TB, path string, got any) string {
	t.Helper()

	payload, err := json.Marshal(got)
	if err != nil {
		t.Fatalf("marshal value: %v", err)
	}
	if WriteMaybeGolden(t, path, indentJSON(t, payload)) {
		return ""
	}

	var want, have any
	if err := json.Unmarshal(MustReadGolden(t, path), &want); err != nil {
		t.Fatalf("decode golden %s: %v", path, err)
	}
	if err := json.Unmarshal(payload, &have); err != nil {
		t.Fatalf("decode value: %v", err)
	}
	return cmp.Diff(want, have)
}

func indentJSON(t testing.TB, payload []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := json.Indent(&buf, payload, "", "  "); err != nil {
		t.Fatalf("indent json: %v", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes()
}
