package files

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// weekday is a named enum type: it must marshal to its underlying value.
type weekday int

const (
	monday weekday = iota + 1
	tuesday
)

// TestJSONRoundTrip tests that dates, timestamps and wide integers
// survive an encode/decode cycle with their types intact.
func TestJSONRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "doc.json")

	day := NewDate(2024, time.March, 17)
	moment := time.Date(2024, time.March, 17, 10, 30, 0, 0, time.UTC)

	document := map[string]any{
		"day":     day,
		"moment":  moment,
		"enum":    tuesday,
		"wide":    int64(9007199254740993), // not representable as float64
		"text":    "plain string",
		"decimal": 2.5,
	}

	require.NoError(t, SaveJSON(document, path))

	restored, err := ReadJSON(context.Background(), path, false)
	require.NoError(t, err)

	assert.Equal(t, day, restored["day"])
	assert.Equal(t, moment, restored["moment"])
	assert.Equal(t, int64(9007199254740993), restored["wide"])
	assert.Equal(t, "plain string", restored["text"])
	assert.InDelta(t, 2.5, restored["decimal"], 0)

	// No enum type information is preserved: the raw stored value comes back.
	assert.Equal(t, int64(tuesday), restored["enum"])
}

// TestJSONIndentation tests the 3-space indentation of saved documents.
func TestJSONIndentation(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "doc.json")
	require.NoError(t, SaveJSON(map[string]any{"A": int64(1)}, path))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{\n   \"A\": 1\n}\n", string(content))
}

// TestJSONSetStringification tests that sets are written as a sorted,
// stringified member list.
func TestJSONSetStringification(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "doc.json")
	document := map[string]any{
		"set": map[string]struct{}{"b": {}, "a": {}},
	}

	require.NoError(t, SaveJSON(document, path))

	restored, err := ReadJSON(context.Background(), path, false)
	require.NoError(t, err)
	assert.Equal(t, "{a, b}", restored["set"])
}

// TestJSONNestedCoercion tests that coercion recurses into nested
// maps and slices.
func TestJSONNestedCoercion(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "doc.json")
	day := NewDate(2023, time.December, 1)

	document := map[string]any{
		"nested": map[string]any{
			"day":   day,
			"items": []any{int64(1), day},
		},
	}

	require.NoError(t, SaveJSON(document, path))

	restored, err := ReadJSON(context.Background(), path, true)
	require.NoError(t, err)

	nested, ok := restored["nested"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, day, nested["day"])
	assert.Equal(t, []any{int64(1), day}, nested["items"])
}

// TestJSONDateShapedString documents the decoding heuristic: a plain
// string that happens to look like a date is silently promoted.
func TestJSONDateShapedString(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "doc.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"version": "2024-01-01"}`), 0o644))

	restored, err := ReadJSON(context.Background(), path, false)
	require.NoError(t, err)
	assert.Equal(t, NewDate(2024, time.January, 1), restored["version"])
}

// TestReadJSONErrors tests failure modes of ReadJSON.
func TestReadJSONErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	_, err := ReadJSON(context.Background(), filepath.Join(dir, "missing.json"), false)
	require.Error(t, err)

	broken := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(broken, []byte("{not json"), 0o644))

	_, err = ReadJSON(context.Background(), broken, false)
	require.Error(t, err)
}

// TestDateMarshaling tests the Date JSON representation.
func TestDateMarshaling(t *testing.T) {
	t.Parallel()

	day := NewDate(2024, time.March, 17)
	assert.Equal(t, "2024-03-17", day.String())

	data, err := day.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"2024-03-17"`, string(data))

	var restored Date
	require.NoError(t, restored.UnmarshalJSON(data))
	assert.Equal(t, day, restored)

	require.Error(t, restored.UnmarshalJSON([]byte(`"not a date"`)))
	require.Error(t, restored.UnmarshalJSON([]byte(`42`)))
}
