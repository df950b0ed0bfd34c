package files

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/digimatspa/sertit-utils/internal/constants"
	"github.com/digimatspa/sertit-utils/logs"
)

const (
	// dateLayout encodes calendar dates without a time component.
	dateLayout = "2006-01-02"

	// datetimeNaiveLayout is accepted on decode for timestamps written
	// without an offset by other producers.
	datetimeNaiveLayout = "2006-01-02T15:04:05"

	// jsonIndent is the indentation used when writing JSON documents.
	jsonIndent = "   "
)

// Date is a calendar day without a time component.
// It marshals to and from "YYYY-MM-DD".
type Date struct {
	time.Time
}

// NewDate builds a Date from year, month and day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// MarshalJSON encodes the date as a "YYYY-MM-DD" string.
func (d Date) MarshalJSON() ([]byte, error) {
	//nolint:wrapcheck // Marshaling a plain string cannot add context.
	return json.Marshal(d.Format(dateLayout))
}

// UnmarshalJSON decodes a "YYYY-MM-DD" string.
func (d *Date) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}

	parsed, err := time.Parse(dateLayout, raw)
	if err != nil {
		return fmt.Errorf("invalid date '%s': %w", raw, err)
	}

	d.Time = parsed

	return nil
}

// String returns the date formatted as "YYYY-MM-DD".
func (d Date) String() string {
	return d.Format(dateLayout)
}

// SaveJSON writes a document to a JSON file with 3-space indentation.
// Dates are written as "YYYY-MM-DD", timestamps as RFC 3339, sets
// (map[string]struct{}) as a sorted stringified list. Values of named
// enum types marshal to their underlying value, which is all the type
// information the format preserves.
func SaveJSON(document map[string]any, outputPath string) error {
	data, err := marshalDocument(document)
	if err != nil {
		return err
	}

	if err = os.WriteFile(outputPath, data, constants.DefaultFilePermissions); err != nil {
		return fmt.Errorf("failed to write '%s': %w", outputPath, err)
	}

	return nil
}

func marshalDocument(document map[string]any) ([]byte, error) {
	var buffer bytes.Buffer

	encoder := json.NewEncoder(&buffer)
	encoder.SetIndent("", jsonIndent)

	if err := encoder.Encode(normalizeValue(document)); err != nil {
		return nil, fmt.Errorf("failed to encode JSON document: %w", err)
	}

	return buffer.Bytes(), nil
}

// normalizeValue rewrites values the plain encoder cannot represent the
// way this format wants them.
func normalizeValue(value any) any {
	switch typed := value.(type) {
	case Date:
		return typed.String()
	case time.Time:
		return typed.Format(time.RFC3339)
	case map[string]struct{}:
		members := make([]string, 0, len(typed))
		for member := range typed {
			members = append(members, member)
		}

		sort.Strings(members)

		return "{" + strings.Join(members, ", ") + "}"
	case map[string]any:
		normalized := make(map[string]any, len(typed))
		for key, nested := range typed {
			normalized[key] = normalizeValue(nested)
		}

		return normalized
	case []any:
		normalized := make([]any, len(typed))
		for i, nested := range typed {
			normalized[i] = normalizeValue(nested)
		}

		return normalized
	default:
		return value
	}
}

// ReadJSON reads a JSON file written by SaveJSON.
//
// String values are tried as a date, then as a timestamp, and fall back
// to the raw string. This is a heuristic: a string that merely looks like
// a date is silently promoted, which callers must accept. Integral
// numbers decode to int64 (no float64 round-trip loss for wide values),
// other numbers to float64.
//
// When logContents is true, the decoded document is logged at debug level.
func ReadJSON(ctx context.Context, jsonPath string, logContents bool) (map[string]any, error) {
	file, err := os.Open(filepath.Clean(jsonPath))
	if err != nil {
		return nil, fmt.Errorf("failed to open '%s': %w", jsonPath, err)
	}

	defer file.Close() //nolint:errcheck // Read-only handle.

	decoder := json.NewDecoder(file)
	decoder.UseNumber()

	var document map[string]any
	if err = decoder.Decode(&document); err != nil {
		return nil, fmt.Errorf("failed to decode '%s': %w", jsonPath, err)
	}

	coerced, _ := coerceValue(document).(map[string]any)

	if logContents {
		if data, marshalErr := marshalDocument(coerced); marshalErr == nil {
			logs.Debugf(ctx, "Configuration file %s contains:\n%s", jsonPath, data)
		}
	}

	return coerced, nil
}

func coerceValue(value any) any {
	switch typed := value.(type) {
	case string:
		return coerceString(typed)
	case json.Number:
		return coerceNumber(typed)
	case map[string]any:
		for key, nested := range typed {
			typed[key] = coerceValue(nested)
		}

		return typed
	case []any:
		for i, nested := range typed {
			typed[i] = coerceValue(nested)
		}

		return typed
	default:
		return value
	}
}

// coerceString tries date, then datetime layouts, then keeps the raw string.
func coerceString(raw string) any {
	if parsed, err := time.Parse(dateLayout, raw); err == nil {
		return Date{Time: parsed}
	}

	if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
		return parsed
	}

	if parsed, err := time.Parse(datetimeNaiveLayout, raw); err == nil {
		return parsed
	}

	return raw
}

func coerceNumber(number json.Number) any {
	if integer, err := number.Int64(); err == nil {
		return integer
	}

	if floating, err := number.Float64(); err == nil {
		return floating
	}

	return number.String()
}
