// Package report serializes suite reports deterministically.
//
// Golden files and fingerprints are computed from canonical JSON: object
// keys sorted by UTF-16 code units, no HTML escaping, strings NFC
// normalized, and no floats or nulls.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"unicode/utf16"

	"golang.org/x/text/unicode/norm"
)

// MarshalCanonical produces canonical JSON for v.
// Supported values are string, int, int64, bool, []string, []any and
// map[string]any, nested arbitrarily.
func MarshalCanonical(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeCanonical(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeCanonical(buf *bytes.Buffer, v any) error {
	switch val := v.(type) {
	case nil:
		return fmt.Errorf("null is forbidden in canonical JSON")
	case string:
		return writeString(buf, val)
	case int:
		fmt.Fprintf(buf, "%d", val)
	case int64:
		fmt.Fprintf(buf, "%d", val)
	case bool:
		if val {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case []string:
		items := make([]any, len(val))
		for i, s := range val {
			items[i] = s
		}
		return writeArray(buf, items)
	case []any:
		return writeArray(buf, val)
	case map[string]any:
		return writeObject(buf, val)
	case float32, float64:
		return fmt.Errorf("floats are forbidden in canonical JSON: %v", val)
	default:
		return fmt.Errorf("unsupported type for canonical JSON: %T", v)
	}
	return nil
}

// writeString escapes only quote, backslash and control characters.
func writeString(buf *bytes.Buffer, s string) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(norm.NFC.String(s)); err != nil {
		return err
	}
	out := bytes.TrimSuffix(tmp.Bytes(), []byte("\n"))
	buf.Write(unescapeLineSeparators(out))
	return nil
}

// unescapeLineSeparators turns the \u2028 and \u2029 escapes emitted by
// encoding/json back into literal characters. An escape preceded by an odd
// number of backslashes is literal text and stays.
func unescapeLineSeparators(data []byte) []byte {
	if !bytes.Contains(data, []byte(`\u202`)) {
		return data
	}

	out := make([]byte, 0, len(data))
	for i := 0; i < len(data); i++ {
		if i+6 <= len(data) && bytes.HasPrefix(data[i:], []byte(`\u202`)) && (data[i+5] == '8' || data[i+5] == '9') {
			slashes := 0
			for j := len(out) - 1; j >= 0 && out[j] == '\\'; j-- {
				slashes++
			}
			if slashes%2 == 0 {
				if data[i+5] == '8' {
					out = append(out, "\u2028"...)
				} else {
					out = append(out, "\u2029"...)
				}
				i += 5
				continue
			}
		}
		out = append(out, data[i])
	}
	return out
}

func writeArray(buf *bytes.Buffer, items []any) error {
	buf.WriteByte('[')
	for i, item := range items {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeCanonical(buf, item); err != nil {
			return fmt.Errorf("array[%d]: %w", i, err)
		}
	}
	buf.WriteByte(']')
	return nil
}

func writeObject(buf *bytes.Buffer, obj map[string]any) error {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareUTF16)

	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeString(buf, k); err != nil {
			return fmt.Errorf("key %q: %w", k, err)
		}
		buf.WriteByte(':')
		if err := writeCanonical(buf, obj[k]); err != nil {
			return fmt.Errorf("value for key %q: %w", k, err)
		}
	}
	buf.WriteByte('}')
	return nil
}

// compareUTF16 orders strings by UTF-16 code units, which differs from
// Go's byte order for characters outside the BMP.
func compareUTF16(a, b string) int {
	return slices.Compare(utf16.Encode([]rune(a)), utf16.Encode([]rune(b)))
}
