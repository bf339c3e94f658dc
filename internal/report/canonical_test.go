package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCanonicalSortsKeys(t *testing.T) {
	data, err := MarshalCanonical(map[string]any{
		"b": 1,
		"a": "x",
		"c": []any{true, false},
	})
	require.NoError(t, err)
	assert.Equal(t, `{"a":"x","b":1,"c":[true,false]}`, string(data))
}

func TestMarshalCanonicalUTF16KeyOrder(t *testing.T) {
	// U+1F600 encodes as surrogates 0xD83D.. which sort before U+FF61,
	// although its UTF-8 bytes sort after.
	data, err := MarshalCanonical(map[string]any{
		"\uff61":     1,
		"\U0001F600": 2,
	})
	require.NoError(t, err)
	assert.Equal(t, "{\"\U0001F600\":2,\"\uff61\":1}", string(data))
}

func TestMarshalCanonicalNoHTMLEscape(t *testing.T) {
	data, err := MarshalCanonical("a<b>&c")
	require.NoError(t, err)
	assert.Equal(t, `"a<b>&c"`, string(data))
}

func TestMarshalCanonicalNFC(t *testing.T) {
	decomposed := "e\u0301"
	data, err := MarshalCanonical(decomposed)
	require.NoError(t, err)
	assert.Equal(t, "\"\u00e9\"", string(data))
}

func TestMarshalCanonicalLineSeparators(t *testing.T) {
	data, err := MarshalCanonical("a\u2028b")
	require.NoError(t, err)
	assert.Equal(t, "\"a\u2028b\"", string(data))

	literal, err := MarshalCanonical(`a\u2028b`)
	require.NoError(t, err)
	assert.Equal(t, `"a\\u2028b"`, string(literal))
}

func TestMarshalCanonicalStringSlice(t *testing.T) {
	data, err := MarshalCanonical(map[string]any{"chain": []string{"button", "outlined-button"}})
	require.NoError(t, err)
	assert.Equal(t, `{"chain":["button","outlined-button"]}`, string(data))
}

func TestMarshalCanonicalRejects(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"null", nil, "null is forbidden"},
		{"float", 1.5, "floats are forbidden"},
		{"nested null", map[string]any{"k": []any{nil}}, `value for key "k": array[0]: null is forbidden`},
		{"struct", struct{}{}, "unsupported type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := MarshalCanonical(tt.value)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestFingerprintStable(t *testing.T) {
	a, err := Fingerprint(DomainSuite, map[string]any{"x": 1, "y": "z"})
	require.NoError(t, err)
	b, err := Fingerprint(DomainSuite, map[string]any{"y": "z", "x": 1})
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Len(t, a, 64)
}

func TestFingerprintDomainSeparated(t *testing.T) {
	a, err := Fingerprint(DomainSuite, "v")
	require.NoError(t, err)
	b, err := Fingerprint("other/v1", "v")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestFingerprintError(t *testing.T) {
	_, err := Fingerprint(DomainSuite, 2.5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fingerprint:")
}
