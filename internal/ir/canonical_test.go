package ir

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCanonicalBasic(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected string
	}{
		{"string", "hello", `"hello"`},
		{"empty string", "", `""`},
		{"int", 42, "42"},
		{"negative int64", int64(-100), "-100"},
		{"signal", Signal(0xFFFFFFFF), "4294967295"},
		{"json number", json.Number("7"), "7"},
		{"bool true", true, "true"},
		{"bool false", false, "false"},
		{"empty array", []any{}, "[]"},
		{"empty object", map[string]any{}, "{}"},
		{"array of ints", []any{1, 2, 3}, "[1,2,3]"},
		{"simple object", map[string]any{"a": 1}, `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := MarshalCanonical(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(result))
		})
	}
}

func TestMarshalCanonicalSortedKeys(t *testing.T) {
	obj := map[string]any{
		"zebra": 1,
		"alpha": 2,
		"beta":  map[string]any{"y": 1, "x": 2},
	}

	result, err := MarshalCanonical(obj)
	require.NoError(t, err)
	assert.Equal(t, `{"alpha":2,"beta":{"x":2,"y":1},"zebra":1}`, string(result))
}

func TestMarshalCanonicalUTF16Order(t *testing.T) {
	// U+1F600 encodes to surrogates starting 0xD83D, which sort before U+FF61
	// in UTF-16 but after it in UTF-8.
	halfwidth := string(rune(0xFF61))
	emoji := string(rune(0x1F600))
	obj := map[string]any{halfwidth: 1, emoji: 2}

	result, err := MarshalCanonical(obj)
	require.NoError(t, err)
	assert.Equal(t, `{"`+emoji+`":2,"`+halfwidth+`":1}`, string(result))
}

func TestMarshalCanonicalNoHTMLEscape(t *testing.T) {
	result, err := MarshalCanonical("<a&b>")
	require.NoError(t, err)
	assert.Equal(t, `"<a&b>"`, string(result))
}

func TestMarshalCanonicalLineSeparators(t *testing.T) {
	ls := string(rune(0x2028))
	ps := string(rune(0x2029))

	result, err := MarshalCanonical("a" + ls + "b" + ps + "c")
	require.NoError(t, err)
	assert.Equal(t, `"a`+ls+"b"+ps+`c"`, string(result))

	// A literal backslash followed by "u2028" stays escaped.
	result, err = MarshalCanonical(`x\` + "u2028")
	require.NoError(t, err)
	assert.Equal(t, `"x\\u2028"`, string(result))
}

func TestMarshalCanonicalNFC(t *testing.T) {
	decomposed := "e" + string(rune(0x0301))
	result, err := MarshalCanonical(decomposed)
	require.NoError(t, err)
	assert.Equal(t, `"`+string(rune(0x00E9))+`"`, string(result))
}

func TestMarshalCanonicalRejects(t *testing.T) {
	tests := []struct {
		name  string
		input any
	}{
		{"null", nil},
		{"float", 1.5},
		{"fraction number", json.Number("1.5")},
		{"exponent number", json.Number("1e3")},
		{"nested null", map[string]any{"a": []any{nil}}},
		{"unsupported", struct{}{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := MarshalCanonical(tt.input)
			assert.Error(t, err)
		})
	}
}
