package netlist

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/syncrim/internal/component"
)

func placedRegChain() []component.Component {
	cs := regChain()
	positions := [][2]float64{{150, 100}, {160, 100}, {200, 100}, {210, 100}, {250, 100}}
	for i, c := range cs {
		switch v := c.(type) {
		case *component.Constant:
			v.Pos = positions[i]
		case *component.Wire:
			v.Pos = positions[i]
			v.Delta = [2]float64{30, 0}
		case *component.Register:
			v.Pos = positions[i]
		case *component.Probe:
			v.Pos = positions[i]
		}
	}
	return cs
}

func TestSaveGolden(t *testing.T) {
	s, err := New(placedRegChain()...)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, s.Save(&buf))

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "reg_chain", buf.Bytes())
}

func TestRoundTrip(t *testing.T) {
	s, err := New(placedRegChain()...)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, s.Save(&buf))

	loaded, err := Load(&buf)
	require.NoError(t, err)
	assert.Equal(t, s.Components(), loaded.Components())
}

func TestLoadFile(t *testing.T) {
	s, err := LoadFile(filepath.Join("testdata", "reg_chain.json"))
	require.NoError(t, err)
	assert.Equal(t, 5, s.Len())

	reg, ok := s.Get("reg")
	require.True(t, ok)
	assert.Equal(t, [2]float64{200, 100}, reg.Position())
}

func TestSaveFileLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "net.json")

	s, err := New(placedRegChain()...)
	require.NoError(t, err)
	require.NoError(t, s.SaveFile(path))

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, s.Components(), loaded.Components())
}

func TestLoadUnsupportedKind(t *testing.T) {
	_, err := Load(strings.NewReader(`[{"type":"Teleporter","id":"t"}]`))
	require.Error(t, err)
	assert.True(t, component.IsUnsupportedKind(err))
}

func TestLoadMalformedRecord(t *testing.T) {
	_, err := Load(strings.NewReader(`[{"type":"Constant","id":"c","value":"x"}]`))
	var de *component.DecodeError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "c", de.ComponentID)
}

func TestLoadValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		code string
		id   string
	}{
		{
			name: "duplicate id",
			data: `[{"type":"Constant","id":"c","value":1},{"type":"Constant","id":"c","value":2}]`,
			code: ErrDuplicateID,
			id:   "c",
		},
		{
			name: "dangling input",
			data: `[{"type":"Probe","id":"p","input":{"id":"nowhere","index":0}}]`,
			code: ErrDanglingInput,
			id:   "p",
		},
		{
			name: "port out of range",
			data: `[{"type":"Constant","id":"c","value":1},{"type":"Probe","id":"p","input":{"id":"c","index":3}}]`,
			code: ErrPortOutOfRange,
			id:   "p",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.data))
			require.Error(t, err)
			assert.True(t, HasCode(err, tt.code), "got %v", err)

			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.id, ve.ComponentID)
		})
	}
}

func TestLoadNotAnArray(t *testing.T) {
	_, err := Load(strings.NewReader(`{"type":"Constant"}`))
	assert.Error(t, err)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}
