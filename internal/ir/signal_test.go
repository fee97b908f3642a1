package ir

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInputJSON(t *testing.T) {
	data, err := json.Marshal(NewInput("reg", 1))
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"reg","index":1}`, string(data))
	assert.Equal(t, "reg.1", NewInput("reg", 1).String())
}

func TestPortsArity(t *testing.T) {
	p := Ports{
		Inputs:  []Input{NewInput("a", 0)},
		OutType: Sequential,
		Outputs: []OutputKind{OutputFunction, OutputFunction},
	}
	assert.Equal(t, 2, p.Arity())
	assert.Equal(t, 0, Ports{}.Arity())
}

func TestOutputTypeString(t *testing.T) {
	assert.Equal(t, "combinatorial", Combinatorial.String())
	assert.Equal(t, "sequential", Sequential.String())
	assert.Equal(t, "none", NoOutputs.String())
	assert.Equal(t, "OutputType(7)", OutputType(7).String())
}
