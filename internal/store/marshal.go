package store

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/roach88/syncrim/internal/ir"
)

// marshalSignals converts a signal vector to canonical JSON TEXT.
func marshalSignals(signals []ir.Signal) (string, error) {
	arr := make([]any, len(signals))
	for i, v := range signals {
		arr[i] = v
	}
	data, err := ir.MarshalCanonical(arr)
	if err != nil {
		return "", fmt.Errorf("marshal signals: %w", err)
	}
	return string(data), nil
}

// marshalProbes converts probe readings to canonical JSON TEXT, keeping
// their order.
func marshalProbes(probes []Probe) (string, error) {
	arr := make([]any, len(probes))
	for i, p := range probes {
		arr[i] = map[string]any{"id": p.ID, "value": p.Value}
	}
	data, err := ir.MarshalCanonical(arr)
	if err != nil {
		return "", fmt.Errorf("marshal probes: %w", err)
	}
	return string(data), nil
}

// unmarshalSignals parses a JSON array of 32-bit words.
func unmarshalSignals(data string) ([]ir.Signal, error) {
	var raw []json.Number
	if err := json.Unmarshal([]byte(data), &raw); err != nil {
		return nil, fmt.Errorf("unmarshal signals: %w", err)
	}
	out := make([]ir.Signal, len(raw))
	for i, n := range raw {
		v, err := strconv.ParseUint(n.String(), 10, 32)
		if err != nil {
			return nil, fmt.Errorf("unmarshal signals: index %d: %w", i, err)
		}
		out[i] = ir.Signal(v)
	}
	return out, nil
}

func unmarshalProbes(data string) ([]Probe, error) {
	probes := []Probe{}
	if err := json.Unmarshal([]byte(data), &probes); err != nil {
		return nil, fmt.Errorf("unmarshal probes: %w", err)
	}
	return probes, nil
}
