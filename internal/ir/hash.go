package ir

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainNetlist = "syncrim/netlist/v1"
	DomainState   = "syncrim/state/v1"
)

// geometryFields are record fields that only affect layout.
var geometryFields = []string{"pos", "delta", "width", "height"}

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// NetlistHash computes the content hash of a saved netlist document.
//
// The document is the JSON array written by netlist.Save. Geometry fields
// are removed before hashing, so moving a component on screen does not
// change the identity of the circuit it belongs to.
func NetlistHash(data []byte) (string, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var records []any
	if err := dec.Decode(&records); err != nil {
		return "", fmt.Errorf("NetlistHash: failed to decode: %w", err)
	}
	for _, rec := range records {
		obj, ok := rec.(map[string]any)
		if !ok {
			return "", fmt.Errorf("NetlistHash: record is %T, want object", rec)
		}
		for _, f := range geometryFields {
			delete(obj, f)
		}
	}

	canonical, err := MarshalCanonical(records)
	if err != nil {
		return "", fmt.Errorf("NetlistHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainNetlist, canonical), nil
}

// StateHash computes a digest of one cycle's signal and storage banks.
// Replays compare digests to prove bit-identical simulation.
func StateHash(cycle int, signals, storage []Signal) string {
	obj := map[string]any{
		"cycle":   cycle,
		"signals": signalsToAny(signals),
		"storage": signalsToAny(storage),
	}
	canonical, err := MarshalCanonical(obj)
	if err != nil {
		// Only integers are marshaled here.
		panic(fmt.Sprintf("StateHash: %v", err))
	}
	return hashWithDomain(DomainState, canonical)
}

// MustNetlistHash is like NetlistHash but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustNetlistHash(data []byte) string {
	h, err := NetlistHash(data)
	if err != nil {
		panic(err)
	}
	return h
}

func signalsToAny(s []Signal) []any {
	out := make([]any, len(s))
	for i, v := range s {
		out[i] = v
	}
	return out
}
