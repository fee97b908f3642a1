package ir

// Version constants for the netlist format and engine.
const (
	// FormatVersion is the persisted netlist format version.
	FormatVersion = "1"

	// EngineVersion is the SyncRim simulator version.
	EngineVersion = "0.1.0"
)
