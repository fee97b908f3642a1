// Package ir provides the shared netlist vocabulary for SyncRim.
//
// This package contains type definitions and hashing only. All other
// internal packages import ir; ir imports nothing internal.
//
// Key design constraints:
//   - Signals are 32-bit unsigned words
//   - All JSON tags use snake_case
//   - Netlist hashes cover topology and configuration, never geometry
package ir
