package compiler

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/roach88/syncrim/internal/netlist"
)

// Load reads a netlist in any supported format, chosen by extension:
// .json (native save form), .cue (file or directory) and .hcl.
func Load(path string) (*netlist.Store, error) {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return LoadCUE(path)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return netlist.LoadFile(path)
	case ".cue":
		return LoadCUE(path)
	case ".hcl":
		return LoadHCL(path)
	default:
		return nil, fmt.Errorf("unsupported netlist format %q (want .json, .cue or .hcl)", ext)
	}
}
