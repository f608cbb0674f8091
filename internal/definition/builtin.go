// internal/definition/builtin.go
package definition

import (
	"embed"
	"fmt"
	"os"
	"path"
	"sort"
	"strings"
)

//go:embed definitions/*.yaml
var builtin embed.FS

// Builtin returns a bundled definition by inverter type, e.g. "deye_sg04lp3".
func Builtin(id string) (*Definition, error) {
	b, err := builtin.ReadFile(path.Join("definitions", id+".yaml"))
	if err != nil {
		return nil, fmt.Errorf("no bundled definition for inverter type %q", id)
	}
	def, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("bundled definition %s: %w", id, err)
	}
	return def, nil
}

// BuiltinTypes lists the bundled inverter types.
func BuiltinTypes() []string {
	entries, _ := builtin.ReadDir("definitions")
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	sort.Strings(out)
	return out
}

// Resolve loads ref as a file path if one exists, otherwise as a bundled type.
func Resolve(ref string) (*Definition, error) {
	if _, err := os.Stat(ref); err == nil {
		return Load(ref)
	}
	return Builtin(ref)
}
