// Package arch is the architecture registry: the static, compile-time
// stand-in for what the original assembler did with a dynamic per-line
// "ARCH foo" module import. Each architecture package registers itself
// from an init() function instead of being loaded by name at runtime.
package arch

import (
	"fmt"
	"strings"
	"sync"

	"github.com/dbcorti/palmasm/asmctx"
)

// Entry bundles everything the driver needs to assemble code for one
// architecture: its opcode table and its string encoder.
type Entry struct {
	Name      string
	Codegen   func() map[string]asmctx.CodegenFunc
	EncodeStr func(string) ([]byte, error)
}

var (
	mu       sync.RWMutex
	registry = map[string]Entry{}
)

// Register adds an architecture to the registry. It is meant to be called
// from an architecture package's init().
func Register(e Entry) {
	mu.Lock()
	defer mu.Unlock()
	registry[strings.ToLower(e.Name)] = e
}

// Lookup finds an architecture by name, case-insensitively.
func Lookup(name string) (Entry, bool) {
	mu.RLock()
	defer mu.RUnlock()
	e, ok := registry[strings.ToLower(name)]
	return e, ok
}

// Names lists every registered architecture, for CLI help text.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	return names
}

// ErrUnknown is returned (wrapped with the requested name) when an
// architecture is not in the registry.
func ErrUnknown(name string) error {
	return fmt.Errorf("failed to load a code-generation library for architecture %q", name)
}
