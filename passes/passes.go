// Package passes implements the transformation passes the optimizer runs over
// a module, along with the options that control them. Passes operate at
// section granularity: they add, drop, or rewrite whole sections.
package passes

import (
	"fmt"
	"strings"

	"github.com/pgavlin/wasm-opt/wasm"
)

// InliningOptions carries the inlining thresholds. The section-level passes
// do not consult these today, but the option surface accepts and preserves
// them so that callers can configure them uniformly.
type InliningOptions struct {
	AlwaysInlineMaxSize     uint32
	OneCallerInlineMaxSize  uint32
	FlexibleInlineMaxSize   uint32
	AllowFunctionsWithLoops bool
	PartialInliningIfs      uint32
}

// Options controls how aggressively passes transform a module.
type Options struct {
	OptimizeLevel uint32
	ShrinkLevel   uint32

	// Validate the output module before it is written.
	Validate bool

	// DebugInfo preserves debug-related custom sections regardless of the
	// optimize and shrink levels.
	DebugInfo bool

	TrapsNeverHappen bool
	LowMemoryUnused  bool
	FastMath         bool
	ZeroFilledMemory bool

	Inlining InliningOptions

	// Arguments holds named arguments for individual passes.
	Arguments map[string]string
}

// NewOptions returns the default options: no optimization, validation on.
func NewOptions() Options {
	return Options{
		Validate: true,
		Inlining: InliningOptions{
			AlwaysInlineMaxSize:    2,
			OneCallerInlineMaxSize: ^uint32(0),
			FlexibleInlineMaxSize:  20,
		},
	}
}

// SetArgument records a named argument for a pass.
func (o *Options) SetArgument(key, value string) {
	if o.Arguments == nil {
		o.Arguments = map[string]string{}
	}
	o.Arguments[key] = value
}

// A Pass transforms a module in place.
type Pass interface {
	Name() string
	Run(m *wasm.Module, opts *Options) error
}

type stripPass struct {
	name string
	keep func(name string) bool
}

func (p *stripPass) Name() string { return p.name }

func (p *stripPass) Run(m *wasm.Module, opts *Options) error {
	m.RemoveCustom(p.keep)
	return nil
}

var registry = map[string]Pass{}

func register(p Pass) {
	registry[p.Name()] = p
}

func init() {
	register(&stripPass{
		name: "strip-debug",
		keep: func(name string) bool { return name != "name" },
	})
	register(&stripPass{
		name: "strip-dwarf",
		keep: func(name string) bool { return !strings.HasPrefix(name, ".debug_") },
	})
	register(&stripPass{
		name: "strip-producers",
		keep: func(name string) bool { return name != "producers" },
	})
	register(&stripPass{
		name: "strip-target-features",
		keep: func(name string) bool { return name != "target_features" },
	})
}

// Lookup returns the registered pass with the given name.
func Lookup(name string) (Pass, bool) {
	p, ok := registry[name]
	return p, ok
}

type UnknownPassError string

func (e UnknownPassError) Error() string {
	return fmt.Sprintf("passes: unknown pass %q", string(e))
}
