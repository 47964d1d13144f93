package passes

import (
	"github.com/pgavlin/wasm-opt/wasm"
)

// A Runner executes a sequence of passes over a module with a fixed set of
// options. The zero sequence is valid and runs nothing.
type Runner struct {
	opts   Options
	passes []Pass
}

// NewRunner returns a runner that executes passes with the given options.
func NewRunner(opts Options) *Runner {
	return &Runner{opts: opts}
}

// Add appends the named pass to the sequence.
func (r *Runner) Add(name string) error {
	p, ok := Lookup(name)
	if !ok {
		return UnknownPassError(name)
	}
	r.AddPass(p)
	return nil
}

// AddPass appends a pass to the sequence.
func (r *Runner) AddPass(p Pass) {
	r.passes = append(r.passes, p)
}

// AddDefaultOptimizationPasses appends the default pipeline for the runner's
// optimize and shrink levels. Debug-related sections survive when DebugInfo
// is set; higher levels only ever strip more.
func (r *Runner) AddDefaultOptimizationPasses() {
	if r.opts.OptimizeLevel >= 1 && !r.opts.DebugInfo {
		r.Add("strip-debug")
	}
	if r.opts.ShrinkLevel >= 1 {
		r.Add("strip-producers")
		r.Add("strip-target-features")
	}
	if r.opts.ShrinkLevel >= 2 && !r.opts.DebugInfo {
		r.Add("strip-dwarf")
	}
}

// Run executes the sequence in order.
func (r *Runner) Run(m *wasm.Module) error {
	for _, p := range r.passes {
		if err := p.Run(m, &r.opts); err != nil {
			return err
		}
	}
	return nil
}
