package wasmopt

// A Profile is a named bundle of optimization settings activated by a single
// flag on the wasm-opt command line. Profiles are immutable; applying one
// mutates only the target options.
type Profile struct {
	name          string
	optimizeLevel uint32
	shrinkLevel   uint32
}

// Name returns the flag spelling of the profile, without the leading dash.
func (p Profile) Name() string { return p.name }

// ApplyTo sets the profile's optimize and shrink levels on opts and turns on
// the default pass pipeline. Later applications overwrite earlier ones field
// by field, so the last profile flag on a command line wins.
func (p Profile) ApplyTo(opts *OptimizationOptions) {
	opts.PassOptions.OptimizeLevel = p.optimizeLevel
	opts.PassOptions.ShrinkLevel = p.shrinkLevel
	opts.Passes.AddDefaultPasses = true
}

var profiles = map[string]Profile{
	"O":  {name: "O", optimizeLevel: 2, shrinkLevel: 1},
	"O0": {name: "O0", optimizeLevel: 0, shrinkLevel: 0},
	"O1": {name: "O1", optimizeLevel: 1, shrinkLevel: 0},
	"O2": {name: "O2", optimizeLevel: 2, shrinkLevel: 0},
	"O3": {name: "O3", optimizeLevel: 3, shrinkLevel: 0},
	"O4": {name: "O4", optimizeLevel: 4, shrinkLevel: 0},
	"Os": {name: "Os", optimizeLevel: 2, shrinkLevel: 1},
	"Oz": {name: "Oz", optimizeLevel: 2, shrinkLevel: 2},
}

// ProfileByName looks up a profile by its flag spelling ("O", "O0" through
// "O4", "Os", "Oz").
func ProfileByName(name string) (Profile, bool) {
	p, ok := profiles[name]
	return p, ok
}

// DefaultProfile returns the profile applied by a bare -O, equivalent to -Os.
func DefaultProfile() Profile {
	return profiles["O"]
}
