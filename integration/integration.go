// Package integration eases adoption for tools that already invoke wasm-opt
// through its command line. It interprets a prepared command's arguments as
// an OptimizationOptions and runs the optimizer in process, so a single
// command builder can drive either the real CLI or this library.
//
// Support is best-effort: the translator understands the arguments that map
// onto the OptimizationOptions API, and reports everything else through
// UnsupportedError rather than guessing. It makes it possible to share one
// command line between the CLI and the API, not to reproduce the CLI's
// behavior perfectly. Only the arguments are interpreted; environment
// variables and other process settings are ignored.
package integration

import (
	"os/exec"
	"strconv"
	"strings"
	"unicode/utf8"

	wasmopt "github.com/pgavlin/wasm-opt"
	"github.com/pgavlin/wasm-opt/validate"
)

// An InvocationPlan is a fully resolved set of inputs for one optimizer run.
type InvocationPlan struct {
	Opts *wasmopt.OptimizationOptions

	InputFile       string
	InputSourceMap  string
	OutputFile      string
	OutputSourceMap string
}

// RunFromCommand interprets cmd's arguments and runs the optimizer on them.
// The command is never started; only cmd.Args is consulted.
func RunFromCommand(cmd *exec.Cmd) error {
	var args []string
	if len(cmd.Args) > 0 {
		args = cmd.Args[1:]
	}

	plan, err := Translate(args)
	if err != nil {
		return err
	}
	return Run(plan)
}

// Run executes a translated plan, wrapping any optimizer failure in an
// ExecutionError.
func Run(plan *InvocationPlan) error {
	err := plan.Opts.RunWithSourcemaps(plan.InputFile, plan.InputSourceMap, plan.OutputFile, plan.OutputSourceMap)
	if err != nil {
		return &ExecutionError{Err: err}
	}
	return nil
}

// Translate scans a wasm-opt argument list and produces an invocation plan.
//
// The scan runs left to right with a lookahead of one for flags that take a
// value. The first token that matches no flag becomes the input file; for it
// and for every single-valued flag, the first occurrence binds and later
// occurrences are collected as unsupported. Errors are ranked: a dangling
// value-taking flag fails immediately, then a missing input file, then a
// missing output file, then any unsupported arguments.
func Translate(args []string) (*InvocationPlan, error) {
	s := scanner{args: args, opts: wasmopt.NewOptimizationOptions()}

	for ; s.i < len(s.args); s.i++ {
		arg := s.args[s.i]

		if !utf8.ValidString(arg) {
			// Not text. Might still be the input file.
			s.input.bind(arg, &s.unsupported)
			continue
		}

		if p, ok := profileFor(arg); ok {
			p.ApplyTo(s.opts)
			continue
		}

		var err error
		switch arg {
		case "--output", "-o":
			err = s.pathInto(&s.output)
		case "--emit-text", "-S":
			s.opts.WriterFileType = wasmopt.FileTypeWat
		case "--input-source-map", "-ism":
			err = s.pathInto(&s.inputMap)
		case "--output-source-map", "-osm":
			err = s.pathInto(&s.outputMap)
		case "--output-source-map-url", "-osu":
			err = s.pathInto(&s.mapURL)

		case "--optimize-level", "-ol":
			err = s.uint32Into(&s.opts.PassOptions.OptimizeLevel)
		case "--shrink-level", "-s":
			err = s.uint32Into(&s.opts.PassOptions.ShrinkLevel)
		case "--debuginfo", "-g":
			s.opts.PassOptions.DebugInfo = true
		case "--always-inline-max-function-size", "-aimfs":
			err = s.uint32Into(&s.opts.PassOptions.Inlining.AlwaysInlineMaxSize)
		case "--flexible-inline-max-function-size", "-fimfs":
			err = s.uint32Into(&s.opts.PassOptions.Inlining.FlexibleInlineMaxSize)
		case "--one-caller-inline-max-function-size", "-ocifms":
			err = s.uint32Into(&s.opts.PassOptions.Inlining.OneCallerInlineMaxSize)
		case "--inline-functions-with-loops", "-ifwl":
			s.opts.PassOptions.Inlining.AllowFunctionsWithLoops = true
		case "--partial-inlining-ifs", "-pii":
			err = s.uint32Into(&s.opts.PassOptions.Inlining.PartialInliningIfs)
		case "--traps-never-happen", "-tnh":
			s.opts.PassOptions.TrapsNeverHappen = true
		case "--low-memory-unused", "-lmu":
			s.opts.PassOptions.LowMemoryUnused = true
		case "--fast-math", "-ffm":
			s.opts.PassOptions.FastMath = true
		case "--zero-filled-memory", "-uim":
			s.opts.PassOptions.ZeroFilledMemory = true

		case "--mvp-features", "-mvp":
			s.opts.Features = validate.FeaturesMVP
		case "--all-features", "-all":
			s.opts.Features = validate.FeaturesAll
		case "--quiet", "-q":
			// Accepted; nothing to configure.
		case "--no-validation", "-n":
			s.opts.PassOptions.Validate = false
		case "--pass-arg", "-pa":
			err = s.passArg()

		default:
			// Not a recognized flag: a candidate input file.
			s.input.bind(arg, &s.unsupported)
		}
		if err != nil {
			return nil, err
		}
	}

	switch {
	case !s.input.ok:
		return nil, ErrInputFileRequired
	case !s.output.ok:
		return nil, ErrOutputFileRequired
	case len(s.unsupported) > 0:
		return nil, &UnsupportedError{Args: s.unsupported}
	}

	if s.mapURL.ok {
		s.opts.SourceMapURL = s.mapURL.value
	}

	return &InvocationPlan{
		Opts:            s.opts,
		InputFile:       s.input.value,
		InputSourceMap:  s.inputMap.value,
		OutputFile:      s.output.value,
		OutputSourceMap: s.outputMap.value,
	}, nil
}

// profileFor matches the -O family: -O, -O0 through -O4, -Os, -Oz.
func profileFor(arg string) (wasmopt.Profile, bool) {
	if len(arg) < 2 || arg[0] != '-' || strings.HasPrefix(arg, "--") {
		return wasmopt.Profile{}, false
	}
	return wasmopt.ProfileByName(arg[1:])
}

// slot is a single-valued setting: the first bind wins, every later bind is
// recorded as unsupported.
type slot struct {
	value string
	ok    bool
}

func (s *slot) bind(arg string, unsupported *[]string) {
	if !s.ok {
		s.value, s.ok = arg, true
	} else {
		*unsupported = append(*unsupported, arg)
	}
}

type scanner struct {
	args []string
	i    int

	opts *wasmopt.OptimizationOptions

	input     slot
	inputMap  slot
	output    slot
	outputMap slot
	mapURL    slot

	unsupported []string
}

// nextValue consumes the token after the current flag.
func (s *scanner) nextValue() (string, error) {
	s.i++
	if s.i >= len(s.args) {
		return "", ErrUnexpectedEndOfArgs
	}
	return s.args[s.i], nil
}

func (s *scanner) pathInto(dst *slot) error {
	v, err := s.nextValue()
	if err != nil {
		return err
	}
	dst.bind(v, &s.unsupported)
	return nil
}

// uint32Into parses the flag's value as a uint32. A value that does not
// parse was consumed but not understood, so it joins the unsupported list
// and the option keeps its previous value.
func (s *scanner) uint32Into(dst *uint32) error {
	v, err := s.nextValue()
	if err != nil {
		return err
	}
	n, perr := strconv.ParseUint(v, 10, 32)
	if perr != nil {
		s.unsupported = append(s.unsupported, v)
		return nil
	}
	*dst = uint32(n)
	return nil
}

// passArg consumes a KEY@VALUE pass argument.
func (s *scanner) passArg() error {
	v, err := s.nextValue()
	if err != nil {
		return err
	}
	key, value, _ := strings.Cut(v, "@")
	s.opts.PassOptions.SetArgument(key, value)
	return nil
}
