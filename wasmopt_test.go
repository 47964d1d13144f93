package wasmopt_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	wasmopt "github.com/pgavlin/wasm-opt"
	"github.com/pgavlin/wasm-opt/internal/testmodule"
	"github.com/pgavlin/wasm-opt/passes"
	"github.com/pgavlin/wasm-opt/sourcemap"
	"github.com/pgavlin/wasm-opt/wasm"
)

func writeFixture(t *testing.T, dir string) string {
	t.Helper()

	path := filepath.Join(dir, "hello.wasm")
	require.NoError(t, os.WriteFile(path, testmodule.Binary(), 0644))
	return path
}

func TestReadWriteBinary(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir)

	reader := wasmopt.NewModuleReader()
	m, err := reader.ReadFile(path)
	require.NoError(t, err)

	writer := wasmopt.NewModuleWriter()
	first := filepath.Join(dir, "hello.1.wasm")
	require.NoError(t, writer.WriteFile(first, m))

	m2, err := reader.ReadFile(first)
	require.NoError(t, err)
	second := filepath.Join(dir, "hello.2.wasm")
	require.NoError(t, writer.WriteFile(second, m2))

	b1, err := os.ReadFile(first)
	require.NoError(t, err)
	b2, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.Equal(t, b1, b2)
}

func TestReadWriteText(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir)

	reader := wasmopt.NewModuleReader()
	m, err := reader.ReadFile(path)
	require.NoError(t, err)

	writer := &wasmopt.ModuleWriter{FileType: wasmopt.FileTypeWat}
	first := filepath.Join(dir, "hello.1.wat")
	require.NoError(t, writer.WriteFile(first, m))

	// The reader detects the text format without being told.
	m2, err := reader.ReadFile(first)
	require.NoError(t, err)
	second := filepath.Join(dir, "hello.2.wat")
	require.NoError(t, writer.WriteFile(second, m2))

	b1, err := os.ReadFile(first)
	require.NoError(t, err)
	b2, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.Equal(t, b1, b2)

	var bin bytes.Buffer
	require.NoError(t, wasm.EncodeModule(&bin, m2))
	assert.Equal(t, testmodule.Binary(), bin.Bytes())
}

func TestRunDefaultIsACopy(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir)
	out := filepath.Join(dir, "out.wasm")

	require.NoError(t, wasmopt.NewOptimizationOptions().Run(path, out))

	b, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, testmodule.Binary(), b)
}

func TestRunDefaultPasses(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir)
	out := filepath.Join(dir, "out.wasm")

	opts := wasmopt.NewOptimizationOptions()
	wasmopt.DefaultProfile().ApplyTo(opts)
	require.NoError(t, opts.Run(path, out))

	b, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Less(t, len(b), len(testmodule.Binary()))

	m, err := wasm.DecodeModule(bytes.NewReader(b))
	require.NoError(t, err)
	assert.Nil(t, m.Custom("name"))
	assert.Nil(t, m.Custom("producers"))
	assert.NotNil(t, m.Custom(".debug_str"))
}

func TestRunLevelsAreMonotone(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir)

	sizeAt := func(name string, optimize, shrink uint32) int {
		out := filepath.Join(dir, name)

		opts := wasmopt.NewOptimizationOptions()
		opts.Passes.AddDefaultPasses = true
		opts.PassOptions.OptimizeLevel = optimize
		opts.PassOptions.ShrinkLevel = shrink
		require.NoError(t, opts.Run(path, out))

		b, err := os.ReadFile(out)
		require.NoError(t, err)
		return len(b)
	}

	unoptimized := len(testmodule.Binary())
	def := sizeAt("out.0.wasm", 2, 1)
	high := sizeAt("out.1.wasm", 5, 5)
	extreme := sizeAt("out.2.wasm", 2_000_000_000, 2_000_000_000)

	assert.Greater(t, unoptimized, def)
	assert.Greater(t, def, high)
	assert.GreaterOrEqual(t, high, extreme)
}

func TestRunEmitText(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir)
	out := filepath.Join(dir, "out.wat")

	opts := wasmopt.NewOptimizationOptions()
	opts.WriterFileType = wasmopt.FileTypeWat
	require.NoError(t, opts.Run(path, out))

	b, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(b, []byte("(module binary")))

	m, err := wasmopt.NewModuleReader().ReadFile(out)
	require.NoError(t, err)

	var bin bytes.Buffer
	require.NoError(t, wasm.EncodeModule(&bin, m))
	assert.Equal(t, testmodule.Binary(), bin.Bytes())
}

func TestRunWithSourcemaps(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir)

	inMap := filepath.Join(dir, "hello.wasm.map")
	sm := sourcemap.New()
	sm.Sources = append(sm.Sources, "hello.wat")
	sm.Mappings = "AAAA"
	require.NoError(t, sm.WriteFile(inMap))

	out := filepath.Join(dir, "out.wasm")
	outMap := filepath.Join(dir, "out.wasm.map")

	opts := wasmopt.NewOptimizationOptions()
	require.NoError(t, opts.RunWithSourcemaps(path, inMap, out, outMap))

	// The map passes through unmodified.
	got, err := sourcemap.ReadFile(outMap)
	require.NoError(t, err)
	assert.Equal(t, sm, got)
}

func TestRunWritesEmptySourcemap(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir)

	out := filepath.Join(dir, "out.wasm")
	outMap := filepath.Join(dir, "out.wasm.map")

	opts := wasmopt.NewOptimizationOptions()
	require.NoError(t, opts.RunWithSourcemaps(path, "", out, outMap))

	got, err := sourcemap.ReadFile(outMap)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Version)
	assert.Equal(t, "out.wasm", got.File)
	assert.Empty(t, got.Mappings)
}

func TestRunSetsSourceMapURL(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir)
	out := filepath.Join(dir, "out.wasm")

	opts := wasmopt.NewOptimizationOptions()
	opts.SourceMapURL = "https://example.com/out.wasm.map"
	require.NoError(t, opts.Run(path, out))

	m, err := wasmopt.NewModuleReader().ReadFile(out)
	require.NoError(t, err)

	url := m.Custom("sourceMappingURL")
	require.NotNil(t, url)
	assert.Contains(t, string(url.Bytes), "https://example.com/out.wasm.map")
}

func TestRunUnknownPass(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir)

	opts := wasmopt.NewOptimizationOptions()
	opts.Passes.More = append(opts.Passes.More, "licm")
	err := opts.Run(path, filepath.Join(dir, "out.wasm"))

	var unknown passes.UnknownPassError
	require.ErrorAs(t, err, &unknown)
}

func TestRunNamedPasses(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir)
	out := filepath.Join(dir, "out.wasm")

	opts := wasmopt.NewOptimizationOptions()
	opts.Passes.More = []string{"strip-producers"}
	require.NoError(t, opts.Run(path, out))

	m, err := wasmopt.NewModuleReader().ReadFile(out)
	require.NoError(t, err)
	assert.Nil(t, m.Custom("producers"))
	assert.NotNil(t, m.Custom("name"))
}

func TestProfiles(t *testing.T) {
	for _, name := range []string{"O", "O0", "O1", "O2", "O3", "O4", "Os", "Oz"} {
		p, ok := wasmopt.ProfileByName(name)
		require.True(t, ok, name)
		assert.Equal(t, name, p.Name())
	}

	_, ok := wasmopt.ProfileByName("O5")
	assert.False(t, ok)

	// A bare -O is -Os.
	def := wasmopt.DefaultProfile()
	opts := wasmopt.NewOptimizationOptions()
	def.ApplyTo(opts)
	assert.Equal(t, uint32(2), opts.PassOptions.OptimizeLevel)
	assert.Equal(t, uint32(1), opts.PassOptions.ShrinkLevel)
	assert.True(t, opts.Passes.AddDefaultPasses)
}
