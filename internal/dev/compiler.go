package dev

import (
	"bytes"
	"context"
	"html/template"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/vcrobe/nojs-elements/internal/errors"
)

const (
	// WasmExecFile is the JS support file shipped with the Go toolchain.
	WasmExecFile = "wasm_exec.js"

	// IndexFile is the generated bootstrap page.
	IndexFile = "index.html"
)

// wasmExecDirs are the GOROOT-relative locations of wasm_exec.js, newest
// toolchain layout first.
var wasmExecDirs = []string{
	filepath.Join("lib", "wasm"),
	filepath.Join("misc", "wasm"),
}

// CompilerConfig configures the WASM compiler.
type CompilerConfig struct {
	// ProjectPath is the module directory go build runs in.
	ProjectPath string

	// Entry is the main package to compile, relative to ProjectPath.
	Entry string

	// OutputDir receives main.wasm, wasm_exec.js and index.html.
	OutputDir string

	// WasmFile is the name of the compiled module. Default: main.wasm.
	WasmFile string

	// Title is the page title written to index.html.
	Title string

	// Tags are build tags to pass to go build.
	Tags []string

	// LDFlags are linker flags to pass to go build.
	LDFlags string

	// GOROOT overrides the toolchain root wasm_exec.js is copied from.
	GOROOT string

	// Env are additional environment variables.
	Env []string
}

// BuildResult contains the result of a build.
type BuildResult struct {
	// Success indicates if the build succeeded.
	Success bool

	// Duration is how long the build took.
	Duration time.Duration

	// Output is the compiler output.
	Output string

	// Error is the build error, if any.
	Error error
}

// Compiler runs go build for the js/wasm target.
type Compiler struct {
	config CompilerConfig
}

// NewCompiler creates a new WASM compiler.
func NewCompiler(config CompilerConfig) *Compiler {
	if config.WasmFile == "" {
		config.WasmFile = "main.wasm"
	}
	if config.OutputDir == "" {
		config.OutputDir = filepath.Join(config.ProjectPath, "dist")
	}
	if config.Entry == "" {
		config.Entry = "."
	}
	return &Compiler{config: config}
}

// Config returns the compiler configuration with defaults applied.
func (c *Compiler) Config() CompilerConfig {
	return c.config
}

// Build compiles the entry package to OutputDir/WasmFile.
func (c *Compiler) Build(ctx context.Context) BuildResult {
	start := time.Now()

	if err := os.MkdirAll(c.config.OutputDir, 0755); err != nil {
		return BuildResult{
			Duration: time.Since(start),
			Error:    errors.New("E020").Wrap(err),
		}
	}

	cmd := exec.CommandContext(ctx, "go", c.buildArgs()...)
	cmd.Dir = c.config.ProjectPath
	cmd.Env = append(os.Environ(), "GOOS=js", "GOARCH=wasm")
	cmd.Env = append(cmd.Env, c.config.Env...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	duration := time.Since(start)

	output := stderr.String()
	if output == "" {
		output = stdout.String()
	}

	if err != nil {
		return BuildResult{
			Duration: duration,
			Output:   output,
			Error:    errors.New("E020").WithDetail(strings.TrimSpace(output)).Wrap(err),
		}
	}

	return BuildResult{
		Success:  true,
		Duration: duration,
		Output:   output,
	}
}

func (c *Compiler) buildArgs() []string {
	args := []string{"build", "-o", filepath.Join(c.config.OutputDir, c.config.WasmFile)}
	if len(c.config.Tags) > 0 {
		args = append(args, "-tags", strings.Join(c.config.Tags, ","))
	}
	if c.config.LDFlags != "" {
		args = append(args, "-ldflags", c.config.LDFlags)
	}
	return append(args, c.config.Entry)
}

// Prepare copies wasm_exec.js from GOROOT and writes index.html into
// OutputDir. The page includes the reload client when reload is true.
func (c *Compiler) Prepare(ctx context.Context, reload bool) error {
	if err := os.MkdirAll(c.config.OutputDir, 0755); err != nil {
		return errors.New("E020").Wrap(err)
	}

	goroot := c.config.GOROOT
	if goroot == "" {
		var err error
		if goroot, err = GoRoot(ctx); err != nil {
			return err
		}
	}
	if err := CopyWasmExec(goroot, c.config.OutputDir); err != nil {
		return err
	}

	page, err := RenderIndex(IndexData{Title: c.config.Title, WasmFile: c.config.WasmFile})
	if err != nil {
		return err
	}
	if reload {
		if page, err = InjectReloadClient(page); err != nil {
			return err
		}
	}
	if err := os.WriteFile(filepath.Join(c.config.OutputDir, IndexFile), page, 0644); err != nil {
		return errors.New("E020").Wrap(err)
	}
	return nil
}

// GoRoot asks the go command for its GOROOT.
func GoRoot(ctx context.Context) (string, error) {
	out, err := exec.CommandContext(ctx, "go", "env", "GOROOT").Output()
	if err != nil {
		return "", errors.New("E021").WithDetail("go env GOROOT failed").Wrap(err)
	}
	return strings.TrimSpace(string(out)), nil
}

// FindWasmExec returns the path of wasm_exec.js inside goroot.
func FindWasmExec(goroot string) (string, error) {
	for _, dir := range wasmExecDirs {
		path := filepath.Join(goroot, dir, WasmExecFile)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", errors.New("E021").WithDetail("searched " + goroot)
}

// CopyWasmExec copies wasm_exec.js from goroot into dir.
func CopyWasmExec(goroot, dir string) error {
	src, err := FindWasmExec(goroot)
	if err != nil {
		return err
	}

	in, err := os.Open(src)
	if err != nil {
		return errors.New("E021").Wrap(err)
	}
	defer in.Close()

	out, err := os.Create(filepath.Join(dir, WasmExecFile))
	if err != nil {
		return errors.New("E020").Wrap(err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return errors.New("E020").Wrap(err)
	}
	if err := out.Close(); err != nil {
		return errors.New("E020").Wrap(err)
	}
	return nil
}

// IndexData fills the index.html template.
type IndexData struct {
	Title    string
	WasmFile string
}

var indexTemplate = template.Must(template.New(IndexFile).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<script src="wasm_exec.js"></script>
<script>
const go = new Go();
WebAssembly.instantiateStreaming(fetch("{{.WasmFile}}"), go.importObject)
  .then((result) => go.run(result.instance))
  .catch((err) => console.error(err));
</script>
</head>
<body>
</body>
</html>
`))

// RenderIndex renders the bootstrap page.
func RenderIndex(data IndexData) ([]byte, error) {
	if data.WasmFile == "" {
		data.WasmFile = "main.wasm"
	}
	var buf bytes.Buffer
	if err := indexTemplate.Execute(&buf, data); err != nil {
		return nil, errors.New("E020").Wrap(err)
	}
	return buf.Bytes(), nil
}
