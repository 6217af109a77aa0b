package gen

import (
	"bytes"
	"context"
	"fmt"
	"go/format"
	"os"
	"path/filepath"
	"sort"
	"text/template"

	"golang.org/x/tools/go/packages"

	"github.com/vcrobe/nojs-elements/internal/errors"
)

// OutputFile is the name of the generated registration file.
const OutputFile = "zz_components_gen.go"

// RuntimeImportPath is the package the generated code registers with.
const RuntimeImportPath = "github.com/vcrobe/nojs-elements/runtime"

// Target identifies the package the generated file belongs to.
type Target struct {
	PackageName string
	ImportPath  string
}

type importSpec struct {
	Alias string
	Path  string
}

type registration struct {
	Expr string
	Tag  string
}

var fileTemplate = template.Must(template.New(OutputFile).Parse(`// Code generated by wcdev gen. DO NOT EDIT.

package {{.Package}}

import (
	"{{.Runtime}}"
{{range .Imports}}
	{{.Alias}} "{{.Path}}"
{{- end}}
)

// RegisterComponents registers every discovered component with r.
func RegisterComponents(r *runtime.Registry) error {
	return r.RegisterAll(
{{- range .Registrations}}
		{{.Expr}}, // <{{.Tag}}>
{{- end}}
	)
}
`))

// Generate renders the registration file for descs into target.
func Generate(target Target, descs []Descriptor) ([]byte, error) {
	imports, aliases := importsFor(target, descs)

	regs := make([]registration, len(descs))
	for i, d := range descs {
		qualified := d.TypeName
		if alias := aliases[d.ImportPath]; alias != "" {
			qualified = alias + "." + d.TypeName
		}
		expr := "*new(" + qualified + ")"
		if d.Pointer {
			expr = "new(" + qualified + ")"
		}
		regs[i] = registration{Expr: expr, Tag: d.Tag}
	}

	var buf bytes.Buffer
	err := fileTemplate.Execute(&buf, map[string]any{
		"Package":       target.PackageName,
		"Runtime":       RuntimeImportPath,
		"Imports":       imports,
		"Registrations": regs,
	})
	if err != nil {
		return nil, errors.New("E031").Wrap(err)
	}

	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, errors.New("E031").WithDetail("generated code does not parse").Wrap(err)
	}
	return src, nil
}

// importsFor assigns each foreign package a unique alias. Packages named
// like the runtime package, or like an earlier import, get a numeric
// suffix.
func importsFor(target Target, descs []Descriptor) ([]importSpec, map[string]string) {
	aliases := make(map[string]string)
	used := map[string]bool{"runtime": true}
	var imports []importSpec

	for _, d := range descs {
		if d.ImportPath == target.ImportPath {
			continue
		}
		if _, done := aliases[d.ImportPath]; done {
			continue
		}
		alias := d.PackageName
		for n := 2; used[alias]; n++ {
			alias = fmt.Sprintf("%s%d", d.PackageName, n)
		}
		used[alias] = true
		aliases[d.ImportPath] = alias
		imports = append(imports, importSpec{Alias: alias, Path: d.ImportPath})
	}

	sort.Slice(imports, func(i, j int) bool { return imports[i].Path < imports[j].Path })
	return imports, aliases
}

// Options configures Run.
type Options struct {
	// Dir is the module directory patterns are resolved against.
	Dir string

	// Patterns select the packages searched for descriptors.
	Patterns []string

	// Output is the directory of the package receiving OutputFile.
	Output string
}

// Run discovers descriptors and writes OutputFile into the output package.
// It returns the written path and the discovered descriptors.
func Run(ctx context.Context, opts Options) (string, []Descriptor, error) {
	descs, err := Discover(ctx, opts.Dir, opts.Patterns...)
	if err != nil {
		return "", nil, err
	}

	target, err := loadTarget(ctx, opts.Output)
	if err != nil {
		return "", nil, err
	}

	src, err := Generate(target, descs)
	if err != nil {
		return "", nil, err
	}

	path := filepath.Join(opts.Output, OutputFile)
	if err := os.WriteFile(path, src, 0644); err != nil {
		return "", nil, errors.New("E031").Wrap(err)
	}
	return path, descs, nil
}

func loadTarget(ctx context.Context, dir string) (Target, error) {
	cfg := &packages.Config{
		Context: ctx,
		Mode:    packages.NeedName,
		Dir:     dir,
		Env:     append(os.Environ(), "GOOS=js", "GOARCH=wasm"),
	}
	pkgs, err := packages.Load(cfg, ".")
	if err != nil {
		return Target{}, errors.New("E031").Wrap(err)
	}
	if len(pkgs) != 1 || pkgs[0].Name == "" {
		return Target{}, errors.New("E031").WithDetailf("no Go package in %s", dir)
	}
	return Target{PackageName: pkgs[0].Name, ImportPath: pkgs[0].PkgPath}, nil
}
