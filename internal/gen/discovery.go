package gen

import (
	"context"
	"fmt"
	"go/ast"
	"go/constant"
	"go/types"
	"os"
	"sort"

	"golang.org/x/tools/go/packages"

	"github.com/vcrobe/nojs-elements/dom"
	"github.com/vcrobe/nojs-elements/internal/errors"
)

// Descriptor is one discovered component type.
type Descriptor struct {
	// ImportPath is the package import path, e.g.
	// "github.com/vcrobe/nojs-elements/components/helloworld".
	ImportPath string

	// PackageName is the declared package name.
	PackageName string

	// TypeName is the exported type name.
	TypeName string

	// Pointer is true when only *T satisfies the descriptor methods or
	// carries a lifecycle method T lacks.
	Pointer bool

	// Tag is the constant TagName result.
	Tag string

	// Pos is the file:line of the type declaration.
	Pos string
}

// Discover loads patterns relative to dir and returns the descriptor types
// they declare, sorted by import path then type name.
func Discover(ctx context.Context, dir string, patterns ...string) ([]Descriptor, error) {
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}

	cfg := &packages.Config{
		Context: ctx,
		Mode: packages.NeedName | packages.NeedFiles | packages.NeedSyntax |
			packages.NeedTypes | packages.NeedTypesInfo,
		Dir: dir,
		Env: append(os.Environ(), "GOOS=js", "GOARCH=wasm"),
	}
	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, errors.New("E030").Wrap(err)
	}

	var descs []Descriptor
	for _, pkg := range pkgs {
		if len(pkg.Errors) > 0 {
			return nil, errors.New("E030").WithDetail(pkg.Errors[0].Error())
		}
		if pkg.Types == nil || pkg.Name == "main" {
			continue
		}
		descs = append(descs, inspectPackage(pkg)...)
	}

	sort.Slice(descs, func(i, j int) bool {
		if descs[i].ImportPath != descs[j].ImportPath {
			return descs[i].ImportPath < descs[j].ImportPath
		}
		return descs[i].TypeName < descs[j].TypeName
	})

	if err := validateTags(descs); err != nil {
		return nil, err
	}
	return descs, nil
}

func inspectPackage(pkg *packages.Package) []Descriptor {
	var descs []Descriptor
	scope := pkg.Types.Scope()
	for _, name := range scope.Names() {
		tn, ok := scope.Lookup(name).(*types.TypeName)
		if !ok || !tn.Exported() || tn.IsAlias() {
			continue
		}
		named, ok := tn.Type().(*types.Named)
		if !ok || named.TypeParams().Len() > 0 {
			continue
		}
		if _, isInterface := named.Underlying().(*types.Interface); isInterface {
			continue
		}

		pointer := false
		if !isDescriptor(named) {
			if !isDescriptor(types.NewPointer(named)) {
				continue
			}
			pointer = true
		} else if pointerOnlyHooks(named) {
			pointer = true
		}

		// Types with a computed tag, like runtime.FuncComponent, are
		// configured at run time; their zero value is not registrable.
		tag := literalTag(pkg, named)
		if tag == "" {
			continue
		}

		descs = append(descs, Descriptor{
			ImportPath:  pkg.PkgPath,
			PackageName: pkg.Name,
			TypeName:    name,
			Pointer:     pointer,
			Tag:         tag,
			Pos:         pkg.Fset.Position(tn.Pos()).String(),
		})
	}
	return descs
}

// isDescriptor reports whether the method set of t has both descriptor
// methods with the expected signatures.
func isDescriptor(t types.Type) bool {
	mset := types.NewMethodSet(t)
	return hasMethod(mset, "TagName", func(r types.Type) bool {
		return types.Identical(r, types.Typ[types.String])
	}) && hasMethod(mset, "ObservedAttributes", func(r types.Type) bool {
		return types.Identical(r, types.NewSlice(types.Typ[types.String]))
	})
}

// hookMethods are the optional lifecycle methods the registry looks for.
var hookMethods = []string{"Construct", "Connected", "Disconnected", "AttributeChanged"}

// pointerOnlyHooks reports whether *named has a lifecycle method that named
// lacks. Registering the value would silently skip that hook.
func pointerOnlyHooks(named *types.Named) bool {
	values := types.NewMethodSet(named)
	pointers := types.NewMethodSet(types.NewPointer(named))
	for _, name := range hookMethods {
		if hasName(pointers, name) && !hasName(values, name) {
			return true
		}
	}
	return false
}

func hasName(mset *types.MethodSet, name string) bool {
	for i := 0; i < mset.Len(); i++ {
		if mset.At(i).Obj().Name() == name {
			return true
		}
	}
	return false
}

func hasMethod(mset *types.MethodSet, name string, result func(types.Type) bool) bool {
	for i := 0; i < mset.Len(); i++ {
		fn, ok := mset.At(i).Obj().(*types.Func)
		if !ok || fn.Name() != name {
			continue
		}
		sig := fn.Type().(*types.Signature)
		return sig.Params().Len() == 0 && sig.Results().Len() == 1 && result(sig.Results().At(0).Type())
	}
	return false
}

// literalTag returns the constant TagName result of named, if its body is
// a single return of a constant string expression.
func literalTag(pkg *packages.Package, named *types.Named) string {
	for _, file := range pkg.Syntax {
		for _, decl := range file.Decls {
			fn, ok := decl.(*ast.FuncDecl)
			if !ok || fn.Recv == nil || fn.Name.Name != "TagName" || fn.Body == nil {
				continue
			}
			if receiverName(fn.Recv.List[0].Type) != named.Obj().Name() {
				continue
			}
			if len(fn.Body.List) != 1 {
				return ""
			}
			ret, ok := fn.Body.List[0].(*ast.ReturnStmt)
			if !ok || len(ret.Results) != 1 {
				return ""
			}
			tv, ok := pkg.TypesInfo.Types[ret.Results[0]]
			if !ok || tv.Value == nil || tv.Value.Kind() != constant.String {
				return ""
			}
			return constant.StringVal(tv.Value)
		}
	}
	return ""
}

func receiverName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.StarExpr:
		return receiverName(t.X)
	case *ast.Ident:
		return t.Name
	}
	return ""
}

func validateTags(descs []Descriptor) error {
	seen := make(map[string]Descriptor)
	for _, d := range descs {
		if err := dom.ValidateTagName(d.Tag); err != nil {
			return errors.New("E030").
				WithDetailf("%s.%s at %s", d.PackageName, d.TypeName, d.Pos).
				Wrap(err)
		}
		if prev, dup := seen[d.Tag]; dup {
			return errors.New("E030").WithDetail(fmt.Sprintf("tag %q is declared by both %s.%s and %s.%s",
				d.Tag, prev.PackageName, prev.TypeName, d.PackageName, d.TypeName))
		}
		seen[d.Tag] = d
	}
	return nil
}
