package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vcrobe/nojs-elements/components/helloworld"
	"github.com/vcrobe/nojs-elements/internal/errors"
	"github.com/vcrobe/nojs-elements/memhost"
	"github.com/vcrobe/nojs-elements/runtime"
)

// renderOptions drives a headless run of the demo page.
type renderOptions struct {
	Variant string
	Markup  string
	Sets    []attrSet
	Clicks  []string
	Removes []string
}

// attrSet is one --set or --unset action.
type attrSet struct {
	Selector string
	Name     string
	Value    string
	Remove   bool
}

func renderCmd() *cobra.Command {
	var (
		variant string
		markup  string
		sets    []string
		unsets  []string
		clicks  []string
		removes []string
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the hello-world demo headlessly",
		Long: `Run the hello-world demo against an in-memory document and print the
resulting body markup followed by the captured console and alert output.

Actions run in order: --set and --unset, then --click, then --remove.

Examples:
  wcdev render
  wcdev render --variant=script
  wcdev render --set 'hello-world:name=Mundo' --click 'hello-world button'
  wcdev render --unset '#second:greeting' --remove 'hello-world'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := renderOptions{
				Variant: variant,
				Markup:  markup,
				Clicks:  clicks,
				Removes: removes,
			}
			for _, s := range sets {
				set, err := parseSet(s)
				if err != nil {
					return err
				}
				opts.Sets = append(opts.Sets, set)
			}
			for _, s := range unsets {
				set, err := parseUnset(s)
				if err != nil {
					return err
				}
				opts.Sets = append(opts.Sets, set)
			}
			return runRender(cmd.OutOrStdout(), newLogger(os.Stderr), opts)
		},
	}

	cmd.Flags().StringVar(&variant, "variant", "go", "hello-world implementation: go or script")
	cmd.Flags().StringVar(&markup, "markup", helloworld.DemoMarkup, "Body markup to render")
	cmd.Flags().StringArrayVar(&sets, "set", nil, "Set an attribute: selector:name=value")
	cmd.Flags().StringArrayVar(&unsets, "unset", nil, "Remove an attribute: selector:name")
	cmd.Flags().StringArrayVar(&clicks, "click", nil, "Click every element matching selector")
	cmd.Flags().StringArrayVar(&removes, "remove", nil, "Remove every element matching selector")

	return cmd
}

// parseSet splits selector:name=value. The selector ends at the last colon
// before the first '='.
func parseSet(s string) (attrSet, error) {
	target, value, ok := strings.Cut(s, "=")
	if !ok {
		return attrSet{}, errors.Newf(errors.CategoryConfig, "--set %q: expected selector:name=value", s)
	}
	set, err := parseTarget(target)
	if err != nil {
		return attrSet{}, err
	}
	set.Value = value
	return set, nil
}

func parseUnset(s string) (attrSet, error) {
	set, err := parseTarget(s)
	if err != nil {
		return attrSet{}, err
	}
	set.Remove = true
	return set, nil
}

func parseTarget(s string) (attrSet, error) {
	i := strings.LastIndex(s, ":")
	if i <= 0 || i == len(s)-1 {
		return attrSet{}, errors.Newf(errors.CategoryConfig, "%q: expected selector:name", s)
	}
	return attrSet{Selector: s[:i], Name: s[i+1:]}, nil
}

func demoComponent(variant string) (runtime.Component, error) {
	switch variant {
	case "", "go":
		return helloworld.HelloWorld{}, nil
	case "script":
		return helloworld.Script, nil
	default:
		return nil, errors.Newf(errors.CategoryConfig, "unknown variant %q", variant).
			WithSuggestion("Use --variant=go or --variant=script")
	}
}

func runRender(w io.Writer, logger *slog.Logger, opts renderOptions) error {
	c, err := demoComponent(opts.Variant)
	if err != nil {
		return err
	}

	doc := memhost.New(memhost.WithLogger(logger))
	var failures []error
	reg := runtime.NewRegistry(doc,
		runtime.WithLogger(logger),
		runtime.WithErrorHandler(func(err error) { failures = append(failures, err) }),
	)
	if err := reg.Register(c); err != nil {
		return err
	}

	doc.SetBodyHTML(opts.Markup)

	for _, set := range opts.Sets {
		els, err := queryAll(doc, set.Selector)
		if err != nil {
			return err
		}
		for _, el := range els {
			if set.Remove {
				el.RemoveAttribute(set.Name)
				continue
			}
			if err := el.SetAttribute(set.Name, set.Value); err != nil {
				return errors.New("E006").WithDetailf("attribute %q", set.Name).Wrap(err)
			}
		}
	}
	for _, selector := range opts.Clicks {
		els, err := queryAll(doc, selector)
		if err != nil {
			return err
		}
		for _, el := range els {
			el.Click()
		}
	}
	for _, selector := range opts.Removes {
		els, err := queryAll(doc, selector)
		if err != nil {
			return err
		}
		for _, el := range els {
			el.Remove()
		}
	}

	fmt.Fprintln(w, doc.HTML())
	for _, msg := range doc.Logs() {
		fmt.Fprintf(w, "console: %s\n", msg)
	}
	for _, msg := range doc.Alerts() {
		fmt.Fprintf(w, "alert: %s\n", msg)
	}
	for _, err := range failures {
		fmt.Fprintf(w, "error: %v\n", err)
	}
	return nil
}

func queryAll(doc *memhost.Document, selector string) ([]*memhost.Element, error) {
	els, err := doc.QuerySelectorAll(selector)
	if err != nil {
		return nil, errors.Newf(errors.CategoryConfig, "invalid selector %q", selector).Wrap(err)
	}
	return els, nil
}
