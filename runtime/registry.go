package runtime

import (
	"log/slog"
	"sort"

	"github.com/vcrobe/nojs-elements/console"
	"github.com/vcrobe/nojs-elements/dom"
	"github.com/vcrobe/nojs-elements/internal/errors"
)

// Hook names used in logs and errors.
const (
	hookConstruct        = "construct"
	hookConnected        = "connected"
	hookDisconnected     = "disconnected"
	hookAttributeChanged = "attributeChanged"
)

// Registry defines components on a host and dispatches lifecycle
// reactions to them. It is not safe for concurrent use; hosts call it from
// the single UI thread.
type Registry struct {
	host    dom.Host
	logger  *slog.Logger
	onError func(error)
	defs    map[string]Component
	current *Element
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used for definition and hook failures.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

// WithErrorHandler sets a function that receives every hook failure.
func WithErrorHandler(fn func(error)) Option {
	return func(r *Registry) {
		r.onError = fn
	}
}

// NewRegistry creates a registry that defines elements on host.
func NewRegistry(host dom.Host, opts ...Option) *Registry {
	r := &Registry{
		host: host,
		defs: make(map[string]Component),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = console.Logger()
	}
	return r
}

// Register defines c as a custom element on the host. The tag name is
// validated before the host is involved; duplicate definitions are
// rejected by the host and returned as E002.
func (r *Registry) Register(c Component) error {
	tag := c.TagName()
	if err := dom.ValidateTagName(tag); err != nil {
		return errors.New("E001").WithDetailf("tag %q", tag).Wrap(err)
	}

	observed := append([]string(nil), c.ObservedAttributes()...)
	def := dom.Definition{
		TagName:            tag,
		ObservedAttributes: observed,
		Callbacks:          r.callbacks(tag, c),
	}
	// Define upgrades existing elements synchronously, and their hooks may
	// look the tag up.
	prev, had := r.defs[tag]
	r.defs[tag] = c
	if err := r.host.Define(def); err != nil {
		if had {
			r.defs[tag] = prev
		} else {
			delete(r.defs, tag)
		}
		r.logger.Error("custom element definition failed", "tag", tag, "error", err)
		return errors.New("E002").WithDetailf("tag %q", tag).Wrap(err)
	}

	r.logger.Debug("custom element defined", "tag", tag, "observed", observed)
	return nil
}

// RegisterAll registers components in order and stops at the first error.
func (r *Registry) RegisterAll(components ...Component) error {
	for _, c := range components {
		if err := r.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// Lookup returns the component registered under tag.
func (r *Registry) Lookup(tag string) (Component, bool) {
	c, ok := r.defs[tag]
	return c, ok
}

// Defined returns the registered tag names, sorted.
func (r *Registry) Defined() []string {
	tags := make([]string, 0, len(r.defs))
	for tag := range r.defs {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// Current returns the element whose lifecycle hook is running, or nil
// outside of a hook. Event listeners run outside of hooks and must use the
// element passed to them instead.
func (r *Registry) Current() *Element {
	return r.current
}

// Host returns the host the registry defines elements on.
func (r *Registry) Host() dom.Host {
	return r.host
}

func (r *Registry) callbacks(tag string, c Component) dom.Callbacks {
	return dom.Callbacks{
		Construct: func(n dom.Node) {
			r.dispatch(tag, hookConstruct, n, func(el *Element) {
				if h, ok := c.(Constructor); ok {
					h.Construct(el)
				}
			})
		},
		Connected: func(n dom.Node) {
			r.dispatch(tag, hookConnected, n, func(el *Element) {
				if h, ok := c.(Connector); ok {
					h.Connected(el)
				}
			})
		},
		Disconnected: func(n dom.Node) {
			r.dispatch(tag, hookDisconnected, n, func(el *Element) {
				if h, ok := c.(Disconnector); ok {
					h.Disconnected(el)
				}
			})
		},
		AttributeChanged: func(n dom.Node, name, oldValue, newValue string) {
			r.dispatch(tag, hookAttributeChanged, n, func(el *Element) {
				if h, ok := c.(AttributeObserver); ok {
					h.AttributeChanged(el, name, oldValue, newValue)
				}
			})
		},
	}
}

// dispatch runs fn with the current slot set to the element for n. The
// previous slot value is restored on every exit path, so a hook that
// synchronously triggers another element's reactions leaves the slot as
// it found it.
func (r *Registry) dispatch(tag, hook string, n dom.Node, fn func(el *Element)) {
	el := &Element{node: n, tag: tag, registry: r}

	prev := r.current
	r.current = el
	defer func() { r.current = prev }()

	r.callHook(tag, hook, func() { fn(el) })
}

// report logs a hook failure and forwards it to the error handler.
func (r *Registry) report(err *errors.Error) {
	r.logger.Error("lifecycle hook failed", "code", err.Code, "error", err)
	if r.onError != nil {
		r.onError(err)
	}
}
