//go:build !wasm
// +build !wasm

package jshost

import (
	"log/slog"

	"github.com/vcrobe/nojs-elements/dom"
	"github.com/vcrobe/nojs-elements/internal/errors"
)

// Host is unavailable outside of js/wasm builds.
type Host struct {
	logger *slog.Logger
}

// New always fails with E003 on native builds.
func New(opts ...Option) (*Host, error) {
	return nil, errors.New("E003").WithDetail("jshost requires GOOS=js GOARCH=wasm")
}

func (h *Host) Define(def dom.Definition) error {
	return errors.New("E003").WithDetailf("cannot define <%s> without a browser", def.TagName)
}

func (h *Host) SetBodyHTML(markup string) {}

func (h *Host) Log(msg string) {}

func (h *Host) Alert(msg string) {}

func (h *Host) Close() {}
