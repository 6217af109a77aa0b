//go:build dev
// +build dev

package runtime_test

import (
	"testing"

	"github.com/vcrobe/nojs-elements/memhost"
	"github.com/vcrobe/nojs-elements/runtime"
)

func TestPanickingHookPropagatesAndSlotCleared(t *testing.T) {
	// Arrange
	doc := memhost.New()
	var reported []error
	reg := newRegistry(doc, runtime.WithErrorHandler(func(err error) {
		reported = append(reported, err)
	}))
	var during *runtime.Element
	err := reg.Register(runtime.FuncComponent{
		Tag: "x-item",
		OnConnected: func(el *runtime.Element) {
			during = reg.Current()
			panic("connected failed")
		},
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	// Act
	var recovered any
	func() {
		defer func() { recovered = recover() }()
		doc.SetBodyHTML(`<x-item></x-item>`)
	}()

	// Assert
	if recovered != "connected failed" {
		t.Errorf("Expected the hook panic to propagate, got %v", recovered)
	}
	if during == nil {
		t.Error("Expected current slot to be set while the hook ran")
	}
	if reg.Current() != nil {
		t.Errorf("Expected current slot to be cleared after a panic, got %v", reg.Current())
	}
	if len(reported) != 0 {
		t.Errorf("Expected no reported errors in dev builds, got %v", reported)
	}
}
