// Package native models the OS integration surface the packaged app
// expects from its platform extension module. None of it is available
// on Linux, so the only implementation logs each call and returns a
// fixed or empty value. The same operation table drives the generated
// JavaScript shim that replaces the vendor binding inside the bundle.
package native

import "github.com/rs/zerolog"

// Op describes one exported operation of the binding surface.
type Op struct {
	// Name as the app calls it.
	Name string
	// Result is the fixed JavaScript value the shim returns.
	Result string
}

// Ops is the full surface the vendor module exports. Adding an entry
// here extends both the Go interface double and the generated shim.
var Ops = []Op{
	{Name: "getWindowsVersion", Result: `"10.0.0"`},
	{Name: "listWindows", Result: "[]"},
	{Name: "getActiveWindow", Result: "null"},
	{Name: "getWindowBounds", Result: "null"},
	{Name: "setWindowEffect", Result: "undefined"},
	{Name: "removeWindowEffect", Result: "undefined"},
	{Name: "getIsMaximized", Result: "false"},
	{Name: "flashFrame", Result: "undefined"},
	{Name: "clearFlashFrame", Result: "undefined"},
	{Name: "getMonitors", Result: "[]"},
	{Name: "getCursorPosition", Result: "{ x: 0, y: 0 }"},
	{Name: "moveCursor", Result: "undefined"},
	{Name: "sendKey", Result: "undefined"},
	{Name: "typeText", Result: "undefined"},
	{Name: "readClipboard", Result: `""`},
	{Name: "writeClipboard", Result: "undefined"},
	{Name: "showNotification", Result: "undefined"},
	{Name: "setProgressBar", Result: "undefined"},
	{Name: "clearProgressBar", Result: "undefined"},
	{Name: "setOverlayIcon", Result: "undefined"},
	{Name: "clearOverlayIcon", Result: "undefined"},
}

// Bindings is the capability surface as seen from Go. It exists so
// code that reasons about the binding (the emitter, tests) has a typed
// double instead of string matching against generated source.
type Bindings interface {
	// Call invokes the named operation and returns its fixed result
	// literal, or false when the operation is not part of the surface.
	Call(name string) (string, bool)
	// Supported reports whether any operation has a real implementation.
	Supported() bool
}

// Unsupported is the Linux implementation: every operation resolves to
// its fixed value and the call is logged for diagnostics.
type Unsupported struct {
	log *zerolog.Logger
}

func NewUnsupported(log *zerolog.Logger) *Unsupported {
	return &Unsupported{log: log}
}

func (u *Unsupported) Call(name string) (string, bool) {
	for _, op := range Ops {
		if op.Name == name {
			u.log.Debug().Str("op", name).Msg("native binding call stubbed")
			return op.Result, true
		}
	}
	return "", false
}

func (u *Unsupported) Supported() bool { return false }
