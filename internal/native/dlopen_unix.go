//go:build darwin || linux

package native

import (
	"fmt"

	"github.com/ebitengine/purego"
)

// Open loads the game library at path and binds the symbols in syms.
// The main entry point is required; every other symbol is optional.
func Open(path string, syms Symbols) (*Library, error) {
	handle, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}

	l := &Library{
		path:    path,
		syms:    syms,
		closeFn: func() error { return purego.Dlclose(handle) },
	}

	if !bind(handle, syms.Main, &l.main) {
		purego.Dlclose(handle)
		return nil, fmt.Errorf("%w: %s in %s", ErrMissingSymbol, syms.Main, path)
	}
	bind(handle, syms.SendControl, &l.sendControl)
	bind(handle, syms.ProcessDPad, &l.processDPad)
	bind(handle, syms.SendKey, &l.sendKey)
	bind(handle, syms.SendAxis, &l.sendAxis)
	bind(handle, syms.Reset, &l.reset)
	bind(handle, syms.Quit, &l.quit)
	bind(handle, syms.Pause, &l.pause)
	bind(handle, syms.Resume, &l.resume)

	return l, nil
}

// bind points fptr at the named symbol. It reports false, leaving fptr nil,
// when the name is empty or not exported.
func bind(handle uintptr, name string, fptr any) bool {
	if name == "" {
		return false
	}
	sym, err := purego.Dlsym(handle, name)
	if err != nil {
		return false
	}
	purego.RegisterFunc(fptr, sym)
	return true
}
