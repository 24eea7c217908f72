//go:build !darwin && !linux

package native

// Open always fails on platforms without dlopen.
func Open(path string, syms Symbols) (*Library, error) {
	return nil, ErrUnsupported
}
