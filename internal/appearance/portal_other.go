//go:build !linux

package appearance

// NewSystem is only implemented on Linux; elsewhere the tray runs without
// automatic theme switching.
func NewSystem() (Provider, error) {
	return nil, ErrUnsupported
}
