//go:build !windows

package tray

func platformEncode(png []byte) []byte {
	return png
}
