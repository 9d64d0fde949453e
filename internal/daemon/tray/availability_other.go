//go:build !linux

package tray

func probeTray() error {
	return nil
}
