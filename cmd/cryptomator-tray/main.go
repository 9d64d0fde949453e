// Package main is the entry point for the cryptomator-tray binary.
package main

import (
	"os"

	"github.com/cryptomator/cryptomator-tray/internal/daemon/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
