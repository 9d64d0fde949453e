// Package cmd implements the cryptomator-tray command line.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/cryptomator/cryptomator-tray/internal/buildinfo"
	"github.com/cryptomator/cryptomator-tray/internal/config"
	"github.com/cryptomator/cryptomator-tray/internal/daemon"
	"github.com/cryptomator/cryptomator-tray/internal/daemon/console"
	"github.com/cryptomator/cryptomator-tray/internal/daemon/tray"
	"github.com/cryptomator/cryptomator-tray/internal/logging"
)

var (
	consoleMode bool
	logLevel    string
)

var rootCmd = &cobra.Command{
	Use:   "cryptomator-tray",
	Short: "Cryptomator system tray icon",
	Long: `cryptomator-tray shows the Cryptomator icon in the system tray. Its menu
lists the vaults registered in ~/.cryptomator/vaults.yaml and lets you unlock,
lock and reveal them.

Use --console on desktops without a system tray.`,
	SilenceUsage: true,
	Args:         cobra.NoArgs,
	RunE:         runTray,
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	rootCmd.Flags().BoolVar(&consoleMode, "console", false, "Show the menu in the terminal instead of the system tray")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(vaultsCmd)
	rootCmd.AddCommand(versionCmd)
}

func runTray(cmd *cobra.Command, args []string) error {
	if err := config.EnsureGlobalLogsDir(); err != nil {
		return fmt.Errorf("failed to create logs directory: %w", err)
	}
	logFile, err := config.GlobalLogFile()
	if err != nil {
		return err
	}

	// The console owns the terminal; logs go to the file only.
	var stderr io.Writer = os.Stderr
	if consoleMode {
		stderr = nil
	}
	logger, closeLog, err := logging.New(logging.Options{Level: logLevel, File: logFile, Stderr: stderr})
	if err != nil {
		return err
	}
	defer closeLog()
	logger.Infow("Starting", "version", buildinfo.Short(), "log", logFile)

	var host tray.Host
	if consoleMode {
		h, err := console.NewHost(logger.Named("console"))
		if err != nil {
			return err
		}
		host = h
	} else {
		host = tray.NewSystrayHost(logger.Named("systray"))
	}

	return daemon.New(host, consoleMode, logger).Run(cmd.Context())
}
