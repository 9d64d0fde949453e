package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/cryptomator/cryptomator-tray/internal/buildinfo"
	"github.com/cryptomator/cryptomator-tray/internal/updater"
)

var (
	checkUpdates   bool
	desktopVersion string
)

var versionCmd = &cobra.Command{
	Use:     "version",
	Aliases: []string{"v"},
	Short:   "Show version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "  %s %s\n",
			styleBrand.Render("cryptomator-tray"),
			styleVersion.Render(buildinfo.Version),
		)
		fmt.Fprintf(out, "    %s  %s\n", styleLabel.Render("Commit"), styleValue.Render(buildinfo.CommitHash))
		fmt.Fprintf(out, "    %s   %s\n", styleLabel.Render("Built"), styleValue.Render(buildinfo.BuildDate))
		fmt.Fprintf(out, "    %s %s\n", styleLabel.Render("OS/Arch"), styleValue.Render(runtime.GOOS+"/"+runtime.GOARCH))
		fmt.Fprintf(out, "    %s      %s\n", styleLabel.Render("Go"), styleValue.Render(runtime.Version()))

		if !checkUpdates {
			return nil
		}
		res, err := updater.NewChecker().Check(cmd.Context(), desktopVersion)
		if err != nil {
			return fmt.Errorf("failed to check for updates: %w", err)
		}
		fmt.Fprintln(out)
		if res.LatestVersion == "" {
			fmt.Fprintln(out, "  "+styleHint.Render("No Cryptomator release published"))
			return nil
		}
		if desktopVersion == "" {
			fmt.Fprintf(out, "  %s %s %s\n",
				styleValue.Render("Latest Cryptomator release: "+res.LatestVersion),
				styleHint.Render("→"),
				styleValue.Render(res.ReleaseURL))
			return nil
		}
		if !res.Available {
			fmt.Fprintln(out, "  "+styleSuccess.Render("Up to date"))
			return nil
		}
		fmt.Fprintf(out, "  %s %s %s\n",
			styleUpdate.Render("Cryptomator "+res.LatestVersion+" is available"),
			styleHint.Render("→"),
			styleValue.Render(res.ReleaseURL))
		return nil
	},
}

func init() {
	versionCmd.Flags().BoolVar(&checkUpdates, "check", false, "Check GitHub for the latest Cryptomator release")
	versionCmd.Flags().StringVar(&desktopVersion, "desktop-version", "", "Installed Cryptomator version to compare with the latest release")
}
