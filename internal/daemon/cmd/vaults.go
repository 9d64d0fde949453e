package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/cryptomator/cryptomator-tray/internal/config"
)

var vaultName string

var vaultsCmd = &cobra.Command{
	Use:   "vaults",
	Short: "Manage the vaults shown in the tray menu",
	Long: `Manage the vaults listed in ~/.cryptomator/vaults.yaml.

A running tray picks up changes automatically.`,
}

var vaultsListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List registered vaults",
	Args:    cobra.NoArgs,
	RunE:    runVaultsList,
}

var vaultsAddCmd = &cobra.Command{
	Use:   "add <path>",
	Short: "Register a vault",
	Args:  cobra.ExactArgs(1),
	RunE:  runVaultsAdd,
}

var vaultsRemoveCmd = &cobra.Command{
	Use:     "remove <id|path>",
	Aliases: []string{"rm"},
	Short:   "Unregister a vault",
	Long: `Unregister a vault. The vault can be named by its ID, an unambiguous ID
prefix of at least eight characters, or its path. Files are not touched.`,
	Args: cobra.ExactArgs(1),
	RunE: runVaultsRemove,
}

func init() {
	vaultsAddCmd.Flags().StringVarP(&vaultName, "name", "n", "", "Display name (default: directory name)")

	vaultsCmd.AddCommand(vaultsListCmd)
	vaultsCmd.AddCommand(vaultsAddCmd)
	vaultsCmd.AddCommand(vaultsRemoveCmd)
}

func runVaultsList(cmd *cobra.Command, args []string) error {
	index, err := config.LoadVaultsIndex()
	if err != nil {
		return fmt.Errorf("failed to load vaults: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(index.Vaults) == 0 {
		fmt.Fprintln(out, styleHint.Render("No vaults registered. Add one with 'cryptomator-tray vaults add <path>'."))
		return nil
	}

	nameWidth := len("NAME")
	for _, v := range index.Vaults {
		nameWidth = max(nameWidth, lipgloss.Width(v.Name))
	}
	nameCol := lipgloss.NewStyle().Width(nameWidth + 2)
	idCol := lipgloss.NewStyle().Width(10)

	fmt.Fprintln(out, styleHeader.Render(nameCol.Render("NAME")+idCol.Render("ID")+"PATH"))
	for _, v := range index.Vaults {
		fmt.Fprintln(out,
			styleValue.Render(nameCol.Render(v.Name))+
				styleLabel.Render(idCol.Render(shortID(v.ID)))+
				styleValue.Render(v.Path))
	}
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func runVaultsAdd(cmd *cobra.Command, args []string) error {
	path, err := filepath.Abs(args[0])
	if err != nil {
		return err
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("vault location: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("vault location %s is not a directory", path)
	}
	if err := config.EnsureGlobalDir(); err != nil {
		return err
	}

	entry, err := config.RegisterVault(vaultName, path)
	if err != nil {
		return fmt.Errorf("failed to register vault: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n",
		styleSuccess.Render("Registered"),
		styleValue.Render(entry.Name),
		styleHint.Render("("+shortID(entry.ID)+")"))
	return nil
}

func runVaultsRemove(cmd *cobra.Command, args []string) error {
	removed, err := config.UnregisterVault(args[0])
	if err != nil {
		return fmt.Errorf("failed to unregister vault: %w", err)
	}
	if !removed {
		return fmt.Errorf("no vault matches %q", args[0])
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", styleSuccess.Render("Removed"), styleValue.Render(args[0]))
	return nil
}
