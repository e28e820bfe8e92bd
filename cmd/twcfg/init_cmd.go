package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/omarluq/twcfg/internal/codec"
	"github.com/omarluq/twcfg/internal/config"
	"github.com/omarluq/twcfg/internal/descriptor"
)

const darkModeFlag = "dark-mode"

// defaultContent is the content pattern written by init.
var defaultContent = []string{"./src/**/*.{html,js}"}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a default descriptor file",
	Long: `Generate a descriptor with one content pattern and the chosen dark mode
strategy. The format follows the output file extension.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	initCmd.Flags().StringP(outputFlag, "o", config.DefaultDescriptorPath, "output path")
	initCmd.Flags().Bool(forceFlag, false, "overwrite existing descriptor file")
	initCmd.Flags().String(darkModeFlag, string(descriptor.DefaultDarkMode), "dark mode strategy (media, class)")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, _ []string) error {
	output, err := cmd.Flags().GetString(outputFlag)
	if err != nil {
		return fmt.Errorf("failed to get output flag: %w", err)
	}
	force, err := cmd.Flags().GetBool(forceFlag)
	if err != nil {
		return fmt.Errorf("failed to get force flag: %w", err)
	}
	darkMode, err := cmd.Flags().GetString(darkModeFlag)
	if err != nil {
		return fmt.Errorf("failed to get dark-mode flag: %w", err)
	}

	format, err := codec.DetectFormat(output)
	if err != nil {
		return err
	}

	d, err := descriptor.New(defaultContent, descriptor.WithDarkMode(descriptor.DarkMode(darkMode)))
	if err != nil {
		return err
	}

	data, err := descriptor.Marshal(d, format)
	if err != nil {
		return err
	}

	if err := writeNewFile(output, data, force); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✓ Descriptor created at %s\n", output)
	fmt.Fprintln(out, "\nNext steps:")
	fmt.Fprintln(out, "  1. Point content at your templates")
	fmt.Fprintln(out, "  2. Validate with: twcfg validate "+output)
	return nil
}

// writeNewFile writes data to path, creating parent directories. An existing
// file is only replaced when force is set.
func writeNewFile(path string, data []byte, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("file already exists at %s (use --force to overwrite)", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}
