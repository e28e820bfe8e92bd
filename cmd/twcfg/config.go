package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/omarluq/twcfg/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Settings file management commands",
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the settings file",
	Long: `Validate the settings file without starting the server.
Checks syntax, listen address, auth, storage, cache and logging settings.`,
	Args: cobra.NoArgs,
	RunE: runConfigValidate,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a default settings file",
	Long:  `Generate an annotated settings file at ~/.config/twcfg/twcfg.yaml`,
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

func init() {
	configInitCmd.Flags().StringP(outputFlag, "o", "",
		"output path (default: ~/.config/"+config.AppName+"/"+config.FileNames[0]+")")
	configInitCmd.Flags().Bool(forceFlag, false, "overwrite existing settings file")

	configCmd.AddCommand(configValidateCmd, configInitCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigValidate(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()

	path, err := config.Locate(flagString(cmd, configFlag))
	if err != nil {
		fmt.Fprintf(out, "✗ Config validation failed: %s\n", err)
		return err
	}

	cfg, err := config.Load(path)
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		fmt.Fprintf(out, "✗ Config validation failed: %s\n", err)
		return err
	}

	fmt.Fprintf(out, "✓ %s is valid\n", path)
	return nil
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	output, err := cmd.Flags().GetString(outputFlag)
	if err != nil {
		return fmt.Errorf("failed to get output flag: %w", err)
	}
	force, err := cmd.Flags().GetBool(forceFlag)
	if err != nil {
		return fmt.Errorf("failed to get force flag: %w", err)
	}

	if output == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		output = filepath.Join(home, ".config", config.AppName, config.FileNames[0])
	}

	if err := writeNewFile(output, []byte(config.Template), force); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✓ Config file created at %s\n", output)
	fmt.Fprintln(out, "\nNext steps:")
	fmt.Fprintln(out, "  1. Set descriptor.path to your descriptor file")
	fmt.Fprintln(out, "  2. Validate with: twcfg config validate")
	fmt.Fprintln(out, "  3. Start the site: twcfg serve")
	return nil
}
