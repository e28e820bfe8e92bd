package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/omarluq/twcfg/internal/codec"
	"github.com/omarluq/twcfg/internal/descriptor"
)

var setCmd = &cobra.Command{
	Use:   "set <path> <value>",
	Short: "Set a value in the descriptor file",
	Long: `Set a dotted path in the descriptor file. The value is parsed as JSON when
possible, otherwise stored as a string. The edited file must still be a valid
descriptor. YAML and TOML files are rewritten in canonical form.`,
	Example: `  twcfg set darkMode class
  twcfg set theme.extend.colors.brand '"#ff5a1f"'
  twcfg set content.-1 './pages/**/*.md'`,
	Args: cobra.ExactArgs(2),
	RunE: runSet,
}

var unsetCmd = &cobra.Command{
	Use:   "unset <path>",
	Short: "Remove a value from the descriptor file",
	Args:  cobra.ExactArgs(1),
	RunE:  runUnset,
}

func init() {
	rootCmd.AddCommand(setCmd, unsetCmd)
}

// parseValue decodes raw as JSON, falling back to the raw string.
func parseValue(raw string) any {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return raw
	}
	return v
}

func runSet(cmd *cobra.Command, args []string) error {
	path, value := args[0], parseValue(args[1])
	return editDescriptor(cmd, func(data []byte, format codec.Format) ([]byte, error) {
		return descriptor.Set(data, format, path, value)
	}, "set "+path)
}

func runUnset(cmd *cobra.Command, args []string) error {
	path := args[0]
	return editDescriptor(cmd, func(data []byte, format codec.Format) ([]byte, error) {
		return descriptor.Unset(data, format, path)
	}, "removed "+path)
}

func editDescriptor(cmd *cobra.Command, edit func([]byte, codec.Format) ([]byte, error), done string) error {
	file, err := resolveDescriptorPath(cmd, nil)
	if err != nil {
		return err
	}

	format, err := codec.DetectFormat(file)
	if err != nil {
		return err
	}

	info, err := os.Stat(file)
	if err != nil {
		return fmt.Errorf("failed to stat descriptor %s: %w", file, err)
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("failed to read descriptor %s: %w", file, err)
	}

	edited, err := edit(data, format)
	if err != nil {
		return err
	}

	if err := os.WriteFile(file, edited, info.Mode().Perm()); err != nil {
		return fmt.Errorf("failed to write descriptor %s: %w", file, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ %s in %s\n", done, file)
	return nil
}
