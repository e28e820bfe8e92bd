package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/omarluq/twcfg/internal/codec"
	"github.com/omarluq/twcfg/internal/descriptor"
)

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Validate a descriptor file",
	Long: `Load the descriptor and check every invariant: at least one content
pattern, a recognized darkMode, and well-formed plugins.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the descriptor in canonical form",
	Long:  `Print the descriptor with defaults applied, in YAML, TOML or JSON.`,
	Args:  cobra.NoArgs,
	RunE:  runShow,
}

var getCmd = &cobra.Command{
	Use:   "get <field-or-path>",
	Short: "Print a descriptor field or dotted path as JSON",
	Example: `  twcfg get darkMode
  twcfg get theme.extend.colors.primary
  twcfg get content.0`,
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

func init() {
	showCmd.Flags().String(formatFlag, string(codec.FormatYAML), "output format (yaml, toml, json)")
	rootCmd.AddCommand(validateCmd, showCmd, getCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	path, err := resolveDescriptorPath(cmd, args)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if _, err := descriptor.Load(path); err != nil {
		fmt.Fprintf(out, "✗ %s: %s\n", path, err)
		return err
	}

	fmt.Fprintf(out, "✓ %s is valid\n", path)
	return nil
}

func runShow(cmd *cobra.Command, _ []string) error {
	format, err := codec.ParseFormat(flagString(cmd, formatFlag))
	if err != nil {
		return err
	}

	d, err := loadDescriptor(cmd)
	if err != nil {
		return err
	}

	data, err := descriptor.Marshal(d, format)
	if err != nil {
		return err
	}

	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func runGet(cmd *cobra.Command, args []string) error {
	d, err := loadDescriptor(cmd)
	if err != nil {
		return err
	}

	value, ok := d.Lookup(args[0]).Get()
	if !ok {
		return fmt.Errorf("%q not found in descriptor", args[0])
	}

	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %q: %w", args[0], err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

func loadDescriptor(cmd *cobra.Command) (*descriptor.Descriptor, error) {
	path, err := resolveDescriptorPath(cmd, nil)
	if err != nil {
		return nil, err
	}
	return descriptor.Load(path)
}
