// Package main is the entry point for twcfg.
package main

import (
	"context"
	"os"

	"charm.land/fang/v2"
	"github.com/spf13/cobra"

	"github.com/omarluq/twcfg/internal/config"
)

const (
	configFlag     = "config"
	descriptorFlag = "descriptor"
	outputFlag     = "output"
	forceFlag      = "force"
	formatFlag     = "format"
)

var (
	cfgFile  string
	descFile string
)

var rootCmd = &cobra.Command{
	Use:   "twcfg",
	Short: "Stylesheet descriptor toolkit",
	Long: `twcfg loads, validates and edits the stylesheet configuration descriptor
(content globs, dark mode strategy, theme extensions and plugins) consumed by
the utility-CSS build tool, and serves a small documentation site for it.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, configFlag, "",
		"settings file path (default: ./"+config.FileNames[0]+" or ~/.config/"+config.AppName+"/"+config.FileNames[0]+")")
	rootCmd.PersistentFlags().StringVarP(&descFile, descriptorFlag, "d", "",
		"descriptor file path (default: descriptor.path from settings)")
}

func main() {
	if err := fang.Execute(context.Background(), rootCmd); err != nil {
		os.Exit(1)
	}
}

// flagString reads a string flag from the command or its parents, returning
// "" when the flag is not defined.
func flagString(cmd *cobra.Command, name string) string {
	if f := cmd.Flag(name); f != nil {
		return f.Value.String()
	}
	return ""
}

// resolveDescriptorPath picks the descriptor file: an explicit argument,
// then --descriptor, then descriptor.path from the settings file.
func resolveDescriptorPath(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return args[0], nil
	}
	if p := flagString(cmd, descriptorFlag); p != "" {
		return p, nil
	}

	cfg, _, err := config.LoadOrDefault(flagString(cmd, configFlag))
	if err != nil {
		return "", err
	}
	return cfg.Descriptor.Path, nil
}
