package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

const strictFlag = "strict"

var matchCmd = &cobra.Command{
	Use:   "match <path>...",
	Short: "Report which files the content patterns cover",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runMatch,
}

func init() {
	matchCmd.Flags().Bool(strictFlag, false, "fail when any path is not covered")
	rootCmd.AddCommand(matchCmd)
}

func runMatch(cmd *cobra.Command, args []string) error {
	d, err := loadDescriptor(cmd)
	if err != nil {
		return err
	}

	matcher, err := d.Matcher()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	var missed []string
	for _, p := range args {
		patterns := matcher.MatchingPatterns(p)
		if len(patterns) == 0 {
			missed = append(missed, p)
			fmt.Fprintf(out, "✗ %s\n", p)
			continue
		}
		fmt.Fprintf(out, "✓ %s (%s)\n", p, strings.Join(patterns, ", "))
	}

	strict, err := cmd.Flags().GetBool(strictFlag)
	if err != nil {
		return fmt.Errorf("failed to get strict flag: %w", err)
	}
	if strict && len(missed) > 0 {
		return fmt.Errorf("%d path(s) not covered by content patterns", len(missed))
	}
	return nil
}
