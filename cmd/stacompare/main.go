// Package main provides the entry point for the stacompare CLI tool.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/kinling9/stacompare/cmd/stacompare/commands"
	"github.com/kinling9/stacompare/internal/writer"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "stacompare",
		Short: "stacompare compares static timing analysis reports",
		Long: `stacompare parses STA timing reports and cross-references their
arcs via a shortest-path graph engine, emitting per-arc delta-delay,
delta-slack, and delta-length comparison records.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(commands.NewCompareCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	if err := rootCmd.Execute(); err != nil {
		writer.PrintError(os.Stderr, err)
		os.Exit(1)
	}
}
