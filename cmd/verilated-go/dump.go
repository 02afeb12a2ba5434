package main

import (
	"github.com/spf13/cobra"

	"github.com/vlgo/verilated-go/pkg/verilated"
)

var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Print runtime debug dumps (format is not stable)",
}

var dumpInternalsCmd = &cobra.Command{
	Use:   "internals",
	Short: "Dump the runtime's internal state",
	Args:  cobra.NoArgs,
	Run: func(*cobra.Command, []string) {
		verilated.DumpInternalState()
	},
}

var dumpScopesCmd = &cobra.Command{
	Use:   "scopes",
	Short: "Dump scope names with DPI context",
	Args:  cobra.NoArgs,
	Run: func(*cobra.Command, []string) {
		verilated.DumpScopeNames()
	},
}

func init() {
	dumpCmd.AddCommand(dumpInternalsCmd, dumpScopesCmd)
	rootCmd.AddCommand(dumpCmd)
}
