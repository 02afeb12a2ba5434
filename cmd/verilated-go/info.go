package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vlgo/verilated-go/pkg/verilated"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Print runtime identity, capabilities and flags",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		w := cmd.OutOrStdout()
		name, err := verilated.ProductName()
		if err != nil {
			return err
		}
		version, err := verilated.ProductVersion()
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "wrapper:        %s\n", verilated.WrapperVersion())
		fmt.Fprintf(w, "runtime:        %s %s\n", name, version)
		fmt.Fprintf(w, "backend:        %s (cgo linked: %t)\n", verilated.BackendName(), verilated.Linked())
		fmt.Fprintf(w, "capabilities:   %s\n", capNames(verilated.Capabilities()))
		fmt.Fprintf(w, "random reset:   %s\n", verilated.RandomReset())
		fmt.Fprintf(w, "debug level:    %d\n", verilated.DebugLevel())
		fmt.Fprintf(w, "unused signals: %t\n", verilated.CalcUnusedSignals())
		fmt.Fprintf(w, "assertions:     %t\n", verilated.Assertions())
		fmt.Fprintf(w, "fatal on VPI:   %t\n", verilated.FatalOnVPIError())
		fmt.Fprintf(w, "finished:       %t\n", verilated.HasFinished())
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the wrapper and runtime versions",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "verilated-go %s (runtime %s)\n",
			verilated.WrapperVersion(), verilated.RuntimeVersion())
	},
}

func capNames(c verilated.Capability) string {
	var names []string
	for _, e := range []struct {
		bit  verilated.Capability
		name string
	}{
		{verilated.CapFlushCallbacks, "flush-callbacks"},
		{verilated.CapExitCallbacks, "exit-callbacks"},
		{verilated.CapLegacyFlush, "legacy-flush"},
		{verilated.CapVCD, "vcd"},
	} {
		if c.Has(e.bit) {
			names = append(names, e.name)
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ",")
}

func init() {
	rootCmd.AddCommand(infoCmd, versionCmd)
}
