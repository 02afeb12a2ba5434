package main

import (
	"fmt"
	"sync/atomic"

	"github.com/spf13/cobra"

	"github.com/vlgo/verilated-go/pkg/verilated"
)

var selftestCmd = &cobra.Command{
	Use:   "selftest",
	Short: "Register flush and exit callbacks and check the runtime calls them",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		w := cmd.OutOrStdout()
		caps := verilated.Capabilities()

		var flushes, exits atomic.Int32
		flush := verilated.NewHandler(func(any) { flushes.Add(1) })
		exit := verilated.NewHandler(func(any) { exits.Add(1) })

		switch {
		case caps.Has(verilated.CapFlushCallbacks):
			if err := verilated.RegisterFlushCallback(flush, nil); err != nil {
				return err
			}
			defer verilated.UnregisterFlushCallback(flush, nil)
		case caps.Has(verilated.CapLegacyFlush):
			if err := verilated.SetLegacyFlushCallback(func() { flushes.Add(1) }); err != nil {
				return err
			}
			defer func() { _ = verilated.SetLegacyFlushCallback(nil) }()
		}
		if caps.Has(verilated.CapExitCallbacks) {
			if err := verilated.RegisterExitCallback(exit, nil); err != nil {
				return err
			}
			defer verilated.UnregisterExitCallback(exit, nil)
		}

		verilated.RunFlushCallbacks()
		verilated.RunExitCallbacks()
		fmt.Fprintf(w, "flush callbacks run: %d\n", flushes.Load())
		fmt.Fprintf(w, "exit callbacks run:  %d\n", exits.Load())
		if caps.Has(verilated.CapFlushCallbacks|verilated.CapExitCallbacks) && (flushes.Load() != 1 || exits.Load() != 1) {
			return fmt.Errorf("runtime did not run each callback exactly once")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(selftestCmd)
}
