package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vlgo/verilated-go/pkg/verilated"
)

var plusargCmd = &cobra.Command{
	Use:   "plusarg PREFIX [-- ARGS...]",
	Short: "Look up a plusarg the way $value$plusargs does",
	Long: `plusarg hands ARGS to the runtime as its command line and prints the
first argument of the form +PREFIX... . It exits non-zero when nothing
matches.
`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		prefix, simArgs := args[0], args[1:]
		if err := verilated.SetCommandArguments(append([]string{cmd.Root().Name()}, simArgs...)); err != nil {
			return err
		}
		match, err := verilated.PlusArgMatch(prefix)
		if err != nil {
			return err
		}
		if match == "" {
			return fmt.Errorf("no argument matches +%s", prefix)
		}
		fmt.Fprintln(cmd.OutOrStdout(), match)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(plusargCmd)
}
