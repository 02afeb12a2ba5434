// Command verilated-go inspects and drives the Verilator runtime control
// surface: product identity, runtime flags, plusargs and debug dumps.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vlgo/verilated-go/pkg/verilated"
	"github.com/vlgo/verilated-go/pkg/verilated/logging"
)

type options struct {
	config  string
	lib     string
	verbose bool
}

var (
	opts    options
	lib     *verilated.Library
	zapBase *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "verilated-go",
	Short: "Inspect the Verilator runtime",
	Long: `verilated-go talks to the Verilator runtime linked into the binary, or
to a shared build of it loaded with --lib. Without either it uses the
detached runtime, which keeps control state but simulates nothing.
`,
	SilenceUsage:       true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&opts.config, "config", "c", "", "YAML runtime configuration to apply first")
	pf.StringVar(&opts.lib, "lib", "", "shared object exporting the vlgo_* shim")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "log binding activity to stderr")
}

func setup(cmd *cobra.Command, _ []string) error {
	zapBase = zap.NewNop()
	if opts.verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("create logger: %w", err)
		}
		zapBase = l
	}
	verilated.SetLogger(logging.NewZap(zapBase))

	if opts.lib != "" {
		l, err := verilated.OpenShared(opts.lib)
		if err != nil {
			return err
		}
		lib = l
	}
	if opts.config != "" {
		cfg, err := verilated.LoadConfig(opts.config)
		if err != nil {
			return err
		}
		if err := cfg.Apply(); err != nil {
			return err
		}
	}
	return nil
}

func teardown(*cobra.Command, []string) error {
	defer func() { _ = zapBase.Sync() }()
	if lib == nil {
		return nil
	}
	err := lib.Close()
	lib = nil
	return err
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
