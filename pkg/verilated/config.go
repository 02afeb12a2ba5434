package verilated

import (
	"bytes"
	"context"
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config collects the runtime settings a testbench usually applies before
// constructing its model. Nil pointer fields leave the runtime's current
// value alone.
//
//	random_reset: random
//	debug: 0
//	trace_ever_on: true
//	assertions: true
//	args: ["+verilator+seed+7", "+define+FOO"]
type Config struct {
	RandomReset       *RandomResetMode `yaml:"random_reset"`
	Debug             *int             `yaml:"debug"`
	TraceEverOn       bool             `yaml:"trace_ever_on"`
	CalcUnusedSignals *bool            `yaml:"calc_unused_signals"`
	Assertions        *bool            `yaml:"assertions"`
	FatalOnVPIError   *bool            `yaml:"fatal_on_vpi_error"`
	// Args are handed to SetCommandArguments when non-nil.
	Args []string `yaml:"args"`
}

// ParseConfig decodes a YAML document. Unknown keys are rejected.
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "decode verilated config")
	}
	return &cfg, nil
}

// LoadConfig reads and decodes a YAML configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path chosen by the caller
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return nil, errors.WithMessage(err, path)
	}
	return cfg, nil
}

// Apply pushes the settings to the runtime. Arguments are validated before
// anything is changed, so a bad argument leaves the runtime untouched.
func (c *Config) Apply() error {
	if c == nil {
		return nil
	}
	if err := checkArgs(c.Args); err != nil {
		return err
	}

	if c.RandomReset != nil {
		SetRandomReset(*c.RandomReset)
	}
	if c.Debug != nil {
		SetDebugLevel(*c.Debug)
	}
	if c.CalcUnusedSignals != nil {
		SetCalcUnusedSignals(*c.CalcUnusedSignals)
	}
	if c.TraceEverOn {
		EnableTraceCapability(true)
	}
	if c.Assertions != nil {
		SetAssertions(*c.Assertions)
	}
	if c.FatalOnVPIError != nil {
		SetFatalOnVPIError(*c.FatalOnVPIError)
	}
	if c.Args != nil {
		if err := SetCommandArguments(c.Args); err != nil {
			return err
		}
	}
	log().Info(context.Background(), "config applied",
		"backend", BackendName(), "trace_ever_on", c.TraceEverOn, "args", len(c.Args))
	return nil
}
