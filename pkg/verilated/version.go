package verilated

// Version is populated at build time via
// -ldflags "-X github.com/vlgo/verilated-go/pkg/verilated.Version=...".
var Version = "v0.0.0-in-progress"

// WrapperVersion returns the version of this binding.
func WrapperVersion() string {
	return Version
}

// RuntimeVersion returns the bound runtime's version string, or "unknown" when
// it cannot be read as text.
func RuntimeVersion() string {
	if v, err := ProductVersion(); err == nil && v != "" {
		return v
	}
	return "unknown"
}
