package verilated

import (
	"fmt"
	"strconv"
)

// RandomResetMode selects the initial value of otherwise uninitialized
// signals.
type RandomResetMode int

const (
	// AllZeros sets every bit to zero.
	AllZeros RandomResetMode = iota
	// AllBits sets every bit to one.
	AllBits
	// Randomize randomizes every bit.
	Randomize
)

// decodeMode maps a runtime code to a mode. Codes the binding does not know
// are treated as Randomize, which is what the runtime does with them.
func decodeMode(code int32) RandomResetMode {
	switch code {
	case 0:
		return AllZeros
	case 1:
		return AllBits
	default:
		return Randomize
	}
}

func (m RandomResetMode) code() int32 {
	switch m {
	case AllZeros:
		return 0
	case AllBits:
		return 1
	default:
		return 2
	}
}

func (m RandomResetMode) String() string {
	switch m {
	case AllZeros:
		return "zeros"
	case AllBits:
		return "ones"
	default:
		return "random"
	}
}

func (m RandomResetMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText accepts the names produced by String and the runtime codes
// 0, 1 and 2.
func (m *RandomResetMode) UnmarshalText(text []byte) error {
	switch s := string(text); s {
	case "zeros", "zero", "0":
		*m = AllZeros
	case "ones", "one", "1":
		*m = AllBits
	case "random", "randomize", "2":
		*m = Randomize
	default:
		if _, err := strconv.Atoi(s); err == nil {
			return fmt.Errorf("verilated: random reset code %s out of range [0, 2]", s)
		}
		return fmt.Errorf("verilated: unknown random reset mode %q", s)
	}
	return nil
}
