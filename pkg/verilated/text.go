package verilated

import (
	"strings"
	"unicode/utf8"
)

// checkArgs rejects the whole set if any element cannot be NUL-terminated.
func checkArgs(args []string) error {
	for i, arg := range args {
		if off := strings.IndexByte(arg, 0); off >= 0 {
			return &EncodingError{Index: i, Offset: off}
		}
	}
	return nil
}

func checkText(s string) error {
	if off := strings.IndexByte(s, 0); off >= 0 {
		return &EncodingError{Index: -1, Offset: off}
	}
	return nil
}

// decodeText validates runtime text without replacing anything.
func decodeText(what, s string) (string, error) {
	if utf8.ValidString(s) {
		return s, nil
	}
	off := 0
	for off < len(s) {
		r, size := utf8.DecodeRuneInString(s[off:])
		if r == utf8.RuneError && size <= 1 {
			break
		}
		off += size
	}
	return "", &DecodingError{What: what, Offset: off}
}
