// Package pipe is the stdin-piping collaborator: when the process' standard
// input is a pipe, its contents can substitute for one designated parameter
// before parsing begins.
package pipe

import (
	"io"
	"os"
	"strings"
)

// Read returns the piped standard input, read to completion, and whether
// anything was piped. An interactive terminal yields ("", false).
func Read() (string, bool) {
	return readFrom(os.Stdin)
}

func readFrom(f *os.File) (string, bool) {
	info, err := f.Stat()
	if err != nil {
		return "", false
	}
	// Only consume stdin when it is actually piped.
	if info.Mode()&os.ModeCharDevice != 0 {
		return "", false
	}
	data, err := io.ReadAll(f)
	if err != nil {
		return "", false
	}
	text := strings.TrimRight(string(data), "\n")
	if text == "" {
		return "", false
	}
	return text, true
}
