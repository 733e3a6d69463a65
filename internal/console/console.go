// Package console prepares the process console before any output is written.
package console

import (
	"os"

	"github.com/mattn/go-isatty"
)

// UTF8CodePage is the Windows code page identifier for UTF-8.
const UTF8CodePage = 65001

// Setup switches the console to UTF-8 so non-ASCII status text from git and
// the formatter renders correctly. It is a process-lifetime setting made once
// at start-up and is a no-op on platforms whose terminals are already UTF-8.
func Setup() error {
	return setup()
}

// IsTerminal reports whether f is an interactive terminal.
// Character devices that are not terminals, such as /dev/null, are not.
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
