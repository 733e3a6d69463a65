package runner

import (
	"fmt"
	"strings"
)

// CommandError reports an external command that could not start or exited non-zero.
type CommandError struct {
	Err      error
	Name     string
	Dir      string
	Stderr   string
	Args     []string
	ExitCode int // -1 when the process never produced an exit status
}

func (e *CommandError) Error() string {
	cmdline := strings.TrimSpace(e.Name + " " + strings.Join(e.Args, " "))
	msg := fmt.Sprintf("%s failed: %v", cmdline, e.Err)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += " (" + lastLine(s) + ")"
	}
	return msg
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

func lastLine(s string) string {
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[i+1:])
	}
	return s
}
