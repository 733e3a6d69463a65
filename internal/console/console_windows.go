//go:build windows

package console

import (
	"golang.org/x/sys/windows"
)

func setup() error {
	if err := windows.SetConsoleOutputCP(UTF8CodePage); err != nil {
		return err
	}
	return windows.SetConsoleCP(UTF8CodePage)
}
