//go:build !windows

package console

func setup() error {
	return nil
}
