// Package repo provides the version-control operations used by the snapshot tool.
package repo

import (
	"context"
	"io"
)

// Gitter defines the interface for git working tree operations. Every
// operation takes the working directory explicitly.
type Gitter interface {
	// Status writes a human-readable summary of pending changes to w.
	Status(ctx context.Context, dir string, w io.Writer) error

	// AddAll stages every change in the working tree, including new and deleted files.
	AddAll(ctx context.Context, dir string) error

	// Commit records the staged changes with the given message.
	Commit(ctx context.Context, dir, message string) error

	// Push publishes the current branch to its configured upstream.
	Push(ctx context.Context, dir string) error
}
