package repo

import (
	"fmt"
)

type NothingToCommitError struct {
	Dir string
}

func (e *NothingToCommitError) Error() string {
	return fmt.Sprintf("nothing to commit, working tree clean: %s", e.Dir)
}

type NoUpstreamError struct {
	Branch string
}

func (e *NoUpstreamError) Error() string {
	return fmt.Sprintf("the current branch %s has no upstream branch", e.Branch)
}

type DetachedHeadError struct{}

func (e *DetachedHeadError) Error() string {
	return "HEAD is detached: check out a branch before pushing"
}

type MissingAuthorError struct{}

func (e *MissingAuthorError) Error() string {
	return "commit author unknown: set user.name and user.email in your git configuration"
}
