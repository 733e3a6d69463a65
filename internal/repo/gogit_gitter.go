package repo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Ensure the interface is satisfied.
var _ Gitter = (*GoGitter)(nil)

// GoGitter implements Gitter in-process with go-git, for machines without a git executable.
// The commit author is taken from the repository, global and system git configuration.
type GoGitter struct {
	stdout io.Writer
	now    func() time.Time
}

// NewGoGitter creates a new GoGitter. Push progress is written to stdout.
func NewGoGitter(stdout io.Writer) *GoGitter {
	return &GoGitter{stdout: stdout, now: time.Now}
}

func (g *GoGitter) open(dir string) (*git.Repository, *git.Worktree, error) {
	r, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open git repository at %s: %w", dir, err)
	}
	wt, err := r.Worktree()
	if err != nil {
		return nil, nil, err
	}
	return r, wt, nil
}

func (g *GoGitter) Status(_ context.Context, dir string, w io.Writer) error {
	_, wt, err := g.open(dir)
	if err != nil {
		return err
	}
	st, err := wt.Status()
	if err != nil {
		return err
	}
	if st.IsClean() {
		_, err = fmt.Fprintln(w, "nothing to commit, working tree clean")
		return err
	}
	_, err = fmt.Fprint(w, st.String())
	return err
}

func (g *GoGitter) AddAll(_ context.Context, dir string) error {
	_, wt, err := g.open(dir)
	if err != nil {
		return err
	}
	return wt.AddWithOptions(&git.AddOptions{All: true})
}

func (g *GoGitter) Commit(_ context.Context, dir, message string) error {
	r, wt, err := g.open(dir)
	if err != nil {
		return err
	}

	st, err := wt.Status()
	if err != nil {
		return err
	}
	if st.IsClean() {
		return &NothingToCommitError{Dir: dir}
	}

	author, err := g.author(r)
	if err != nil {
		return err
	}

	hash, err := wt.Commit(message, &git.CommitOptions{Author: author})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(g.stdout, "[%s] %s\n", hash.String()[:7], message)
	return err
}

func (g *GoGitter) author(r *git.Repository) (*object.Signature, error) {
	cfg, err := r.ConfigScoped(config.SystemScope)
	if err != nil {
		return nil, err
	}
	name, email := cfg.Author.Name, cfg.Author.Email
	if name == "" {
		name = cfg.User.Name
	}
	if email == "" {
		email = cfg.User.Email
	}
	if name == "" || email == "" {
		return nil, &MissingAuthorError{}
	}
	return &object.Signature{Name: name, Email: email, When: g.now()}, nil
}

func (g *GoGitter) Push(ctx context.Context, dir string) error {
	r, _, err := g.open(dir)
	if err != nil {
		return err
	}

	head, err := r.Head()
	if err != nil {
		return err
	}
	if !head.Name().IsBranch() {
		return &DetachedHeadError{}
	}

	branchName := head.Name().Short()
	branch, err := r.Branch(branchName)
	if errors.Is(err, git.ErrBranchNotFound) || (err == nil && (branch.Remote == "" || branch.Merge == "")) {
		return &NoUpstreamError{Branch: branchName}
	}
	if err != nil {
		return err
	}

	refSpec := config.RefSpec(fmt.Sprintf("%s:%s", head.Name(), branch.Merge))
	err = r.PushContext(ctx, &git.PushOptions{
		RemoteName: branch.Remote,
		RefSpecs:   []config.RefSpec{refSpec},
		Progress:   g.stdout,
	})
	if errors.Is(err, git.NoErrAlreadyUpToDate) {
		_, err = fmt.Fprintln(g.stdout, "Everything up-to-date")
	}
	return err
}
