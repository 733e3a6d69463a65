package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const helperEnvVar = "WSA_RUNNER_HELPER"

// TestMain lets the test binary act as the external command under test.
func TestMain(m *testing.M) {
	if mode := os.Getenv(helperEnvVar); mode != "" {
		os.Exit(helperProcess(mode, os.Args[1:]))
	}
	os.Exit(m.Run())
}

func helperProcess(mode string, args []string) int {
	switch mode {
	case "echo":
		fmt.Fprint(os.Stdout, strings.Join(args, " "))
		return 0
	case "pwd":
		wd, _ := os.Getwd()
		fmt.Fprint(os.Stdout, wd)
		return 0
	case "fail":
		fmt.Fprintln(os.Stderr, "first line")
		fmt.Fprintln(os.Stderr, "fatal: something broke")
		code, _ := strconv.Atoi(args[0])
		return code
	case "sleep":
		time.Sleep(5 * time.Second)
		return 0
	case "spawn":
		// The child process shares stderr and outlives this one unless its group is killed.
		child := exec.Command(os.Args[0])
		child.Env = append(os.Environ(), helperEnvVar+"=sleep")
		child.Stderr = os.Stderr
		if err := child.Start(); err != nil {
			return 98
		}
		time.Sleep(5 * time.Second)
		return 0
	}
	return 99
}

func helperCommand(t *testing.T, mode string, args ...string) Command {
	t.Helper()
	t.Setenv(helperEnvVar, mode)
	return Command{Name: os.Args[0], Args: args}
}

//nolint:paralleltest // t.Setenv is used
func TestExecRunner_Output(t *testing.T) {
	t.Run("returns stdout", func(t *testing.T) {
		r := NewExecRunner(0)
		out, err := r.Output(context.Background(), helperCommand(t, "echo", "a", "b"))
		require.NoError(t, err)
		assert.Equal(t, "a b", out)
	})

	t.Run("runs in the given directory", func(t *testing.T) {
		dir := t.TempDir()
		c := helperCommand(t, "pwd")
		c.Dir = dir

		out, err := NewExecRunner(0).Output(context.Background(), c)
		require.NoError(t, err)

		want, err := os.Stat(dir)
		require.NoError(t, err)
		got, err := os.Stat(out)
		require.NoError(t, err)
		assert.True(t, os.SameFile(want, got))
	})
}

//nolint:paralleltest // t.Setenv is used
func TestExecRunner_Run(t *testing.T) {
	t.Run("streams output", func(t *testing.T) {
		var stdout bytes.Buffer
		c := helperCommand(t, "echo", "hello")
		c.Stdout = &stdout

		require.NoError(t, NewExecRunner(0).Run(context.Background(), c))
		assert.Equal(t, "hello", stdout.String())
	})

	t.Run("non-zero exit becomes CommandError", func(t *testing.T) {
		var stderr bytes.Buffer
		c := helperCommand(t, "fail", "3")
		c.Stderr = &stderr

		err := NewExecRunner(0).Run(context.Background(), c)
		require.Error(t, err)

		var cmdErr *CommandError
		require.ErrorAs(t, err, &cmdErr)
		assert.Equal(t, 3, cmdErr.ExitCode)
		assert.Equal(t, []string{"3"}, cmdErr.Args)
		assert.Contains(t, cmdErr.Stderr, "fatal: something broke")
		assert.Contains(t, err.Error(), "(fatal: something broke)")
		assert.Contains(t, stderr.String(), "first line", "stderr is still streamed to the caller")
	})

	t.Run("missing executable", func(t *testing.T) {
		err := NewExecRunner(0).Run(context.Background(), Command{Name: "wsa-definitely-not-installed"})
		var cmdErr *CommandError
		require.ErrorAs(t, err, &cmdErr)
		assert.Equal(t, -1, cmdErr.ExitCode)
	})

	t.Run("timeout", func(t *testing.T) {
		err := NewExecRunner(50*time.Millisecond).Run(context.Background(), helperCommand(t, "sleep"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, context.DeadlineExceeded))
	})

	t.Run("timeout does not wait for processes the command started", func(t *testing.T) {
		r := NewExecRunner(100 * time.Millisecond)
		r.WaitDelay = 200 * time.Millisecond
		c := helperCommand(t, "spawn")
		c.Stderr = io.Discard

		start := time.Now()
		err := r.Run(context.Background(), c)
		assert.Less(t, time.Since(start), 3*time.Second)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := NewExecRunner(0).Run(ctx, helperCommand(t, "echo"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, context.Canceled))
	})
}

func TestNewExecRunner(t *testing.T) {
	t.Parallel()
	r := NewExecRunner(time.Minute)
	assert.Equal(t, time.Minute, r.Timeout)
	assert.Equal(t, DefaultWaitDelay, r.WaitDelay)
	assert.False(t, r.ProcessGroup)
}

func TestTailBuffer(t *testing.T) {
	t.Parallel()
	b := &tailBuffer{limit: 4}
	_, _ = b.Write([]byte("abc"))
	_, _ = b.Write([]byte("def"))
	assert.Equal(t, "cdef", b.String())
}

func TestCommandError(t *testing.T) {
	t.Parallel()

	t.Run("without stderr", func(t *testing.T) {
		t.Parallel()
		e := &CommandError{Name: "git", Args: []string{"push"}, Err: assert.AnError}
		assert.Equal(t, "git push failed: "+assert.AnError.Error(), e.Error())
		assert.ErrorIs(t, e, assert.AnError)
	})

	t.Run("uses last stderr line", func(t *testing.T) {
		t.Parallel()
		e := &CommandError{Name: "git", Err: assert.AnError, Stderr: "hint: a\nfatal: no upstream\n"}
		assert.True(t, strings.HasSuffix(e.Error(), "(fatal: no upstream)"))
	})
}
