// Package main builds the wsa binary into bin/ with the version stamped in.
package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

const versionVar = "github.com/andyballingall/workspace-automation/internal/app.Version"

func main() {
	ctx := context.Background()

	binaryName := "wsa"
	if runtime.GOOS == "windows" {
		binaryName += ".exe"
	}

	version := describeVersion(ctx)
	ldflags := fmt.Sprintf("-X %s=%s", versionVar, version)

	// Ensure bin directory exists
	if err := os.MkdirAll("bin", 0o755); err != nil {
		fmt.Printf("❌ Failed to create bin directory: %v\n", err)
		os.Exit(1)
	}

	outputPath := filepath.Join("bin", binaryName)
	fmt.Printf("Building %s...\n", version)

	cmd := exec.CommandContext(ctx, "go", "build", "-ldflags", ldflags, "-o", outputPath, "./cmd/wsa")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		fmt.Printf("❌ Build failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ Build complete: %s\n", outputPath)
}

// describeVersion returns the git description of HEAD, or "dev" outside a repository.
func describeVersion(ctx context.Context) string {
	cmd := exec.CommandContext(ctx, "git", "describe", "--tags", "--always", "--dirty")
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return "dev"
	}
	return strings.TrimSpace(out.String())
}
