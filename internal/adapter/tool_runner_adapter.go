package adapter

import (
	"bytes"
	"context"
	"os/exec"
	"time"

	m "nxsort.dev/pkg/nxsort/internal/model"
)

// Decompressor converts a compressed container (.xcz/.nsz) into its
// uncompressed sibling format. Implementations return the tool's combined
// stdout/stderr so callers can surface diagnostics on failure.
type Decompressor interface {
	// Decompress materializes the uncompressed sibling of input inside
	// outputDir. The produced file keeps the input's stem with the
	// uncompressed extension.
	Decompress(ctx context.Context, input, outputDir m.Path) (output string, err error)
}

// Repackager emits a base-only distributable image. It does not merge
// update or DLC payloads into the artifact.
type Repackager interface {
	Repack(ctx context.Context, base, keys, artifact m.Path) (output string, err error)
}

// DefaultToolTimeout bounds a single external tool invocation.
const DefaultToolTimeout = 30 * time.Minute

// NSZTool drives the external nsz executable for decompression.
type NSZTool struct {
	exe     m.Path
	timeout time.Duration
}

// NewNSZTool constructs an NSZTool for the executable at exe.
func NewNSZTool(exe m.Path) *NSZTool {
	return &NSZTool{
		exe:     exe,
		timeout: DefaultToolTimeout,
	}
}

// Decompress runs `nsz -D -w -o outputDir input`. The -w flag overwrites a
// stale sibling left by an earlier interrupted run.
func (t *NSZTool) Decompress(ctx context.Context, input, outputDir m.Path) (string, error) {
	return runTool(ctx, t.timeout, string(t.exe), "-D", "-w", "-o", string(outputDir), string(input))
}

// HactoolnetTool drives the external hactoolnet executable for repackaging.
type HactoolnetTool struct {
	exe     m.Path
	timeout time.Duration
}

// NewHactoolnetTool constructs a HactoolnetTool for the executable at exe.
func NewHactoolnetTool(exe m.Path) *HactoolnetTool {
	return &HactoolnetTool{
		exe:     exe,
		timeout: DefaultToolTimeout,
	}
}

// Repack emits a base-only image for the given base file using the provided
// key material.
func (t *HactoolnetTool) Repack(ctx context.Context, base, keys, artifact m.Path) (string, error) {
	return runTool(ctx, t.timeout, string(t.exe), "-k", string(keys), "-t", "xci", string(base), "--plaintext", string(artifact))
}

// runTool executes an external tool and captures its combined output.
func runTool(ctx context.Context, timeout time.Duration, exe string, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	// #nosec G204 - exe comes from the tool locator's fixed search paths
	cmd := exec.CommandContext(ctx, exe, args...)

	var stdout, stderr bytes.Buffer

	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	return stdout.String() + stderr.String(), err
}
