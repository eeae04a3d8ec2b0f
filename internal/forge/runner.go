package forge

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"github.com/Chain-Defenders/forge-defender/internal/config"
	"github.com/Chain-Defenders/forge-defender/internal/ui"
)

const (
	// setupTimeout bounds each pre-test sub-step (install, build). The
	// test-execution invocation itself is not timeout-bounded.
	setupTimeout = 5 * time.Minute

	// maxReportBytes caps captured stdout for the full-suite invocation.
	maxReportBytes = 64 << 20
)

// Runner shells out to forge (and npm for the dependency pre-step) in the
// project root.
type Runner struct {
	config *config.Config
	log    *ui.Logger
}

// NewRunner creates a new Runner.
func NewRunner(cfg *config.Config, log *ui.Logger) *Runner {
	return &Runner{config: cfg, log: log}
}

// Setup runs the pre-test steps: `npm install` when a dependency manifest
// exists, then `forge build`. Either step can be disabled by configuration.
// Any failure or timeout aborts the run before test execution is attempted.
func (r *Runner) Setup(ctx context.Context) error {
	if r.config.InstallDeps {
		if _, err := os.Stat(r.config.ManifestPath()); err == nil {
			if err := r.runSetupStep(ctx, "npm", "install"); err != nil {
				return fmt.Errorf("dependency install failed: %w", err)
			}
		}
	}

	if r.config.BuildBeforeRun {
		if err := r.runSetupStep(ctx, r.config.ForgePath, "build"); err != nil {
			return fmt.Errorf("build failed: %w", err)
		}
	}
	return nil
}

// runSetupStep executes one bounded pre-test command. Warnings on stderr
// are logged even on success.
func (r *Runner) runSetupStep(ctx context.Context, name string, args ...string) error {
	ctx, cancel := context.WithTimeout(ctx, setupTimeout)
	defer cancel()

	r.log.Debugf("$ %s %s", name, strings.Join(args, " "))

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = r.config.ProjectPath

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if warnings := strings.TrimSpace(stderr.String()); warnings != "" {
		r.log.Warnf("%s: %s", name, warnings)
	}
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("%s %s timed out after %s", name, strings.Join(args, " "), setupTimeout)
		}
		return fmt.Errorf("%s %s: %w\n%s", name, strings.Join(args, " "), err, stdout.String())
	}
	return nil
}

// TestArgs builds the forge invocation for the given scope. An empty
// matchTest runs the whole suite. forge treats --match-test as a regex, so
// the name is quoted and anchored; otherwise a scoped run for testX would
// also execute testXLong, which was never marked running.
func TestArgs(matchTest string) []string {
	args := []string{"test", "--json"}
	if matchTest != "" {
		args = append(args, "--match-test", "^"+regexp.QuoteMeta(matchTest)+"$")
	}
	return args
}

// Test invokes forge and returns captured stdout and stderr. Output is
// captured even when forge exits non-zero, since the JSON report is still
// emitted for failing suites; the caller decides what the exit error means.
// The full-suite invocation's stdout is size-capped.
func (r *Runner) Test(ctx context.Context, matchTest string) (string, string, error) {
	args := TestArgs(matchTest)
	r.log.Debugf("$ %s %s", r.config.ForgePath, strings.Join(args, " "))

	cmd := exec.CommandContext(ctx, r.config.ForgePath, args...)
	cmd.Dir = r.config.ProjectPath

	var stdout capWriter
	if matchTest == "" {
		stdout.cap = maxReportBytes
	}
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if stdout.truncated {
		r.log.Warnf("forge output exceeded %d bytes and was truncated", maxReportBytes)
	}
	return stdout.String(), stderr.String(), err
}

// capWriter buffers writes up to cap bytes and drops the rest. A zero cap
// means unbounded.
type capWriter struct {
	buf       bytes.Buffer
	cap       int
	truncated bool
}

func (w *capWriter) Write(p []byte) (int, error) {
	if w.cap <= 0 {
		return w.buf.Write(p)
	}
	remaining := w.cap - w.buf.Len()
	if remaining <= 0 {
		w.truncated = true
		return len(p), nil
	}
	if len(p) > remaining {
		w.truncated = true
		if _, err := w.buf.Write(p[:remaining]); err != nil {
			return 0, err
		}
		return len(p), nil
	}
	return w.buf.Write(p)
}

func (w *capWriter) String() string {
	return w.buf.String()
}
