// Package awscli shells out to the AWS command-line tool and decodes its
// JSON output.
package awscli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"

	"go.uber.org/zap"
)

// DefaultMaxOutputBytes caps how much stdout a single invocation may
// produce. Finding pages are large, so the ceiling is generous.
const DefaultMaxOutputBytes = 64 << 20

// Result is the captured output of one invocation.
type Result struct {
	Stdout []byte
	Stderr string
}

// Runner executes one AWS CLI invocation. Profile and region are appended
// as --profile/--region when non-empty.
type Runner interface {
	Run(ctx context.Context, args []string, profile, region string) (Result, error)
}

// CLI is the real Runner backed by os/exec.
type CLI struct {
	bin       string
	maxOutput int64
	log       *zap.SugaredLogger
}

// New returns a CLI runner. bin defaults to "aws" and maxOutput to
// DefaultMaxOutputBytes when zero values are given.
func New(bin string, maxOutput int64, log *zap.SugaredLogger) *CLI {
	if bin == "" {
		bin = "aws"
	}
	if maxOutput <= 0 {
		maxOutput = DefaultMaxOutputBytes
	}
	return &CLI{bin: bin, maxOutput: maxOutput, log: log}
}

// Run executes `<bin> <args...> [--profile P] [--region R]` and returns the
// captured output. A non-zero exit is wrapped with the command name and
// stderr tail. When the command succeeds but wrote to stderr, the text is
// surfaced as a warning rather than an error.
func (c *CLI) Run(ctx context.Context, args []string, profile, region string) (Result, error) {
	argv := make([]string, 0, len(args)+4)
	argv = append(argv, args...)
	if profile != "" {
		argv = append(argv, "--profile", profile)
	}
	if region != "" {
		argv = append(argv, "--region", region)
	}

	cmd := exec.CommandContext(ctx, c.bin, argv...)
	stdout := &cappedBuffer{max: c.maxOutput}
	var stderr bytes.Buffer
	cmd.Stdout = stdout
	cmd.Stderr = &stderr

	c.log.Debugw("running aws cli", "args", strings.Join(argv, " "))
	err := cmd.Run()
	res := Result{Stdout: stdout.Bytes(), Stderr: stderr.String()}
	if err != nil {
		if stdout.overflowed {
			return res, fmt.Errorf("%s %s: output exceeded %d bytes", c.bin, args[0], c.maxOutput)
		}
		return res, fmt.Errorf("%s %s failed: %w: %s", c.bin, args[0], err, firstLine(res.Stderr))
	}
	if res.Stderr != "" {
		c.log.Warnw("aws cli wrote to stderr", "command", args[0], "stderr", strings.TrimSpace(res.Stderr))
	}
	return res, nil
}

// RunJSON runs the command and decodes stdout into out. Invalid JSON from a
// zero-exit process is reported as its own error class.
func RunJSON(ctx context.Context, r Runner, args []string, profile, region string, out any) error {
	res, err := r.Run(ctx, args, profile, region)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(res.Stdout, out); err != nil {
		return fmt.Errorf("parse %s output: %w", args[0], err)
	}
	return nil
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// cappedBuffer fails the copy once max bytes have been written, which in
// turn fails cmd.Run with a recognizable overflow.
type cappedBuffer struct {
	buf        bytes.Buffer
	max        int64
	overflowed bool
}

func (b *cappedBuffer) Write(p []byte) (int, error) {
	if int64(b.buf.Len())+int64(len(p)) > b.max {
		b.overflowed = true
		return 0, fmt.Errorf("output buffer limit of %d bytes exceeded", b.max)
	}
	return b.buf.Write(p)
}

func (b *cappedBuffer) Bytes() []byte { return b.buf.Bytes() }
