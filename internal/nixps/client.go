package nixps

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Fetcher returns the current set of active builds. It is implemented by
// *Client and can be faked in tests.
type Fetcher interface {
	Fetch(ctx context.Context) (Snapshot, error)
}

// Ensure Client implements Fetcher at compile time.
var _ Fetcher = (*Client)(nil)

// DefaultCommand is run when no command is configured.
const DefaultCommand = "nix"

const (
	maxStderr = 512
	waitDelay = time.Second
)

// DefaultArgs are passed to the command when none are configured.
var DefaultArgs = []string{"ps", "--json"}

// Client runs `nix ps --json` (or a configured replacement) and decodes its output.
type Client struct {
	// Command is the executable to run. Defaults to "nix".
	Command string
	// Args are passed to Command. Defaults to DefaultArgs.
	Args []string
}

// NewClient builds a Client, substituting defaults for empty values.
func NewClient(command string, args []string) *Client {
	command = strings.TrimSpace(command)
	if command == "" {
		command = DefaultCommand
	}
	if len(args) == 0 {
		args = DefaultArgs
	}
	return &Client{
		Command: command,
		Args:    append([]string(nil), args...),
	}
}

// Fetch runs the command once and returns the decoded, sorted builds.
func (c *Client) Fetch(ctx context.Context) (Snapshot, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	out, err := c.run(ctx)
	if err != nil {
		return nil, err
	}
	return Decode(out)
}

// Decode parses the JSON array printed by `nix ps --json`.
func Decode(data []byte) (Snapshot, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}
	var builds []Build
	if err := json.Unmarshal(data, &builds); err != nil {
		return nil, fmt.Errorf("decode nix ps output: %w", err)
	}
	return Sorted(builds), nil
}

// String describes the command line for logs.
func (c *Client) String() string {
	return strings.TrimSpace(c.Command + " " + strings.Join(c.Args, " "))
}

func (c *Client) run(ctx context.Context) ([]byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, c.Command, c.Args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	// Grandchildren can hold the output pipes open after a kill.
	cmd.WaitDelay = waitDelay

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			if msg := trimStderr(stderr.String()); msg != "" {
				return nil, fmt.Errorf("%s: %w: %s", c, err, msg)
			}
		}
		return nil, fmt.Errorf("%s: %w", c, err)
	}
	return stdout.Bytes(), nil
}

func trimStderr(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > maxStderr {
		s = s[:maxStderr] + "…"
	}
	return s
}
