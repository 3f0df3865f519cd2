// Package ssh dispatches commands to remote hosts over ssh, for the
// orchestrator role.
package ssh

import (
	"context"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/pkg/errors"
)

type Client struct {
	Out io.Writer
	Err io.Writer
}

func NewClient() *Client {
	return &Client{
		Out: os.Stdout,
		Err: os.Stderr,
	}
}

// Run executes the given command on the remote host, streaming its output.
func (c *Client) Run(ctx context.Context, hostname string, args ...string) error {
	cmd := exec.CommandContext(ctx, "ssh", append([]string{hostname}, args...)...)
	cmd.Stdout = c.Out
	cmd.Stderr = c.Err
	return errors.Wrapf(
		cmd.Run(), "couldn't run `%s` on host %s", strings.Join(args, " "), hostname,
	)
}
