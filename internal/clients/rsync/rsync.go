// Package rsync wraps the rsync subprocess used for backups, restores, and
// pushing the site folder to remote hosts.
package rsync

import (
	"context"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/pkg/errors"
)

type Client struct {
	// Sudo runs rsync under sudo, for trees owned by service accounts.
	Sudo bool
	// Chown is a user:group spec applied to transferred files, or "" to
	// keep ownership as-is.
	Chown string

	Out io.Writer
	Err io.Writer
}

func NewClient() *Client {
	return &Client{
		Out: os.Stdout,
		Err: os.Stderr,
	}
}

// Sync mirrors src to dest, deleting anything at dest which is no longer at
// src. Either side may be a remote host:path spec.
func (c *Client) Sync(ctx context.Context, src, dest string) error {
	var args []string
	program := "rsync"
	if c.Sudo {
		args = append(args, program)
		program = "sudo"
	}
	args = append(args, "-rlptJ", "--delete")
	if c.Chown != "" {
		args = append(args, "--chown="+c.Chown)
	}

	// rsync only mirrors a directory's contents when both sides carry a
	// trailing slash.
	if isLocalDir(src) {
		src = slashTrail(src)
		dest = slashTrail(dest)
	}
	args = append(args, src, dest)

	cmd := exec.CommandContext(ctx, program, args...)
	cmd.Stdout = c.Out
	cmd.Stderr = c.Err
	return errors.Wrapf(cmd.Run(), "couldn't rsync %s to %s", src, dest)
}

func isLocalDir(path string) bool {
	if strings.Contains(path, ":") {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func slashTrail(path string) string {
	return strings.TrimRight(path, "/") + "/"
}
