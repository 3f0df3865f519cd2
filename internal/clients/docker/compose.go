// Package docker provides a wrapper around Docker Compose's functionality
package docker

import (
	"context"
	"io"
	"time"

	dct "github.com/compose-spec/compose-go/v2/types"
	"github.com/docker/cli/cli/command"
	"github.com/docker/cli/cli/flags"
	"github.com/docker/compose/v2/pkg/api"
	"github.com/docker/compose/v2/pkg/compose"
	dc "github.com/docker/docker/client"
	"github.com/pkg/errors"
)

// Client

type clientOptions struct {
	quiet     bool
	apiClient []dc.Opt
	cli       []command.CLIOption
	cliFlags  flags.ClientOptions
}

type ClientOption func(clientOptions) clientOptions

func WithConcurrencySafeOutput() ClientOption {
	return func(options clientOptions) clientOptions {
		options.quiet = true
		options.cli = append(options.cli, command.WithErrorStream(io.Discard))
		options.cliFlags.LogLevel = "warning"
		return options
	}
}

type Client struct {
	options clientOptions
	Client  *dc.Client
	Compose api.Service
}

func NewClient(opts ...ClientOption) (*Client, error) {
	options := clientOptions{
		apiClient: []dc.Opt{
			dc.WithHostFromEnv(),
			dc.WithAPIVersionNegotiation(),
		},
		cli: []command.CLIOption{
			command.WithDefaultContextStoreConfig(),
		},
		cliFlags: flags.ClientOptions{},
	}
	for _, opt := range opts {
		options = opt(options)
	}
	client, err := dc.NewClientWithOpts(options.apiClient...)
	if err != nil {
		return nil, errors.Wrap(err, "couldn't make docker client")
	}

	options.cli = append([]command.CLIOption{command.WithAPIClient(client)}, options.cli...)
	cli, err := command.NewDockerCli(options.cli...)
	if err != nil {
		return nil, errors.Wrap(err, "couldn't make docker cli")
	}
	if err = cli.Initialize(&options.cliFlags); err != nil {
		return nil, errors.Wrap(err, "couldn't initialize docker cli")
	}

	return &Client{
		options: options,
		Client:  client,
		Compose: compose.NewComposeService(cli),
	}, nil
}

// docker compose ls

func (c *Client) ListProjects(ctx context.Context) ([]api.Stack, error) {
	return c.Compose.List(ctx, api.ListOptions{
		All: true,
	})
}

// docker compose up

func (c *Client) DeployUnit(
	ctx context.Context, unit *dct.Project, waitTimeout time.Duration,
) error {
	options := api.UpOptions{
		Create: api.CreateOptions{
			RemoveOrphans:        true,
			Recreate:             api.RecreateDiverged,
			RecreateDependencies: api.RecreateDiverged,
			Timeout:              &waitTimeout,
			QuietPull:            c.options.quiet,
		},
		Start: api.StartOptions{
			Project:     unit,
			Wait:        true,
			WaitTimeout: waitTimeout,
		},
	}
	return errors.Wrapf(c.Compose.Up(ctx, unit, options), "couldn't bring up %s", unit.Name)
}

// docker compose start

func (c *Client) StartUnit(ctx context.Context, name string) error {
	return errors.Wrapf(c.Compose.Start(ctx, name, api.StartOptions{
		Wait: true,
	}), "couldn't start %s", name)
}

// docker compose stop

func (c *Client) StopUnit(ctx context.Context, name string, timeout time.Duration) error {
	return errors.Wrapf(c.Compose.Stop(ctx, name, api.StopOptions{
		Timeout: &timeout,
	}), "couldn't stop %s", name)
}

// docker compose restart

func (c *Client) RestartUnit(ctx context.Context, name string) error {
	return errors.Wrapf(
		c.Compose.Restart(ctx, name, api.RestartOptions{}), "couldn't restart %s", name,
	)
}

// docker compose down

func (c *Client) RemoveUnits(ctx context.Context, names []string) error {
	for _, name := range names {
		if err := c.Compose.Down(ctx, name, api.DownOptions{
			RemoveOrphans: true,
		}); err != nil {
			return errors.Wrapf(err, "couldn't take down %s", name)
		}
	}
	return nil
}
