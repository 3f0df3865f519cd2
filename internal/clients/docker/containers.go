package docker

import (
	"context"
	"fmt"

	"github.com/docker/compose/v2/pkg/api"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/pkg/errors"
)

// docker container ls

func (c *Client) ListContainers(
	ctx context.Context, unitName string,
) ([]container.Summary, error) {
	f := filters.NewArgs(filters.KeyValuePair{
		Key:   "label",
		Value: fmt.Sprintf("%s=%s", api.OneoffLabel, "False"),
	})
	if unitName != "" {
		f.Add("label", fmt.Sprintf("%s=%s", api.ProjectLabel, unitName))
	}
	containers, err := c.Client.ContainerList(ctx, container.ListOptions{
		Filters: f,
		All:     true,
	})
	return containers, errors.Wrap(err, "couldn't list docker containers")
}
