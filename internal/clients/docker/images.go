package docker

import (
	"bytes"
	"context"
	"strings"

	"github.com/distribution/reference"
	"github.com/docker/docker/api/types/filters"
	dti "github.com/docker/docker/api/types/image"
	"github.com/docker/docker/pkg/jsonmessage"
	"github.com/pkg/errors"
)

// docker image pull

// PullImage pulls the named image and reports whether the pull brought down a
// newer image than the one already present locally.
func (c *Client) PullImage(ctx context.Context, taggedName string) (updated bool, err error) {
	distributionRef, err := reference.ParseNormalizedNamed(taggedName)
	if err != nil {
		return false, errors.Wrapf(err, "couldn't parse image ref %s", taggedName)
	}
	distributionRef = reference.TagNameOnly(distributionRef)

	responseBody, err := c.Client.ImagePull(
		ctx, reference.FamiliarString(distributionRef), dti.PullOptions{},
	)
	if err != nil {
		return false, errors.Wrapf(err, "couldn't pull image %s", taggedName)
	}
	defer func() {
		if cerr := responseBody.Close(); cerr != nil {
			if err == nil {
				err = cerr
			}
		}
	}()

	buffer := &bytes.Buffer{}
	if err = jsonmessage.DisplayJSONMessagesStream(
		responseBody, buffer, 0, false, nil,
	); err != nil {
		return false, errors.Wrapf(err, "couldn't stream pull of image %s", taggedName)
	}
	// The docker daemon reports "Downloaded newer image for ..." when the pull changed
	// anything, and "Image is up to date for ..." otherwise.
	return strings.Contains(buffer.String(), "Downloaded newer image"), nil
}

// docker image prune

func (c *Client) PruneUnusedImages(ctx context.Context) (dti.PruneReport, error) {
	// Note: it appears that the "dangling" filter sets whether to only prune dangling images;
	// otherwise, all unused images will be pruned (which is what we want)
	report, err := c.Client.ImagesPrune(ctx, filters.NewArgs(filters.KeyValuePair{
		Key:   "dangling",
		Value: "false",
	}))
	return report, errors.Wrap(err, "couldn't prune unused docker images")
}
