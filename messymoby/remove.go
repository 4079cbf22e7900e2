// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package messymoby

import (
	"context"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/client"
)

// RemoveTestContainers forcefully removes all containers carrying the
// specified label, regardless of whether they are still running or already
// dead.
func RemoveTestContainers(ctx context.Context, cln *client.Client, labelname string) error {
	cntrs, err := cln.ContainerList(ctx, types.ContainerListOptions{
		All:     true,
		Filters: filters.NewArgs(filters.Arg("label", labelname)),
	})
	if err != nil {
		return err
	}
	for _, cntr := range cntrs {
		_ = cln.ContainerRemove(ctx, cntr.ID, types.ContainerRemoveOptions{Force: true})
	}
	return nil
}

// RemoveTestNetworks removes all networks carrying the specified label. As
// networks that still have containers attached cannot be removed, remove the
// test containers first.
func RemoveTestNetworks(ctx context.Context, cln *client.Client, labelname string) error {
	nets, err := cln.NetworkList(ctx, types.NetworkListOptions{
		Filters: filters.NewArgs(filters.Arg("label", labelname)),
	})
	if err != nil {
		return err
	}
	for _, net := range nets {
		switch net.Name {
		case "bridge", "host", "none":
			continue
		}
		_ = cln.NetworkRemove(ctx, net.ID)
	}
	return nil
}
