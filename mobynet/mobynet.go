// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package mobynet

import (
	"context"
	"fmt"
	"net/netip"
	"sort"

	"github.com/siemens/pingsweep/types"

	mobytypes "github.com/docker/docker/api/types"
)

// AttachedNetwork is a single IP subnet of a Docker network attached to a
// container. A Docker network with both an IPv4 and an IPv6 subnet thus results
// in two AttachedNetwork elements with the same Name.
type AttachedNetwork struct {
	Name string            `json:"name"` // name of the Docker network.
	Spec types.NetworkSpec `json:"spec"` // subnet of the Docker network.
}

// Inspector is the subset of the Docker client API needed for discovering
// attached networks; it is satisfied by [github.com/docker/docker/client.Client].
type Inspector interface {
	ContainerInspect(ctx context.Context, container string) (mobytypes.ContainerJSON, error)
	NetworkInspect(ctx context.Context, network string, options mobytypes.NetworkInspectOptions) (mobytypes.NetworkResource, error)
}

// DiscoverAttachedSubnets takes on the position of the “center” container
// identified by its name or ID and returns the subnets of the Docker networks
// currently attached to it, sorted by network name. Additionally, it returns
// the filesystem path referencing the network namespace of the container.
//
// Networks without IPAM subnet configuration, such as the "host" network, are
// skipped.
func DiscoverAttachedSubnets(ctx context.Context, moby Inspector, center string) ([]AttachedNetwork, string, error) {
	details, err := moby.ContainerInspect(ctx, center)
	if err != nil {
		return nil, "", err
	}
	if details.ContainerJSONBase == nil || details.State == nil || details.State.Pid == 0 {
		return nil, "", fmt.Errorf("container '%s' is not running", center)
	}
	netnsref := fmt.Sprintf("/proc/%d/ns/net", details.State.Pid)
	if details.NetworkSettings == nil {
		return []AttachedNetwork{}, netnsref, nil
	}

	attached := []AttachedNetwork{}
	for netname, endpoint := range details.NetworkSettings.Networks {
		if endpoint == nil {
			continue
		}
		netdetails, err := moby.NetworkInspect(ctx, endpoint.NetworkID, mobytypes.NetworkInspectOptions{})
		if err != nil {
			return nil, "", fmt.Errorf("cannot inspect network '%s': %w", netname, err)
		}
		for _, ipamcfg := range netdetails.IPAM.Config {
			if ipamcfg.Subnet == "" {
				continue
			}
			pfx, err := netip.ParsePrefix(ipamcfg.Subnet)
			if err != nil {
				return nil, "", fmt.Errorf("invalid subnet %q of network '%s': %w",
					ipamcfg.Subnet, netname, err)
			}
			attached = append(attached, AttachedNetwork{
				Name: netname,
				Spec: types.NetworkSpec{
					Address:      pfx.Addr().String(),
					PrefixLength: pfx.Bits(),
				},
			})
		}
	}
	sort.SliceStable(attached, func(a, b int) bool {
		if attached[a].Name != attached[b].Name {
			return attached[a].Name < attached[b].Name
		}
		return attached[a].Spec.String() < attached[b].Spec.String()
	})
	return attached, netnsref, nil
}
