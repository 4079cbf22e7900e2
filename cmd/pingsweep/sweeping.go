// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"os"
	"strings"
	"sync/atomic"

	"github.com/siemens/pingsweep/dnsworker"
	"github.com/siemens/pingsweep/mobynet"
	"github.com/siemens/pingsweep/ping"
	"github.com/siemens/pingsweep/subnet"
	"github.com/siemens/pingsweep/sweep"
	"github.com/siemens/pingsweep/types"

	"github.com/docker/docker/client"
	"github.com/miekg/dns"
)

// maxResolverConns limits the number of DNS client connections used for
// reverse lookups.
const maxResolverConns = 8

// target is a subnet to sweep, optionally with the name of the Docker network
// it belongs to.
type target struct {
	Name string
	Spec types.NetworkSpec
}

// report is the JSON rendering of a swept target.
type report struct {
	Name string `json:"name,omitempty"`
	types.ScanSummary
}

// SweepAndReport determines the subnet(s) to sweep, either from the CLI args
// or from the networks attached to a container, validates them all and only
// then starts probing the hosts of one subnet after another. Finally, it
// writes the results to w, either as JSON or as a (live) text report.
func SweepAndReport(ctx context.Context, w io.Writer, args []string) error {
	targets, netnsref, err := discoverTargets(ctx, args)
	if err != nil {
		return err
	}
	// Fail on the first unusable subnet before sending a single probe.
	hostlists := make([][]string, len(targets))
	for idx, t := range targets {
		hosts, err := subnet.ExpandSpec(t.Spec, int(*maxHosts))
		if err != nil {
			return err
		}
		hostlists[idx] = hosts
	}

	var resolver *dnsworker.DnsPool
	if *resolve {
		resolver, err = newResolver(ctx, netnsref)
		if err != nil {
			return fmt.Errorf("cannot look up DNS names: %w", err)
		}
		defer resolver.StopWait()
	}

	prober := newProber(netnsref)
	reports := make([]report, 0, len(targets))
	for idx, t := range targets {
		summary, err := sweepTarget(ctx, w, prober, resolver, t, hostlists[idx])
		if err != nil {
			return fmt.Errorf("sweeping %s aborted: %w", t.Spec.String(), err)
		}
		reports = append(reports, report{Name: t.Name, ScanSummary: summary})
	}
	if !*asJSON {
		return nil
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if *containerName == "" {
		return enc.Encode(reports[0].ScanSummary)
	}
	return enc.Encode(reports)
}

// sweepTarget sweeps the hosts of a single target, optionally looking up the
// DNS names of alive hosts. Unless JSON output has been requested, it shows
// the progress of the sweep and finally the sweep result.
func sweepTarget(
	ctx context.Context,
	w io.Writer,
	prober sweep.Prober,
	resolver *dnsworker.DnsPool,
	t target,
	hosts []string,
) (types.ScanSummary, error) {
	var probed, alive atomic.Int64
	sweeper := sweep.New(prober,
		sweep.WithMaxHosts(*maxHosts),
		sweep.WithMaxWorkers(*workerNumber),
		sweep.WithProgress(func(result types.ProbeResult) {
			if result.Alive {
				alive.Add(1)
			}
			probed.Add(1)
		}))

	var live *liveProgress
	if !*asJSON {
		live = startLiveProgress(w, t, privilegeHint(), len(hosts), &probed, &alive)
	}
	summary, err := sweeper.Scan(ctx, t.Spec.String(), hosts)
	if err == nil && resolver != nil {
		resolver.Annotate(ctx, summary.Results)
	}
	if live != nil {
		live.Stop(summary, err)
	}
	return summary, err
}

// discoverTargets returns the subnet(s) to sweep, as well as the network
// namespace to sweep from; an empty netnsref means the current network
// namespace.
func discoverTargets(ctx context.Context, args []string) ([]target, string, error) {
	if *containerName == "" {
		address, prefix := splitTarget(args)
		spec, err := subnet.ParseSpec(address, prefix)
		if err != nil {
			return nil, "", err
		}
		return []target{{Spec: spec}}, "", nil
	}

	moby, err := client.NewClientWithOpts(
		client.WithHost("unix:///var/run/docker.sock"),
		client.WithAPIVersionNegotiation(),
	)
	if err != nil {
		return nil, "", fmt.Errorf("cannot connect to the Docker daemon: %w", err)
	}
	defer moby.Close()
	attached, netnsref, err := mobynet.DiscoverAttachedSubnets(ctx, moby, *containerName)
	if err != nil {
		return nil, "", fmt.Errorf("cannot discover attached networks: %w", err)
	}
	if len(attached) == 0 {
		return nil, "", fmt.Errorf("container '%s' has no attached IP subnets", *containerName)
	}
	targets := make([]target, 0, len(attached))
	for _, attnet := range attached {
		targets = append(targets, target{Name: attnet.Name, Spec: attnet.Spec})
	}
	return targets, netnsref, nil
}

// splitTarget returns the address and prefix from either two separate args or
// a single "address/prefix" arg. A single arg without a prefix results in an
// empty prefix, which subnet.ParseSpec then rejects as missing.
func splitTarget(args []string) (address string, prefix string) {
	switch len(args) {
	case 0:
		return "", ""
	case 1:
		address, prefix, _ = strings.Cut(args[0], "/")
		return address, prefix
	default:
		return args[0], args[1]
	}
}

// newProber returns a prober configured from the CLI flags, probing from
// inside the network namespace referenced by netnsref, if not empty.
func newProber(netnsref string) sweep.Prober {
	options := []ping.Option{
		ping.WithCount(*count),
		ping.WithTimeout(*timeout),
		ping.InNetworkNamespace(netnsref),
	}
	if *useExec {
		return ping.NewCommandProber(append(options, ping.WithCommand(*pingCommand))...)
	}
	if *unprivileged {
		options = append(options, ping.AsUnprivileged())
	}
	return ping.NewICMPProber(options...)
}

// privilegeHint returns a hint about how to probe without privileges when
// sending ICMP echo requests over raw sockets, which needs root or
// CAP_NET_RAW. Otherwise, it returns "".
func privilegeHint() string {
	if *useExec || *unprivileged || osGeteuid() == 0 {
		return ""
	}
	return "(not running as root: raw ICMP sockets might not be permitted, try --unprivileged or --exec)"
}

// For CLI unit tests...
var osGeteuid = os.Geteuid

// newResolver returns a DNS connection pool for reverse lookups. Without an
// explicit --dns-server, the first name server from the resolv.conf of either
// the container or the host is used.
func newResolver(ctx context.Context, netnsref string) (*dnsworker.DnsPool, error) {
	addr := *dnsServer
	switch {
	case addr == "" && netnsref != "":
		addr = dnsworker.ResolverFromFile(containerResolvConf(netnsref))
	case addr == "":
		addr = dnsworker.SystemResolver()
	default:
		if _, _, err := net.SplitHostPort(addr); err != nil {
			addr = net.JoinHostPort(addr, "53")
		}
	}
	conns := int(*workerNumber)
	if conns > maxResolverConns {
		conns = maxResolverConns
	}
	return dnsworker.New(ctx, conns,
		&dns.Client{Net: "udp", Timeout: *timeout},
		addr,
		dnsworker.InNetworkNamespace(netnsref))
}

// containerResolvConf returns the path to the resolv.conf inside the mount
// namespace of the process whose network namespace is referenced by netnsref
// in the form of "/proc/$PID/ns/net".
func containerResolvConf(netnsref string) string {
	return strings.TrimSuffix(netnsref, "/ns/net") + "/root/etc/resolv.conf"
}
