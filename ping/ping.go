// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package ping

import (
	"context"
	"time"

	"github.com/siemens/pingsweep/types"

	"github.com/go-ping/ping"
	"github.com/thediveo/lxkns/log"
)

// ICMPProber probes hosts by sending them ICMP echo requests and waiting for
// their echo replies. An ICMPProber is stateless after creation and thus can
// be used concurrently from multiple goroutines.
type ICMPProber struct {
	settings
}

// NewICMPProber returns a new [ICMPProber], defaulting to a single echo
// request with a reply timeout of 1s.
//
// The prober can be configured during creation using several options:
//   - [WithCount]
//   - [WithTimeout]
//   - [WithInterval]
//   - [AsUnprivileged]
//   - [InNetworkNamespace]
func NewICMPProber(options ...Option) *ICMPProber {
	return &ICMPProber{settings: newSettings(options)}
}

// Probe the specified host address, returning whether the host is alive.
//
// Please note that you should use IP address literals instead of DNS names in
// case you want precise control over the specific IP address to probe.
//
// Probing is aborted when the specified context either meets its deadline or
// gets cancelled. The host is then considered to be not alive.
func (p *ICMPProber) Probe(ctx context.Context, host string) types.ProbeResult {
	alive, err := p.echo(ctx, host)
	if err != nil {
		log.Debugf("%s", &MechanismError{Host: host, Err: err})
	}
	return types.ProbeResult{Host: host, Alive: alive}
}

// echo does the real work of pinging a host, optionally from inside another
// network namespace. It only returns an error if the probing mechanism failed,
// but not when the host simply didn't reply.
func (p *ICMPProber) echo(ctx context.Context, host string) (alive bool, err error) {
	err = p.execute(func() error {
		// A quick and non-blocking check to see if the context has been
		// cancelled before we start our work...
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		pinger, err := ping.NewPinger(host)
		if err != nil {
			return err
		}
		pinger.SetPrivileged(!p.unprivileged)
		pinger.Count = p.count
		pinger.Interval = p.interval
		// Always limit waiting for the last echo reply to get reflected (or
		// not)!
		pinger.Timeout = time.Duration(p.count-1)*p.interval + p.timeout
		// While the ping will be running, we need to monitor the context in
		// case it becomes "done" by either getting cancelled or reaching its
		// deadline. The done channel here works "the other way round" in the
		// sense that it terminates the concurrent context monitoring.
		done := make(chan struct{})
		defer close(done)
		go func() {
			select {
			case <-ctx.Done():
				pinger.Stop()
			case <-done:
			}
		}()
		if err := pinger.Run(); err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		alive = pinger.Statistics().PacketsRecv > 0
		return nil
	})
	if err != nil {
		return false, err
	}
	return alive, nil
}
