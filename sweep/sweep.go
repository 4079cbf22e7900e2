// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package sweep

import (
	"context"
	"math/big"

	"github.com/siemens/pingsweep/subnet"
	"github.com/siemens/pingsweep/types"

	"github.com/gammazero/workerpool"
	"github.com/thediveo/lxkns/log"
)

// Defaults for newly created Sweepers.
const (
	DefaultMaxHosts   = 1024
	DefaultMaxWorkers = 64
)

// Prober determines whether a single host is alive. Probers must be safe for
// concurrent use and must never fail; a prober that cannot decide returns a
// result with Alive set to false.
type Prober interface {
	Probe(ctx context.Context, host string) types.ProbeResult
}

// ProberFunc adapts an ordinary function to the [Prober] interface.
type ProberFunc func(ctx context.Context, host string) types.ProbeResult

// Probe calls f(ctx, host).
func (f ProberFunc) Probe(ctx context.Context, host string) types.ProbeResult {
	return f(ctx, host)
}

// Sweeper sweeps networks for alive hosts, using a Prober for deciding on the
// liveness of individual hosts.
type Sweeper struct {
	prober     Prober
	maxHosts   int                     // maximum number of hosts per sweep.
	maxWorkers int                     // maximum number of concurrent probes.
	progress   func(types.ProbeResult) // optional per-probe completion hook.
}

// Option can be passed to [New] when creating new Sweeper objects.
type Option func(*Sweeper)

// New returns a new [Sweeper] using the specified prober. The new sweeper
// defaults to sweeping at most 1024 hosts with at most 64 concurrent probes.
//
// The sweeper can be configured during creation using several options:
//   - [WithMaxHosts]
//   - [WithMaxWorkers]
//   - [WithProgress]
func New(prober Prober, options ...Option) *Sweeper {
	s := &Sweeper{
		prober:     prober,
		maxHosts:   DefaultMaxHosts,
		maxWorkers: DefaultMaxWorkers,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// WithMaxHosts sets the maximum number of hosts a single sweep may probe. A
// zero max keeps the default, and max never exceeds [subnet.MaxEnumeration].
func WithMaxHosts(max uint) Option {
	return func(s *Sweeper) {
		if max > 0 {
			s.maxHosts = clamp(max)
		}
	}
}

// WithMaxWorkers sets the maximum number of concurrently running probes. A
// zero max keeps the default. As there can never be more concurrent probes
// than hosts, max never exceeds [subnet.MaxEnumeration] either.
func WithMaxWorkers(max uint) Option {
	return func(s *Sweeper) {
		if max > 0 {
			s.maxWorkers = clamp(max)
		}
	}
}

func clamp(max uint) int {
	if max > subnet.MaxEnumeration {
		return subnet.MaxEnumeration
	}
	return int(max)
}

// WithProgress sets a function that gets called after each completed probe. It
// is called concurrently from multiple goroutines, so it must be safe for
// concurrent use. It must not block, as it would otherwise stall the sweep.
func WithProgress(fn func(types.ProbeResult)) Option {
	return func(s *Sweeper) {
		s.progress = fn
	}
}

// MaxHosts returns the maximum number of hosts a single sweep may probe.
func (s *Sweeper) MaxHosts() int { return s.maxHosts }

// PoolSize returns the number of workers to use when probing the specified
// number of hosts: the smaller of the maximum number of workers and the number
// of hosts, but at least one.
func (s *Sweeper) PoolSize(hosts int) int {
	if hosts < 1 {
		hosts = 1
	}
	if hosts < s.maxWorkers {
		return hosts
	}
	return s.maxWorkers
}

// CheckCeiling returns a [subnet.SubnetTooLargeError] if the specified number
// of hosts exceeds the maximum number of hosts per sweep, otherwise nil.
func (s *Sweeper) CheckCeiling(hosts int) error {
	if hosts > s.maxHosts {
		return &subnet.SubnetTooLargeError{
			Hosts: big.NewInt(int64(hosts)),
			Max:   s.maxHosts,
		}
	}
	return nil
}

// Sweep the network specified in textual form, typically as received from a
// user. Sweep first validates the input and enumerates the usable hosts of
// the network, failing with one of the validation errors from package subnet
// without probing anything in case of invalid input or a network too large.
func (s *Sweeper) Sweep(ctx context.Context, address, prefix string) (types.ScanSummary, error) {
	spec, err := subnet.ParseSpec(address, prefix)
	if err != nil {
		return types.ScanSummary{}, err
	}
	return s.SweepSpec(ctx, spec)
}

// SweepSpec sweeps the specified network; see also [Sweeper.Sweep].
func (s *Sweeper) SweepSpec(ctx context.Context, spec types.NetworkSpec) (types.ScanSummary, error) {
	hosts, err := subnet.ExpandSpec(spec, s.maxHosts)
	if err != nil {
		return types.ScanSummary{}, err
	}
	return s.Scan(ctx, spec.String(), hosts)
}

// Scan probes all specified hosts and returns the summary of alive hosts for
// the named network. Scan blocks until all hosts have been probed.
//
// If the number of hosts exceeds the maximum host count, Scan returns a
// [subnet.SubnetTooLargeError] without probing any host.
//
// If the context gets cancelled or reaches its deadline, the probes still in
// flight are aborted, the probes not yet started are skipped, and Scan then
// returns the context's error instead of a partial summary.
func (s *Sweeper) Scan(ctx context.Context, network string, hosts []string) (types.ScanSummary, error) {
	if err := s.CheckCeiling(len(hosts)); err != nil {
		return types.ScanSummary{}, err
	}
	poolsize := s.PoolSize(len(hosts))
	log.Debugf("sweeping %s: %d hosts, %d workers", network, len(hosts), poolsize)
	// Each probe gets its own result slot, so the workers never write to the
	// same element and thus need no locking.
	results := make([]types.ProbeResult, len(hosts))
	workers := workerpool.New(poolsize)
	for idx, host := range hosts {
		idx, host := idx, host
		workers.Submit(func() {
			result := types.ProbeResult{Host: host}
			if ctx.Err() == nil {
				result = s.prober.Probe(ctx, host)
				result.Host = host
			}
			results[idx] = result
			if s.progress != nil {
				s.progress(result)
			}
		})
	}
	workers.StopWait()
	if err := ctx.Err(); err != nil {
		log.Debugf("sweeping %s aborted: %s", network, err.Error())
		return types.ScanSummary{}, err
	}
	summary := types.Summarize(network, results)
	log.Debugf("sweeping %s done: %d/%d alive", network, summary.AliveCount, summary.Scanned)
	return summary, nil
}
