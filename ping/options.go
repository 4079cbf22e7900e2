// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package ping

import (
	"math"
	"time"

	"github.com/thediveo/lxkns/ops"
	"github.com/thediveo/lxkns/ops/relations"
	"github.com/thediveo/lxkns/species"
)

// Defaults for newly created probers.
const (
	DefaultCount   = 1
	DefaultTimeout = time.Second
	DefaultCommand = "ping"
)

// maxCount keeps the echo request count from wrapping when converted to int.
const maxCount = math.MaxInt32

// settings are common to all prober types.
type settings struct {
	count        int                // number of echo requests to send.
	timeout      time.Duration      // how long to wait for each echo reply.
	interval     time.Duration      // distance between echo requests.
	unprivileged bool               // if true, uses UDP-based pings instead of privileged ICMPs.
	command      string             // ping command to run.
	netns        relations.Relation // network namespace to probe from, or nil.
}

// Option can be passed to [NewICMPProber] and [NewCommandProber]. Options
// not applicable to a particular prober type are ignored.
type Option func(*settings)

func newSettings(options []Option) settings {
	s := settings{
		count:    DefaultCount,
		timeout:  DefaultTimeout,
		interval: time.Second,
		command:  DefaultCommand,
	}
	for _, opt := range options {
		opt(&s)
	}
	return s
}

// WithCount sets the number of echo requests for testing reachability of a
// host. A host is alive as soon as a single echo reply comes back. A zero count
// is taken as a single echo request.
func WithCount(count uint) Option {
	return func(s *settings) {
		switch {
		case count == 0:
			s.count = 1
		case count > maxCount:
			s.count = maxCount
		default:
			s.count = int(count)
		}
	}
}

// WithTimeout sets the time to wait for an echo reply.
func WithTimeout(timeout time.Duration) Option {
	return func(s *settings) {
		s.timeout = timeout
	}
}

// WithInterval sets the interval between consecutive echo requests; it only
// matters for counts larger than one.
func WithInterval(interval time.Duration) Option {
	return func(s *settings) {
		s.interval = interval
	}
}

// AsUnprivileged tells an ICMPProber to carry out unprivileged pings using UDP
// “ping sockets” instead of raw ICMP sockets.
func AsUnprivileged() Option {
	return func(s *settings) {
		s.unprivileged = true
	}
}

// WithCommand sets the ping command a CommandProber runs. The command gets
// passed the arguments "-c count -W seconds host".
func WithCommand(command string) Option {
	return func(s *settings) {
		s.command = command
	}
}

// InNetworkNamespace optionally runs probes inside the network namespace
// referenced by the specified filesystem path, such as "/proc/666/ns/net". An
// empty path keeps probing in the caller's network namespace.
func InNetworkNamespace(netnsref string) Option {
	return func(s *settings) {
		if netnsref == "" {
			s.netns = nil
			return
		}
		s.netns = ops.NewTypedNamespacePath(netnsref, species.CLONE_NEWNET)
	}
}

// execute runs fn, switching into the configured network namespace if
// necessary. lxkns' ops.Execute differentiates between a namespace switching
// error and the result of fn, but both are failures as far as probing is
// concerned.
func (s *settings) execute(fn func() error) error {
	if s.netns == nil {
		return fn()
	}
	res, err := ops.Execute(func() interface{} { return fn() }, s.netns)
	if err != nil {
		return err
	}
	if fnerr, ok := res.(error); ok {
		return fnerr
	}
	return nil
}
