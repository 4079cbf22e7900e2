// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package ping

import (
	"context"
	"errors"
	"math"
	"os/exec"
	"strconv"
	"time"

	"github.com/siemens/pingsweep/types"

	"github.com/thediveo/lxkns/log"
)

// CommandProber probes hosts by running the system's ping command, taking a
// zero exit status to mean that the host is alive. A CommandProber doesn't need
// any special privileges itself, as the system ping command typically either
// is set-uid or has the necessary capabilities.
type CommandProber struct {
	settings
}

// NewCommandProber returns a new [CommandProber], defaulting to running "ping"
// with a single echo request and a reply timeout of 1s.
//
// The prober can be configured during creation using several options:
//   - [WithCommand]
//   - [WithCount]
//   - [WithTimeout]
//   - [InNetworkNamespace]
func NewCommandProber(options ...Option) *CommandProber {
	return &CommandProber{settings: newSettings(options)}
}

// Probe the specified host address by running the ping command, returning
// whether the host is alive.
//
// Ping commands that don't terminate on their own in time get killed after
// count×timeout plus another timeout's worth of grace.
func (p *CommandProber) Probe(ctx context.Context, host string) types.ProbeResult {
	alive, err := p.run(ctx, host)
	if err != nil {
		log.Debugf("%s", &MechanismError{Host: host, Err: err})
	}
	return types.ProbeResult{Host: host, Alive: alive}
}

// run the ping command, returning an error only if running the command failed
// in itself, but not when the command ran and reported an unreachable host.
func (p *CommandProber) run(ctx context.Context, host string) (alive bool, err error) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(p.count+1)*p.timeout)
	defer cancel()
	// ping's -W only takes whole seconds on many systems.
	secs := int(math.Ceil(p.timeout.Seconds()))
	if secs < 1 {
		secs = 1
	}
	err = p.execute(func() error {
		cmd := exec.CommandContext(ctx, p.command,
			"-c", strconv.Itoa(p.count),
			"-W", strconv.Itoa(secs),
			host)
		return cmd.Run()
	})
	if err == nil {
		return true, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && ctx.Err() == nil {
		return false, nil // ran fine, but no sign of life.
	}
	if ctxerr := ctx.Err(); ctxerr != nil {
		return false, ctxerr
	}
	return false, err
}
