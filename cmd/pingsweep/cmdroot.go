// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/siemens/pingsweep/ping"
	"github.com/siemens/pingsweep/subnet"
	"github.com/siemens/pingsweep/sweep"

	"github.com/spf13/cobra"
	"github.com/thediveo/lxkns/log"
)

var (
	maxHosts        *uint
	workerNumber    *uint
	timeout         *time.Duration
	count           *uint
	useExec         *bool
	pingCommand     *string
	unprivileged    *bool
	scanTimeout     *time.Duration
	resolve         *bool
	dnsServer       *string
	containerName   *string
	asJSON          *bool
	indentation     *uint
	spinnerInterval *time.Duration
	debug           *bool
)

func newRootCmd() (rootCmd *cobra.Command) {
	rootCmd = &cobra.Command{
		Use:   "pingsweep [flags] ADDRESS [PREFIX] | ADDRESS/PREFIX",
		Short: "pingsweep finds the live hosts in an IP subnet",
		Long: "pingsweep probes all usable host addresses in an IP subnet in parallel and\n" +
			"reports which hosts are alive. Alternatively, it sweeps all subnets attached\n" +
			"to a Docker container from inside the container's network namespace.",
		Version: "0.9",
		Args: func(cmd *cobra.Command, args []string) error {
			if *containerName != "" {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.RangeArgs(1, 2)(cmd, args)
		},
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if *maxHosts < 1 || *maxHosts > subnet.MaxEnumeration {
				return fmt.Errorf("--max-hosts out of range [1..%d]", subnet.MaxEnumeration)
			}
			if *workerNumber < 1 || *workerNumber > 1024 {
				return fmt.Errorf("--workers out of range [1..1024]")
			}
			if *count < 1 {
				return fmt.Errorf("--count must be at least 1")
			}
			if *timeout < 10*time.Millisecond {
				return fmt.Errorf("--timeout must be at least 10ms")
			}
			if *scanTimeout < 0 {
				return fmt.Errorf("--scan-timeout must not be negative")
			}
			if *useExec && *pingCommand == "" {
				return fmt.Errorf("--ping-command must not be empty")
			}
			if *indentation > 80 {
				return fmt.Errorf("--indent width out of range [0..80]")
			}
			if *spinnerInterval < 10*time.Millisecond {
				return fmt.Errorf("--spinner must be at least 10ms")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if *debug {
				log.SetLevel(log.DebugLevel)
				log.Debugf("debug logging enabled")
			}
			// From here on, errors are about the sweep, not about how
			// pingsweep was called.
			cmd.SilenceUsage = true
			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer cancel()
			if *scanTimeout > 0 {
				var cancelTimeout context.CancelFunc
				ctx, cancelTimeout = context.WithTimeout(ctx, *scanTimeout)
				defer cancelTimeout()
			}
			return SweepAndReport(ctx, cmd.OutOrStdout(), args)
		},
	}
	// Sets up the flags.
	flags := rootCmd.PersistentFlags()
	debug = flags.Bool(
		"debug", false, "enable debugging output")
	maxHosts = flags.Uint(
		"max-hosts", sweep.DefaultMaxHosts, "maximum number of hosts in a subnet to sweep")
	workerNumber = flags.Uint(
		"workers", sweep.DefaultMaxWorkers, "maximum number of concurrent probes")
	timeout = flags.Duration(
		"timeout", ping.DefaultTimeout, "time to wait for an echo reply")
	count = flags.Uint(
		"count", ping.DefaultCount, "number of echo requests per host")
	useExec = flags.Bool(
		"exec", false, "run the system ping command instead of sending ICMP echo requests directly")
	pingCommand = flags.String(
		"ping-command", ping.DefaultCommand, "ping command to run with --exec")
	unprivileged = flags.Bool(
		"unprivileged", false, "use unprivileged UDP ping sockets instead of raw ICMP sockets")
	scanTimeout = flags.Duration(
		"scan-timeout", 0, "overall time limit for sweeping, 0 for no limit")
	resolve = flags.Bool(
		"resolve", false, "look up the DNS names of alive hosts")
	dnsServer = flags.String(
		"dns-server", "", "DNS server address for --resolve (default first server from resolv.conf)")
	containerName = flags.String(
		"container", "", "sweep the subnets attached to this Docker container from inside it")
	asJSON = flags.Bool(
		"json", false, "print the results as JSON")
	indentation = flags.Uint(
		"indent", 3, "indentation width")
	spinnerInterval = flags.Duration(
		"spinner", 100*time.Millisecond, "spinner interval")
	return
}
