/*
Package sweep implements the sweep coordinator: it fans out liveness probes for
all usable host addresses of a network to a limited pool of concurrent workers,
waits for all probes to finish, and then aggregates the individual verdicts
into a [types.ScanSummary].

	                       +--------+
	address, prefix  ----->| Sweep  +-----> ScanSummary
	                       +---+----+
	                           | hosts
	             +-------------+-------------+
	             v             v             v
	         +-------+     +-------+     +-------+
	         | probe |     | probe | ... | probe |   (at most 64 at a time)
	         +-------+     +-------+     +-------+

A [Sweeper] doesn't deliver partial results: [Sweeper.Scan] only returns after
each and every host has been probed. The size of the worker pool is the
smaller of the maximum number of workers (64 by default) and the number of
hosts, so small networks get probed fully in parallel, while large networks
don't exhaust file descriptors or process slots.

Sweeping a network with more usable hosts than the maximum host count (1024
by default) is rejected before a single probe has been sent.

# Acknowledgements

Under its hood, [Sweeper] leverages [gammazero/workerpool] as the limiting
goroutine pool.

[gammazero/workerpool]: https://github.com/gammazero/workerpool
*/
package sweep
