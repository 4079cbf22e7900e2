/*
Package dnsworker implements a simple limiting DNS client-request execution
pool. pingsweep uses [DnsPool] with a pool of “DNS workers” for looking up the
reverse (PTR) names of alive hosts.

Usage

	dnsclnt := dns.Client{}
	workers, err := dnsworker.New(
	    context.Background(),
	    4,                          // number of parallel DNS connections and thus workers
	    &dnsclnt,                   // DNS client
	    dnsworker.SystemResolver(), // address of server/resolver
	)
	workers.ResolveAddr(ctx,
	    "192.0.2.1",
	    func(names []string, err error) {
	        // do something with names, unless there's an error reported
	    })
	workers.Annotate(ctx, summary.Results) // fills in the Names of alive hosts
	workers.StopWait()

# Acknowledgements

Under its hood, [DnsPool] leverages [gammazero/workerpool] as the limiting
goroutine pool, and [miekg/dns] for talking DNS.

[gammazero/workerpool]: https://github.com/gammazero/workerpool
[miekg/dns]: https://github.com/miekg/dns
*/
package dnsworker
