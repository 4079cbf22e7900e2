/*
Package ping implements host liveness probes. A probe answers a single
question: does the host at a given IP address answer an ICMP echo request
within a short timeout?

Two probe implementations are available, both safe for concurrent use:

  - [ICMPProber] sends ICMP(v4/v6) echo requests in pure Go, either using raw
    sockets (needs CAP_NET_RAW) or unprivileged “ping sockets”.
  - [CommandProber] runs the system's ping command as a subprocess and takes a
    zero exit status as the sign of life.

Probes never fail: whatever goes wrong with the probing mechanism itself, such
as a missing ping binary, insufficient privileges, or a transient OS error, is
logged at debug level as a [MechanismError] and otherwise simply counts as the
host not being alive.

	         +-------+
	host --->| probe +--> ProbeResult{Host, Alive}
	         +-------+

Both probers can optionally be run from inside a network namespace different
to the one of the caller, see [InNetworkNamespace].

# Acknowledgements

[ICMPProber] leverages [go-ping/ping] for the ICMP echo handling.

[go-ping/ping]: https://github.com/go-ping/ping
*/
package ping
