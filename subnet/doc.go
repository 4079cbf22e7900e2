/*
Package subnet expands a network specification, consisting of an IP address
literal and a prefix length, into the list of usable host addresses of that
network.

Host bits in the specified address are silently masked off, so "10.0.0.5/24"
expands exactly like "10.0.0.0/24". The network (all host bits zero) and
broadcast (all host bits one) addresses are excluded from the usable hosts, but
only as long as there are at least two host bits. Networks with a single host
bit (/31, /127) or no host bits at all (/32, /128) consist of usable host
addresses only. The same rule applies to IPv4 and IPv6.

In order to keep the cost of a sweep bounded, [ExpandSpec] first calculates the
number of usable hosts and then rejects networks exceeding a maximum host count
with a [SubnetTooLargeError] before enumerating a single address.

# Errors

All validation errors returned from this package match [ErrInvalidInput] when
checked using [errors.Is], and can be told apart using [errors.As]:
  - [MissingInputError]
  - [InvalidPrefixError]
  - [InvalidNetworkError]
  - [SubnetTooLargeError]
*/
package subnet
