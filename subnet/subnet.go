// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package subnet

import (
	"errors"
	"math/big"
	"net/netip"
	"strconv"
	"strings"

	"github.com/siemens/pingsweep/types"

	"go4.org/netipx"
)

// MaxEnumeration limits the number of host addresses that get enumerated when
// no explicit maximum host count has been set. It is large enough for an IPv4
// /8 network.
const MaxEnumeration = 1 << 24

// ParseSpec returns the network specification for the specified address and
// textual prefix length, as typically received from a user. It only checks
// that both are present and that the prefix length is a number; the address
// itself gets validated only later by [ExpandSpec].
func ParseSpec(address, prefix string) (types.NetworkSpec, error) {
	address = strings.TrimSpace(address)
	prefix = strings.TrimSpace(prefix)
	if address == "" {
		return types.NetworkSpec{}, &MissingInputError{Field: "address"}
	}
	if prefix == "" {
		return types.NetworkSpec{}, &MissingInputError{Field: "prefix"}
	}
	bits, err := strconv.Atoi(prefix)
	if err != nil {
		return types.NetworkSpec{}, &InvalidPrefixError{Prefix: prefix, Err: err}
	}
	return types.NetworkSpec{Address: address, PrefixLength: bits}, nil
}

// Network returns the network prefix for the specified network specification,
// with any host bits masked off.
func Network(spec types.NetworkSpec) (netip.Prefix, error) {
	addr, err := netip.ParseAddr(strings.TrimSpace(spec.Address))
	if err != nil {
		return netip.Prefix{}, &InvalidNetworkError{Network: spec.String(), Err: err}
	}
	if addr.Zone() != "" {
		return netip.Prefix{}, &InvalidNetworkError{
			Network: spec.String(),
			Err:     errors.New("scoped addresses are not supported"),
		}
	}
	pfx, err := addr.Prefix(spec.PrefixLength)
	if err != nil {
		return netip.Prefix{}, &InvalidNetworkError{Network: spec.String(), Err: err}
	}
	return pfx, nil
}

// HostCount returns the number of usable host addresses of the specified
// network, without enumerating them.
func HostCount(spec types.NetworkSpec) (*big.Int, error) {
	pfx, err := Network(spec)
	if err != nil {
		return nil, err
	}
	return hostCount(pfx), nil
}

func hostCount(pfx netip.Prefix) *big.Int {
	hostbits := uint(pfx.Addr().BitLen() - pfx.Bits())
	count := new(big.Int).Lsh(big.NewInt(1), hostbits)
	if hostbits >= 2 {
		count.Sub(count, big.NewInt(2))
	}
	return count
}

// Expand returns the usable host addresses of the network specified by the
// address and prefix length, in ascending address order. Expand enumerates at
// most [MaxEnumeration] addresses.
func Expand(address string, prefixLength int) ([]string, error) {
	return ExpandSpec(types.NetworkSpec{Address: address, PrefixLength: prefixLength}, 0)
}

// ExpandSpec returns the usable host addresses of the specified network, in
// ascending address order. If the network has more than maxHosts usable
// addresses, ExpandSpec returns a [SubnetTooLargeError] without enumerating
// any address. maxHosts never exceeds [MaxEnumeration]; a maxHosts of zero or
// less applies [MaxEnumeration] too.
func ExpandSpec(spec types.NetworkSpec, maxHosts int) ([]string, error) {
	pfx, err := Network(spec)
	if err != nil {
		return nil, err
	}
	if maxHosts <= 0 || maxHosts > MaxEnumeration {
		maxHosts = MaxEnumeration
	}
	count := hostCount(pfx)
	if count.Cmp(big.NewInt(int64(maxHosts))) > 0 {
		return nil, &SubnetTooLargeError{Hosts: count, Max: maxHosts}
	}
	hosts := make([]string, 0, int(count.Int64()))
	rng := netipx.RangeOfPrefix(pfx)
	first, last := rng.From(), rng.To()
	if pfx.Addr().BitLen()-pfx.Bits() >= 2 {
		first, last = first.Next(), last.Prev()
	}
	for addr := first; ; addr = addr.Next() {
		hosts = append(hosts, addr.String())
		if addr == last {
			break
		}
	}
	return hosts, nil
}
