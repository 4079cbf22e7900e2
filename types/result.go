// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package types

import "strconv"

// NetworkSpec specifies a network to sweep in form of an IP address literal and
// a prefix length. The address does not need to be the network's base address;
// any host bits get masked off when expanding the specification.
type NetworkSpec struct {
	Address      string `json:"address"` // IPv4 or IPv6 address literal
	PrefixLength int    `json:"prefix"`  // CIDR prefix length
}

// String returns the network specification in CIDR notation, using the address
// as originally given (that is, without masking off any host bits).
func (s NetworkSpec) String() string {
	return s.Address + "/" + strconv.Itoa(s.PrefixLength)
}

// ProbeResult is the liveness verdict for a single host address.
type ProbeResult struct {
	Host  string   `json:"host"`
	Alive bool     `json:"alive"`
	Names []string `json:"names,omitempty"` // optional reverse DNS names
}

// ScanSummary aggregates the results of sweeping all usable host addresses of
// a network. Results contains only the alive hosts.
type ScanSummary struct {
	Network    string        `json:"network"`
	Results    []ProbeResult `json:"results"`
	AliveCount int           `json:"alive_count"`
	Scanned    int           `json:"scanned"`
}

// Summarize returns the summary for the specified network, given the results of
// probing all of its hosts. Alive results keep their relative order.
func Summarize(network string, results []ProbeResult) ScanSummary {
	alive := make([]ProbeResult, 0, len(results))
	for _, result := range results {
		if result.Alive {
			alive = append(alive, result)
		}
	}
	return ScanSummary{
		Network:    network,
		Results:    alive,
		AliveCount: len(alive),
		Scanned:    len(results),
	}
}
