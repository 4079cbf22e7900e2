// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package subnet

import (
	"errors"
	"fmt"
	"math/big"
)

// ErrInvalidInput is matched by all network specification validation errors.
var ErrInvalidInput = errors.New("invalid input")

// MissingInputError signals an empty address or prefix.
type MissingInputError struct {
	Field string // "address" or "prefix"
}

func (e *MissingInputError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}

func (e *MissingInputError) Is(target error) bool { return target == ErrInvalidInput }

// InvalidPrefixError signals a prefix length that isn't a decimal number.
type InvalidPrefixError struct {
	Prefix string
	Err    error
}

func (e *InvalidPrefixError) Error() string {
	return fmt.Sprintf("prefix must be a number like 24, got %q", e.Prefix)
}

func (e *InvalidPrefixError) Is(target error) bool { return target == ErrInvalidInput }

func (e *InvalidPrefixError) Unwrap() error { return e.Err }

// InvalidNetworkError signals an address and prefix length combination that
// doesn't form a valid network, such as a malformed address literal or a
// prefix length out of range for the address family.
type InvalidNetworkError struct {
	Network string
	Err     error
}

func (e *InvalidNetworkError) Error() string {
	return fmt.Sprintf("invalid IP address or prefix %q: %s", e.Network, e.Err.Error())
}

func (e *InvalidNetworkError) Is(target error) bool { return target == ErrInvalidInput }

func (e *InvalidNetworkError) Unwrap() error { return e.Err }

// SubnetTooLargeError signals a network with more usable hosts than allowed.
// Hosts is the exact number of usable hosts, which might be huge in case of
// IPv6 networks.
type SubnetTooLargeError struct {
	Hosts *big.Int
	Max   int
}

func (e *SubnetTooLargeError) Error() string {
	return fmt.Sprintf("subnet too large (%s hosts), please use a smaller subnet of at most %d hosts",
		e.Hosts.String(), e.Max)
}

func (e *SubnetTooLargeError) Is(target error) bool { return target == ErrInvalidInput }
