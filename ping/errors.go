// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package ping

import "fmt"

// MechanismError describes a failure of the probing mechanism itself, as
// opposed to a host simply not answering. It never leaves a prober's Probe
// method and only ends up in the debug log.
type MechanismError struct {
	Host string
	Err  error
}

func (e *MechanismError) Error() string {
	return fmt.Sprintf("probing %s failed: %s", e.Host, e.Err.Error())
}

func (e *MechanismError) Unwrap() error { return e.Err }
