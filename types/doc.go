/*
Package types defines pingsweep's information model, which is deliberately
small: a [NetworkSpec] names the subnet to sweep, a [ProbeResult] carries the
liveness verdict for a single host address, and a [ScanSummary] aggregates the
verdicts of a complete sweep.

All types are plain values. They are passed around by value between the
probing workers and the sweep coordinator, so there is no shared mutable state
and thus no locking involved.
*/
package types
