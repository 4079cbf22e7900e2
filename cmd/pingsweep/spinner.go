// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

// Yet another (braille) spinner.

package main

import (
	"sync"
	"time"
)

// spinner is yet another blindingly simple spinner; it starts spinning when
// created and stops only when told so.
type spinner struct {
	ticker   *time.Ticker
	phases   []string
	done     chan struct{}
	stopOnce sync.Once
	mu       sync.Mutex
	phase    int
}

// newSpinner returns a new spinner spinning a step every specified interval;
// call Stop later to release its background resources.
func newSpinner(interval time.Duration) *spinner {
	phases := []string{}
	for _, r := range "⠉⠘⠰⠤⠆⠃" {
		phases = append(phases, string(r)+" ")
	}
	s := &spinner{
		ticker: time.NewTicker(interval),
		phases: phases,
		done:   make(chan struct{}),
	}
	go s.spin()
	return s
}

// Spinner returns the spinner string for the current phase.
func (s *spinner) Spinner() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phases[s.phase]
}

// spin advances the phase on each tick until the spinner gets stopped.
func (s *spinner) spin() {
	defer s.ticker.Stop()
	for {
		select {
		case <-s.ticker.C:
			s.mu.Lock()
			s.phase = (s.phase + 1) % len(s.phases)
			s.mu.Unlock()
		case <-s.done:
			return
		}
	}
}

// Stop the spinner and release the background resources. Stopping an already
// stopped spinner is a no-op.
func (s *spinner) Stop() {
	s.stopOnce.Do(func() { close(s.done) })
}
