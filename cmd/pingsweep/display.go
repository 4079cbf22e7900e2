// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"io"
	"strings"
	"sync/atomic"
	"time"

	"github.com/siemens/pingsweep/types"

	"github.com/gosuri/uilive"
)

// renderer renders the terminal display of a single target, based on the
// progress or result information passed to its Render methods.
type renderer struct {
	Indentation int
	Hint        string // shown when no host is alive.
	target      target
	w           io.Writer
	spinner     *spinner
}

// newRenderer returns a renderer object rendering to the specified io.Writer.
func newRenderer(w io.Writer, t target) *renderer {
	return &renderer{
		Indentation: int(*indentation),
		target:      t,
		w:           w,
		spinner:     newSpinner(*spinnerInterval),
	}
}

// Stop the renderer's background ticker.
func (r *renderer) Stop() {
	r.spinner.Stop()
}

// RenderProgress renders a single progress line.
func (r *renderer) RenderProgress(probed, total, alive int) {
	fmt.Fprintf(r.w, "sweeping %s%s ", r.networkName(), r.onNetwork())
	fmt.Fprint(r.w, probingStyle.Styled(r.spinner.Spinner()))
	fmt.Fprintf(r.w, "%d/%d probed, %d alive\n", probed, total, alive)
}

// RenderAborted renders a sweep that didn't complete.
func (r *renderer) RenderAborted(probed, total int, err error) {
	fmt.Fprintf(r.w, "sweeping %s%s ", r.networkName(), r.onNetwork())
	fmt.Fprint(r.w, abortedStyle.Styled(fmt.Sprintf("aborted after %d/%d probes: %s", probed, total, err.Error())))
	fmt.Fprintln(r.w)
}

// RenderSummary renders the alive hosts of a completed sweep, one per line and
// together with their DNS names, if known.
func (r *renderer) RenderSummary(summary types.ScanSummary) {
	fmt.Fprintf(r.w, "network %s%s: %d of %d hosts alive\n",
		r.networkName(), r.onNetwork(), summary.AliveCount, summary.Scanned)
	if summary.AliveCount == 0 {
		fmt.Fprintf(r.w, "%-*s%s\n", r.Indentation, "", noneAliveStyle.Styled("no host is alive"))
		if r.Hint != "" {
			fmt.Fprintf(r.w, "%-*s%s\n", r.Indentation, "", r.Hint)
		}
		return
	}
	hostwidth := 0
	for _, result := range summary.Results {
		if l := len(result.Host); l > hostwidth {
			hostwidth = l
		}
	}
	for _, result := range summary.Results {
		fmt.Fprintf(r.w, "%-*s", r.Indentation, "")
		fmt.Fprint(r.w, aliveHostStyle.Styled("✔ "+result.Host))
		if len(result.Names) != 0 {
			fmt.Fprintf(r.w, "%-*s  %s", hostwidth-len(result.Host), "",
				hostNameStyle.Styled(strings.Join(result.Names, ", ")))
		}
		fmt.Fprintln(r.w)
	}
}

func (r *renderer) networkName() string {
	return networkNameStyle.Styled(r.target.Spec.String())
}

func (r *renderer) onNetwork() string {
	if r.target.Name == "" {
		return ""
	}
	return " on " + networkNameStyle.Styled(r.target.Name)
}

// liveProgress continuously updates the terminal with the progress of a
// running sweep until stopped, finally replacing the progress with the sweep
// result.
type liveProgress struct {
	term      *uilive.Writer
	renderer  *renderer
	total     int
	probed    *atomic.Int64
	alive     *atomic.Int64
	done      chan struct{}
	rendering chan struct{}
}

// startLiveProgress starts rendering the progress of sweeping the specified
// target to w, based on the probed and alive counters updated by the sweep.
// The hint gets shown in case no host turns out to be alive.
func startLiveProgress(w io.Writer, t target, hint string, total int, probed, alive *atomic.Int64) *liveProgress {
	// Dunno what uilive's background updating mode using Start() is good
	// for? It may trigger anytime with the rendering into the buffer not
	// yet complete, thus making the terminal output very flickery. So we
	// avoid Start() and instead trigger an explicit flush to the terminal
	// after having completed the rendering.
	term := uilive.New()
	term.Out = w
	r := newRenderer(term, t)
	r.Hint = hint
	lp := &liveProgress{
		term:      term,
		renderer:  r,
		total:     total,
		probed:    probed,
		alive:     alive,
		done:      make(chan struct{}),
		rendering: make(chan struct{}),
	}
	go func() {
		defer close(lp.rendering)
		lp.render()
		ticker := time.NewTicker(20 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				lp.render()
			case <-lp.done:
				return
			}
		}
	}()
	return lp
}

// render the current progress and flush it to the terminal.
func (lp *liveProgress) render() {
	lp.renderer.RenderProgress(int(lp.probed.Load()), lp.total, int(lp.alive.Load()))
	_ = lp.term.Flush()
}

// Stop rendering the progress and instead render the final result, or that
// the sweep was aborted.
func (lp *liveProgress) Stop(summary types.ScanSummary, err error) {
	close(lp.done)
	<-lp.rendering
	defer lp.renderer.Stop()
	if err != nil {
		lp.renderer.RenderAborted(int(lp.probed.Load()), lp.total, err)
	} else {
		lp.renderer.RenderSummary(summary)
	}
	_ = lp.term.Flush()
}
