// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package dnsworker

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/siemens/pingsweep/types"

	"github.com/miekg/dns"
	"github.com/thediveo/lxkns/log"
)

// ResolveAddr is a convenience method for submitting a PTR query for an IP
// address and gathering the results. The reverse names (without trailing dots)
// or an error if resolution failed are passed to the specified callback
// function fn. fn gets called exactly once.
//
// Please note that when the passed context is cancelled this will cancel all
// scheduled reverse lookups, but not any lookup already in flight.
func (p *DnsPool) ResolveAddr(ctx context.Context, addr string, fn func([]string, error)) {
	p.Submit(func(conn *dns.Conn) {
		var names []string
		var err error
		defer func() { fn(names, err) }() // ...ensure triggering the result callback on our way out

		select {
		case <-ctx.Done():
			err = ctx.Err()
			return
		default:
		}

		var arpa string
		arpa, err = dns.ReverseAddr(addr)
		if err != nil {
			return
		}
		msg := dns.Msg{}
		msg.SetQuestion(arpa, dns.TypePTR)
		var r *dns.Msg
		r, _, err = p.client.ExchangeWithConn(&msg, conn)
		if err != nil {
			return
		}
		if r.Rcode != dns.RcodeSuccess {
			err = fmt.Errorf("ResolveAddr: query for %q failed with %s",
				arpa, dns.RcodeToString[r.Rcode])
			return
		}
		for _, rr := range r.Answer {
			if ptr, ok := rr.(*dns.PTR); ok {
				names = append(names, strings.TrimSuffix(ptr.Ptr, "."))
			}
		}
		if len(names) == 0 {
			err = fmt.Errorf("ResolveAddr: query for %q yields no answers", arpa)
		}
	})
}

// Annotate looks up the reverse names of all alive hosts in the specified
// results, updating their Names in place. Annotate blocks until all lookups
// have finished. Failing lookups simply leave the names empty.
func (p *DnsPool) Annotate(ctx context.Context, results []types.ProbeResult) {
	var wg sync.WaitGroup
	for idx := range results {
		if !results[idx].Alive {
			continue
		}
		idx := idx
		wg.Add(1)
		p.ResolveAddr(ctx, results[idx].Host, func(names []string, err error) {
			defer wg.Done()
			if err != nil {
				log.Debugf("no reverse name for %s: %s", results[idx].Host, err.Error())
				return
			}
			results[idx].Names = names
		})
	}
	wg.Wait()
}
