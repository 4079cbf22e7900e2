// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package dnsworker

import (
	"context"
	"net"
	"strconv"

	"github.com/gammazero/workerpool"
	"github.com/miekg/dns"
	"github.com/thediveo/lxkns/ops"
	"github.com/thediveo/lxkns/ops/relations"
	"github.com/thediveo/lxkns/species"
)

// FallbackResolver is the resolver address used when the system resolver
// configuration cannot be read.
const FallbackResolver = "127.0.0.53:53"

// DnsPool is a (size-limited) pool of DNS client connections talking with the
// same DNS resolver address.
type DnsPool struct {
	netns   relations.Relation // network namespace to dial from, or nil.
	client  *dns.Client
	workers *workerpool.WorkerPool
	conns   chan *dns.Conn // idle DNS client connections.
}

// DnsPoolOption can be passed to New when creating new [DnsPool] objects.
type DnsPoolOption func(*DnsPool)

// New returns a pool of the specified size of DNS client connections, with each
// connection talking to the same DNS resolver address. The passed context is
// only used for dialing the connections.
//
// To operate a DnsPool in a network namespace different to that of the OS-level
// thread of the caller specify the [InNetworkNamespace] option and pass it a
// filesystem path that must reference a network namespace (such as
// "/proc/666/ns/net"). Once dialed, the connections stay in the network
// namespace they were created in.
func New(ctx context.Context, size int, dnsclnt *dns.Client, addr string, options ...DnsPoolOption) (*DnsPool, error) {
	if size < 1 {
		size = 1
	}
	dnspool := &DnsPool{
		client:  dnsclnt,
		workers: workerpool.New(size),
		conns:   make(chan *dns.Conn, size),
	}
	for _, opt := range options {
		opt(dnspool)
	}
	dial := func() interface{} {
		for i := 0; i < size; i++ {
			conn, err := dnsclnt.DialContext(ctx, addr)
			if err != nil {
				dnspool.closeIdle()
				return err
			}
			dnspool.conns <- conn
		}
		return nil
	}
	var err error
	var dialerr interface{}
	if dnspool.netns != nil {
		dialerr, err = ops.Execute(dial, dnspool.netns)
	} else {
		dialerr = dial()
	}
	if err == nil && dialerr != nil {
		err = dialerr.(error)
	}
	if err != nil {
		dnspool.workers.Stop()
		return nil, err
	}
	return dnspool, nil
}

// InNetworkNamespace optionally dials the DNS client connections of a DnsPool
// inside the network namespace referenced by the specified filesystem path.
func InNetworkNamespace(netnsref string) DnsPoolOption {
	return func(p *DnsPool) {
		if netnsref == "" {
			return
		}
		p.netns = ops.NewTypedNamespacePath(netnsref, species.CLONE_NEWNET)
	}
}

// SystemResolver returns the address of the first name server configured in
// /etc/resolv.conf, or the [FallbackResolver].
func SystemResolver() string {
	return ResolverFromFile("/etc/resolv.conf")
}

// ResolverFromFile returns the address of the first name server configured in
// the specified resolv.conf file, or the [FallbackResolver].
func ResolverFromFile(resolvconf string) string {
	conf, err := dns.ClientConfigFromFile(resolvconf)
	if err != nil || len(conf.Servers) == 0 {
		return FallbackResolver
	}
	return net.JoinHostPort(conf.Servers[0], port(conf.Port))
}

// Submit a task to the DNS client connection pool, where it gets enqueued to be
// executed on an available DNS client connection.
func (p *DnsPool) Submit(task func(conn *dns.Conn)) {
	p.workers.Submit(func() {
		conn := <-p.conns
		defer func() { p.conns <- conn }()
		task(conn)
	})
}

// StopWait waits for all enqueued lookup tasks to finish, and then shuts down
// the pool, closing all DNS client connections.
func (p *DnsPool) StopWait() {
	p.workers.StopWait()
	p.closeIdle()
}

// Size returns the number of DNS client connections.
func (p *DnsPool) Size() int { return cap(p.conns) }

// closeIdle closes all idle DNS client connections.
func (p *DnsPool) closeIdle() {
	for {
		select {
		case conn := <-p.conns:
			conn.Close()
		default:
			return
		}
	}
}

// port returns the port number as a string, defaulting to DNS' well-known
// port.
func port(p string) string {
	if _, err := strconv.Atoi(p); err != nil {
		return "53"
	}
	return p
}
