// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package dnsworker

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/siemens/pingsweep/types"

	"github.com/miekg/dns"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	. "github.com/onsi/gomega/gleak"
	. "github.com/thediveo/success"
)

// reverseZone maps reverse lookup names to the PTR names our test DNS server
// hands out.
var reverseZone = map[string][]string{
	"1.2.0.192.in-addr.arpa.": {"alive.example.org."},
	"3.2.0.192.in-addr.arpa.": {"www.example.org.", "web.example.org."},
	"1.0.0.0.0.0.0.0.0.0.0.0.0.0.0.0.0.0.0.0.0.0.0.0.8.b.d.0.1.0.0.2.ip6.arpa.": {"six.example.org."},
}

// startDNSServer starts an in-process DNS server answering PTR queries from
// the reverseZone, returning the server's address. The server gets shut down
// automatically at the end of the current spec.
func startDNSServer() string {
	GinkgoHelper()
	pc := Successful(net.ListenPacket("udp", "127.0.0.1:0"))
	started := make(chan struct{})
	srv := &dns.Server{
		PacketConn:        pc,
		NotifyStartedFunc: func() { close(started) },
		Handler: dns.HandlerFunc(func(w dns.ResponseWriter, r *dns.Msg) {
			m := new(dns.Msg)
			m.SetReply(r)
			q := r.Question[0]
			names, ok := reverseZone[q.Name]
			if !ok || q.Qtype != dns.TypePTR {
				m.Rcode = dns.RcodeNameError
			}
			for _, name := range names {
				m.Answer = append(m.Answer, &dns.PTR{
					Hdr: dns.RR_Header{Name: q.Name, Rrtype: dns.TypePTR, Class: dns.ClassINET, Ttl: 60},
					Ptr: name,
				})
			}
			_ = w.WriteMsg(m)
		}),
	}
	go func() { _ = srv.ActivateAndServe() }()
	Eventually(started).Should(BeClosed())
	DeferCleanup(func() { _ = srv.Shutdown() })
	return pc.LocalAddr().String()
}

var _ = Describe("DNS client connection pool", func() {

	BeforeEach(func() {
		goodgos := Goroutines()
		DeferCleanup(func() {
			Eventually(Goroutines).WithTimeout(3 * time.Second).WithPolling(250 * time.Millisecond).
				ShouldNot(HaveLeaked(goodgos))
		})
	})

	It("runs a goroutine-limited set of DNS tasks", NodeTimeout(30*time.Second), func(ctx context.Context) {
		const poolsize = 3

		dnsclnt := dns.Client{}
		// We're never going to contact this DNS "server", we just need just
		// some address so we can allocate some connections.
		pool := Successful(New(ctx, poolsize, &dnsclnt, "127.0.0.1:53"))
		Expect(pool.Size()).To(Equal(poolsize))

		dnsconns := map[*dns.Conn]int{}
		var mu sync.Mutex
		taskfn := func(conn *dns.Conn) {
			mu.Lock()
			count := dnsconns[conn]
			dnsconns[conn] = count + 1
			mu.Unlock()
			time.Sleep(100 * time.Millisecond)
		}

		numtasks := poolsize * 4
		for i := 0; i < numtasks; i++ {
			pool.Submit(taskfn)
		}

		pool.StopWait()

		total := 0
		for _, count := range dnsconns {
			total += count
		}
		Expect(total).To(Equal(numtasks), "number of submitted and executed tasks mismatch")
		Expect(len(dnsconns)).To(BeNumerically("<=", poolsize))
	})

	It("resolves reverse names", NodeTimeout(30*time.Second), func(ctx context.Context) {
		srvaddr := startDNSServer()
		pool := Successful(New(ctx, 2, &dns.Client{Net: "udp"}, srvaddr))
		defer pool.StopWait()

		ch := make(chan []string, 1)
		pool.ResolveAddr(ctx, "192.0.2.3", func(names []string, err error) {
			defer GinkgoRecover()
			Expect(err).NotTo(HaveOccurred())
			ch <- names
		})
		Eventually(ch).Should(Receive(ConsistOf("www.example.org", "web.example.org")))
	})

	It("reports resolution failures", NodeTimeout(30*time.Second), func(ctx context.Context) {
		srvaddr := startDNSServer()
		pool := Successful(New(ctx, 1, &dns.Client{Net: "udp"}, srvaddr))
		defer pool.StopWait()

		ch := make(chan struct{})
		pool.ResolveAddr(ctx, "192.0.2.42", func(names []string, err error) {
			defer GinkgoRecover()
			Expect(err).To(MatchError(ContainSubstring("NXDOMAIN")))
			Expect(names).To(BeEmpty())
			close(ch)
		})
		Eventually(ch).Should(BeClosed())

		ch = make(chan struct{})
		pool.ResolveAddr(ctx, "not-an-address", func(names []string, err error) {
			defer GinkgoRecover()
			Expect(err).To(HaveOccurred())
			close(ch)
		})
		Eventually(ch).Should(BeClosed())
	})

	It("reports unreachable servers", NodeTimeout(30*time.Second), func(ctx context.Context) {
		pool := Successful(New(ctx, 1, &dns.Client{Net: "udp", Timeout: time.Second}, "127.0.0.1:1"))
		defer pool.StopWait()

		ch := make(chan struct{})
		pool.ResolveAddr(ctx, "192.0.2.1", func(names []string, err error) {
			defer GinkgoRecover()
			Expect(err).To(HaveOccurred())
			close(ch)
		})
		Eventually(ch).WithTimeout(5 * time.Second).Should(BeClosed())
	})

	It("skips lookups when the context is done", NodeTimeout(30*time.Second), func(specctx context.Context) {
		pool := Successful(New(specctx, 1, &dns.Client{Net: "udp"}, "127.0.0.1:1"))
		defer pool.StopWait()

		ctx, cancel := context.WithCancel(specctx)
		cancel()
		ch := make(chan error, 1)
		pool.ResolveAddr(ctx, "192.0.2.1", func(_ []string, err error) { ch <- err })
		Eventually(ch).Should(Receive(MatchError(context.Canceled)))
	})

	It("annotates alive hosts with their reverse names", NodeTimeout(30*time.Second), func(ctx context.Context) {
		srvaddr := startDNSServer()
		pool := Successful(New(ctx, 2, &dns.Client{Net: "udp"}, srvaddr))
		defer pool.StopWait()

		results := []types.ProbeResult{
			{Host: "192.0.2.1", Alive: true},
			{Host: "192.0.2.2", Alive: true},
			{Host: "192.0.2.3"},
			{Host: "2001:db8::1", Alive: true},
		}
		pool.Annotate(ctx, results)
		Expect(results).To(HaveExactElements(
			types.ProbeResult{Host: "192.0.2.1", Alive: true, Names: []string{"alive.example.org"}},
			types.ProbeResult{Host: "192.0.2.2", Alive: true},
			types.ProbeResult{Host: "192.0.2.3"},
			types.ProbeResult{Host: "2001:db8::1", Alive: true, Names: []string{"six.example.org"}},
		))
	})

	It("reads the system resolver configuration", func() {
		addr := SystemResolver()
		host, p, err := net.SplitHostPort(addr)
		Expect(err).NotTo(HaveOccurred())
		Expect(host).NotTo(BeEmpty())
		Expect(p).NotTo(BeEmpty())
		Expect(port("x")).To(Equal("53"))
	})

	It("reads a specific resolver configuration", func() {
		dir := GinkgoT().TempDir()
		resolvconf := filepath.Join(dir, "resolv.conf")
		Expect(os.WriteFile(resolvconf, []byte("nameserver 127.0.0.11\noptions ndots:0\n"), 0644)).To(Succeed())
		Expect(ResolverFromFile(resolvconf)).To(Equal("127.0.0.11:53"))

		Expect(ResolverFromFile(filepath.Join(dir, "nonexisting"))).To(Equal(FallbackResolver))
		empty := filepath.Join(dir, "empty.conf")
		Expect(os.WriteFile(empty, []byte("# nothing\n"), 0644)).To(Succeed())
		Expect(ResolverFromFile(empty)).To(Equal(FallbackResolver))
	})

})
