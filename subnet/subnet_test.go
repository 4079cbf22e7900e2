// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package subnet

import (
	"errors"
	"math"

	"github.com/siemens/pingsweep/types"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	. "github.com/thediveo/success"
)

var _ = Describe("subnet expansion", func() {

	Context("parsing user input", func() {

		It("returns a network specification", func() {
			Expect(ParseSpec(" 192.0.2.0 ", "30 ")).To(Equal(
				types.NetworkSpec{Address: "192.0.2.0", PrefixLength: 30}))
		})

		DescribeTable("rejects missing input",
			func(addr, prefix, field string) {
				_, err := ParseSpec(addr, prefix)
				var missing *MissingInputError
				Expect(errors.As(err, &missing)).To(BeTrue())
				Expect(missing.Field).To(Equal(field))
				Expect(err).To(MatchError(ErrInvalidInput))
			},
			Entry("empty address", "", "24", "address"),
			Entry("blank address", "   ", "24", "address"),
			Entry("empty prefix", "10.0.0.0", "", "prefix"),
		)

		It("rejects a non-numeric prefix", func() {
			_, err := ParseSpec("10.0.0.0", "twentyfour")
			var invprefix *InvalidPrefixError
			Expect(errors.As(err, &invprefix)).To(BeTrue())
			Expect(invprefix.Prefix).To(Equal("twentyfour"))
			Expect(err).To(MatchError(ErrInvalidInput))
			Expect(err).To(MatchError(ContainSubstring("must be a number")))
		})

	})

	DescribeTable("counts usable hosts",
		func(addr string, prefix int, count int) {
			hosts := Successful(Expand(addr, prefix))
			Expect(hosts).To(HaveLen(count))
			Expect(Successful(HostCount(types.NetworkSpec{Address: addr, PrefixLength: prefix})).Int64()).
				To(Equal(int64(count)))
		},
		Entry("IPv4 /24 without network and broadcast", "10.0.0.0", 24, 254),
		Entry("IPv4 /29 without network and broadcast", "10.0.0.0", 29, 6),
		Entry("IPv4 /30 without network and broadcast", "10.0.0.0", 30, 2),
		Entry("IPv4 /31 point-to-point uses both addresses", "10.0.0.0", 31, 2),
		Entry("IPv4 /32 single host", "10.0.0.1", 32, 1),
		Entry("IPv6 /120 without first and last", "2001:db8::", 120, 254),
		Entry("IPv6 /126 without first and last", "2001:db8::", 126, 2),
		Entry("IPv6 /127 uses both addresses", "2001:db8::", 127, 2),
		Entry("IPv6 /128 single host", "2001:db8::1", 128, 1),
	)

	It("enumerates usable hosts in ascending order", func() {
		Expect(Expand("192.0.2.0", 29)).To(HaveExactElements(
			"192.0.2.1", "192.0.2.2", "192.0.2.3", "192.0.2.4", "192.0.2.5", "192.0.2.6"))
		Expect(Expand("2001:db8::", 126)).To(HaveExactElements(
			"2001:db8::1", "2001:db8::2"))
	})

	It("keeps all addresses of degenerate networks", func() {
		Expect(Expand("192.0.2.0", 31)).To(HaveExactElements("192.0.2.0", "192.0.2.1"))
		Expect(Expand("192.0.2.7", 32)).To(HaveExactElements("192.0.2.7"))
		Expect(Expand("2001:db8::", 127)).To(HaveExactElements("2001:db8::", "2001:db8::1"))
		Expect(Expand("2001:db8::5", 128)).To(HaveExactElements("2001:db8::5"))
	})

	It("masks off host bits", func() {
		Expect(Expand("10.0.0.5", 24)).To(Equal(Successful(Expand("10.0.0.0", 24))))
		Expect(Expand("2001:db8::ff", 126)).To(Equal(Successful(Expand("2001:db8::fc", 126))))
	})

	DescribeTable("rejects invalid networks",
		func(addr string, prefix int) {
			_, err := Expand(addr, prefix)
			var invnet *InvalidNetworkError
			Expect(errors.As(err, &invnet)).To(BeTrue(), "expected InvalidNetworkError, got %v", err)
			Expect(err).To(MatchError(ErrInvalidInput))
		},
		Entry("IPv4 prefix out of range", "10.0.0.0", 40),
		Entry("IPv6 prefix out of range", "2001:db8::", 129),
		Entry("negative prefix", "10.0.0.0", -1),
		Entry("malformed literal", "10.0.0.256", 24),
		Entry("host name", "localhost", 24),
		Entry("scoped literal", "fe80::1%eth0", 64),
	)

	It("rejects large subnets before enumerating", func() {
		_, err := ExpandSpec(types.NetworkSpec{Address: "10.0.0.0", PrefixLength: 8}, 1024)
		var toolarge *SubnetTooLargeError
		Expect(errors.As(err, &toolarge)).To(BeTrue())
		Expect(toolarge.Hosts.Int64()).To(Equal(int64(16777214)))
		Expect(toolarge.Max).To(Equal(1024))
		Expect(err).To(MatchError(ContainSubstring("16777214 hosts")))
		Expect(err).To(MatchError(ErrInvalidInput))
	})

	It("accepts a subnet right at the ceiling", func() {
		hosts := Successful(ExpandSpec(types.NetworkSpec{Address: "10.0.0.0", PrefixLength: 22}, 1022))
		Expect(hosts).To(HaveLen(1022))
		Expect(hosts[0]).To(Equal("10.0.0.1"))
		Expect(hosts[1021]).To(Equal("10.0.3.254"))
	})

	It("never enumerates beyond the hard limit", func() {
		_, err := ExpandSpec(types.NetworkSpec{Address: "0.0.0.0", PrefixLength: 0}, math.MaxInt)
		var toolarge *SubnetTooLargeError
		Expect(errors.As(err, &toolarge)).To(BeTrue())
		Expect(toolarge.Max).To(Equal(MaxEnumeration))
		Expect(toolarge.Hosts.Int64()).To(Equal(int64(1<<32 - 2)))

		_, err = ExpandSpec(types.NetworkSpec{Address: "2001:db8::", PrefixLength: 64}, math.MaxInt)
		Expect(errors.As(err, &toolarge)).To(BeTrue())
		Expect(toolarge.Max).To(Equal(MaxEnumeration))
	})

	It("counts huge IPv6 networks without enumerating them", func() {
		spec := types.NetworkSpec{Address: "2001:db8::", PrefixLength: 64}
		count := Successful(HostCount(spec))
		Expect(count.String()).To(Equal("18446744073709551614"))
		_, err := ExpandSpec(spec, 0)
		Expect(err).To(MatchError(ContainSubstring("18446744073709551614 hosts")))
	})

	It("returns the masked network", func() {
		Expect(Network(types.NetworkSpec{Address: "10.1.2.3", PrefixLength: 16})).
			To(HaveField("String()", "10.1.0.0/16"))
	})

})
