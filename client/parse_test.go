package client

import (
	"math"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("parseVersionValue()", func() {
	It("reads a three-part version", func() {
		v, ok := parseVersionValue("1.2.6")
		Expect(ok).To(BeTrue())
		Expect(v).To(Equal(Version{Major: 1, Minor: 2, Patch: 6}))
	})

	It("ignores a suffix after the last numeric component", func() {
		v, ok := parseVersionValue("2.4.10-devel")
		Expect(ok).To(BeTrue())
		Expect(v).To(Equal(Version{Major: 2, Minor: 4, Patch: 10}))
	})

	It("maps the early two-part shape to major and patch", func() {
		v, ok := parseVersionValue("1.02")
		Expect(ok).To(BeTrue())
		Expect(v).To(Equal(Version{Major: 1, Minor: 0, Patch: 2}))
	})

	It("fails on a single numeric component", func() {
		_, ok := parseVersionValue("1")
		Expect(ok).To(BeFalse())
	})

	It("fails on text that does not start with a digit", func() {
		_, ok := parseVersionValue("banana")
		Expect(ok).To(BeFalse())
	})

	It("fails on an empty value", func() {
		_, ok := parseVersionValue("")
		Expect(ok).To(BeFalse())
	})
})

var _ = Describe("parseInfo()", func() {
	It("skips lines without a separator and unknown fields", func() {
		report := []byte("# Server\r\nredis_version:1.2.6\r\nbrand_new_field:7\r\n")

		info := parseInfo(report)
		Expect(info.Version).To(Equal("1.2.6"))
		Expect(info.ArchBits).To(BeZero())
	})

	It("keeps the value intact when it contains a colon", func() {
		info := parseInfo([]byte("multiplexing_api:epoll:level\r\n"))
		Expect(info.MultiplexingAPI).To(Equal("epoll:level"))
	})

	It("maps role values, leaving an empty one unknown", func() {
		Expect(parseInfo([]byte("role:master\r\n")).Role).To(Equal(RoleMaster))
		Expect(parseInfo([]byte("role:slave\r\n")).Role).To(Equal(RoleSlave))
		Expect(parseInfo([]byte("role:\r\n")).Role).To(Equal(RoleUnknown))
	})

	It("reads a missing role as unknown", func() {
		Expect(parseInfo([]byte("redis_version:1.2.6\r\n")).Role).To(Equal(RoleUnknown))
	})
})

var _ = Describe("scanInt()", func() {
	It("reads signed decimals", func() {
		Expect(scanInt("42")).To(Equal(int64(42)))
		Expect(scanInt("-5")).To(Equal(int64(-5)))
		Expect(scanInt("+7")).To(Equal(int64(7)))
	})

	It("stops at the first non-digit", func() {
		Expect(scanInt("12junk")).To(Equal(int64(12)))
	})

	It("reads junk as zero", func() {
		Expect(scanInt("junk")).To(BeZero())
		Expect(scanInt("")).To(BeZero())
	})

	It("saturates past the int64 range", func() {
		Expect(scanInt("99999999999999999999")).To(Equal(int64(math.MaxInt64)))
		Expect(scanInt("-99999999999999999999")).To(Equal(int64(math.MinInt64)))
	})
})
