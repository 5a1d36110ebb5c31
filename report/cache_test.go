package report_test

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/tidwall/gjson"

	"github.com/charlesgretton/credis/client"
	"github.com/charlesgretton/credis/report"
)

var _ = Describe("report / Cache", func() {
	It("an empty cache equals {}", func() {
		cache := report.NewCache()
		Expect(string(cache.Snapshot())).To(Equal(`{}`))
	})

	Describe("Update()", func() {
		It("renders the status report as JSON", func() {
			cache := report.NewCache()

			info := &client.ServerInfo{
				Version:          "1.2.6",
				ArchBits:         64,
				ConnectedClients: 2,
				UsedMemory:       1048576,
				UsedMemoryHuman:  "1.00M",
				VMEnabled:        false,
				Role:             client.RoleMaster,
			}

			err := cache.Update("127.0.0.1:6379", client.Version{Major: 1, Minor: 2, Patch: 6}, info)
			Expect(err).To(Succeed())

			doc := cache.Snapshot()
			Expect(gjson.GetBytes(doc, "server.addr").String()).To(Equal("127.0.0.1:6379"))
			Expect(gjson.GetBytes(doc, "server.version").String()).To(Equal("1.2.6"))
			Expect(gjson.GetBytes(doc, "redis_version").String()).To(Equal("1.2.6"))
			Expect(gjson.GetBytes(doc, "arch_bits").Int()).To(Equal(int64(64)))
			Expect(gjson.GetBytes(doc, "connected_clients").Int()).To(Equal(int64(2)))
			Expect(gjson.GetBytes(doc, "used_memory").Int()).To(Equal(int64(1048576)))
			Expect(gjson.GetBytes(doc, "used_memory_human").String()).To(Equal("1.00M"))
			Expect(gjson.GetBytes(doc, "vm_enabled").Bool()).To(BeFalse())
			Expect(gjson.GetBytes(doc, "role").String()).To(Equal("master"))
			Expect(gjson.GetBytes(doc, "refreshed_at").Exists()).To(BeTrue())
		})

		It("replaces the previous report wholesale", func() {
			cache := report.NewCache()

			err := cache.Update("127.0.0.1:6379", client.Version{}, &client.ServerInfo{ConnectedClients: 9})
			Expect(err).To(Succeed())

			err = cache.Update("127.0.0.1:6379", client.Version{}, &client.ServerInfo{ConnectedClients: 2})
			Expect(err).To(Succeed())

			doc := cache.Snapshot()
			Expect(gjson.GetBytes(doc, "connected_clients").Int()).To(Equal(int64(2)))
		})
	})

	Describe("Snapshot()", func() {
		It("returns a copy the caller may scribble on", func() {
			cache := report.NewCache()

			err := cache.Update("127.0.0.1:6379", client.Version{}, &client.ServerInfo{Role: client.RoleMaster})
			Expect(err).To(Succeed())

			doc := cache.Snapshot()
			for i := range doc {
				doc[i] = 'x'
			}

			Expect(gjson.GetBytes(cache.Snapshot(), "role").String()).To(Equal("master"))
		})
	})

	Describe("Field()", func() {
		It("returns a single value by its path", func() {
			cache := report.NewCache()

			err := cache.Update("127.0.0.1:6379", client.Version{Major: 1, Minor: 2, Patch: 6}, &client.ServerInfo{UsedMemory: 512})
			Expect(err).To(Succeed())

			value, ok := cache.Field("used_memory")
			Expect(ok).To(BeTrue())
			Expect(value).To(Equal("512"))

			value, ok = cache.Field("server.version")
			Expect(ok).To(BeTrue())
			Expect(value).To(Equal("1.2.6"))
		})

		It("reports false for an unknown path", func() {
			cache := report.NewCache()

			_, ok := cache.Field("no_such_field")
			Expect(ok).To(BeFalse())
		})
	})
})
