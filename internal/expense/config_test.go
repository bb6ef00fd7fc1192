package expense

import (
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("BoltConfig", func() {
	var (
		dbPath string
		config *BoltConfig
	)

	BeforeEach(func() {
		dbPath = filepath.Join(GinkgoT().TempDir(), "test.db")
		var err error
		config, err = NewBoltConfig(dbPath)
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		if config != nil {
			config.Close()
		}
	})

	When("nothing has been saved", func() {
		It("should load an empty URL", func() {
			url, err := config.Load()
			Expect(err).NotTo(HaveOccurred())
			Expect(url).To(BeEmpty())
		})
	})

	When("a URL has been saved", func() {
		BeforeEach(func() {
			Expect(config.Save("https://example.com/hook")).To(Succeed())
		})

		It("should load it back", func() {
			url, err := config.Load()
			Expect(err).NotTo(HaveOccurred())
			Expect(url).To(Equal("https://example.com/hook"))
		})

		It("should survive reopening the database", func() {
			Expect(config.Close()).To(Succeed())
			var err error
			config, err = NewBoltConfig(dbPath)
			Expect(err).NotTo(HaveOccurred())
			url, err := config.Load()
			Expect(err).NotTo(HaveOccurred())
			Expect(url).To(Equal("https://example.com/hook"))
		})
	})

	When("a URL is saved twice", func() {
		It("should keep only the latest value", func() {
			Expect(config.Save("https://old.example.com")).To(Succeed())
			Expect(config.Save("https://new.example.com")).To(Succeed())
			url, err := config.Load()
			Expect(err).NotTo(HaveOccurred())
			Expect(url).To(Equal("https://new.example.com"))
		})
	})
})

var _ = Describe("MemoryConfig", func() {
	It("should start empty and round-trip a value", func() {
		config := NewMemoryConfig()
		url, err := config.Load()
		Expect(err).NotTo(HaveOccurred())
		Expect(url).To(BeEmpty())

		Expect(config.Save("https://example.com/hook")).To(Succeed())
		url, err = config.Load()
		Expect(err).NotTo(HaveOccurred())
		Expect(url).To(Equal("https://example.com/hook"))
	})
})
