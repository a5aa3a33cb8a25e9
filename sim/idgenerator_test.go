package sim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("IDGenerator", func() {
	It("should count up from one", func() {
		g := NewSequentialIDGenerator("task-")

		Expect(g.Generate()).To(Equal("task-1"))
		Expect(g.Generate()).To(Equal("task-2"))
	})

	It("should not repeat xids", func() {
		g := NewXIDGenerator()

		Expect(g.Generate()).NotTo(Equal(g.Generate()))
	})
})
