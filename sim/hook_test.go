package sim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("HookableBase", func() {
	var (
		h   *HookableBase
		pos *HookPos
	)

	BeforeEach(func() {
		h = &HookableBase{}
		pos = &HookPos{Name: "Test"}
	})

	It("should invoke hooks in registration order", func() {
		var order []int

		h.AcceptHook(HookFunc(func(HookCtx) { order = append(order, 1) }))
		h.AcceptHook(HookFunc(func(HookCtx) { order = append(order, 2) }))

		h.InvokeHook(HookCtx{Pos: pos})

		Expect(h.NumHooks()).To(Equal(2))
		Expect(order).To(Equal([]int{1, 2}))
	})

	It("should pass the context through", func() {
		var got HookCtx
		h.AcceptHook(HookFunc(func(ctx HookCtx) { got = ctx }))

		h.InvokeHook(HookCtx{Pos: pos, Item: 42})

		Expect(got.Pos).To(BeIdenticalTo(pos))
		Expect(got.Item).To(Equal(42))
	})
})
