package bgpool

import (
	ginkgo "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = ginkgo.Describe("taskList", func() {
	var tl *taskList

	ginkgo.BeforeEach(func() {
		tl = newTaskList()
	})

	collect := func() []*TaskHandle {
		var out []*TaskHandle
		for e := tl.front(); e != nil; e = e.Next() {
			out = append(out, e.Value.(*TaskHandle))
		}
		return out
	}

	ginkgo.It("should insert at the front", func() {
		a := &TaskHandle{}
		b := &TaskHandle{}
		tl.pushFront(a)
		tl.pushFront(b)

		Expect(collect()).To(Equal([]*TaskHandle{b, a}))
	})

	ginkgo.It("should splice by handle without invalidating other handles", func() {
		a, b, c := &TaskHandle{}, &TaskHandle{}, &TaskHandle{}
		ea := tl.pushFront(a)
		tl.pushFront(b)
		ec := tl.pushFront(c)

		tl.moveToBack(ec)
		Expect(collect()).To(Equal([]*TaskHandle{b, a, c}))

		tl.moveToFront(ea)
		Expect(collect()).To(Equal([]*TaskHandle{a, b, c}))
	})

	ginkgo.It("should erase by handle", func() {
		a, b := &TaskHandle{}, &TaskHandle{}
		ea := tl.pushFront(a)
		tl.pushFront(b)

		tl.remove(ea)
		Expect(collect()).To(Equal([]*TaskHandle{b}))
		Expect(tl.len()).To(Equal(1))
	})
})
