package node_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/flowmesh/swim/internal/node"
)

var _ = Describe("ID", func() {
	It("generates distinct random ids", func() {
		a, err := node.NewID()
		Expect(err).NotTo(HaveOccurred())
		b, err := node.NewID()
		Expect(err).NotTo(HaveOccurred())
		Expect(a).NotTo(Equal(b))
		Expect(a.IsNil()).To(BeFalse())
	})

	It("round-trips through MarshalText/UnmarshalText", func() {
		a, err := node.NewID()
		Expect(err).NotTo(HaveOccurred())

		text, err := a.MarshalText()
		Expect(err).NotTo(HaveOccurred())

		var b node.ID
		Expect(b.UnmarshalText(text)).To(Succeed())
		Expect(b).To(Equal(a))
	})

	It("panics on a short byte slice in IDFromBytes", func() {
		Expect(func() { node.IDFromBytes([]byte{1, 2, 3}) }).To(Panic())
	})

	It("treats the zero value as nil", func() {
		Expect(node.Nil.IsNil()).To(BeTrue())
	})
})
