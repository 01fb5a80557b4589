package node_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/flowmesh/swim/internal/node"
)

var _ = Describe("NewerThan", func() {
	It("is dominated by heartbeat", func() {
		a := node.View{Heartbeat: 5, ConfigEpoch: 1}
		b := node.View{Heartbeat: 4, ConfigEpoch: 99}
		Expect(a.NewerThan(b)).To(BeTrue())
	})

	It("breaks a heartbeat tie on config epoch", func() {
		a := node.View{Heartbeat: 5, ConfigEpoch: 2}
		b := node.View{Heartbeat: 5, ConfigEpoch: 1}
		Expect(a.NewerThan(b)).To(BeTrue())
		Expect(b.NewerThan(a)).To(BeFalse())
	})
})

var _ = Describe("CanReplace", func() {
	It("is dominated by config epoch, even against a much larger heartbeat", func() {
		a := node.View{Heartbeat: 1, ConfigEpoch: 2}
		b := node.View{Heartbeat: 1000, ConfigEpoch: 1}
		Expect(a.CanReplace(b)).To(BeTrue())
		Expect(b.CanReplace(a)).To(BeFalse())
	})

	It("breaks a config epoch tie on heartbeat", func() {
		a := node.View{Heartbeat: 5, ConfigEpoch: 1}
		b := node.View{Heartbeat: 4, ConfigEpoch: 1}
		Expect(a.CanReplace(b)).To(BeTrue())
		Expect(b.CanReplace(a)).To(BeFalse())
	})

	It("is false when both fields are equal", func() {
		a := node.View{Heartbeat: 5, ConfigEpoch: 1}
		b := node.View{Heartbeat: 5, ConfigEpoch: 1}
		Expect(a.CanReplace(b)).To(BeFalse())
	})
})

var _ = Describe("Clone", func() {
	It("deep-copies Metadata so mutating the clone does not alias the original", func() {
		orig := node.View{Metadata: map[string]string{"rack": "a3"}}
		clone := orig.Clone()
		clone.Metadata["rack"] = "b1"
		Expect(orig.Metadata["rack"]).To(Equal("a3"))
	})
})
