package table_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/flowmesh/swim/internal/node"
	"github.com/flowmesh/swim/internal/table"
)

func idOf(b byte) node.ID {
	var id node.ID
	id[0] = b
	return id
}

var _ = Describe("Upsert", func() {
	It("inserts an unknown-status entry as joining and always reports a change", func() {
		tb := table.New()
		id := idOf(1)
		now := time.Now()

		tr := tb.Upsert(node.View{ID: id, Status: node.StatusUnknown}, now)
		Expect(tr.Changed).To(BeTrue())
		Expect(tr.View.Status).To(Equal(node.StatusJoining))

		got, ok := tb.Find(id)
		Expect(ok).To(BeTrue())
		Expect(got.SeenTime).To(Equal(now))
	})

	It("rejects an entry that cannot replace the stored one, leaving the table untouched", func() {
		tb := table.New()
		id := idOf(1)
		now := time.Now()

		tb.Upsert(node.View{ID: id, ConfigEpoch: 2, Heartbeat: 10, Status: node.StatusOnline}, now)
		before, _ := tb.Find(id)

		tr := tb.Upsert(node.View{ID: id, ConfigEpoch: 1, Heartbeat: 99, Status: node.StatusFailed}, now.Add(time.Second))
		Expect(tr.Changed).To(BeFalse())

		after, _ := tb.Find(id)
		Expect(after).To(Equal(before))
	})

	It("accepts a superior config epoch wholesale, even with a lower heartbeat", func() {
		tb := table.New()
		id := idOf(1)
		now := time.Now()

		tb.Upsert(node.View{ID: id, ConfigEpoch: 1, Heartbeat: 100, Status: node.StatusOnline}, now)
		tr := tb.Upsert(node.View{ID: id, ConfigEpoch: 2, Heartbeat: 1, Status: node.StatusOnline}, now)
		Expect(tr.Changed).To(BeFalse())

		got, _ := tb.Find(id)
		Expect(got.ConfigEpoch).To(Equal(uint64(2)))
		Expect(got.Heartbeat).To(Equal(uint64(1)))
	})

	It("keeps exactly one entry per id across repeated upserts", func() {
		tb := table.New()
		id := idOf(7)
		now := time.Now()
		for i := 0; i < 5; i++ {
			tb.Upsert(node.View{ID: id, Heartbeat: uint64(i)}, now)
		}
		Expect(tb.Len()).To(Equal(1))
	})
})

var _ = Describe("CleanupExpired", func() {
	It("spares online peers and removes stale non-online ones", func() {
		tb := table.New()
		online := idOf(1)
		suspect := idOf(2)
		now := time.Now()

		tb.Upsert(node.View{ID: online, Status: node.StatusOnline}, now.Add(-time.Hour))
		tb.Upsert(node.View{ID: suspect, Status: node.StatusSuspect}, now.Add(-time.Hour))

		tb.CleanupExpired(now, time.Minute)

		_, ok := tb.Find(online)
		Expect(ok).To(BeTrue())
		_, ok = tb.Find(suspect)
		Expect(ok).To(BeFalse())
	})
})

var _ = Describe("Clear", func() {
	It("empties the table", func() {
		tb := table.New()
		tb.Upsert(node.View{ID: idOf(1)}, time.Now())
		tb.Clear()
		Expect(tb.Len()).To(Equal(0))
	})
})
