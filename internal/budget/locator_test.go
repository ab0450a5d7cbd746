package budget_test

import (
	"github.com/yudapramata/rab-management/internal"
	"github.com/yudapramata/rab-management/internal/budget"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

var _ = Describe("Document.SetItemStatus", func() {
	Describe("batched documents", func() {
		var doc *budget.Document

		BeforeEach(func() {
			doc = budget.ParseDocument(budget.ShapeBatched, `[
				{"nama": "MR 1", "items": [
					{"item": "Semen", "qty": 10, "status": "Pengajuan"},
					{"item": "Pasir", "qty": 2, "status": "Pengajuan"}
				]},
				{"nama": "MR 2", "items": [
					{"item": "Besi", "qty": 40, "status": "Disetujui"}
				]}
			]`)
		})

		It("should apply a decision at the addressed position", func() {
			change, err := doc.SetItemStatus(
				budget.ItemLocator{OuterIndex: intPtr(0), InnerIndex: intPtr(1)},
				budget.StatusApproved)
			Expect(err).NotTo(HaveOccurred())
			Expect(change.Changed).To(BeTrue())
			Expect(change.Previous).To(Equal(budget.StatusSubmitted))
			Expect(change.ItemLabel).To(Equal("Pasir"))
			Expect(doc.Batches[0].Items[1].Status).To(Equal(budget.StatusApproved))
		})

		It("should report no change when the item already carries the status", func() {
			change, err := doc.SetItemStatus(
				budget.ItemLocator{OuterIndex: intPtr(1), InnerIndex: intPtr(0)},
				budget.StatusApproved)
			Expect(err).NotTo(HaveOccurred())
			Expect(change.Changed).To(BeFalse())
		})

		It("should return not found for an out of range index", func() {
			_, err := doc.SetItemStatus(
				budget.ItemLocator{OuterIndex: intPtr(2), InnerIndex: intPtr(0)},
				budget.StatusApproved)
			Expect(err).To(MatchError(internal.ErrItemNotFound))

			_, err = doc.SetItemStatus(
				budget.ItemLocator{OuterIndex: intPtr(0), InnerIndex: intPtr(-1)},
				budget.StatusApproved)
			Expect(err).To(MatchError(internal.ErrItemNotFound))
		})

		It("should return not found when the positional pair is missing", func() {
			_, err := doc.SetItemStatus(budget.ItemLocator{OuterIndex: intPtr(0)}, budget.StatusApproved)
			Expect(err).To(MatchError(internal.ErrItemNotFound))
		})
	})

	Describe("termin documents", func() {
		var doc *budget.Document

		BeforeEach(func() {
			doc = budget.ParseDocument(budget.ShapeTermin, `[
				{"debit": 10000000, "termin": [
					{"tanggal": "2025-01-10", "kredit": 2500000, "status": "Pengajuan"},
					{"tanggal": "2025-02-10", "kredit": 2500000, "status": "Pengajuan"}
				]}
			]`)
		})

		It("should label the installment by ordinal and date", func() {
			change, err := doc.SetItemStatus(
				budget.ItemLocator{OuterIndex: intPtr(0), InnerIndex: intPtr(1)},
				budget.StatusRejected)
			Expect(err).NotTo(HaveOccurred())
			Expect(change.ItemLabel).To(Equal("Termin 2 (2025-02-10)"))
			Expect(doc.Sections[0].Termins[1].Status).To(Equal(budget.StatusRejected))
		})
	})

	Describe("flat documents", func() {
		var doc *budget.Document

		BeforeEach(func() {
			doc = budget.ParseDocument(budget.ShapeFlat, `[
				{"item": "Pasang keramik", "satuan": "m2", "volume": 24.5, "status": "Pengajuan"},
				{"item": "Pasang keramik", "satuan": "m2", "volume": 10, "status": "Pengajuan"},
				{"item": "Plesteran", "satuan": "m2", "volume": 24.5, "status": "Pengajuan"}
			]`)
		})

		It("should match by item, unit and quantity", func() {
			change, err := doc.SetItemStatus(
				budget.ItemLocator{Item: "Plesteran", Unit: "m2", Qty: floatPtr(24.5)},
				budget.StatusApproved)
			Expect(err).NotTo(HaveOccurred())
			Expect(change.Changed).To(BeTrue())
			Expect(doc.Proposals[2].Status).To(Equal(budget.StatusApproved))
		})

		It("should treat quantities within the tolerance as the same row", func() {
			change, err := doc.SetItemStatus(
				budget.ItemLocator{Item: "Pasang keramik", Unit: "m2", Qty: floatPtr(10.005)},
				budget.StatusApproved)
			Expect(err).NotTo(HaveOccurred())
			Expect(change.Changed).To(BeTrue())
			Expect(doc.Proposals[1].Status).To(Equal(budget.StatusApproved))
		})

		It("should not match a quantity beyond the tolerance", func() {
			_, err := doc.SetItemStatus(
				budget.ItemLocator{Item: "Pasang keramik", Unit: "m2", Qty: floatPtr(10.02)},
				budget.StatusApproved)
			Expect(err).To(MatchError(internal.ErrItemNotFound))
		})

		It("should refuse an ambiguous match", func() {
			doc.Proposals = append(doc.Proposals, budget.PricingProposal{
				Item: "Plesteran", Unit: "m2", Qty: 24.505, Status: budget.StatusSubmitted,
			})

			_, err := doc.SetItemStatus(
				budget.ItemLocator{Item: "Plesteran", Unit: "m2", Qty: floatPtr(24.5)},
				budget.StatusApproved)
			Expect(err).To(MatchError(internal.ErrItemNotFound))
		})

		It("should return not found when the identity fields are missing", func() {
			_, err := doc.SetItemStatus(budget.ItemLocator{Unit: "m2"}, budget.StatusApproved)
			Expect(err).To(MatchError(internal.ErrItemNotFound))
		})
	})
})
