package budget_test

import (
	"github.com/yudapramata/rab-management/internal/budget"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Category documents", func() {
	Describe("ParseDocument", func() {
		It("should treat an empty blob as the empty structure", func() {
			doc := budget.ParseDocument(budget.ShapeBatched, "")
			Expect(doc.Batches).To(BeEmpty())
			Expect(doc.CountSubmitted()).To(Equal(0))
		})

		It("should treat a malformed blob as the empty structure", func() {
			doc := budget.ParseDocument(budget.ShapeTermin, `{"not": "an array"`)
			Expect(doc.Sections).To(BeEmpty())
			Expect(doc.CountSubmitted()).To(Equal(0))
		})

		It("should treat a blob of the wrong shape as the empty structure", func() {
			doc := budget.ParseDocument(budget.ShapeFlat, `{"item": "x"}`)
			Expect(doc.Proposals).To(BeEmpty())
		})
	})

	Describe("Marshal", func() {
		It("should serialize an empty document as an empty array", func() {
			for _, shape := range []budget.Shape{budget.ShapeBatched, budget.ShapeTermin, budget.ShapeFlat} {
				out, err := budget.EmptyDocument(shape).Marshal()
				Expect(err).NotTo(HaveOccurred())
				Expect(out).To(Equal("[]"))
			}
		})

		It("should round-trip through ParseDocument", func() {
			doc := budget.ParseDocument(budget.ShapeBatched, `[
				{"nama": "MR 1", "tanggal": "2025-02-01", "items": [
					{"supplier": "TB Jaya", "item": "Semen", "qty": 10, "satuan": "sak", "harga_satuan": 65000, "subtotal": 650000, "status": "Pengajuan"}
				]}
			]`)

			out, err := doc.Marshal()
			Expect(err).NotTo(HaveOccurred())

			again := budget.ParseDocument(budget.ShapeBatched, out)
			Expect(again.Batches).To(Equal(doc.Batches))
		})
	})

	Describe("CountSubmitted", func() {
		It("should count only Pengajuan items across batches", func() {
			doc := budget.ParseDocument(budget.ShapeBatched, `[
				{"nama": "MR 1", "items": [
					{"item": "Semen", "status": "Pengajuan"},
					{"item": "Pasir", "status": "Disetujui"}
				]},
				{"nama": "MR 2", "items": [
					{"item": "Besi", "status": "Pengajuan"},
					{"item": "Kayu", "status": "Ditolak"}
				]}
			]`)
			Expect(doc.CountSubmitted()).To(Equal(2))
		})

		It("should count installments under every section", func() {
			doc := budget.ParseDocument(budget.ShapeTermin, `[
				{"debit": 100, "termin": [{"kredit": 50, "status": "Pengajuan"}]},
				{"debit": 200, "termin": [{"kredit": 80, "status": "Disetujui"}, {"kredit": 20, "status": "Pengajuan"}]}
			]`)
			Expect(doc.CountSubmitted()).To(Equal(2))
		})
	})

	Describe("CategoryKey", func() {
		It("should know every configured category", func() {
			for _, key := range []budget.CategoryKey{
				budget.CategoryEntertainment,
				budget.CategoryMaterialTambahan,
				budget.CategoryTukang,
				budget.CategoryKerjaTambah,
				budget.CategoryHargaTukang,
			} {
				Expect(key.Valid()).To(BeTrue())
			}
			Expect(budget.CategoryKey("makan").Valid()).To(BeFalse())
		})

		It("should expose the human-readable labels", func() {
			Expect(budget.CategoryTukang.Label()).To(Equal("Pembayaran Tukang"))
			Expect(budget.CategoryHargaTukang.Label()).To(Equal("Pengajuan Harga Tukang"))
		})
	})
})
