package budget_test

import (
	"encoding/json"

	"github.com/yudapramata/rab-management/internal"
	"github.com/yudapramata/rab-management/internal/budget"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Normalize", func() {
	Describe("batched categories", func() {
		It("should coerce currency-formatted strings", func() {
			payload := json.RawMessage(`[
				{
					"nama": "MR 1",
					"tanggal": "2025-02-01",
					"items": [
						{"supplier": "TB Jaya", "item": "Semen", "qty": 10, "satuan": "sak", "harga_satuan": "Rp 65.000"}
					]
				}
			]`)

			doc, err := budget.Normalize(budget.CategoryMaterialTambahan, payload)
			Expect(err).NotTo(HaveOccurred())
			Expect(doc.Batches).To(HaveLen(1))
			item := doc.Batches[0].Items[0]
			Expect(item.UnitPrice).To(Equal(65000.0))
			Expect(item.Subtotal).To(Equal(650000.0))
			Expect(item.Status).To(Equal(budget.StatusSubmitted))
		})

		It("should recompute subtotal from qty and unit price", func() {
			payload := json.RawMessage(`[
				{"nama": "MR 1", "items": [
					{"item": "Pasir", "qty": 3, "harga_satuan": 200000, "subtotal": 999}
				]}
			]`)

			doc, err := budget.Normalize(budget.CategoryEntertainment, payload)
			Expect(err).NotTo(HaveOccurred())
			Expect(doc.Batches[0].Items[0].Subtotal).To(Equal(600000.0))
		})

		It("should drop rows where every field is empty", func() {
			payload := json.RawMessage(`[
				{"nama": "MR 1", "items": [
					{"item": "Semen", "qty": 1, "harga_satuan": 50000},
					{"supplier": "", "item": "", "qty": null, "satuan": "", "harga_satuan": ""}
				]},
				{"nama": "MR 2", "items": [
					{"supplier": "", "item": ""}
				]}
			]`)

			doc, err := budget.Normalize(budget.CategoryMaterialTambahan, payload)
			Expect(err).NotTo(HaveOccurred())
			Expect(doc.Batches).To(HaveLen(1))
			Expect(doc.Batches[0].Items).To(HaveLen(1))
		})

		It("should reset an incoming Ditolak to Pengajuan", func() {
			payload := json.RawMessage(`[
				{"nama": "MR 1", "items": [
					{"item": "Semen", "qty": 1, "harga_satuan": 50000, "status": "Ditolak"}
				]}
			]`)

			doc, err := budget.Normalize(budget.CategoryMaterialTambahan, payload)
			Expect(err).NotTo(HaveOccurred())
			Expect(doc.Batches[0].Items[0].Status).To(Equal(budget.StatusSubmitted))
		})

		It("should preserve an incoming Disetujui", func() {
			payload := json.RawMessage(`[
				{"nama": "MR 1", "items": [
					{"item": "Semen", "qty": 1, "harga_satuan": 50000, "status": "Disetujui"}
				]}
			]`)

			doc, err := budget.Normalize(budget.CategoryMaterialTambahan, payload)
			Expect(err).NotTo(HaveOccurred())
			Expect(doc.Batches[0].Items[0].Status).To(Equal(budget.StatusApproved))
		})

		It("should reject an unknown status value", func() {
			payload := json.RawMessage(`[
				{"nama": "MR 1", "items": [
					{"item": "Semen", "qty": 1, "status": "Pending"}
				]}
			]`)

			_, err := budget.Normalize(budget.CategoryMaterialTambahan, payload)
			Expect(err).To(HaveOccurred())
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeInvalidItemState))
		})

		It("should reject a present but unparsable amount", func() {
			payload := json.RawMessage(`[
				{"nama": "MR 1", "items": [
					{"item": "Semen", "qty": "sepuluh"}
				]}
			]`)

			_, err := budget.Normalize(budget.CategoryMaterialTambahan, payload)
			Expect(err).To(HaveOccurred())
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeInvalidAmount))
		})

		It("should reject a payload that is not the batched shape", func() {
			_, err := budget.Normalize(budget.CategoryEntertainment, json.RawMessage(`{"nama": "MR 1"}`))
			Expect(err).To(HaveOccurred())
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeInvalidPayload))
		})
	})

	Describe("termin categories", func() {
		It("should drop installments with no amounts and empty sections", func() {
			payload := json.RawMessage(`[
				{"debit": 5000000, "termin": [
					{"tanggal": "2025-03-01", "kredit": 1000000, "sisa": 4000000, "persen": 20},
					{"tanggal": "", "kredit": null, "sisa": "", "persen": null}
				]},
				{"debit": 0, "termin": [
					{"kredit": null}
				]}
			]`)

			doc, err := budget.Normalize(budget.CategoryKerjaTambah, payload)
			Expect(err).NotTo(HaveOccurred())
			Expect(doc.Sections).To(HaveLen(1))
			Expect(doc.Sections[0].Termins).To(HaveLen(1))
			Expect(doc.Sections[0].Termins[0].Percent).To(Equal(20.0))
		})

		It("should coerce grouped thousands with decimal comma", func() {
			payload := json.RawMessage(`[
				{"debit": "1.500.000", "termin": [{"kredit": "2,5"}]}
			]`)

			doc, err := budget.Normalize(budget.CategoryTukang, payload)
			Expect(err).NotTo(HaveOccurred())
			Expect(doc.Sections[0].Debit).To(Equal(1500000.0))
			Expect(doc.Sections[0].Termins[0].Credit).To(Equal(2.5))
		})
	})

	Describe("flat categories", func() {
		It("should recompute total from volume and unit price", func() {
			payload := json.RawMessage(`[
				{"item": "Pasang keramik", "satuan": "m2", "volume": 24.5, "harga_satuan": 85000, "total_harga": 1}
			]`)

			doc, err := budget.Normalize(budget.CategoryHargaTukang, payload)
			Expect(err).NotTo(HaveOccurred())
			Expect(doc.Proposals).To(HaveLen(1))
			Expect(doc.Proposals[0].Total).To(Equal(24.5 * 85000))
		})

		It("should keep a plain decimal string as a decimal", func() {
			payload := json.RawMessage(`[
				{"item": "Plesteran", "volume": "10.5", "harga_satuan": 50000}
			]`)

			doc, err := budget.Normalize(budget.CategoryHargaTukang, payload)
			Expect(err).NotTo(HaveOccurred())
			Expect(doc.Proposals[0].Qty).To(Equal(10.5))
		})

		It("should drop fully empty proposal rows", func() {
			payload := json.RawMessage(`[
				{"item": "", "satuan": "", "volume": null, "harga_satuan": "", "total_harga": null},
				{"item": "Cat dinding", "volume": 100, "harga_satuan": 15000}
			]`)

			doc, err := budget.Normalize(budget.CategoryHargaTukang, payload)
			Expect(err).NotTo(HaveOccurred())
			Expect(doc.Proposals).To(HaveLen(1))
			Expect(doc.Proposals[0].Item).To(Equal("Cat dinding"))
		})
	})

	It("should reject an unknown category key", func() {
		_, err := budget.Normalize("makan", json.RawMessage(`[]`))
		Expect(err).To(HaveOccurred())
		appErr, ok := internal.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.Code).To(Equal(internal.ErrCodeInvalidCategory))
	})
})
