package budget

import (
	"encoding/json"
)

// CategoryKey identifies one of the fixed expense categories stored on a
// budget plan. Each key maps to exactly one document shape.
type CategoryKey string

const (
	CategoryEntertainment    CategoryKey = "entertainment"
	CategoryMaterialTambahan CategoryKey = "material_tambahan"
	CategoryTukang           CategoryKey = "tukang"
	CategoryKerjaTambah      CategoryKey = "kerja_tambah"
	CategoryHargaTukang      CategoryKey = "harga_tukang"
)

type Shape int

const (
	// ShapeBatched groups line items into named, dated batches (MR).
	ShapeBatched Shape = iota
	// ShapeTermin groups payment installments under debit sections.
	ShapeTermin
	// ShapeFlat is a flat list of pricing proposals with no positional key.
	ShapeFlat
)

var categoryShapes = map[CategoryKey]Shape{
	CategoryEntertainment:    ShapeBatched,
	CategoryMaterialTambahan: ShapeBatched,
	CategoryTukang:           ShapeTermin,
	CategoryKerjaTambah:      ShapeTermin,
	CategoryHargaTukang:      ShapeFlat,
}

var categoryLabels = map[CategoryKey]string{
	CategoryEntertainment:    "Entertainment Non Material",
	CategoryMaterialTambahan: "Material Tambahan",
	CategoryTukang:           "Pembayaran Tukang",
	CategoryKerjaTambah:      "Pembayaran Kerja Tambah",
	CategoryHargaTukang:      "Pengajuan Harga Tukang",
}

func (k CategoryKey) Valid() bool {
	_, ok := categoryShapes[k]
	return ok
}

func (k CategoryKey) Shape() (Shape, bool) {
	shape, ok := categoryShapes[k]
	return shape, ok
}

// Label returns the human-readable category name used in notifications.
func (k CategoryKey) Label() string {
	if label, ok := categoryLabels[k]; ok {
		return label
	}
	return string(k)
}

// ItemStatus is the three-state lifecycle of one expense line item. The
// supervisor submits, the administrator decides.
type ItemStatus string

const (
	StatusSubmitted ItemStatus = "Pengajuan"
	StatusApproved  ItemStatus = "Disetujui"
	StatusRejected  ItemStatus = "Ditolak"
)

func (s ItemStatus) Valid() bool {
	switch s {
	case StatusSubmitted, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// IsDecision reports whether s is an administrator decision target.
func (s ItemStatus) IsDecision() bool {
	return s == StatusApproved || s == StatusRejected
}

// LineItem is one purchased row inside a batch.
type LineItem struct {
	Supplier  string     `json:"supplier"`
	Item      string     `json:"item"`
	Qty       float64    `json:"qty"`
	Unit      string     `json:"satuan"`
	UnitPrice float64    `json:"harga_satuan"`
	Subtotal  float64    `json:"subtotal"`
	Status    ItemStatus `json:"status"`
}

// Batch is a named, dated group of line items (MR).
type Batch struct {
	Name  string     `json:"nama"`
	Date  string     `json:"tanggal"`
	Items []LineItem `json:"items"`
}

// Termin is one scheduled payment installment.
type Termin struct {
	Date      string     `json:"tanggal"`
	Credit    float64    `json:"kredit"`
	Remaining float64    `json:"sisa"`
	Percent   float64    `json:"persen"`
	Status    ItemStatus `json:"status"`
}

// Section holds a debit amount and its installments.
type Section struct {
	Debit   float64  `json:"debit"`
	Termins []Termin `json:"termin"`
}

// PricingProposal is one row of the flat labor pricing category. It carries
// no stable position across resubmissions; identity is (item, unit, qty)
// with a small tolerance on qty.
type PricingProposal struct {
	Item      string     `json:"item"`
	Unit      string     `json:"satuan"`
	Qty       float64    `json:"volume"`
	UnitPrice float64    `json:"harga_satuan"`
	Total     float64    `json:"total_harga"`
	Status    ItemStatus `json:"status"`
}

// Document is the parsed form of one category blob. Exactly one of the
// three slices is meaningful, selected by Shape.
type Document struct {
	Shape     Shape
	Batches   []Batch
	Sections  []Section
	Proposals []PricingProposal
}

func EmptyDocument(shape Shape) *Document {
	return &Document{Shape: shape}
}

// ParseDocument decodes a stored category blob. Empty or malformed blobs
// are treated as the empty structure, never as an error: read paths must
// stay resilient to historical bad writes.
func ParseDocument(shape Shape, blob string) *Document {
	doc := EmptyDocument(shape)
	if blob == "" {
		return doc
	}

	switch shape {
	case ShapeBatched:
		var batches []Batch
		if err := json.Unmarshal([]byte(blob), &batches); err == nil {
			doc.Batches = batches
		}
	case ShapeTermin:
		var sections []Section
		if err := json.Unmarshal([]byte(blob), &sections); err == nil {
			doc.Sections = sections
		}
	case ShapeFlat:
		var proposals []PricingProposal
		if err := json.Unmarshal([]byte(blob), &proposals); err == nil {
			doc.Proposals = proposals
		}
	}

	return doc
}

// Marshal serializes the document back to blob text. The store only ever
// sees opaque text; all structure belongs to this package.
func (d *Document) Marshal() (string, error) {
	var v interface{}
	switch d.Shape {
	case ShapeBatched:
		if d.Batches == nil {
			v = []Batch{}
		} else {
			v = d.Batches
		}
	case ShapeTermin:
		if d.Sections == nil {
			v = []Section{}
		} else {
			v = d.Sections
		}
	case ShapeFlat:
		if d.Proposals == nil {
			v = []PricingProposal{}
		} else {
			v = d.Proposals
		}
	}

	out, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// CountSubmitted counts items whose status is Pengajuan. The submission
// diff uses this as the signal for genuinely new work, since items carry
// no durable identity across resubmissions.
func (d *Document) CountSubmitted() int {
	count := 0
	switch d.Shape {
	case ShapeBatched:
		for _, batch := range d.Batches {
			for _, item := range batch.Items {
				if item.Status == StatusSubmitted {
					count++
				}
			}
		}
	case ShapeTermin:
		for _, section := range d.Sections {
			for _, termin := range section.Termins {
				if termin.Status == StatusSubmitted {
					count++
				}
			}
		}
	case ShapeFlat:
		for _, proposal := range d.Proposals {
			if proposal.Status == StatusSubmitted {
				count++
			}
		}
	}
	return count
}
