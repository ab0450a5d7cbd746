package budget

import (
	"fmt"
	"math"

	"github.com/yudapramata/rab-management/internal"
)

// QuantityTolerance is the absolute tolerance used when matching flat
// category proposals by quantity.
const QuantityTolerance = 0.01

// ItemLocator addresses one line item inside a category document.
//
// For batched and termin shapes the locator is the positional pair
// (OuterIndex, InnerIndex) into the structure the client just read; the
// indices are only meaningful against that exact structure and go stale on
// the next resubmission. For the flat shape the locator is the approximate
// identity (Item, Unit, Qty).
type ItemLocator struct {
	OuterIndex *int     `json:"outer_index,omitempty"`
	InnerIndex *int     `json:"inner_index,omitempty"`
	Item       string   `json:"item,omitempty"`
	Unit       string   `json:"satuan,omitempty"`
	Qty        *float64 `json:"volume,omitempty"`
}

// StatusChange reports the outcome of applying a decision to one item.
type StatusChange struct {
	Changed   bool
	Previous  ItemStatus
	ItemLabel string
}

// SetItemStatus locates one item and applies the decision in place.
// Re-applying the status an item already has reports Changed=false so a
// retried request never produces a second write or notification.
func (d *Document) SetItemStatus(loc ItemLocator, status ItemStatus) (*StatusChange, error) {
	switch d.Shape {
	case ShapeBatched:
		return d.setBatchedStatus(loc, status)
	case ShapeTermin:
		return d.setTerminStatus(loc, status)
	default:
		return d.setFlatStatus(loc, status)
	}
}

func (d *Document) setBatchedStatus(loc ItemLocator, status ItemStatus) (*StatusChange, error) {
	if loc.OuterIndex == nil || loc.InnerIndex == nil {
		return nil, internal.ErrItemNotFound
	}
	outer, inner := *loc.OuterIndex, *loc.InnerIndex
	if outer < 0 || outer >= len(d.Batches) {
		return nil, internal.ErrItemNotFound
	}
	batch := &d.Batches[outer]
	if inner < 0 || inner >= len(batch.Items) {
		return nil, internal.ErrItemNotFound
	}

	item := &batch.Items[inner]
	change := &StatusChange{
		Changed:   item.Status != status,
		Previous:  item.Status,
		ItemLabel: item.Item,
	}
	item.Status = status
	return change, nil
}

func (d *Document) setTerminStatus(loc ItemLocator, status ItemStatus) (*StatusChange, error) {
	if loc.OuterIndex == nil || loc.InnerIndex == nil {
		return nil, internal.ErrItemNotFound
	}
	outer, inner := *loc.OuterIndex, *loc.InnerIndex
	if outer < 0 || outer >= len(d.Sections) {
		return nil, internal.ErrItemNotFound
	}
	section := &d.Sections[outer]
	if inner < 0 || inner >= len(section.Termins) {
		return nil, internal.ErrItemNotFound
	}

	termin := &section.Termins[inner]
	change := &StatusChange{
		Changed:   termin.Status != status,
		Previous:  termin.Status,
		ItemLabel: fmt.Sprintf("Termin %d (%s)", inner+1, termin.Date),
	}
	termin.Status = status
	return change, nil
}

// setFlatStatus matches by (item, unit, qty) with a small tolerance on
// qty. Zero matches and multiple matches both come back as not found:
// applying a decision to an ambiguous row would be guessing.
func (d *Document) setFlatStatus(loc ItemLocator, status ItemStatus) (*StatusChange, error) {
	if loc.Item == "" || loc.Qty == nil {
		return nil, internal.ErrItemNotFound
	}

	matchIdx := -1
	for i := range d.Proposals {
		p := &d.Proposals[i]
		if p.Item != loc.Item || p.Unit != loc.Unit {
			continue
		}
		if math.Abs(p.Qty-*loc.Qty) > QuantityTolerance {
			continue
		}
		if matchIdx >= 0 {
			return nil, internal.ErrItemNotFound
		}
		matchIdx = i
	}
	if matchIdx < 0 {
		return nil, internal.ErrItemNotFound
	}

	proposal := &d.Proposals[matchIdx]
	change := &StatusChange{
		Changed:   proposal.Status != status,
		Previous:  proposal.Status,
		ItemLabel: proposal.Item,
	}
	proposal.Status = status
	return change, nil
}
