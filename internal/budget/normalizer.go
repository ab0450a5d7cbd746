package budget

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/yudapramata/rab-management/internal"
)

// Raw payload rows as submitted by the supervisor's client. Numeric fields
// arrive either as JSON numbers or as formatted strings ("Rp 2.500.000"),
// so they decode into interface{} and get coerced afterwards.

type rawLineItem struct {
	Supplier  string      `json:"supplier"`
	Item      string      `json:"item"`
	Qty       interface{} `json:"qty"`
	Unit      string      `json:"satuan"`
	UnitPrice interface{} `json:"harga_satuan"`
	Subtotal  interface{} `json:"subtotal"`
	Status    string      `json:"status"`
}

type rawBatch struct {
	Name  string        `json:"nama"`
	Date  string        `json:"tanggal"`
	Items []rawLineItem `json:"items"`
}

type rawTermin struct {
	Date      string      `json:"tanggal"`
	Credit    interface{} `json:"kredit"`
	Remaining interface{} `json:"sisa"`
	Percent   interface{} `json:"persen"`
	Status    string      `json:"status"`
}

type rawSection struct {
	Debit   interface{} `json:"debit"`
	Termins []rawTermin `json:"termin"`
}

type rawProposal struct {
	Item      string      `json:"item"`
	Unit      string      `json:"satuan"`
	Qty       interface{} `json:"volume"`
	UnitPrice interface{} `json:"harga_satuan"`
	Total     interface{} `json:"total_harga"`
	Status    string      `json:"status"`
}

// Normalize validates and cleans a raw category payload into its canonical
// document. Empty form rows are dropped, numeric strings are coerced and
// statuses are normalized: missing defaults to Pengajuan and an incoming
// Ditolak is reset to Pengajuan, because resubmitting a rejected item is a
// new request for resolution.
func Normalize(key CategoryKey, raw json.RawMessage) (*Document, error) {
	shape, ok := key.Shape()
	if !ok {
		return nil, internal.NewValidationError(
			fmt.Sprintf("unknown category %q", key), internal.ErrCodeInvalidCategory)
	}

	switch shape {
	case ShapeBatched:
		return normalizeBatched(raw)
	case ShapeTermin:
		return normalizeTermin(raw)
	default:
		return normalizeFlat(raw)
	}
}

func normalizeBatched(raw json.RawMessage) (*Document, error) {
	var batches []rawBatch
	if err := json.Unmarshal(raw, &batches); err != nil {
		return nil, invalidPayload(err)
	}

	doc := EmptyDocument(ShapeBatched)
	for _, rb := range batches {
		batch := Batch{Name: strings.TrimSpace(rb.Name), Date: strings.TrimSpace(rb.Date)}
		for _, ri := range rb.Items {
			item, keep, err := normalizeLineItem(ri)
			if err != nil {
				return nil, err
			}
			if keep {
				batch.Items = append(batch.Items, item)
			}
		}
		// a batch that cleaned down to nothing is an empty form group
		if len(batch.Items) > 0 {
			doc.Batches = append(doc.Batches, batch)
		}
	}
	return doc, nil
}

func normalizeLineItem(ri rawLineItem) (LineItem, bool, error) {
	qty, qtyPresent, err := coerceNumber(ri.Qty)
	if err != nil {
		return LineItem{}, false, invalidField("qty", err)
	}
	unitPrice, pricePresent, err := coerceNumber(ri.UnitPrice)
	if err != nil {
		return LineItem{}, false, invalidField("harga_satuan", err)
	}
	_, subtotalPresent, err := coerceNumber(ri.Subtotal)
	if err != nil {
		return LineItem{}, false, invalidField("subtotal", err)
	}

	supplier := strings.TrimSpace(ri.Supplier)
	name := strings.TrimSpace(ri.Item)
	unit := strings.TrimSpace(ri.Unit)

	if supplier == "" && name == "" && unit == "" && !qtyPresent && !pricePresent && !subtotalPresent {
		return LineItem{}, false, nil
	}

	status, err := normalizeStatus(ri.Status)
	if err != nil {
		return LineItem{}, false, err
	}

	return LineItem{
		Supplier:  supplier,
		Item:      name,
		Qty:       qty,
		Unit:      unit,
		UnitPrice: unitPrice,
		Subtotal:  qty * unitPrice,
		Status:    status,
	}, true, nil
}

func normalizeTermin(raw json.RawMessage) (*Document, error) {
	var sections []rawSection
	if err := json.Unmarshal(raw, &sections); err != nil {
		return nil, invalidPayload(err)
	}

	doc := EmptyDocument(ShapeTermin)
	for _, rs := range sections {
		debit, _, err := coerceNumber(rs.Debit)
		if err != nil {
			return nil, invalidField("debit", err)
		}

		section := Section{Debit: debit}
		for _, rt := range rs.Termins {
			credit, creditPresent, err := coerceNumber(rt.Credit)
			if err != nil {
				return nil, invalidField("kredit", err)
			}
			remaining, remainingPresent, err := coerceNumber(rt.Remaining)
			if err != nil {
				return nil, invalidField("sisa", err)
			}
			percent, percentPresent, err := coerceNumber(rt.Percent)
			if err != nil {
				return nil, invalidField("persen", err)
			}

			if !creditPresent && !remainingPresent && !percentPresent {
				continue
			}

			status, err := normalizeStatus(rt.Status)
			if err != nil {
				return nil, err
			}

			section.Termins = append(section.Termins, Termin{
				Date:      strings.TrimSpace(rt.Date),
				Credit:    credit,
				Remaining: remaining,
				Percent:   percent,
				Status:    status,
			})
		}
		if len(section.Termins) > 0 {
			doc.Sections = append(doc.Sections, section)
		}
	}
	return doc, nil
}

func normalizeFlat(raw json.RawMessage) (*Document, error) {
	var proposals []rawProposal
	if err := json.Unmarshal(raw, &proposals); err != nil {
		return nil, invalidPayload(err)
	}

	doc := EmptyDocument(ShapeFlat)
	for _, rp := range proposals {
		qty, qtyPresent, err := coerceNumber(rp.Qty)
		if err != nil {
			return nil, invalidField("volume", err)
		}
		unitPrice, pricePresent, err := coerceNumber(rp.UnitPrice)
		if err != nil {
			return nil, invalidField("harga_satuan", err)
		}
		_, totalPresent, err := coerceNumber(rp.Total)
		if err != nil {
			return nil, invalidField("total_harga", err)
		}

		name := strings.TrimSpace(rp.Item)
		unit := strings.TrimSpace(rp.Unit)

		if name == "" && unit == "" && !qtyPresent && !pricePresent && !totalPresent {
			continue
		}

		status, err := normalizeStatus(rp.Status)
		if err != nil {
			return nil, err
		}

		doc.Proposals = append(doc.Proposals, PricingProposal{
			Item:      name,
			Unit:      unit,
			Qty:       qty,
			UnitPrice: unitPrice,
			Total:     qty * unitPrice,
			Status:    status,
		})
	}
	return doc, nil
}

func normalizeStatus(raw string) (ItemStatus, error) {
	status := ItemStatus(strings.TrimSpace(raw))
	switch status {
	case "":
		return StatusSubmitted, nil
	case StatusRejected:
		// resubmission of a rejected item reopens it
		return StatusSubmitted, nil
	case StatusSubmitted, StatusApproved:
		return status, nil
	default:
		return "", internal.NewValidationError(
			fmt.Sprintf("unknown status %q", raw), internal.ErrCodeInvalidItemState)
	}
}

// coerceNumber converts a loosely typed numeric field. It reports whether
// the field was present at all, so callers can tell an absent field from a
// genuine zero. Present but unparsable values are an error rather than a
// silent zero.
func coerceNumber(v interface{}) (value float64, present bool, err error) {
	switch n := v.(type) {
	case nil:
		return 0, false, nil
	case float64:
		return n, true, nil
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, true, fmt.Errorf("cannot parse number %q", n.String())
		}
		return f, true, nil
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, false, nil
		}
		f, err := parseLocalizedNumber(s)
		if err != nil {
			return 0, true, err
		}
		return f, true, nil
	case bool:
		return 0, true, fmt.Errorf("expected a number, got boolean")
	default:
		return 0, true, fmt.Errorf("expected a number, got %T", v)
	}
}

// parseLocalizedNumber handles currency-formatted strings such as
// "Rp 2.500.000": the Rp prefix and whitespace are stripped, dots are
// thousands separators and a comma is the decimal mark.
func parseLocalizedNumber(s string) (float64, error) {
	cleaned := s

	lower := strings.ToLower(cleaned)
	currency := strings.HasPrefix(lower, "rp")
	if currency {
		cleaned = strings.TrimSpace(cleaned[2:])
		cleaned = strings.TrimPrefix(cleaned, ".")
	}

	if !currency && !strings.Contains(cleaned, ",") {
		// plain numeric string, but "1.500.000" style grouping still needs
		// the localized path below
		if strings.Count(cleaned, ".") <= 1 {
			if f, err := strconv.ParseFloat(cleaned, 64); err == nil {
				return f, nil
			}
			return 0, fmt.Errorf("cannot parse number %q", s)
		}
	}

	cleaned = strings.ReplaceAll(cleaned, " ", "")
	cleaned = strings.ReplaceAll(cleaned, " ", "")
	cleaned = strings.ReplaceAll(cleaned, ".", "")
	cleaned = strings.ReplaceAll(cleaned, ",", ".")

	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("cannot parse number %q", s)
	}
	return f, nil
}

func invalidPayload(err error) *internal.AppError {
	return internal.NewValidationError("request payload does not match the category shape",
		internal.ErrCodeInvalidPayload).WithCause(err)
}

func invalidField(field string, err error) *internal.AppError {
	return internal.NewValidationError(fmt.Sprintf("field %s: %v", field, err),
		internal.ErrCodeInvalidAmount)
}
