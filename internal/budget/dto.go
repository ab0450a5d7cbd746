package budget

import (
	"errors"
)

// SetItemStatusDTO is the administrator's decision request for one item.
type SetItemStatusDTO struct {
	Locator ItemLocator `json:"locator"`
	Status  string      `json:"status"`
}

func (dto SetItemStatusDTO) Validate() error {
	if dto.Status == "" {
		return errors.New("status is required")
	}
	return nil
}

// UpdatePlanStatusDTO moves the plan lifecycle forward.
type UpdatePlanStatusDTO struct {
	Status string `json:"status"`
}

func (dto UpdatePlanStatusDTO) Validate() error {
	if dto.Status == "" {
		return errors.New("status is required")
	}
	if !ValidPlanStatus(dto.Status) {
		return errors.New("status must be one of draft, on_progress, selesai")
	}
	return nil
}

// CategoryResponse shapes a parsed document for responses: only the slice
// matching the category shape is emitted.
type CategoryResponse struct {
	PlanID    int64             `json:"plan_id"`
	Category  CategoryKey       `json:"category"`
	Batches   []Batch           `json:"batches,omitempty"`
	Sections  []Section         `json:"sections,omitempty"`
	Proposals []PricingProposal `json:"proposals,omitempty"`
	Submitted int               `json:"submitted_count"`
}

func NewCategoryResponse(planID int64, key CategoryKey, doc *Document) CategoryResponse {
	return CategoryResponse{
		PlanID:    planID,
		Category:  key,
		Batches:   doc.Batches,
		Sections:  doc.Sections,
		Proposals: doc.Proposals,
		Submitted: doc.CountSubmitted(),
	}
}
