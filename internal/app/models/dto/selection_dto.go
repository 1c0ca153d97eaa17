package dto

import (
	"time"

	"github.com/kutluay/electivehub/internal/app/models"
)

// SubmitSelectionRequest carries a student's chosen offerings. Submitted as
// multipart form data so an optional supporting statement can ride along.
type SubmitSelectionRequest struct {
	OfferingIDs []int64 `form:"offeringIds" binding:"required,min=1"`
}

// DecisionRequest represents a staff decision on a pending selection
type DecisionRequest struct {
	Decision string `json:"decision" binding:"required,oneof=APPROVED REJECTED"`
}

// SelectionResponse represents a selection returned to clients
type SelectionResponse struct {
	ID           int64              `json:"id"`
	PackID       int64              `json:"packId"`
	StudentID    int64              `json:"studentId"`
	Status       string             `json:"status"`
	OfferingIDs  []int64            `json:"offeringIds"`
	Offerings    []OfferingResponse `json:"offerings,omitempty"`
	StatementURL *string            `json:"statementUrl,omitempty"`
	CreatedAt    time.Time          `json:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt"`
}

// FromSelection converts a models.Selection to a SelectionResponse
func FromSelection(sel *models.Selection) SelectionResponse {
	if sel == nil {
		return SelectionResponse{}
	}
	resp := SelectionResponse{
		ID:           sel.ID,
		PackID:       sel.PackID,
		StudentID:    sel.StudentID,
		Status:       string(sel.Status),
		OfferingIDs:  sel.OfferingIDs,
		StatementURL: sel.StatementURL,
		CreatedAt:    sel.CreatedAt,
		UpdatedAt:    sel.UpdatedAt,
	}
	for _, off := range sel.Offerings {
		resp.Offerings = append(resp.Offerings, OfferingResponse{
			ID:          off.ID,
			PackID:      off.PackID,
			Kind:        string(off.Kind),
			Name:        off.Name,
			Code:        off.Code,
			MaxCapacity: off.MaxCapacity,
		})
	}
	return resp
}

// SelectionListResponse represents the staff view of a pack's selections
type SelectionListResponse struct {
	Selections []SelectionResponse `json:"selections"`
	Pagination PaginationInfo      `json:"pagination"`
}
