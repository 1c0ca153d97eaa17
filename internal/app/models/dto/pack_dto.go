package dto

import (
	"time"

	"github.com/kutluay/electivehub/internal/app/models"
)

// CreatePackRequest represents a request to create an elective pack
type CreatePackRequest struct {
	Name          string    `json:"name" binding:"required,min=2,max=200"`
	Kind          string    `json:"kind" binding:"required,oneof=COURSE EXCHANGE"`
	MaxSelections int       `json:"maxSelections" binding:"required,min=1"`
	Deadline      time.Time `json:"deadline" binding:"required"`
}

// UpdatePackRequest represents a request to update pack attributes.
// Status is changed through the dedicated transition endpoint, not here.
type UpdatePackRequest struct {
	Name          string    `json:"name" binding:"required,min=2,max=200"`
	MaxSelections int       `json:"maxSelections" binding:"required,min=1"`
	Deadline      time.Time `json:"deadline" binding:"required"`
}

// PackTransitionRequest represents a pack lifecycle transition request
type PackTransitionRequest struct {
	Status string `json:"status" binding:"required,oneof=DRAFT PUBLISHED CLOSED ARCHIVED"`
}

// PackResponse represents pack information returned to clients
type PackResponse struct {
	ID            int64     `json:"id"`
	InstitutionID int64     `json:"institutionId"`
	Name          string    `json:"name"`
	Kind          string    `json:"kind"`
	Status        string    `json:"status"`
	MaxSelections int       `json:"maxSelections"`
	Deadline      time.Time `json:"deadline"`
	Open          bool      `json:"open"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`

	Offerings []OfferingResponse `json:"offerings,omitempty"`
}

// FromPack converts a models.Pack to a PackResponse. The open flag is
// derived from server time, never from anything the client sent.
func FromPack(pack *models.Pack, now time.Time) PackResponse {
	if pack == nil {
		return PackResponse{}
	}
	return PackResponse{
		ID:            pack.ID,
		InstitutionID: pack.InstitutionID,
		Name:          pack.Name,
		Kind:          string(pack.Kind),
		Status:        string(pack.Status),
		MaxSelections: pack.MaxSelections,
		Deadline:      pack.Deadline,
		Open:          pack.IsOpen(now),
		CreatedAt:     pack.CreatedAt,
		UpdatedAt:     pack.UpdatedAt,
	}
}

// PackListResponse represents the response for a list of packs with pagination
type PackListResponse struct {
	Packs      []PackResponse `json:"packs"`
	Pagination PaginationInfo `json:"pagination"`
}
