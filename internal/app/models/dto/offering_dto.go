package dto

import "github.com/kutluay/electivehub/internal/app/models"

// CreateOfferingRequest represents a request to add an offering to a pack
type CreateOfferingRequest struct {
	Kind        string `json:"kind" binding:"required,oneof=COURSE UNIVERSITY"`
	Name        string `json:"name" binding:"required,min=2,max=200"`
	Code        string `json:"code" binding:"required,min=2,max=20"`
	Description string `json:"description" binding:"max=2000"`
	MaxCapacity int    `json:"maxCapacity" binding:"required,min=1"`
}

// UpdateOfferingRequest represents a request to update an offering
type UpdateOfferingRequest struct {
	Name        string `json:"name" binding:"required,min=2,max=200"`
	Code        string `json:"code" binding:"required,min=2,max=20"`
	Description string `json:"description" binding:"max=2000"`
	MaxCapacity int    `json:"maxCapacity" binding:"required,min=1"`
}

// OfferingResponse represents an offering in the catalog, including its
// live occupancy so clients can label full entries.
type OfferingResponse struct {
	ID          int64  `json:"id"`
	PackID      int64  `json:"packId"`
	Kind        string `json:"kind"`
	Name        string `json:"name"`
	Code        string `json:"code"`
	Description string `json:"description,omitempty"`
	MaxCapacity int    `json:"maxCapacity"`
	Occupancy   int    `json:"occupancy"`
	Full        bool   `json:"full"`
}

// FromOfferingWithOccupancy converts a catalog row to its response form
func FromOfferingWithOccupancy(o *models.OfferingWithOccupancy) OfferingResponse {
	if o == nil {
		return OfferingResponse{}
	}
	return OfferingResponse{
		ID:          o.ID,
		PackID:      o.PackID,
		Kind:        string(o.Kind),
		Name:        o.Name,
		Code:        o.Code,
		Description: o.Description,
		MaxCapacity: o.MaxCapacity,
		Occupancy:   o.Occupancy,
		Full:        o.Full,
	}
}

// CatalogResponse represents the offering catalog of one pack
type CatalogResponse struct {
	Pack      PackResponse       `json:"pack"`
	Offerings []OfferingResponse `json:"offerings"`
}
