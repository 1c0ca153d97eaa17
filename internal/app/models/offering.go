package models

import "time"

// Offering is a single capacity-bearing choice inside a pack: a course for
// COURSE packs, a partner university for EXCHANGE packs.
type Offering struct {
	ID          int64        `json:"id" db:"id"`
	PackID      int64        `json:"packId" db:"pack_id"`
	Kind        OfferingKind `json:"kind" db:"kind"`
	Name        string       `json:"name" db:"name"`
	Code        string       `json:"code" db:"code"`
	Description string       `json:"description,omitempty" db:"description"`
	MaxCapacity int          `json:"maxCapacity" db:"max_capacity"`
	CreatedAt   time.Time    `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time    `json:"updatedAt" db:"updated_at"`
}

// OfferingWithOccupancy is the catalog view of an offering: the live
// occupancy next to the configured capacity.
type OfferingWithOccupancy struct {
	Offering
	Occupancy int  `json:"occupancy"`
	Full      bool `json:"full"`
}
