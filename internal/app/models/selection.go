package models

import "time"

// Selection is one student's recorded choice(s) for a pack. A student has
// at most one selection row per pack; amendments rewrite it in place.
// Rejection is a status, never a deletion, so the row survives as history.
type Selection struct {
	ID           int64           `json:"id" db:"id"`
	PackID       int64           `json:"packId" db:"pack_id"`
	StudentID    int64           `json:"studentId" db:"student_id"`
	Status       SelectionStatus `json:"status" db:"status"`
	StatementURL *string         `json:"statementUrl,omitempty" db:"statement_url"`
	CreatedAt    time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time       `json:"updatedAt" db:"updated_at"`

	// OfferingIDs is the ordered set of chosen offerings, bounded by the
	// pack's maxSelections. Stored as join rows, not a denormalized array.
	OfferingIDs []int64 `json:"offeringIds"`

	// Relations (populated when needed)
	Offerings []*Offering `json:"offerings,omitempty"`
}

// CountsTowardOccupancy reports whether this selection claims seats.
// Rejected selections release their claims immediately.
func (s *Selection) CountsTowardOccupancy() bool {
	return s.Status == SelectionStatusPending || s.Status == SelectionStatusApproved
}

// IsDecided reports whether staff already reviewed the selection. A decided
// selection is immutable for the student until staff reopens it.
func (s *Selection) IsDecided() bool {
	return s.Status == SelectionStatusApproved || s.Status == SelectionStatusRejected
}

// Contains reports whether the offering is part of the chosen set.
func (s *Selection) Contains(offeringID int64) bool {
	for _, id := range s.OfferingIDs {
		if id == offeringID {
			return true
		}
	}
	return false
}
