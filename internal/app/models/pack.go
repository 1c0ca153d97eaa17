package models

import "time"

// Pack is a named, time-boxed container of capacity-limited offerings for
// one selection cycle.
type Pack struct {
	ID            int64      `json:"id" db:"id"`
	InstitutionID int64      `json:"institutionId" db:"institution_id"`
	Name          string     `json:"name" db:"name"`
	Kind          PackKind   `json:"kind" db:"kind"`
	Status        PackStatus `json:"status" db:"status"`
	MaxSelections int        `json:"maxSelections" db:"max_selections"`
	Deadline      time.Time  `json:"deadline" db:"deadline"`
	CreatedAt     time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time  `json:"updatedAt" db:"updated_at"`

	// Relations (populated when needed)
	Offerings []*Offering `json:"offerings,omitempty"`
}

// packTransitions lists the allowed lifecycle transitions. Reopening a
// closed pack is an explicit staff action; every other move is one-way.
var packTransitions = map[PackStatus][]PackStatus{
	PackStatusDraft:     {PackStatusPublished},
	PackStatusPublished: {PackStatusClosed},
	PackStatusClosed:    {PackStatusPublished, PackStatusArchived},
	PackStatusArchived:  {},
}

// CanTransitionTo reports whether the pack may move to the target status.
func (p *Pack) CanTransitionTo(target PackStatus) bool {
	for _, s := range packTransitions[p.Status] {
		if s == target {
			return true
		}
	}
	return false
}

// IsOpen is the deadline gate: a pack accepts selections only while it is
// published and the server clock is before the deadline. Client-supplied
// time is never consulted.
func (p *Pack) IsOpen(now time.Time) bool {
	return p.Status == PackStatusPublished && now.Before(p.Deadline)
}
