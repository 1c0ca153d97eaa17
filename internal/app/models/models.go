package models

// RoleType defines the user role type
type RoleType string

const (
	RoleStudent RoleType = "STUDENT"
	RoleStaff   RoleType = "STAFF"
)

// PackKind distinguishes course elective packs from exchange packs.
type PackKind string

const (
	PackKindCourse   PackKind = "COURSE"
	PackKindExchange PackKind = "EXCHANGE"
)

// PackStatus is the pack lifecycle state. Only PUBLISHED packs accept
// selections.
type PackStatus string

const (
	PackStatusDraft     PackStatus = "DRAFT"
	PackStatusPublished PackStatus = "PUBLISHED"
	PackStatusClosed    PackStatus = "CLOSED"
	PackStatusArchived  PackStatus = "ARCHIVED"
)

// OfferingKind is the capacity-bearing entity type inside a pack.
type OfferingKind string

const (
	OfferingKindCourse     OfferingKind = "COURSE"
	OfferingKindUniversity OfferingKind = "UNIVERSITY"
)

// SelectionStatus is the review state of a student's selection.
type SelectionStatus string

const (
	SelectionStatusPending  SelectionStatus = "PENDING"
	SelectionStatusApproved SelectionStatus = "APPROVED"
	SelectionStatusRejected SelectionStatus = "REJECTED"
)
