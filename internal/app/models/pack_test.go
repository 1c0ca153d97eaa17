package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPackIsOpen(t *testing.T) {
	deadline := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		status PackStatus
		now    time.Time
		open   bool
	}{
		{"published before deadline", PackStatusPublished, deadline.Add(-time.Hour), true},
		{"published at deadline", PackStatusPublished, deadline, false},
		{"published after deadline", PackStatusPublished, deadline.Add(time.Minute), false},
		{"draft before deadline", PackStatusDraft, deadline.Add(-time.Hour), false},
		{"closed before deadline", PackStatusClosed, deadline.Add(-time.Hour), false},
		{"archived before deadline", PackStatusArchived, deadline.Add(-time.Hour), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Pack{Status: tt.status, Deadline: deadline}
			assert.Equal(t, tt.open, p.IsOpen(tt.now))
		})
	}
}

func TestPackCanTransitionTo(t *testing.T) {
	tests := []struct {
		from    PackStatus
		to      PackStatus
		allowed bool
	}{
		{PackStatusDraft, PackStatusPublished, true},
		{PackStatusDraft, PackStatusClosed, false},
		{PackStatusDraft, PackStatusArchived, false},
		{PackStatusPublished, PackStatusClosed, true},
		{PackStatusPublished, PackStatusDraft, false},
		{PackStatusPublished, PackStatusArchived, false},
		{PackStatusClosed, PackStatusPublished, true},
		{PackStatusClosed, PackStatusArchived, true},
		{PackStatusArchived, PackStatusPublished, false},
		{PackStatusArchived, PackStatusClosed, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			p := &Pack{Status: tt.from}
			assert.Equal(t, tt.allowed, p.CanTransitionTo(tt.to))
		})
	}
}

func TestSelectionCountsTowardOccupancy(t *testing.T) {
	assert.True(t, (&Selection{Status: SelectionStatusPending}).CountsTowardOccupancy())
	assert.True(t, (&Selection{Status: SelectionStatusApproved}).CountsTowardOccupancy())
	assert.False(t, (&Selection{Status: SelectionStatusRejected}).CountsTowardOccupancy())
}

func TestSelectionIsDecided(t *testing.T) {
	assert.False(t, (&Selection{Status: SelectionStatusPending}).IsDecided())
	assert.True(t, (&Selection{Status: SelectionStatusApproved}).IsDecided())
	assert.True(t, (&Selection{Status: SelectionStatusRejected}).IsDecided())
}
