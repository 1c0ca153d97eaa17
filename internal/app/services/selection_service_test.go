package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kutluay/electivehub/internal/app/models"
	"github.com/kutluay/electivehub/internal/app/models/dto"
	"github.com/kutluay/electivehub/internal/app/repositories"
	"github.com/kutluay/electivehub/internal/pkg/apperrors"
	"github.com/kutluay/electivehub/internal/pkg/cache"
)

// fakePackStore serves packs from memory.
type fakePackStore struct {
	mu    sync.Mutex
	packs map[int64]*models.Pack
}

func (f *fakePackStore) GetByID(ctx context.Context, id int64) (*models.Pack, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	pack, ok := f.packs[id]
	if !ok {
		return nil, apperrors.ErrPackNotFound
	}
	cp := *pack
	return &cp, nil
}

// fakeSelectionStore keeps selections in memory and honors the same
// contract as the SQL implementation: the capacity check and the write
// happen under one lock, rejected selections release their seats, decided
// selections are immutable until reopened.
type fakeSelectionStore struct {
	mu         sync.Mutex
	nextID     int64
	selections map[int64]*models.Selection
	offerings  map[int64]*models.Offering
}

func newFakeSelectionStore(offerings ...*models.Offering) *fakeSelectionStore {
	s := &fakeSelectionStore{
		selections: make(map[int64]*models.Selection),
		offerings:  make(map[int64]*models.Offering),
	}
	for _, off := range offerings {
		s.offerings[off.ID] = off
	}
	return s
}

func (f *fakeSelectionStore) occupancyLocked(offeringID int64, excludeSelection int64) int {
	count := 0
	for _, sel := range f.selections {
		if sel.ID == excludeSelection {
			continue
		}
		if sel.CountsTowardOccupancy() && sel.Contains(offeringID) {
			count++
		}
	}
	return count
}

func (f *fakeSelectionStore) findLocked(packID, studentID int64) *models.Selection {
	for _, sel := range f.selections {
		if sel.PackID == packID && sel.StudentID == studentID {
			return sel
		}
	}
	return nil
}

func (f *fakeSelectionStore) Submit(ctx context.Context, params repositories.SubmitParams) (*models.Selection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, id := range params.OfferingIDs {
		off, ok := f.offerings[id]
		if !ok || off.PackID != params.PackID {
			return nil, apperrors.ErrUnknownOffering
		}
	}

	existing := f.findLocked(params.PackID, params.StudentID)

	var excludeID int64
	if existing != nil {
		excludeID = existing.ID
	}
	for _, id := range params.OfferingIDs {
		off := f.offerings[id]
		if f.occupancyLocked(id, excludeID) >= off.MaxCapacity {
			return nil, apperrors.NewOfferingFullError(off.ID, off.Name)
		}
	}

	if existing != nil && existing.IsDecided() {
		return nil, apperrors.ErrSelectionLocked
	}

	if existing == nil {
		f.nextID++
		existing = &models.Selection{
			ID:        f.nextID,
			PackID:    params.PackID,
			StudentID: params.StudentID,
			CreatedAt: time.Now(),
		}
		f.selections[existing.ID] = existing
	}
	existing.Status = models.SelectionStatusPending
	existing.OfferingIDs = append([]int64(nil), params.OfferingIDs...)
	if params.StatementURL != nil {
		existing.StatementURL = params.StatementURL
	}
	existing.UpdatedAt = time.Now()

	cp := *existing
	return &cp, nil
}

func (f *fakeSelectionStore) Decide(ctx context.Context, selectionID int64, decision models.SelectionStatus) (*models.Selection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	sel, ok := f.selections[selectionID]
	if !ok {
		return nil, apperrors.ErrSelectionNotFound
	}
	if sel.IsDecided() {
		if sel.Status == decision {
			cp := *sel
			return &cp, nil
		}
		return nil, apperrors.ErrConflictingDecision
	}
	sel.Status = decision
	sel.UpdatedAt = time.Now()
	cp := *sel
	return &cp, nil
}

func (f *fakeSelectionStore) Reopen(ctx context.Context, selectionID int64) (*models.Selection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	sel, ok := f.selections[selectionID]
	if !ok {
		return nil, apperrors.ErrSelectionNotFound
	}
	if sel.Status == models.SelectionStatusRejected {
		for _, id := range sel.OfferingIDs {
			off := f.offerings[id]
			if f.occupancyLocked(id, sel.ID) >= off.MaxCapacity {
				return nil, apperrors.NewOfferingFullError(off.ID, off.Name)
			}
		}
	}
	sel.Status = models.SelectionStatusPending
	sel.UpdatedAt = time.Now()
	cp := *sel
	return &cp, nil
}

func (f *fakeSelectionStore) GetByID(ctx context.Context, id int64) (*models.Selection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sel, ok := f.selections[id]
	if !ok {
		return nil, apperrors.ErrSelectionNotFound
	}
	cp := *sel
	return &cp, nil
}

func (f *fakeSelectionStore) GetByPackAndStudent(ctx context.Context, packID, studentID int64) (*models.Selection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sel := f.findLocked(packID, studentID)
	if sel == nil {
		return nil, apperrors.ErrSelectionNotFound
	}
	cp := *sel
	return &cp, nil
}

func (f *fakeSelectionStore) ListByPack(ctx context.Context, packID int64, status *models.SelectionStatus, offset uint64, limit int) ([]*models.Selection, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Selection
	for _, sel := range f.selections {
		if sel.PackID != packID {
			continue
		}
		if status != nil && sel.Status != *status {
			continue
		}
		cp := *sel
		out = append(out, &cp)
	}
	return out, int64(len(out)), nil
}

type fakeStorage struct{}

func (fakeStorage) SaveFile(fileHeader *multipart.FileHeader, subPath string) (string, error) {
	return "http://localhost:8080/uploads/" + subPath + "/file.pdf", nil
}

func (fakeStorage) DeleteFile(fileURL string) error { return nil }

const (
	testInstitution  = int64(1)
	otherInstitution = int64(2)
	testPack         = int64(10)
)

func publishedPack(deadline time.Time, maxSelections int) *models.Pack {
	return &models.Pack{
		ID:            testPack,
		InstitutionID: testInstitution,
		Name:          "Spring Electives",
		Kind:          models.PackKindCourse,
		Status:        models.PackStatusPublished,
		MaxSelections: maxSelections,
		Deadline:      deadline,
	}
}

func newTestService(pack *models.Pack, store *fakeSelectionStore) SelectionService {
	packs := &fakePackStore{packs: map[int64]*models.Pack{}}
	if pack != nil {
		packs.packs[pack.ID] = pack
	}
	return NewSelectionService(store, packs, fakeStorage{}, cache.New(time.Minute))
}

func offering(id int64, name string, capacity int) *models.Offering {
	return &models.Offering{
		ID:          id,
		PackID:      testPack,
		Kind:        models.OfferingKindCourse,
		Name:        name,
		Code:        fmt.Sprintf("OFF%d", id),
		MaxCapacity: capacity,
	}
}

func submitReq(ids ...int64) *dto.SubmitSelectionRequest {
	return &dto.SubmitSelectionRequest{OfferingIDs: ids}
}

func TestSubmitGates(t *testing.T) {
	future := time.Now().Add(24 * time.Hour)
	store := newFakeSelectionStore(offering(1, "Robotics", 10))

	tests := []struct {
		name    string
		mutate  func(p *models.Pack)
		wantErr error
	}{
		{
			name:    "draft pack reads as not found",
			mutate:  func(p *models.Pack) { p.Status = models.PackStatusDraft },
			wantErr: apperrors.ErrPackNotFound,
		},
		{
			name:    "closed pack is not open",
			mutate:  func(p *models.Pack) { p.Status = models.PackStatusClosed },
			wantErr: apperrors.ErrPackNotOpen,
		},
		{
			name:    "archived pack is not open",
			mutate:  func(p *models.Pack) { p.Status = models.PackStatusArchived },
			wantErr: apperrors.ErrPackNotOpen,
		},
		{
			name:    "deadline passed",
			mutate:  func(p *models.Pack) { p.Deadline = time.Now().Add(-time.Minute) },
			wantErr: apperrors.ErrDeadlinePassed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pack := publishedPack(future, 2)
			tt.mutate(pack)
			svc := newTestService(pack, store)

			_, err := svc.Submit(context.Background(), testInstitution, 100, testPack, submitReq(1), nil)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestSubmitForeignInstitutionReadsAsNotFound(t *testing.T) {
	pack := publishedPack(time.Now().Add(time.Hour), 2)
	svc := newTestService(pack, newFakeSelectionStore(offering(1, "Robotics", 10)))

	_, err := svc.Submit(context.Background(), otherInstitution, 100, testPack, submitReq(1), nil)
	assert.ErrorIs(t, err, apperrors.ErrPackNotFound)
}

func TestSubmitSelectionCountBounds(t *testing.T) {
	pack := publishedPack(time.Now().Add(time.Hour), 2)
	store := newFakeSelectionStore(
		offering(1, "Robotics", 10),
		offering(2, "Game Design", 10),
		offering(3, "Data Viz", 10),
	)
	svc := newTestService(pack, store)
	ctx := context.Background()

	_, err := svc.Submit(ctx, testInstitution, 100, testPack, submitReq(1, 2, 3), nil)
	assert.ErrorIs(t, err, apperrors.ErrSelectionCountInvalid)

	// Duplicates collapse before the bound is checked.
	resp, err := svc.Submit(ctx, testInstitution, 100, testPack, submitReq(1, 1, 2), nil)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, resp.OfferingIDs)
	assert.Equal(t, string(models.SelectionStatusPending), resp.Status)
}

func TestSubmitUnknownOffering(t *testing.T) {
	pack := publishedPack(time.Now().Add(time.Hour), 2)
	svc := newTestService(pack, newFakeSelectionStore(offering(1, "Robotics", 10)))

	_, err := svc.Submit(context.Background(), testInstitution, 100, testPack, submitReq(999), nil)
	assert.ErrorIs(t, err, apperrors.ErrUnknownOffering)
}

func TestSubmitOfferingFullNamesTheOffering(t *testing.T) {
	pack := publishedPack(time.Now().Add(time.Hour), 1)
	store := newFakeSelectionStore(offering(1, "Robotics", 1))
	svc := newTestService(pack, store)
	ctx := context.Background()

	_, err := svc.Submit(ctx, testInstitution, 100, testPack, submitReq(1), nil)
	require.NoError(t, err)

	_, err = svc.Submit(ctx, testInstitution, 101, testPack, submitReq(1), nil)
	require.ErrorIs(t, err, apperrors.ErrOfferingFull)

	var custom *apperrors.CustomError
	require.ErrorAs(t, err, &custom)
	assert.Equal(t, int64(1), custom.Details["offeringId"])
	assert.Equal(t, "Robotics", custom.Details["offeringName"])
}

func TestResubmitKeepsOwnSeat(t *testing.T) {
	pack := publishedPack(time.Now().Add(time.Hour), 2)
	store := newFakeSelectionStore(
		offering(1, "Robotics", 1),
		offering(2, "Game Design", 10),
	)
	svc := newTestService(pack, store)
	ctx := context.Background()

	first, err := svc.Submit(ctx, testInstitution, 100, testPack, submitReq(1), nil)
	require.NoError(t, err)

	// Amending while holding the only seat of offering 1 must not read the
	// student's own claim as "full".
	resp, err := svc.Submit(ctx, testInstitution, 100, testPack, submitReq(1, 2), nil)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, resp.OfferingIDs)

	// Amendments rewrite the same selection row instead of creating a new one.
	assert.Equal(t, first.ID, resp.ID)

	// The held seat still counts exactly once, so the offering stays full
	// for everyone else.
	_, err = svc.Submit(ctx, testInstitution, 101, testPack, submitReq(1), nil)
	assert.ErrorIs(t, err, apperrors.ErrOfferingFull)
}

func TestSubmitLockedAfterDecision(t *testing.T) {
	pack := publishedPack(time.Now().Add(time.Hour), 2)
	store := newFakeSelectionStore(offering(1, "Robotics", 10))
	svc := newTestService(pack, store)
	ctx := context.Background()

	resp, err := svc.Submit(ctx, testInstitution, 100, testPack, submitReq(1), nil)
	require.NoError(t, err)

	_, err = svc.Decide(ctx, testInstitution, resp.ID, models.SelectionStatusApproved)
	require.NoError(t, err)

	_, err = svc.Submit(ctx, testInstitution, 100, testPack, submitReq(1), nil)
	assert.ErrorIs(t, err, apperrors.ErrSelectionLocked)
}

func TestSubmitReportsFullOfferingBeforeLock(t *testing.T) {
	pack := publishedPack(time.Now().Add(time.Hour), 2)
	store := newFakeSelectionStore(
		offering(1, "Robotics", 1),
		offering(2, "Game Design", 1),
	)
	svc := newTestService(pack, store)
	ctx := context.Background()

	resp, err := svc.Submit(ctx, testInstitution, 100, testPack, submitReq(1), nil)
	require.NoError(t, err)
	_, err = svc.Decide(ctx, testInstitution, resp.ID, models.SelectionStatusApproved)
	require.NoError(t, err)

	_, err = svc.Submit(ctx, testInstitution, 101, testPack, submitReq(2), nil)
	require.NoError(t, err)

	// A decided student amending toward a full offering hears about the
	// capacity refusal, not about their own lock.
	_, err = svc.Submit(ctx, testInstitution, 100, testPack, submitReq(1, 2), nil)
	assert.ErrorIs(t, err, apperrors.ErrOfferingFull)
	assert.NotErrorIs(t, err, apperrors.ErrSelectionLocked)
}

func TestRejectionFreesCapacity(t *testing.T) {
	pack := publishedPack(time.Now().Add(time.Hour), 1)
	store := newFakeSelectionStore(
		offering(1, "Robotics", 1),
		offering(2, "Game Design", 10),
	)
	svc := newTestService(pack, store)
	ctx := context.Background()

	first, err := svc.Submit(ctx, testInstitution, 100, testPack, submitReq(1), nil)
	require.NoError(t, err)

	_, err = svc.Submit(ctx, testInstitution, 101, testPack, submitReq(1), nil)
	require.ErrorIs(t, err, apperrors.ErrOfferingFull)

	_, err = svc.Decide(ctx, testInstitution, first.ID, models.SelectionStatusRejected)
	require.NoError(t, err)

	// The rejected selection released its seat.
	second, err := svc.Submit(ctx, testInstitution, 101, testPack, submitReq(1), nil)
	require.NoError(t, err)
	assert.Equal(t, string(models.SelectionStatusPending), second.Status)

	// And the rejected student cannot sneak back in past their lock, even
	// with seats to spare.
	_, err = svc.Submit(ctx, testInstitution, 100, testPack, submitReq(2), nil)
	assert.ErrorIs(t, err, apperrors.ErrSelectionLocked)
}

func TestDecideIdempotentAndConflicting(t *testing.T) {
	pack := publishedPack(time.Now().Add(time.Hour), 1)
	store := newFakeSelectionStore(offering(1, "Robotics", 10))
	svc := newTestService(pack, store)
	ctx := context.Background()

	resp, err := svc.Submit(ctx, testInstitution, 100, testPack, submitReq(1), nil)
	require.NoError(t, err)

	decided, err := svc.Decide(ctx, testInstitution, resp.ID, models.SelectionStatusApproved)
	require.NoError(t, err)
	assert.Equal(t, string(models.SelectionStatusApproved), decided.Status)

	// Same decision again is a no-op.
	repeat, err := svc.Decide(ctx, testInstitution, resp.ID, models.SelectionStatusApproved)
	require.NoError(t, err)
	assert.Equal(t, string(models.SelectionStatusApproved), repeat.Status)

	// A different decision is refused.
	_, err = svc.Decide(ctx, testInstitution, resp.ID, models.SelectionStatusRejected)
	assert.ErrorIs(t, err, apperrors.ErrConflictingDecision)
}

func TestDecideRejectsInvalidDecision(t *testing.T) {
	pack := publishedPack(time.Now().Add(time.Hour), 1)
	svc := newTestService(pack, newFakeSelectionStore(offering(1, "Robotics", 10)))

	_, err := svc.Decide(context.Background(), testInstitution, 1, models.SelectionStatusPending)
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
}

func TestReopenRejectedRechecksCapacity(t *testing.T) {
	pack := publishedPack(time.Now().Add(time.Hour), 1)
	store := newFakeSelectionStore(offering(1, "Robotics", 1))
	svc := newTestService(pack, store)
	ctx := context.Background()

	first, err := svc.Submit(ctx, testInstitution, 100, testPack, submitReq(1), nil)
	require.NoError(t, err)

	_, err = svc.Decide(ctx, testInstitution, first.ID, models.SelectionStatusRejected)
	require.NoError(t, err)

	// Someone else takes the freed seat.
	_, err = svc.Submit(ctx, testInstitution, 101, testPack, submitReq(1), nil)
	require.NoError(t, err)

	// Reopening the rejected selection would overflow the offering.
	_, err = svc.Reopen(ctx, testInstitution, first.ID)
	assert.ErrorIs(t, err, apperrors.ErrOfferingFull)
}

func TestReopenApprovedNeedsNoCapacity(t *testing.T) {
	pack := publishedPack(time.Now().Add(time.Hour), 1)
	store := newFakeSelectionStore(offering(1, "Robotics", 1))
	svc := newTestService(pack, store)
	ctx := context.Background()

	resp, err := svc.Submit(ctx, testInstitution, 100, testPack, submitReq(1), nil)
	require.NoError(t, err)

	_, err = svc.Decide(ctx, testInstitution, resp.ID, models.SelectionStatusApproved)
	require.NoError(t, err)

	// An approved selection already holds its seats, so reopening cannot
	// fail on capacity even at a full offering.
	reopened, err := svc.Reopen(ctx, testInstitution, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, string(models.SelectionStatusPending), reopened.Status)
}

func TestListByPackStatusFilter(t *testing.T) {
	pack := publishedPack(time.Now().Add(time.Hour), 1)
	store := newFakeSelectionStore(offering(1, "Robotics", 10))
	svc := newTestService(pack, store)
	ctx := context.Background()

	first, err := svc.Submit(ctx, testInstitution, 100, testPack, submitReq(1), nil)
	require.NoError(t, err)
	_, err = svc.Submit(ctx, testInstitution, 101, testPack, submitReq(1), nil)
	require.NoError(t, err)

	_, err = svc.Decide(ctx, testInstitution, first.ID, models.SelectionStatusApproved)
	require.NoError(t, err)

	approved, err := svc.ListByPack(ctx, testInstitution, testPack, "APPROVED", 1, 20)
	require.NoError(t, err)
	assert.Len(t, approved.Selections, 1)

	_, err = svc.ListByPack(ctx, testInstitution, testPack, "bogus", 1, 20)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestConcurrentSubmitsSingleWinner(t *testing.T) {
	pack := publishedPack(time.Now().Add(time.Hour), 1)
	store := newFakeSelectionStore(offering(1, "Robotics", 1))
	svc := newTestService(pack, store)

	const students = 16
	var wg sync.WaitGroup
	errs := make([]error, students)

	for i := 0; i < students; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Submit(context.Background(), testInstitution, int64(200+i), testPack, submitReq(1), nil)
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
		} else {
			assert.ErrorIs(t, err, apperrors.ErrOfferingFull)
		}
	}
	assert.Equal(t, 1, winners, "exactly one student may take the last seat")
}

func TestSubmitStoresStatementURL(t *testing.T) {
	pack := publishedPack(time.Now().Add(time.Hour), 1)
	store := newFakeSelectionStore(offering(1, "Robotics", 10))
	svc := newTestService(pack, store)

	statement := &multipart.FileHeader{Filename: "motivation.pdf"}
	resp, err := svc.Submit(context.Background(), testInstitution, 100, testPack, submitReq(1), statement)
	require.NoError(t, err)
	require.NotNil(t, resp.StatementURL)
	assert.Contains(t, *resp.StatementURL, "/uploads/statements/")
}
