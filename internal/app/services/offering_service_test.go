package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kutluay/electivehub/internal/app/models"
	"github.com/kutluay/electivehub/internal/app/models/dto"
	"github.com/kutluay/electivehub/internal/pkg/apperrors"
	"github.com/kutluay/electivehub/internal/pkg/cache"
)

type fakeOfferingRepo struct {
	mu        sync.Mutex
	nextID    int64
	offerings map[int64]*models.Offering
	occupancy map[int64]int
	deleteErr error
}

func newFakeOfferingRepo(offerings ...*models.Offering) *fakeOfferingRepo {
	r := &fakeOfferingRepo{
		offerings: map[int64]*models.Offering{},
		occupancy: map[int64]int{},
	}
	for _, off := range offerings {
		r.offerings[off.ID] = off
		if off.ID > r.nextID {
			r.nextID = off.ID
		}
	}
	return r
}

func (f *fakeOfferingRepo) GetByID(ctx context.Context, id int64) (*models.Offering, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	off, ok := f.offerings[id]
	if !ok {
		return nil, apperrors.ErrOfferingNotFound
	}
	cp := *off
	return &cp, nil
}

func (f *fakeOfferingRepo) Create(ctx context.Context, off *models.Offering) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	off.ID = f.nextID
	cp := *off
	f.offerings[off.ID] = &cp
	return nil
}

func (f *fakeOfferingRepo) Update(ctx context.Context, off *models.Offering) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.offerings[off.ID]; !ok {
		return apperrors.ErrOfferingNotFound
	}
	if off.MaxCapacity < f.occupancy[off.ID] {
		return apperrors.NewCustomError(apperrors.ErrCapacityBelowOccupancy,
			"capacity cannot drop below active selections")
	}
	cp := *off
	f.offerings[off.ID] = &cp
	return nil
}

func (f *fakeOfferingRepo) Delete(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.offerings[id]; !ok {
		return apperrors.ErrOfferingNotFound
	}
	delete(f.offerings, id)
	return nil
}

func (f *fakeOfferingRepo) Occupancy(ctx context.Context, offeringID int64) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.occupancy[offeringID], nil
}

func newOfferingFixture(repo *fakeOfferingRepo) OfferingService {
	pack := draftPack(testPack, testInstitution)
	pack.Status = models.PackStatusPublished
	return NewOfferingService(repo, newFakePackRepo(pack), repo, cache.New(time.Minute))
}

func TestCreateOfferingInForeignPack(t *testing.T) {
	svc := newOfferingFixture(newFakeOfferingRepo())

	_, err := svc.CreateOffering(context.Background(), otherInstitution, testPack, &dto.CreateOfferingRequest{
		Kind:        string(models.OfferingKindCourse),
		Name:        "Robotics",
		Code:        "ROB101",
		MaxCapacity: 30,
	})
	assert.ErrorIs(t, err, apperrors.ErrPackNotFound)
}

func TestCreateOfferingStartsEmpty(t *testing.T) {
	svc := newOfferingFixture(newFakeOfferingRepo())

	resp, err := svc.CreateOffering(context.Background(), testInstitution, testPack, &dto.CreateOfferingRequest{
		Kind:        string(models.OfferingKindCourse),
		Name:        "Robotics",
		Code:        "ROB101",
		MaxCapacity: 30,
	})
	require.NoError(t, err)
	assert.NotZero(t, resp.ID)
	assert.Equal(t, 0, resp.Occupancy)
	assert.False(t, resp.Full)
}

func TestUpdateOfferingForeignInstitutionReadsAsNotFound(t *testing.T) {
	svc := newOfferingFixture(newFakeOfferingRepo(offering(1, "Robotics", 30)))

	_, err := svc.UpdateOffering(context.Background(), otherInstitution, 1, &dto.UpdateOfferingRequest{
		Name:        "Robotics II",
		Code:        "ROB102",
		MaxCapacity: 30,
	})
	assert.ErrorIs(t, err, apperrors.ErrOfferingNotFound)
}

func TestUpdateOfferingReportsLiveOccupancy(t *testing.T) {
	repo := newFakeOfferingRepo(offering(1, "Robotics", 30))
	repo.occupancy[1] = 30
	svc := newOfferingFixture(repo)

	resp, err := svc.UpdateOffering(context.Background(), testInstitution, 1, &dto.UpdateOfferingRequest{
		Name:        "Robotics",
		Code:        "ROB101",
		MaxCapacity: 30,
	})
	require.NoError(t, err)
	assert.Equal(t, 30, resp.Occupancy)
	assert.True(t, resp.Full)
}

func TestUpdateOfferingRefusesCapacityBelowOccupancy(t *testing.T) {
	repo := newFakeOfferingRepo(offering(1, "Robotics", 30))
	repo.occupancy[1] = 12
	svc := newOfferingFixture(repo)

	_, err := svc.UpdateOffering(context.Background(), testInstitution, 1, &dto.UpdateOfferingRequest{
		Name:        "Robotics",
		Code:        "ROB101",
		MaxCapacity: 10,
	})
	assert.ErrorIs(t, err, apperrors.ErrCapacityBelowOccupancy)

	// Shrinking down to the occupancy itself is still allowed.
	resp, err := svc.UpdateOffering(context.Background(), testInstitution, 1, &dto.UpdateOfferingRequest{
		Name:        "Robotics",
		Code:        "ROB101",
		MaxCapacity: 12,
	})
	require.NoError(t, err)
	assert.Equal(t, 12, resp.MaxCapacity)
	assert.True(t, resp.Full)
}

func TestDeleteOfferingSurfacesSelectionConflict(t *testing.T) {
	repo := newFakeOfferingRepo(offering(1, "Robotics", 30))
	repo.deleteErr = apperrors.ErrOfferingHasSelections
	svc := newOfferingFixture(repo)

	err := svc.DeleteOffering(context.Background(), testInstitution, 1)
	assert.ErrorIs(t, err, apperrors.ErrOfferingHasSelections)
}
