package services

import (
	"context"
	"fmt"

	"github.com/kutluay/electivehub/internal/app/models"
	"github.com/kutluay/electivehub/internal/app/models/dto"
	"github.com/kutluay/electivehub/internal/pkg/apperrors"
	"github.com/kutluay/electivehub/internal/pkg/cache"
	"github.com/kutluay/electivehub/internal/pkg/logger"
)

// offeringStore is the slice of OfferingRepository staff management needs.
type offeringStore interface {
	GetByID(ctx context.Context, id int64) (*models.Offering, error)
	Create(ctx context.Context, off *models.Offering) error
	Update(ctx context.Context, off *models.Offering) error
	Delete(ctx context.Context, id int64) error
}

// offeringPackStore resolves an offering's pack for tenancy checks.
type offeringPackStore interface {
	GetByID(ctx context.Context, id int64) (*models.Pack, error)
}

// occupancyStore answers live seat counts for one offering.
type occupancyStore interface {
	Occupancy(ctx context.Context, offeringID int64) (int, error)
}

// OfferingService defines the interface for offering management
type OfferingService interface {
	CreateOffering(ctx context.Context, institutionID, packID int64, req *dto.CreateOfferingRequest) (*dto.OfferingResponse, error)
	UpdateOffering(ctx context.Context, institutionID, offeringID int64, req *dto.UpdateOfferingRequest) (*dto.OfferingResponse, error)
	DeleteOffering(ctx context.Context, institutionID, offeringID int64) error
}

// offeringServiceImpl implements OfferingService
type offeringServiceImpl struct {
	offeringRepo  offeringStore
	packRepo      offeringPackStore
	selectionRepo occupancyStore
	catalogCache  *cache.Store
}

// NewOfferingService creates a new OfferingService
func NewOfferingService(offeringRepo offeringStore, packRepo offeringPackStore, selectionRepo occupancyStore, catalogCache *cache.Store) OfferingService {
	return &offeringServiceImpl{
		offeringRepo:  offeringRepo,
		packRepo:      packRepo,
		selectionRepo: selectionRepo,
		catalogCache:  catalogCache,
	}
}

func (s *offeringServiceImpl) loadPack(ctx context.Context, institutionID, packID int64) (*models.Pack, error) {
	pack, err := s.packRepo.GetByID(ctx, packID)
	if err != nil {
		return nil, err
	}
	if pack.InstitutionID != institutionID {
		return nil, apperrors.ErrPackNotFound
	}
	return pack, nil
}

func (s *offeringServiceImpl) loadOffering(ctx context.Context, institutionID, offeringID int64) (*models.Offering, error) {
	off, err := s.offeringRepo.GetByID(ctx, offeringID)
	if err != nil {
		return nil, err
	}
	if _, err := s.loadPack(ctx, institutionID, off.PackID); err != nil {
		return nil, apperrors.ErrOfferingNotFound
	}
	return off, nil
}

// CreateOffering adds an offering to a pack
func (s *offeringServiceImpl) CreateOffering(ctx context.Context, institutionID, packID int64, req *dto.CreateOfferingRequest) (*dto.OfferingResponse, error) {
	if _, err := s.loadPack(ctx, institutionID, packID); err != nil {
		return nil, err
	}

	off := &models.Offering{
		PackID:      packID,
		Kind:        models.OfferingKind(req.Kind),
		Name:        req.Name,
		Code:        req.Code,
		Description: req.Description,
		MaxCapacity: req.MaxCapacity,
	}

	if err := s.offeringRepo.Create(ctx, off); err != nil {
		return nil, fmt.Errorf("error creating offering: %w", err)
	}

	s.catalogCache.Invalidate(cache.ResourceOfferings, institutionID)
	logger.Info().Int64("offeringId", off.ID).Int64("packId", packID).Msg("Offering created")

	return offeringResponse(off, 0), nil
}

// UpdateOffering updates an offering. Capacity can be raised freely but
// never lowered below current occupancy; the repository enforces the floor
// under a row lock.
func (s *offeringServiceImpl) UpdateOffering(ctx context.Context, institutionID, offeringID int64, req *dto.UpdateOfferingRequest) (*dto.OfferingResponse, error) {
	off, err := s.loadOffering(ctx, institutionID, offeringID)
	if err != nil {
		return nil, err
	}

	off.Name = req.Name
	off.Code = req.Code
	off.Description = req.Description
	off.MaxCapacity = req.MaxCapacity

	if err := s.offeringRepo.Update(ctx, off); err != nil {
		return nil, err
	}

	s.catalogCache.Invalidate(cache.ResourceOfferings, institutionID)

	occupancy, err := s.selectionRepo.Occupancy(ctx, off.ID)
	if err != nil {
		return nil, err
	}
	return offeringResponse(off, occupancy), nil
}

// DeleteOffering removes an offering that no selection references
func (s *offeringServiceImpl) DeleteOffering(ctx context.Context, institutionID, offeringID int64) error {
	if _, err := s.loadOffering(ctx, institutionID, offeringID); err != nil {
		return err
	}

	if err := s.offeringRepo.Delete(ctx, offeringID); err != nil {
		return err
	}

	s.catalogCache.Invalidate(cache.ResourceOfferings, institutionID)
	logger.Info().Int64("offeringId", offeringID).Msg("Offering deleted")

	return nil
}

func offeringResponse(off *models.Offering, occupancy int) *dto.OfferingResponse {
	return &dto.OfferingResponse{
		ID:          off.ID,
		PackID:      off.PackID,
		Kind:        string(off.Kind),
		Name:        off.Name,
		Code:        off.Code,
		Description: off.Description,
		MaxCapacity: off.MaxCapacity,
		Occupancy:   occupancy,
		Full:        occupancy >= off.MaxCapacity,
	}
}
