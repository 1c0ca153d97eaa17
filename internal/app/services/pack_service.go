package services

import (
	"context"
	"fmt"
	"time"

	"github.com/kutluay/electivehub/internal/app/models"
	"github.com/kutluay/electivehub/internal/app/models/dto"
	"github.com/kutluay/electivehub/internal/pkg/apperrors"
	"github.com/kutluay/electivehub/internal/pkg/cache"
	"github.com/kutluay/electivehub/internal/pkg/helpers"
	"github.com/kutluay/electivehub/internal/pkg/logger"
)

// packStore is the slice of PackRepository the pack workflow needs.
type packStore interface {
	GetByID(ctx context.Context, id int64) (*models.Pack, error)
	ListByInstitution(ctx context.Context, institutionID int64, includeDrafts bool, offset uint64, limit int) ([]*models.Pack, int64, error)
	Create(ctx context.Context, pack *models.Pack) error
	Update(ctx context.Context, pack *models.Pack) error
	Transition(ctx context.Context, packID int64, target models.PackStatus) (*models.Pack, error)
}

// catalogStore is the slice of OfferingRepository catalog browsing needs.
type catalogStore interface {
	ListWithOccupancy(ctx context.Context, packID int64) ([]*models.OfferingWithOccupancy, error)
}

// PackService defines the interface for pack operations
type PackService interface {
	ListPacks(ctx context.Context, institutionID int64, includeDrafts bool, page, pageSize int) (*dto.PackListResponse, error)
	GetPack(ctx context.Context, institutionID, packID int64, includeDrafts bool) (*dto.PackResponse, error)
	GetCatalog(ctx context.Context, institutionID, packID int64, includeDrafts bool) (*dto.CatalogResponse, error)
	CreatePack(ctx context.Context, institutionID int64, req *dto.CreatePackRequest) (*dto.PackResponse, error)
	UpdatePack(ctx context.Context, institutionID, packID int64, req *dto.UpdatePackRequest) (*dto.PackResponse, error)
	TransitionPack(ctx context.Context, institutionID, packID int64, target models.PackStatus) (*dto.PackResponse, error)
}

// packServiceImpl implements PackService
type packServiceImpl struct {
	packRepo     packStore
	offeringRepo catalogStore
	catalogCache *cache.Store
	now          func() time.Time
}

// NewPackService creates a new PackService
func NewPackService(packRepo packStore, offeringRepo catalogStore, catalogCache *cache.Store) PackService {
	return &packServiceImpl{
		packRepo:     packRepo,
		offeringRepo: offeringRepo,
		catalogCache: catalogCache,
		now:          time.Now,
	}
}

// loadPack fetches a pack and enforces the tenant boundary. Packs from
// another institution read as not found, never as forbidden, so their
// existence is not leaked.
func (s *packServiceImpl) loadPack(ctx context.Context, institutionID, packID int64, includeDrafts bool) (*models.Pack, error) {
	pack, err := s.packRepo.GetByID(ctx, packID)
	if err != nil {
		return nil, err
	}
	if pack.InstitutionID != institutionID {
		return nil, apperrors.ErrPackNotFound
	}
	if pack.Status == models.PackStatusDraft && !includeDrafts {
		return nil, apperrors.ErrPackNotFound
	}
	return pack, nil
}

// ListPacks retrieves the institution's packs. Students never see drafts.
func (s *packServiceImpl) ListPacks(ctx context.Context, institutionID int64, includeDrafts bool, page, pageSize int) (*dto.PackListResponse, error) {
	offset, limit := helpers.CalculateOffsetLimit(page, pageSize)

	packs, total, err := s.packRepo.ListByInstitution(ctx, institutionID, includeDrafts, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("error listing packs: %w", err)
	}

	now := s.now()
	resp := &dto.PackListResponse{
		Packs:      make([]dto.PackResponse, 0, len(packs)),
		Pagination: helpers.NewPaginationInfo(total, page, limit),
	}
	for _, pack := range packs {
		resp.Packs = append(resp.Packs, dto.FromPack(pack, now))
	}
	return resp, nil
}

// GetPack retrieves one pack with its offerings and their live occupancy
func (s *packServiceImpl) GetPack(ctx context.Context, institutionID, packID int64, includeDrafts bool) (*dto.PackResponse, error) {
	catalog, err := s.GetCatalog(ctx, institutionID, packID, includeDrafts)
	if err != nil {
		return nil, err
	}
	resp := catalog.Pack
	resp.Offerings = catalog.Offerings
	return &resp, nil
}

// GetCatalog retrieves a pack's offerings with live occupancy and full
// flags. Responses are served from the display cache when fresh; the cache
// is never consulted on the admission path.
func (s *packServiceImpl) GetCatalog(ctx context.Context, institutionID, packID int64, includeDrafts bool) (*dto.CatalogResponse, error) {
	pack, err := s.loadPack(ctx, institutionID, packID, includeDrafts)
	if err != nil {
		return nil, err
	}

	if cached, ok := s.catalogCache.Get(cache.ResourceOfferings, institutionID); ok {
		if byPack, ok := cached.(map[int64][]dto.OfferingResponse); ok {
			if offerings, ok := byPack[packID]; ok {
				return &dto.CatalogResponse{
					Pack:      dto.FromPack(pack, s.now()),
					Offerings: offerings,
				}, nil
			}
		}
	}

	withOccupancy, err := s.offeringRepo.ListWithOccupancy(ctx, packID)
	if err != nil {
		return nil, fmt.Errorf("error listing offerings: %w", err)
	}

	offerings := make([]dto.OfferingResponse, 0, len(withOccupancy))
	for _, o := range withOccupancy {
		offerings = append(offerings, dto.FromOfferingWithOccupancy(o))
	}

	s.cacheCatalog(institutionID, packID, offerings)

	return &dto.CatalogResponse{
		Pack:      dto.FromPack(pack, s.now()),
		Offerings: offerings,
	}, nil
}

func (s *packServiceImpl) cacheCatalog(institutionID, packID int64, offerings []dto.OfferingResponse) {
	byPack := map[int64][]dto.OfferingResponse{}
	if cached, ok := s.catalogCache.Get(cache.ResourceOfferings, institutionID); ok {
		if existing, ok := cached.(map[int64][]dto.OfferingResponse); ok {
			for k, v := range existing {
				byPack[k] = v
			}
		}
	}
	byPack[packID] = offerings
	s.catalogCache.Set(cache.ResourceOfferings, institutionID, byPack)
}

// CreatePack creates a pack in DRAFT status
func (s *packServiceImpl) CreatePack(ctx context.Context, institutionID int64, req *dto.CreatePackRequest) (*dto.PackResponse, error) {
	pack := &models.Pack{
		InstitutionID: institutionID,
		Name:          req.Name,
		Kind:          models.PackKind(req.Kind),
		MaxSelections: req.MaxSelections,
		Deadline:      req.Deadline,
	}

	if err := s.packRepo.Create(ctx, pack); err != nil {
		return nil, fmt.Errorf("error creating pack: %w", err)
	}

	s.catalogCache.InvalidateInstitution(institutionID)
	logger.Info().Int64("packId", pack.ID).Int64("institutionId", institutionID).Msg("Pack created")

	resp := dto.FromPack(pack, s.now())
	return &resp, nil
}

// UpdatePack updates a pack's name, selection bound and deadline
func (s *packServiceImpl) UpdatePack(ctx context.Context, institutionID, packID int64, req *dto.UpdatePackRequest) (*dto.PackResponse, error) {
	pack, err := s.loadPack(ctx, institutionID, packID, true)
	if err != nil {
		return nil, err
	}

	pack.Name = req.Name
	pack.MaxSelections = req.MaxSelections
	pack.Deadline = req.Deadline

	if err := s.packRepo.Update(ctx, pack); err != nil {
		return nil, fmt.Errorf("error updating pack: %w", err)
	}

	s.catalogCache.InvalidateInstitution(institutionID)

	resp := dto.FromPack(pack, s.now())
	return &resp, nil
}

// TransitionPack moves a pack along its lifecycle. Closing never touches
// existing selections; reopening makes the pack accept submissions again
// if the deadline still allows.
func (s *packServiceImpl) TransitionPack(ctx context.Context, institutionID, packID int64, target models.PackStatus) (*dto.PackResponse, error) {
	if _, err := s.loadPack(ctx, institutionID, packID, true); err != nil {
		return nil, err
	}

	pack, err := s.packRepo.Transition(ctx, packID, target)
	if err != nil {
		return nil, err
	}

	s.catalogCache.InvalidateInstitution(institutionID)
	logger.Info().Int64("packId", packID).Str("status", string(pack.Status)).Msg("Pack transitioned")

	resp := dto.FromPack(pack, s.now())
	return &resp, nil
}
