package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"time"

	"github.com/kutluay/electivehub/internal/app/models"
	"github.com/kutluay/electivehub/internal/app/models/dto"
	"github.com/kutluay/electivehub/internal/app/repositories"
	"github.com/kutluay/electivehub/internal/pkg/apperrors"
	"github.com/kutluay/electivehub/internal/pkg/cache"
	"github.com/kutluay/electivehub/internal/pkg/filestorage"
	"github.com/kutluay/electivehub/internal/pkg/helpers"
	"github.com/kutluay/electivehub/internal/pkg/logger"
)

// selectionStore is the slice of SelectionRepository the workflow needs.
// The Submit implementation owns the atomic capacity check; this layer
// only does the cheap gate checks that need no locks.
type selectionStore interface {
	Submit(ctx context.Context, params repositories.SubmitParams) (*models.Selection, error)
	Decide(ctx context.Context, selectionID int64, decision models.SelectionStatus) (*models.Selection, error)
	Reopen(ctx context.Context, selectionID int64) (*models.Selection, error)
	GetByID(ctx context.Context, id int64) (*models.Selection, error)
	GetByPackAndStudent(ctx context.Context, packID, studentID int64) (*models.Selection, error)
	ListByPack(ctx context.Context, packID int64, status *models.SelectionStatus, offset uint64, limit int) ([]*models.Selection, int64, error)
}

// selectionPackStore resolves packs for gate and tenancy checks.
type selectionPackStore interface {
	GetByID(ctx context.Context, id int64) (*models.Pack, error)
}

// SelectionService defines the interface for the selection workflow
type SelectionService interface {
	Submit(ctx context.Context, institutionID, studentID, packID int64, req *dto.SubmitSelectionRequest, statement *multipart.FileHeader) (*dto.SelectionResponse, error)
	GetOwn(ctx context.Context, institutionID, studentID, packID int64) (*dto.SelectionResponse, error)
	ListByPack(ctx context.Context, institutionID, packID int64, statusFilter string, page, pageSize int) (*dto.SelectionListResponse, error)
	Decide(ctx context.Context, institutionID, selectionID int64, decision models.SelectionStatus) (*dto.SelectionResponse, error)
	Reopen(ctx context.Context, institutionID, selectionID int64) (*dto.SelectionResponse, error)
}

// selectionServiceImpl implements SelectionService
type selectionServiceImpl struct {
	selectionRepo selectionStore
	packRepo      selectionPackStore
	storage       filestorage.DocumentStorage
	catalogCache  *cache.Store
	now           func() time.Time
}

// NewSelectionService creates a new SelectionService
func NewSelectionService(
	selectionRepo selectionStore,
	packRepo selectionPackStore,
	storage filestorage.DocumentStorage,
	catalogCache *cache.Store,
) SelectionService {
	return &selectionServiceImpl{
		selectionRepo: selectionRepo,
		packRepo:      packRepo,
		storage:       storage,
		catalogCache:  catalogCache,
		now:           time.Now,
	}
}

// loadPack enforces the tenant boundary; foreign packs read as not found.
func (s *selectionServiceImpl) loadPack(ctx context.Context, institutionID, packID int64) (*models.Pack, error) {
	pack, err := s.packRepo.GetByID(ctx, packID)
	if err != nil {
		return nil, err
	}
	if pack.InstitutionID != institutionID {
		return nil, apperrors.ErrPackNotFound
	}
	return pack, nil
}

// Submit records or amends the student's selection for a pack. The gate
// checks here (pack open, deadline, selection count) need no locks; the
// capacity check and the write happen atomically in the repository. The
// deadline is judged against server time only.
func (s *selectionServiceImpl) Submit(ctx context.Context, institutionID, studentID, packID int64, req *dto.SubmitSelectionRequest, statement *multipart.FileHeader) (*dto.SelectionResponse, error) {
	pack, err := s.loadPack(ctx, institutionID, packID)
	if err != nil {
		return nil, err
	}
	if pack.Status == models.PackStatusDraft {
		return nil, apperrors.ErrPackNotFound
	}

	if pack.Status != models.PackStatusPublished {
		return nil, apperrors.ErrPackNotOpen
	}
	if !s.now().Before(pack.Deadline) {
		return nil, apperrors.ErrDeadlinePassed
	}

	chosen := uniqueIDs(req.OfferingIDs)
	if len(chosen) < 1 || len(chosen) > pack.MaxSelections {
		return nil, apperrors.NewCustomError(apperrors.ErrSelectionCountInvalid,
			fmt.Sprintf("pack allows between 1 and %d offerings, got %d", pack.MaxSelections, len(chosen)))
	}

	var statementURL *string
	if statement != nil {
		url, err := s.storage.SaveFile(statement, "statements")
		if err != nil {
			return nil, fmt.Errorf("error saving statement: %w", err)
		}
		statementURL = &url
	}

	sel, err := s.selectionRepo.Submit(ctx, repositories.SubmitParams{
		PackID:       packID,
		StudentID:    studentID,
		OfferingIDs:  chosen,
		StatementURL: statementURL,
	})
	if err != nil {
		if statementURL != nil {
			if delErr := s.storage.DeleteFile(*statementURL); delErr != nil {
				logger.Warn().Err(delErr).Str("url", *statementURL).Msg("Failed to remove orphaned statement")
			}
		}
		return nil, err
	}

	s.catalogCache.Invalidate(cache.ResourceOfferings, institutionID)
	logger.Info().
		Int64("packId", packID).
		Int64("studentId", studentID).
		Ints64("offeringIds", sel.OfferingIDs).
		Msg("Selection submitted")

	resp := dto.FromSelection(sel)
	return &resp, nil
}

// GetOwn retrieves the student's selection for a pack
func (s *selectionServiceImpl) GetOwn(ctx context.Context, institutionID, studentID, packID int64) (*dto.SelectionResponse, error) {
	pack, err := s.loadPack(ctx, institutionID, packID)
	if err != nil {
		return nil, err
	}
	if pack.Status == models.PackStatusDraft {
		return nil, apperrors.ErrPackNotFound
	}

	sel, err := s.selectionRepo.GetByPackAndStudent(ctx, packID, studentID)
	if err != nil {
		return nil, err
	}

	resp := dto.FromSelection(sel)
	return &resp, nil
}

// ListByPack retrieves a pack's selections for staff review
func (s *selectionServiceImpl) ListByPack(ctx context.Context, institutionID, packID int64, statusFilter string, page, pageSize int) (*dto.SelectionListResponse, error) {
	if _, err := s.loadPack(ctx, institutionID, packID); err != nil {
		return nil, err
	}

	var status *models.SelectionStatus
	if statusFilter != "" {
		parsed, err := parseSelectionStatus(statusFilter)
		if err != nil {
			return nil, err
		}
		status = &parsed
	}

	offset, limit := helpers.CalculateOffsetLimit(page, pageSize)
	selections, total, err := s.selectionRepo.ListByPack(ctx, packID, status, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("error listing selections: %w", err)
	}

	resp := &dto.SelectionListResponse{
		Selections: make([]dto.SelectionResponse, 0, len(selections)),
		Pagination: helpers.NewPaginationInfo(total, page, limit),
	}
	for _, sel := range selections {
		resp.Selections = append(resp.Selections, dto.FromSelection(sel))
	}
	return resp, nil
}

// Decide applies a staff decision to a pending selection. Repeating the
// same decision is idempotent; a different decision on a decided selection
// fails. Approval consumes no extra capacity: the pending selection already
// held its seats, so no capacity check happens here.
func (s *selectionServiceImpl) Decide(ctx context.Context, institutionID, selectionID int64, decision models.SelectionStatus) (*dto.SelectionResponse, error) {
	if decision != models.SelectionStatusApproved && decision != models.SelectionStatusRejected {
		return nil, apperrors.ErrBadRequest
	}

	if err := s.checkSelectionTenancy(ctx, institutionID, selectionID); err != nil {
		return nil, err
	}

	sel, err := s.selectionRepo.Decide(ctx, selectionID, decision)
	if err != nil {
		return nil, err
	}

	// A rejection releases the claimed seats, so cached occupancy is stale.
	s.catalogCache.Invalidate(cache.ResourceOfferings, institutionID)
	logger.Info().Int64("selectionId", selectionID).Str("decision", string(decision)).Msg("Selection decided")

	resp := dto.FromSelection(sel)
	return &resp, nil
}

// Reopen returns a decided selection to PENDING for re-review. Reopening a
// rejected selection re-claims its seats and can fail with OfferingFull if
// someone else took them in the meantime.
func (s *selectionServiceImpl) Reopen(ctx context.Context, institutionID, selectionID int64) (*dto.SelectionResponse, error) {
	if err := s.checkSelectionTenancy(ctx, institutionID, selectionID); err != nil {
		return nil, err
	}

	sel, err := s.selectionRepo.Reopen(ctx, selectionID)
	if err != nil {
		return nil, err
	}

	s.catalogCache.Invalidate(cache.ResourceOfferings, institutionID)
	logger.Info().Int64("selectionId", selectionID).Msg("Selection reopened")

	resp := dto.FromSelection(sel)
	return &resp, nil
}

func (s *selectionServiceImpl) checkSelectionTenancy(ctx context.Context, institutionID, selectionID int64) error {
	sel, err := s.selectionRepo.GetByID(ctx, selectionID)
	if err != nil {
		return err
	}
	if _, err := s.loadPack(ctx, institutionID, sel.PackID); err != nil {
		return apperrors.ErrSelectionNotFound
	}
	return nil
}

func parseSelectionStatus(raw string) (models.SelectionStatus, error) {
	switch models.SelectionStatus(raw) {
	case models.SelectionStatusPending, models.SelectionStatusApproved, models.SelectionStatusRejected:
		return models.SelectionStatus(raw), nil
	}
	return "", apperrors.NewCustomError(apperrors.ErrValidationFailed,
		"status must be one of PENDING, APPROVED, REJECTED")
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	var out []int64
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
