package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kutluay/electivehub/internal/app/models"
	"github.com/kutluay/electivehub/internal/app/models/dto"
	"github.com/kutluay/electivehub/internal/app/services"
	"github.com/kutluay/electivehub/internal/middleware"
	"github.com/kutluay/electivehub/internal/pkg/helpers"
)

// SelectionController handles the selection workflow: student submissions
// and staff review decisions.
type SelectionController struct {
	selectionService services.SelectionService
}

// NewSelectionController creates a new SelectionController
func NewSelectionController(selectionService services.SelectionService) *SelectionController {
	return &SelectionController{selectionService: selectionService}
}

// Submit submits or amends the caller's selection for a pack
// @Summary Submit selection
// @Description Submits or amends the caller's selection. Sent as multipart form data: repeated offeringIds fields plus an optional statement file.
// @Tags selections
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Pack ID"
// @Param offeringIds formData []int true "Chosen offering IDs" collectionFormat(multi)
// @Param statement formData file false "Optional supporting statement"
// @Success 200 {object} dto.APIResponse{data=dto.SelectionResponse} "Selection recorded"
// @Failure 400 {object} dto.ErrorResponse "Invalid selection count or malformed request"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Pack or offering not found"
// @Failure 409 {object} dto.ErrorResponse "Pack not open, deadline passed, offering full or selection locked"
// @Failure 503 {object} dto.ErrorResponse "Data store unavailable, safe to retry"
// @Router /packs/{id}/selection [post]
func (c *SelectionController) Submit(ctx *gin.Context) {
	packID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.SubmitSelectionRequest
	if err := ctx.ShouldBind(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid selection data")
		errorDetail = errorDetail.WithDetails(err.Error()).WithField("offeringIds")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	userID, institutionID, ok := callerIdentity(ctx)
	if !ok {
		return
	}

	// Statement is optional; only a present file is read.
	statement, err := ctx.FormFile("statement")
	if err != nil && err != http.ErrMissingFile {
		statement = nil
	}

	resp, err := c.selectionService.Submit(ctx, institutionID, userID, packID, &req, statement)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      resp,
		Timestamp: time.Now(),
	})
}

// GetOwn retrieves the caller's selection for a pack
// @Summary Get own selection
// @Description Retrieves the caller's selection for the pack, including chosen offerings and review status
// @Tags selections
// @Produce json
// @Security BearerAuth
// @Param id path int true "Pack ID"
// @Success 200 {object} dto.APIResponse{data=dto.SelectionResponse} "Selection retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Pack or selection not found"
// @Failure 503 {object} dto.ErrorResponse "Data store unavailable"
// @Router /packs/{id}/selection [get]
func (c *SelectionController) GetOwn(ctx *gin.Context) {
	packID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	userID, institutionID, ok := callerIdentity(ctx)
	if !ok {
		return
	}

	resp, err := c.selectionService.GetOwn(ctx, institutionID, userID, packID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      resp,
		Timestamp: time.Now(),
	})
}

// ListByPack lists a pack's selections for staff review
// @Summary List pack selections
// @Description Lists the pack's selections, optionally filtered by status
// @Tags selections
// @Produce json
// @Security BearerAuth
// @Param id path int true "Pack ID"
// @Param status query string false "Status filter" Enums(PENDING, APPROVED, REJECTED)
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(20)
// @Success 200 {object} dto.APIResponse{data=dto.SelectionListResponse} "Selections retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid status filter"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Staff role required"
// @Failure 404 {object} dto.ErrorResponse "Pack not found"
// @Failure 503 {object} dto.ErrorResponse "Data store unavailable"
// @Router /packs/{id}/selections [get]
func (c *SelectionController) ListByPack(ctx *gin.Context) {
	packID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	_, institutionID, ok := callerIdentity(ctx)
	if !ok {
		return
	}

	page, size := helpers.ParsePaginationParams(ctx)
	resp, err := c.selectionService.ListByPack(ctx, institutionID, packID, ctx.Query("status"), page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      resp,
		Timestamp: time.Now(),
	})
}

// Decide approves or rejects a pending selection
// @Summary Decide selection
// @Description Approves or rejects a pending selection. Repeating the same decision is a no-op; a different decision on a decided selection is rejected.
// @Tags selections
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Selection ID"
// @Param request body dto.DecisionRequest true "Decision"
// @Success 200 {object} dto.APIResponse{data=dto.SelectionResponse} "Decision recorded"
// @Failure 400 {object} dto.ErrorResponse "Invalid decision"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Staff role required"
// @Failure 404 {object} dto.ErrorResponse "Selection not found"
// @Failure 409 {object} dto.ErrorResponse "Selection already decided differently"
// @Failure 503 {object} dto.ErrorResponse "Data store unavailable"
// @Router /selections/{id}/decision [post]
func (c *SelectionController) Decide(ctx *gin.Context) {
	selectionID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.DecisionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid decision data")
		errorDetail = errorDetail.WithDetails(err.Error()).WithField("decision")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	_, institutionID, ok := callerIdentity(ctx)
	if !ok {
		return
	}

	resp, err := c.selectionService.Decide(ctx, institutionID, selectionID, models.SelectionStatus(req.Decision))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      resp,
		Timestamp: time.Now(),
	})
}

// Reopen returns a decided selection to PENDING
// @Summary Reopen selection
// @Description Returns a decided selection to PENDING for re-review. Reopening a rejected selection re-claims its seats and can fail if an offering filled up meanwhile.
// @Tags selections
// @Produce json
// @Security BearerAuth
// @Param id path int true "Selection ID"
// @Success 200 {object} dto.APIResponse{data=dto.SelectionResponse} "Selection reopened"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Staff role required"
// @Failure 404 {object} dto.ErrorResponse "Selection not found"
// @Failure 409 {object} dto.ErrorResponse "Offering filled up since rejection"
// @Failure 503 {object} dto.ErrorResponse "Data store unavailable"
// @Router /selections/{id}/reopen [post]
func (c *SelectionController) Reopen(ctx *gin.Context) {
	selectionID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	_, institutionID, ok := callerIdentity(ctx)
	if !ok {
		return
	}

	resp, err := c.selectionService.Reopen(ctx, institutionID, selectionID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      resp,
		Timestamp: time.Now(),
	})
}
