package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kutluay/electivehub/internal/app/models"
	"github.com/kutluay/electivehub/internal/app/models/dto"
	"github.com/kutluay/electivehub/internal/app/services"
	"github.com/kutluay/electivehub/internal/middleware"
	"github.com/kutluay/electivehub/internal/pkg/helpers"
)

// PackController handles elective pack operations
type PackController struct {
	packService services.PackService
}

// NewPackController creates a new PackController
func NewPackController(packService services.PackService) *PackController {
	return &PackController{packService: packService}
}

func parseIDParam(ctx *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id < 1 {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid "+name)
		errorDetail = errorDetail.WithDetails(name + " must be a positive number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return id, true
}

func callerIdentity(ctx *gin.Context) (userID, institutionID int64, ok bool) {
	userID, uok := middleware.GetUserID(ctx)
	institutionID, iok := middleware.GetInstitutionID(ctx)
	if !uok || !iok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return 0, 0, false
	}
	return userID, institutionID, true
}

// ListPacks lists the caller's institution packs
// @Summary List packs
// @Description Lists the packs of the caller's institution. Draft packs are visible to staff only.
// @Tags packs
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(20)
// @Success 200 {object} dto.APIResponse{data=dto.PackListResponse} "Packs retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 503 {object} dto.ErrorResponse "Data store unavailable"
// @Router /packs [get]
func (c *PackController) ListPacks(ctx *gin.Context) {
	_, institutionID, ok := callerIdentity(ctx)
	if !ok {
		return
	}

	page, size := helpers.ParsePaginationParams(ctx)
	resp, err := c.packService.ListPacks(ctx, institutionID, middleware.IsStaff(ctx), page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      resp,
		Timestamp: time.Now(),
	})
}

// GetPack retrieves one pack
// @Summary Get pack
// @Description Retrieves a pack of the caller's institution with its offerings and live occupancy
// @Tags packs
// @Produce json
// @Security BearerAuth
// @Param id path int true "Pack ID"
// @Success 200 {object} dto.APIResponse{data=dto.PackResponse} "Pack retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Pack not found"
// @Failure 503 {object} dto.ErrorResponse "Data store unavailable"
// @Router /packs/{id} [get]
func (c *PackController) GetPack(ctx *gin.Context) {
	packID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	_, institutionID, ok := callerIdentity(ctx)
	if !ok {
		return
	}

	resp, err := c.packService.GetPack(ctx, institutionID, packID, middleware.IsStaff(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      resp,
		Timestamp: time.Now(),
	})
}

// GetCatalog retrieves a pack's offerings with occupancy
// @Summary Get offering catalog
// @Description Retrieves the pack's offerings with live occupancy and full flags
// @Tags packs
// @Produce json
// @Security BearerAuth
// @Param id path int true "Pack ID"
// @Success 200 {object} dto.APIResponse{data=dto.CatalogResponse} "Catalog retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Pack not found"
// @Failure 503 {object} dto.ErrorResponse "Data store unavailable"
// @Router /packs/{id}/offerings [get]
func (c *PackController) GetCatalog(ctx *gin.Context) {
	packID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	_, institutionID, ok := callerIdentity(ctx)
	if !ok {
		return
	}

	resp, err := c.packService.GetCatalog(ctx, institutionID, packID, middleware.IsStaff(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      resp,
		Timestamp: time.Now(),
	})
}

// CreatePack creates a pack in DRAFT status
// @Summary Create pack
// @Description Creates a new elective pack in DRAFT status
// @Tags packs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreatePackRequest true "Pack information"
// @Success 201 {object} dto.APIResponse{data=dto.PackResponse} "Pack created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Staff role required"
// @Failure 503 {object} dto.ErrorResponse "Data store unavailable"
// @Router /packs [post]
func (c *PackController) CreatePack(ctx *gin.Context) {
	var req dto.CreatePackRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid pack data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	_, institutionID, ok := callerIdentity(ctx)
	if !ok {
		return
	}

	resp, err := c.packService.CreatePack(ctx, institutionID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      resp,
		Timestamp: time.Now(),
	})
}

// UpdatePack updates a pack's attributes
// @Summary Update pack
// @Description Updates a pack's name, selection bound and deadline
// @Tags packs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Pack ID"
// @Param request body dto.UpdatePackRequest true "Updated pack information"
// @Success 200 {object} dto.APIResponse{data=dto.PackResponse} "Pack updated successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Staff role required"
// @Failure 404 {object} dto.ErrorResponse "Pack not found"
// @Failure 503 {object} dto.ErrorResponse "Data store unavailable"
// @Router /packs/{id} [put]
func (c *PackController) UpdatePack(ctx *gin.Context) {
	packID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdatePackRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid pack data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	_, institutionID, ok := callerIdentity(ctx)
	if !ok {
		return
	}

	resp, err := c.packService.UpdatePack(ctx, institutionID, packID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      resp,
		Timestamp: time.Now(),
	})
}

// TransitionPack moves a pack along its lifecycle
// @Summary Transition pack status
// @Description Moves a pack along its lifecycle (DRAFT to PUBLISHED, PUBLISHED to CLOSED, CLOSED to PUBLISHED or ARCHIVED)
// @Tags packs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Pack ID"
// @Param request body dto.PackTransitionRequest true "Target status"
// @Success 200 {object} dto.APIResponse{data=dto.PackResponse} "Pack transitioned successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Staff role required"
// @Failure 404 {object} dto.ErrorResponse "Pack not found"
// @Failure 409 {object} dto.ErrorResponse "Invalid lifecycle transition"
// @Failure 503 {object} dto.ErrorResponse "Data store unavailable"
// @Router /packs/{id}/status [post]
func (c *PackController) TransitionPack(ctx *gin.Context) {
	packID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.PackTransitionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid transition data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	_, institutionID, ok := callerIdentity(ctx)
	if !ok {
		return
	}

	resp, err := c.packService.TransitionPack(ctx, institutionID, packID, models.PackStatus(req.Status))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      resp,
		Timestamp: time.Now(),
	})
}
