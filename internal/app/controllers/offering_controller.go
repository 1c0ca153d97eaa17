package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kutluay/electivehub/internal/app/models/dto"
	"github.com/kutluay/electivehub/internal/app/services"
	"github.com/kutluay/electivehub/internal/middleware"
)

// OfferingController handles staff management of pack offerings
type OfferingController struct {
	offeringService services.OfferingService
}

// NewOfferingController creates a new OfferingController
func NewOfferingController(offeringService services.OfferingService) *OfferingController {
	return &OfferingController{offeringService: offeringService}
}

// CreateOffering adds an offering to a pack
// @Summary Create offering
// @Description Adds a capacity-limited offering to a pack
// @Tags offerings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Pack ID"
// @Param request body dto.CreateOfferingRequest true "Offering information"
// @Success 201 {object} dto.APIResponse{data=dto.OfferingResponse} "Offering created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Staff role required"
// @Failure 404 {object} dto.ErrorResponse "Pack not found"
// @Failure 503 {object} dto.ErrorResponse "Data store unavailable"
// @Router /packs/{id}/offerings [post]
func (c *OfferingController) CreateOffering(ctx *gin.Context) {
	packID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.CreateOfferingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid offering data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	_, institutionID, ok := callerIdentity(ctx)
	if !ok {
		return
	}

	resp, err := c.offeringService.CreateOffering(ctx, institutionID, packID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      resp,
		Timestamp: time.Now(),
	})
}

// UpdateOffering updates an offering
// @Summary Update offering
// @Description Updates an offering. Capacity can never be lowered below current occupancy.
// @Tags offerings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Offering ID"
// @Param request body dto.UpdateOfferingRequest true "Updated offering information"
// @Success 200 {object} dto.APIResponse{data=dto.OfferingResponse} "Offering updated successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Staff role required"
// @Failure 404 {object} dto.ErrorResponse "Offering not found"
// @Failure 409 {object} dto.ErrorResponse "Capacity below current occupancy"
// @Failure 503 {object} dto.ErrorResponse "Data store unavailable"
// @Router /offerings/{id} [put]
func (c *OfferingController) UpdateOffering(ctx *gin.Context) {
	offeringID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateOfferingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid offering data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	_, institutionID, ok := callerIdentity(ctx)
	if !ok {
		return
	}

	resp, err := c.offeringService.UpdateOffering(ctx, institutionID, offeringID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      resp,
		Timestamp: time.Now(),
	})
}

// DeleteOffering removes an unreferenced offering
// @Summary Delete offering
// @Description Deletes an offering that no selection references
// @Tags offerings
// @Produce json
// @Security BearerAuth
// @Param id path int true "Offering ID"
// @Success 204 "Offering deleted successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Staff role required"
// @Failure 404 {object} dto.ErrorResponse "Offering not found"
// @Failure 409 {object} dto.ErrorResponse "Offering is referenced by selections"
// @Failure 503 {object} dto.ErrorResponse "Data store unavailable"
// @Router /offerings/{id} [delete]
func (c *OfferingController) DeleteOffering(ctx *gin.Context) {
	offeringID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	_, institutionID, ok := callerIdentity(ctx)
	if !ok {
		return
	}

	if err := c.offeringService.DeleteOffering(ctx, institutionID, offeringID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}
