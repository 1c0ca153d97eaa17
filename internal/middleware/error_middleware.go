package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kutluay/electivehub/internal/app/models/dto"
	"github.com/kutluay/electivehub/internal/pkg/apperrors"
	"github.com/kutluay/electivehub/internal/pkg/logger"
)

// HandleAPIError maps workflow errors to HTTP responses. The mapping is
// the contract clients build retry behavior on: only DataUnavailable is
// marked retryable, every other failure needs corrected input or a later
// selection window.
func HandleAPIError(c *gin.Context, err error) {
	var custom *apperrors.CustomError
	message := func(fallback string) string {
		if errors.As(err, &custom) && custom.Message != "" {
			return custom.Message
		}
		return fallback
	}
	details := func() interface{} {
		if errors.As(err, &custom) {
			return custom.Details
		}
		return nil
	}

	switch {
	case errors.Is(err, apperrors.ErrPackNotOpen):
		respond(c, http.StatusConflict, dto.ErrorCodePackNotOpen, message("Pack is not open for selection"), nil)

	case errors.Is(err, apperrors.ErrDeadlinePassed):
		respond(c, http.StatusConflict, dto.ErrorCodeDeadlinePassed, message("Selection deadline has passed"), nil)

	case errors.Is(err, apperrors.ErrSelectionCountInvalid):
		detail := dto.NewErrorDetail(dto.ErrorCodeSelectionCountInvalid, message("Invalid number of chosen offerings"))
		detail = detail.WithField("offeringIds")
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(detail))

	case errors.Is(err, apperrors.ErrUnknownOffering):
		respond(c, http.StatusNotFound, dto.ErrorCodeUnknownOffering, message("Offering does not belong to this pack"), nil)

	case errors.Is(err, apperrors.ErrOfferingFull):
		respond(c, http.StatusConflict, dto.ErrorCodeOfferingFull, message("Offering has no remaining capacity"), details())

	case errors.Is(err, apperrors.ErrSelectionLocked):
		respond(c, http.StatusConflict, dto.ErrorCodeSelectionLocked, message("Selection has already been decided"), nil)

	case errors.Is(err, apperrors.ErrConflictingDecision):
		respond(c, http.StatusConflict, dto.ErrorCodeConflictingDecision, message("Selection was already decided differently"), nil)

	case errors.Is(err, apperrors.ErrDataUnavailable):
		logger.Error().Err(err).Msg("Data store unavailable")
		detail := dto.NewErrorDetail(dto.ErrorCodeDataUnavailable, "Service temporarily unavailable, please retry")
		detail = detail.WithRetryable().WithSeverity(dto.ErrorSeverityCritical)
		c.JSON(http.StatusServiceUnavailable, dto.NewErrorResponse(detail))

	case errors.Is(err, apperrors.ErrInvalidPackTransition):
		respond(c, http.StatusConflict, dto.ErrorCodeInvalidTransition, message("Invalid pack status transition"), nil)

	case errors.Is(err, apperrors.ErrCapacityBelowOccupancy):
		respond(c, http.StatusConflict, dto.ErrorCodeCapacityBelowOccupancy, message("Capacity cannot be lowered below current occupancy"), nil)

	case errors.Is(err, apperrors.ErrOfferingHasSelections):
		respond(c, http.StatusConflict, dto.ErrorCodeOfferingReferenced, message("Offering is referenced by selections"), nil)

	case apperrors.IsNotFound(err):
		respond(c, http.StatusNotFound, dto.ErrorCodeResourceNotFound, message("Resource not found"), nil)

	case errors.Is(err, apperrors.ErrPermissionDenied):
		respond(c, http.StatusForbidden, dto.ErrorCodeForbidden, "Permission denied", nil)

	case errors.Is(err, apperrors.ErrInvalidCredentials):
		respond(c, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, "Invalid credentials", nil)

	case errors.Is(err, apperrors.ErrTokenExpired):
		respond(c, http.StatusUnauthorized, dto.ErrorCodeExpiredToken, "Token expired", nil)

	case errors.Is(err, apperrors.ErrTokenInvalid), errors.Is(err, apperrors.ErrTokenRevoked):
		respond(c, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Invalid token", nil)

	case errors.Is(err, apperrors.ErrValidationFailed), errors.Is(err, apperrors.ErrBadRequest):
		respond(c, http.StatusBadRequest, dto.ErrorCodeValidationFailed, message("Validation failed"), nil)

	case errors.Is(err, apperrors.ErrEmailAlreadyExists):
		respond(c, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Email already exists", nil)

	case errors.Is(err, apperrors.ErrConflict):
		respond(c, http.StatusConflict, dto.ErrorCodeConflict, message("Conflict"), nil)

	default:
		logger.Error().Err(err).Str("path", c.FullPath()).Msg("Unhandled error")
		respond(c, http.StatusInternalServerError, dto.ErrorCodeInternalServer, "Internal server error", nil)
	}
}

func respond(c *gin.Context, status int, code dto.ErrorCode, message string, details interface{}) {
	detail := dto.NewErrorDetail(code, message)
	if details != nil {
		detail = detail.WithDetails(details)
	}
	c.JSON(status, dto.NewErrorResponse(detail))
}
