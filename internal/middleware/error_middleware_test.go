package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kutluay/electivehub/internal/app/models/dto"
	"github.com/kutluay/electivehub/internal/pkg/apperrors"
)

func callHandler(t *testing.T, err error) (int, *dto.ErrorResponse) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/packs/1/selection", nil)

	HandleAPIError(c, err)

	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, &body
}

func TestHandleAPIErrorSelectionTaxonomy(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   dto.ErrorCode
	}{
		{"pack not open", apperrors.ErrPackNotOpen, http.StatusConflict, dto.ErrorCodePackNotOpen},
		{"deadline passed", apperrors.ErrDeadlinePassed, http.StatusConflict, dto.ErrorCodeDeadlinePassed},
		{"selection count invalid", apperrors.ErrSelectionCountInvalid, http.StatusBadRequest, dto.ErrorCodeSelectionCountInvalid},
		{"unknown offering", apperrors.ErrUnknownOffering, http.StatusNotFound, dto.ErrorCodeUnknownOffering},
		{"offering full", apperrors.ErrOfferingFull, http.StatusConflict, dto.ErrorCodeOfferingFull},
		{"selection locked", apperrors.ErrSelectionLocked, http.StatusConflict, dto.ErrorCodeSelectionLocked},
		{"conflicting decision", apperrors.ErrConflictingDecision, http.StatusConflict, dto.ErrorCodeConflictingDecision},
		{"invalid transition", apperrors.ErrInvalidPackTransition, http.StatusConflict, dto.ErrorCodeInvalidTransition},
		{"capacity floor", apperrors.ErrCapacityBelowOccupancy, http.StatusConflict, dto.ErrorCodeCapacityBelowOccupancy},
		{"offering referenced", apperrors.ErrOfferingHasSelections, http.StatusConflict, dto.ErrorCodeOfferingReferenced},
		{"pack not found", apperrors.ErrPackNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{"selection not found", apperrors.ErrSelectionNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := callHandler(t, tt.err)
			assert.Equal(t, tt.wantStatus, status)
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.wantCode, body.Error.Code)
			assert.False(t, body.Error.Retryable)
		})
	}
}

func TestHandleAPIErrorOnlyDataUnavailableIsRetryable(t *testing.T) {
	status, body := callHandler(t, apperrors.ErrDataUnavailable)
	assert.Equal(t, http.StatusServiceUnavailable, status)
	require.NotNil(t, body.Error)
	assert.Equal(t, dto.ErrorCodeDataUnavailable, body.Error.Code)
	assert.True(t, body.Error.Retryable)
	assert.Equal(t, dto.ErrorSeverityCritical, body.Error.Severity)
}

func TestHandleAPIErrorOfferingFullCarriesDetails(t *testing.T) {
	status, body := callHandler(t, apperrors.NewOfferingFullError(3, "Robotics"))
	assert.Equal(t, http.StatusConflict, status)
	require.NotNil(t, body.Error)

	details, ok := body.Error.Details.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Robotics", details["offeringName"])
}

func TestHandleAPIErrorWrappedErrorsStillMatch(t *testing.T) {
	wrapped := apperrors.NewCustomError(apperrors.ErrPackNotOpen, "pack closed last week")
	status, body := callHandler(t, wrapped)
	assert.Equal(t, http.StatusConflict, status)
	require.NotNil(t, body.Error)
	assert.Equal(t, "pack closed last week", body.Error.Message)
}

func TestHandleAPIErrorUnknownFallsBackTo500(t *testing.T) {
	status, body := callHandler(t, assert.AnError)
	assert.Equal(t, http.StatusInternalServerError, status)
	require.NotNil(t, body.Error)
	assert.Equal(t, dto.ErrorCodeInternalServer, body.Error.Code)
}
