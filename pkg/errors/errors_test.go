package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSetsHTTPStatus(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want int
	}{
		{CodeValidationFailed, http.StatusBadRequest},
		{CodeInvalidParam, http.StatusBadRequest},
		{CodeUnauthorized, http.StatusUnauthorized},
		{CodeTokenExpired, http.StatusUnauthorized},
		{CodeForbidden, http.StatusForbidden},
		{CodeCampaignNotFound, http.StatusNotFound},
		{CodeConflict, http.StatusConflict},
		{CodeTooManyRequests, http.StatusTooManyRequests},
		{CodeServiceUnavailable, http.StatusServiceUnavailable},
		{CodeLLMProviderError, http.StatusServiceUnavailable},
		{CodeNotImplemented, http.StatusNotImplemented},
		{CodeDatabaseError, http.StatusInternalServerError},
		{CodeUnknown, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, New(tt.code, "msg").HTTPStatus, "code %s", tt.code)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := Wrap(cause, CodeDatabaseError, "query failed")

	assert.Equal(t, CodeDatabaseError, err.Code)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "query failed")
	assert.Contains(t, err.Error(), "connection refused")
}

func TestWithDetailClones(t *testing.T) {
	base := ErrValidationFailed
	detailed := base.WithDetail("prompt is required")

	assert.Equal(t, "prompt is required", detailed.Detail)
	// 预定义错误不被原地修改
	assert.Empty(t, base.Detail)
	assert.Equal(t, base.Code, detailed.Code)
	assert.Equal(t, base.HTTPStatus, detailed.HTTPStatus)
}

func TestWithErrorClones(t *testing.T) {
	cause := errors.New("boom")
	wrapped := ErrServiceUnavailable.WithError(cause)

	assert.ErrorIs(t, wrapped, cause)
	assert.Nil(t, ErrServiceUnavailable.Err)
}

func TestAsAppError(t *testing.T) {
	appErr := AsAppError(ErrCampaignNotFound)
	require.NotNil(t, appErr)
	assert.Equal(t, CodeCampaignNotFound, appErr.Code)

	// AppError 在包装链深处也能取出
	nested := fmt.Errorf("handler: %w", ErrValidationFailed.WithDetail("bad input"))
	appErr = AsAppError(nested)
	assert.Equal(t, CodeValidationFailed, appErr.Code)

	// 普通错误归为 unknown
	appErr = AsAppError(errors.New("plain"))
	assert.Equal(t, CodeUnknown, appErr.Code)
	assert.Equal(t, http.StatusInternalServerError, appErr.HTTPStatus)
}

func TestIsCode(t *testing.T) {
	assert.True(t, IsCode(ErrServiceUnavailable, CodeServiceUnavailable))
	assert.True(t, IsCode(fmt.Errorf("wrap: %w", ErrServiceUnavailable), CodeServiceUnavailable))
	assert.False(t, IsCode(ErrServiceUnavailable, CodeValidationFailed))
	assert.False(t, IsCode(errors.New("plain"), CodeUnknown))
	assert.False(t, IsCode(nil, CodeUnknown))
}

func TestIsAppError(t *testing.T) {
	assert.True(t, IsAppError(ErrNotFound))
	assert.False(t, IsAppError(errors.New("plain")))
}
