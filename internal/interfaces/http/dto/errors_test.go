package dto

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeErrorCode(t *testing.T) {
	tests := []struct {
		name   string
		legacy string
		want   string
	}{
		{"not found", "NOT_FOUND", ErrCodeNotFound},
		{"forbidden", "FORBIDDEN", ErrCodeForbidden},
		{"invalid state", "INVALID_STATE", ErrCodeInvalidState},
		{"invalid email", "INVALID_EMAIL", ErrCodeInvalidInput},
		{"lead status", "INVALID_LEAD_STATUS", ErrCodeInvalidState},
		{"credentials", "INVALID_CREDENTIALS", ErrCodeInvalidCredentials},
		{"already normalized", ErrCodeConflict, ErrCodeConflict},
		{"unknown stays put", "SOMETHING_NOVEL", "SOMETHING_NOVEL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeErrorCode(tt.legacy))
		})
	}
}

func TestGetHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, GetHTTPStatus(ErrCodeNotFound))
	assert.Equal(t, http.StatusUnauthorized, GetHTTPStatus(ErrCodeInvalidCredentials))
	assert.Equal(t, http.StatusForbidden, GetHTTPStatus(ErrCodeAccountInactive))
	assert.Equal(t, http.StatusUnprocessableEntity, GetHTTPStatus(ErrCodeInvalidState))
	assert.Equal(t, http.StatusTooManyRequests, GetHTTPStatus(ErrCodeRateLimited))
	// Unknown codes fall back to 500
	assert.Equal(t, http.StatusInternalServerError, GetHTTPStatus("ERR_NO_SUCH_CODE"))
}

func TestListRequestNormalize(t *testing.T) {
	var req ListRequest
	req.Normalize()
	assert.Equal(t, 1, req.Page)
	assert.Equal(t, 20, req.PageSize)

	req = ListRequest{Page: 3, PageSize: 50}
	req.Normalize()
	assert.Equal(t, 3, req.Page)
	assert.Equal(t, 50, req.PageSize)
}

func TestNewSuccessResponseWithMeta(t *testing.T) {
	resp := NewSuccessResponseWithMeta([]string{"a", "b"}, 45, 2, 20)
	assert.True(t, resp.Success)
	assert.NotNil(t, resp.Meta)
	assert.Equal(t, int64(45), resp.Meta.Total)
	assert.Equal(t, 2, resp.Meta.Page)
	assert.Equal(t, 3, resp.Meta.TotalPages)
}
