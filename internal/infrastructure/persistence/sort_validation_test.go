package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSortOrder(t *testing.T) {
	assert.Equal(t, "ASC", ValidateSortOrder("asc"))
	assert.Equal(t, "ASC", ValidateSortOrder(" ASC "))
	assert.Equal(t, "DESC", ValidateSortOrder("desc"))
	assert.Equal(t, "DESC", ValidateSortOrder(""))
	assert.Equal(t, "DESC", ValidateSortOrder("; DROP TABLE leads"))
}

func TestValidateSortField(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		allowed      map[string]bool
		defaultField string
		want         string
	}{
		{"allowed field passes", "status", LeadSortFields, "created_at", "status"},
		{"unknown field falls back", "password_hash", UserSortFields, "created_at", "created_at"},
		{"empty input falls back", "", CommonSortFields, "created_at", "created_at"},
		{"injection attempt falls back", "created_at; DROP TABLE users", UserSortFields, "created_at", "created_at"},
		{"whitespace is trimmed", " created_at ", CommonSortFields, "id", "created_at"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateSortField(tt.input, tt.allowed, tt.defaultField))
		})
	}
}
