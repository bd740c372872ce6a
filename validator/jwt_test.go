package validator

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetJWSFromRequest(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr error
	}{
		{"missing", "", "", ErrNoAuthHeader},
		{"wrong scheme", "Basic abc", "", ErrInvalidAuthHeader},
		{"empty bearer", "Bearer ", "", ErrNoAuthHeader},
		{"bearer", "Bearer abc.def.ghi", "abc.def.ghi", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			got, err := GetJWSFromRequest(req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.want, got)
		})
	}
}
