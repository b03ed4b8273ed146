package helpers

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestNormalizePagination(t *testing.T) {
	tests := []struct {
		name     string
		page     int
		size     int
		wantPage int
		wantSize int
	}{
		{"valid values pass through", 3, 25, 3, 25},
		{"zero page clamps to 1", 0, 10, 1, 10},
		{"negative page clamps to 1", -5, 10, 1, 10},
		{"zero size falls back to default", 1, 0, 1, DefaultPageSize},
		{"oversized falls back to default", 1, 500, 1, DefaultPageSize},
		{"max size allowed", 1, MaxPageSize, 1, MaxPageSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, size := NormalizePagination(tt.page, tt.size)
			if page != tt.wantPage || size != tt.wantSize {
				t.Errorf("NormalizePagination(%d, %d) = (%d, %d), want (%d, %d)",
					tt.page, tt.size, page, size, tt.wantPage, tt.wantSize)
			}
		})
	}
}

func TestNewPaginationInfo(t *testing.T) {
	info := NewPaginationInfo(42, 1, 10)
	if info.TotalPages != 5 {
		t.Errorf("TotalPages = %d, want 5", info.TotalPages)
	}
	if info.TotalItems != 42 {
		t.Errorf("TotalItems = %d, want 42", info.TotalItems)
	}

	empty := NewPaginationInfo(0, 1, 10)
	if empty.TotalPages != 1 {
		t.Errorf("empty TotalPages = %d, want 1", empty.TotalPages)
	}

	// A page past the end is clamped to the last page.
	clamped := NewPaginationInfo(15, 9, 10)
	if clamped.CurrentPage != 2 {
		t.Errorf("CurrentPage = %d, want clamped to 2", clamped.CurrentPage)
	}
}

func TestParsePaginationParams(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name     string
		query    string
		wantPage int
		wantSize int
	}{
		{"defaults", "", 1, 10},
		{"explicit values", "page=2&size=50", 2, 50},
		{"garbage page", "page=abc", 1, 10},
		{"negative size", "size=-1", 1, DefaultPageSize},
		{"oversized size", "size=1000", 1, DefaultPageSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest("GET", "/?"+tt.query, nil)

			page, size := ParsePaginationParams(c)
			if page != tt.wantPage || size != tt.wantSize {
				t.Errorf("ParsePaginationParams(%q) = (%d, %d), want (%d, %d)",
					tt.query, page, size, tt.wantPage, tt.wantSize)
			}
		})
	}
}
