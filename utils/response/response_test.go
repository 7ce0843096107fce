package response

import "testing"

func TestCalculatePagination(t *testing.T) {
	tests := []struct {
		name     string
		page     int
		perPage  int
		total    int64
		wantLast int
		wantPer  int
		wantPage int
	}{
		{"empty result still has one page", 1, 15, 0, 1, 15, 1},
		{"exact multiple", 2, 10, 30, 3, 10, 2},
		{"remainder adds a page", 1, 15, 31, 3, 15, 1},
		{"defaults applied", 0, 0, 16, 2, DefaultPerPage, 1},
		{"per page capped", 1, 500, 250, 3, MaxPerPage, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := CalculatePagination(tt.page, tt.perPage, tt.total)
			if meta.LastPage != tt.wantLast {
				t.Errorf("LastPage = %d, want %d", meta.LastPage, tt.wantLast)
			}
			if meta.PerPage != tt.wantPer {
				t.Errorf("PerPage = %d, want %d", meta.PerPage, tt.wantPer)
			}
			if meta.CurrentPage != tt.wantPage {
				t.Errorf("CurrentPage = %d, want %d", meta.CurrentPage, tt.wantPage)
			}
			if meta.Total != tt.total {
				t.Errorf("Total = %d, want %d", meta.Total, tt.total)
			}
		})
	}
}
