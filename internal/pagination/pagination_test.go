package pagination

import "testing"

func TestDefaults(t *testing.T) {
	tests := []struct {
		name         string
		in           PageRequest
		wantPage     int
		wantPageSize int
	}{
		{"zero", PageRequest{}, 1, 20},
		{"explicit", PageRequest{Page: 3, PageSize: 10}, 3, 10},
		{"negative", PageRequest{Page: -1, PageSize: -5}, 1, 20},
		{"oversized", PageRequest{Page: 1, PageSize: 1000}, 1, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.in
			p.Defaults()
			if p.Page != tt.wantPage || p.PageSize != tt.wantPageSize {
				t.Errorf("got page=%d size=%d, want page=%d size=%d", p.Page, p.PageSize, tt.wantPage, tt.wantPageSize)
			}
		})
	}
}

func TestOffset(t *testing.T) {
	p := PageRequest{Page: 3, PageSize: 25}
	if p.Offset() != 50 {
		t.Errorf("Offset() = %d, want 50", p.Offset())
	}
}

func TestNewPageResponse(t *testing.T) {
	resp := NewPageResponse[string](nil, 1, 20, 41)
	if resp.Items == nil || len(resp.Items) != 0 {
		t.Errorf("expected empty non-nil items, got %#v", resp.Items)
	}
	if resp.TotalPages != 3 {
		t.Errorf("TotalPages = %d, want 3", resp.TotalPages)
	}

	empty := NewPageResponse([]int{}, 1, 0, 10)
	if empty.TotalPages != 0 {
		t.Errorf("TotalPages with zero page size = %d, want 0", empty.TotalPages)
	}
}
