package common

import (
	"encoding/json"
	"testing"
)

func TestNewIDUnique(t *testing.T) {
	a, b := NewID(), NewID()
	if a == b {
		t.Error("NewID returned duplicate IDs")
	}
	if a.IsZero() {
		t.Error("NewID returned a zero ID")
	}
}

func TestPaginationNormalize(t *testing.T) {
	tests := []struct {
		name         string
		in           Pagination
		wantPage     int
		wantPageSize int
	}{
		{"zero values", Pagination{}, 1, 20},
		{"negative page", Pagination{Page: -3, PageSize: 50}, 1, 50},
		{"oversized page size", Pagination{Page: 2, PageSize: 1000}, 2, 200},
		{"valid untouched", Pagination{Page: 4, PageSize: 25}, 4, 25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.in.Normalize()
			if tt.in.Page != tt.wantPage || tt.in.PageSize != tt.wantPageSize {
				t.Errorf("got page=%d size=%d, want page=%d size=%d",
					tt.in.Page, tt.in.PageSize, tt.wantPage, tt.wantPageSize)
			}
		})
	}
}

func TestPaginationOffset(t *testing.T) {
	p := Pagination{Page: 3, PageSize: 25}
	if got := p.Offset(); got != 50 {
		t.Errorf("Offset() = %d, want 50", got)
	}
}

func TestAPIResponseEnvelope(t *testing.T) {
	resp := OK(map[string]int{"total": 7})
	raw, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded APIResponse[map[string]int]
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !decoded.Success || decoded.Data["total"] != 7 {
		t.Errorf("round-trip lost data: %+v", decoded)
	}
	if decoded.Error != nil {
		t.Errorf("unexpected error payload: %+v", decoded.Error)
	}
}
