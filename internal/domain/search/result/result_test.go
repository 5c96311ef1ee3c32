package result

import "testing"

func TestNewPage(t *testing.T) {
	tests := []struct {
		name           string
		fetched        int
		limit, offset  int
		wantCount      int
		wantHasMore    bool
		wantNextOffset int
	}{
		{"full page plus sentinel", 21, 20, 0, 20, true, 20},
		{"exactly full page", 20, 20, 0, 20, false, 0},
		{"partial page", 7, 20, 0, 7, false, 0},
		{"empty", 0, 20, 0, 0, false, 0},
		{"deep offset with more", 11, 10, 40, 10, true, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPage(tt.fetched, tt.limit, tt.offset)
			if p.Count != tt.wantCount {
				t.Errorf("Count = %d, want %d", p.Count, tt.wantCount)
			}
			if p.HasMore != tt.wantHasMore {
				t.Errorf("HasMore = %v, want %v", p.HasMore, tt.wantHasMore)
			}
			if p.NextOffset != tt.wantNextOffset {
				t.Errorf("NextOffset = %d, want %d", p.NextOffset, tt.wantNextOffset)
			}
			if p.Limit != tt.limit || p.Offset != tt.offset {
				t.Errorf("window echoed wrong: %+v", p)
			}
		})
	}
}
