package storage

import (
	"strings"
	"testing"
)

func TestVolumeBucketQuery(t *testing.T) {
	tests := []struct {
		filter   VolumeFilter
		trunc    string
		interval string
	}{
		{FilterDay, "date_trunc('day', date)", "14 days"},
		{FilterWeek, "date_trunc('week', date)", "84 days"},
		{FilterYear, "date_trunc('month', date)", "12 months"},
	}

	for _, tt := range tests {
		t.Run(string(tt.filter), func(t *testing.T) {
			query, err := volumeBucketQuery(tt.filter)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !strings.Contains(query, tt.trunc) {
				t.Errorf("query missing bucketing %q:\n%s", tt.trunc, query)
			}
			if !strings.Contains(query, tt.interval) {
				t.Errorf("query missing window %q:\n%s", tt.interval, query)
			}
		})
	}
}

func TestVolumeBucketQueryUnknown(t *testing.T) {
	if _, err := volumeBucketQuery("month"); err == nil {
		t.Error("expected error for unknown filter, got nil")
	}
}
