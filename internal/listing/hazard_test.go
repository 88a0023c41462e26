// AngelaMos | 2026
// hazard_test.go

package listing

import (
	"testing"
)

func TestHazardLevel(t *testing.T) {
	tests := []struct {
		category Category
		want     Hazard
	}{
		{CategoryBatteries, HazardHigh},
		{CategoryIndustrial, HazardHigh},
		{CategoryLaptops, HazardMedium},
		{CategorySmartphones, HazardMedium},
		{CategoryMonitors, HazardMedium},
		{CategoryAppliances, HazardLow},
		{CategoryAccessories, HazardLow},
		{"Unknown", HazardLow},
		{"", HazardLow},
		{"batteries", HazardLow},
	}

	for _, tt := range tests {
		if got := HazardLevel(tt.category); got != tt.want {
			t.Errorf("HazardLevel(%q) = %q, want %q", tt.category, got, tt.want)
		}
	}
}

func TestEveryCategoryIsClassified(t *testing.T) {
	if len(Categories) != len(hazardTable) {
		t.Fatalf("%d categories but %d hazard entries", len(Categories), len(hazardTable))
	}
	for _, c := range Categories {
		if !c.Valid() {
			t.Errorf("category %q missing from hazard table", c)
		}
	}
}
