package readings

import "testing"

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		systolic  int
		diastolic int
		want      Category
	}{
		{"normal", 115, 75, CategoryNormal},
		{"normal upper edge", 119, 79, CategoryNormal},
		{"elevated", 125, 75, CategoryElevated},
		{"elevated lower edge", 120, 79, CategoryElevated},
		{"stage1 by systolic", 135, 75, CategoryHighStage1},
		{"stage1 by diastolic", 115, 85, CategoryHighStage1},
		{"stage1 both", 135, 85, CategoryHighStage1},
		{"stage2", 150, 95, CategoryHighStage2},
		{"stage2 boundary", 140, 90, CategoryHighStage2},

		// Stage 2 needs both values past the threshold; one high value
		// alone stays in stage 1.
		{"systolic 140 low diastolic", 140, 75, CategoryHighStage1},
		{"diastolic 90 low systolic", 115, 90, CategoryHighStage1},

		// Diastolic 80 blocks both the normal and elevated branches even
		// when systolic is low.
		{"diastolic 80 at systolic 120", 120, 80, CategoryHighStage1},
		{"diastolic 80 at systolic 110", 110, 80, CategoryHighStage1},
		{"systolic 139 diastolic 79", 139, 79, CategoryHighStage1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.systolic, tt.diastolic)
			if got != tt.want {
				t.Fatalf("Classify(%d, %d) = %q, want %q", tt.systolic, tt.diastolic, got, tt.want)
			}
		})
	}
}
