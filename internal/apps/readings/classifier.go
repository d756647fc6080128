package readings

// Category is the clinical classification of a blood-pressure reading,
// derived from the stored pair on every read and never persisted.
type Category string

const (
	CategoryNormal     Category = "normal"
	CategoryElevated   Category = "elevated"
	CategoryHighStage1 Category = "high_stage1"
	CategoryHighStage2 Category = "high_stage2"
)

// Classify maps a systolic/diastolic pair to its AHA category. The branches
// are evaluated in this exact order; the ranges overlap at the boundaries,
// so reordering them changes the result (e.g. 120/80 is high_stage1, not
// elevated). Total over all integer inputs, including values outside the
// persisted reading range.
func Classify(systolic, diastolic int) Category {
	switch {
	case systolic < 120 && diastolic < 80:
		return CategoryNormal
	case systolic < 130 && diastolic < 80:
		return CategoryElevated
	case systolic < 140 || diastolic < 90:
		return CategoryHighStage1
	default:
		return CategoryHighStage2
	}
}
