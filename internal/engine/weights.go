package engine

import "ritualist/internal/catalog"

// Category weight profiles by weeks active. Early weeks lean on low-friction
// starter categories; later bands shift weight toward the demanding ones.
// Weights are relative integers consumed by catalog.WeightedCategory.
var (
	weightsWeeks0to2 = map[catalog.Category]int{
		catalog.CategoryBreath:     30,
		catalog.CategoryJournaling: 25,
		catalog.CategoryGratitude:  20,
		catalog.CategoryMovement:   15,
		catalog.CategoryFocus:      10,
	}
	weightsWeeks3to4 = map[catalog.Category]int{
		catalog.CategoryBreath:     20,
		catalog.CategoryJournaling: 20,
		catalog.CategoryGratitude:  15,
		catalog.CategoryMovement:   15,
		catalog.CategoryFocus:      15,
		catalog.CategoryConnection: 10,
		catalog.CategoryDiscipline: 5,
	}
	weightsWeeks5to8 = map[catalog.Category]int{
		catalog.CategoryFocus:      20,
		catalog.CategoryMovement:   15,
		catalog.CategoryDiscipline: 15,
		catalog.CategoryConnection: 15,
		catalog.CategoryJournaling: 15,
		catalog.CategoryCreation:   10,
		catalog.CategoryBreath:     5,
		catalog.CategoryGratitude:  5,
	}
	weightsWeeks9Plus = map[catalog.Category]int{
		catalog.CategoryDiscipline: 25,
		catalog.CategoryCreation:   20,
		catalog.CategoryFocus:      20,
		catalog.CategoryConnection: 15,
		catalog.CategoryMovement:   10,
		catalog.CategoryJournaling: 5,
		catalog.CategoryBreath:     3,
		catalog.CategoryGratitude:  2,
	}
)

// CategoryWeights returns the guided-path weight profile for a user's weeks
// active. The returned map must not be mutated.
func CategoryWeights(weeksActive int) map[catalog.Category]int {
	switch {
	case weeksActive <= 2:
		return weightsWeeks0to2
	case weeksActive <= 4:
		return weightsWeeks3to4
	case weeksActive <= 8:
		return weightsWeeks5to8
	default:
		return weightsWeeks9Plus
	}
}
