package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"ritualist/internal/catalog"
)

func TestCategoryWeightBands(t *testing.T) {
	require.Equal(t, weightsWeeks0to2, CategoryWeights(0))
	require.Equal(t, weightsWeeks0to2, CategoryWeights(2))
	require.Equal(t, weightsWeeks3to4, CategoryWeights(3))
	require.Equal(t, weightsWeeks3to4, CategoryWeights(4))
	require.Equal(t, weightsWeeks5to8, CategoryWeights(5))
	require.Equal(t, weightsWeeks5to8, CategoryWeights(8))
	require.Equal(t, weightsWeeks9Plus, CategoryWeights(9))
	require.Equal(t, weightsWeeks9Plus, CategoryWeights(52))
}

func TestWeightsShiftTowardAdvanced(t *testing.T) {
	early := CategoryWeights(0)
	late := CategoryWeights(9)

	require.Greater(t, early[catalog.CategoryBreath], late[catalog.CategoryBreath])
	require.Greater(t, late[catalog.CategoryDiscipline], early[catalog.CategoryDiscipline])
	require.Greater(t, late[catalog.CategoryCreation], early[catalog.CategoryCreation])
}
