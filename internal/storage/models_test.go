package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDayKeyUsesUTCBoundary(t *testing.T) {
	// 23:30 in UTC-5 is already the next day in UTC.
	loc := time.FixedZone("UTC-5", -5*3600)
	late := time.Date(2026, time.March, 9, 23, 30, 0, 0, loc)

	require.Equal(t, "2026-03-10", DayKey(late))
	require.Equal(t, "2026-03-09", PrevDayKey(late))
}

func TestAssignmentSlots(t *testing.T) {
	one := &Assignment{RitualID1: "a"}
	require.Equal(t, []string{"a"}, one.RitualIDs())
	require.True(t, one.Has("a"))
	require.False(t, one.Has("b"))

	second := "b"
	two := &Assignment{RitualID1: "a", RitualID2: &second}
	require.Equal(t, []string{"a", "b"}, two.RitualIDs())
	require.True(t, two.Has("b"))
}
