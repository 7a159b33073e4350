package service_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NandiniLearnsCode/Kindle-Momentum-App/internal"
	"github.com/NandiniLearnsCode/Kindle-Momentum-App/internal/service"
)

func at(hour int) time.Time {
	return time.Date(2026, 3, 14, hour, 30, 0, 0, time.Local)
}

func TestBuildNudge_UrgentLateEvening(t *testing.T) {
	n := service.BuildNudge(at(22), 0, 20, internal.Evening, 5)
	require.NotNil(t, n)
	assert.Equal(t, internal.NudgeUrgent, n.Type)
	assert.Equal(t, 20, n.Remaining)
	assert.Contains(t, n.Message, "5-day streak")
}

func TestBuildNudge_NilWhenGoalMet(t *testing.T) {
	assert.Nil(t, service.BuildNudge(at(22), 25, 20, internal.Evening, 5))
	assert.Nil(t, service.BuildNudge(at(8), 20, 20, internal.Morning, 5), "goal comparison is inclusive")
}

func TestBuildNudge_GentleInPreferredWindow(t *testing.T) {
	for _, tc := range []struct {
		pref internal.ReadingTime
		hour int
	}{
		{internal.Morning, 6},
		{internal.Morning, 10},
		{internal.Afternoon, 12},
		{internal.Afternoon, 16},
		{internal.Evening, 18},
		{internal.Evening, 20},
	} {
		n := service.BuildNudge(at(tc.hour), 5, 20, tc.pref, 3)
		require.NotNil(t, n, "pref=%s hour=%d", tc.pref, tc.hour)
		assert.Equal(t, internal.NudgeGentle, n.Type)
		assert.Equal(t, 15, n.Remaining)
	}
}

func TestBuildNudge_NilOutsideWindow(t *testing.T) {
	assert.Nil(t, service.BuildNudge(at(11), 5, 20, internal.Morning, 3))
	assert.Nil(t, service.BuildNudge(at(17), 5, 20, internal.Afternoon, 3))
	assert.Nil(t, service.BuildNudge(at(8), 5, 20, internal.Evening, 3))
}

func TestBuildNudge_UnknownPreferenceDefaultsToEvening(t *testing.T) {
	n := service.BuildNudge(at(19), 5, 20, internal.ReadingTime("night"), 3)
	require.NotNil(t, n)
	assert.Equal(t, internal.NudgeGentle, n.Type)

	assert.Nil(t, service.BuildNudge(at(8), 5, 20, internal.ReadingTime("night"), 3))
}

func TestBuildNudge_HourTwentyOneIsUrgentEvenInWindow(t *testing.T) {
	n := service.BuildNudge(at(21), 5, 20, internal.Evening, 3)
	require.NotNil(t, n)
	assert.Equal(t, internal.NudgeUrgent, n.Type)
}

func TestBuildNudge_RemainingRoundsToNearestMinute(t *testing.T) {
	n := service.BuildNudge(at(22), 12.4, 20, internal.Evening, 3)
	require.NotNil(t, n)
	assert.Equal(t, 8, n.Remaining)
}
