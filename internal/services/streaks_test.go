package services

import (
	"testing"
	"time"

	"github.com/crewcard/crewcard-api/internal/models"
	"github.com/stretchr/testify/assert"
)

func milestoneOnDay(now time.Time, daysAgo int) models.Milestone {
	return models.Milestone{
		MilestoneType: "meds",
		LoggedAt:      now.AddDate(0, 0, -daysAgo),
	}
}

func TestCalculateMedicationStreak_ThreeDayBonus(t *testing.T) {
	now := time.Date(2025, 6, 10, 15, 0, 0, 0, time.UTC)
	entries := []models.Milestone{
		milestoneOnDay(now, 0),
		milestoneOnDay(now, 1),
		milestoneOnDay(now, 2),
	}

	result := CalculateMedicationStreak(entries, now)

	assert.Equal(t, 3, result.CurrentStreak)
	assert.Equal(t, 50, result.BonusPoints)
	assert.Equal(t, "3-day medication streak", result.BonusType)
}

func TestCalculateMedicationStreak_SevenDayBonus(t *testing.T) {
	now := time.Date(2025, 6, 10, 9, 30, 0, 0, time.UTC)
	var entries []models.Milestone
	for i := 0; i < 7; i++ {
		entries = append(entries, milestoneOnDay(now, i))
	}

	result := CalculateMedicationStreak(entries, now)

	assert.Equal(t, 7, result.CurrentStreak)
	assert.Equal(t, 150, result.BonusPoints)
	assert.Equal(t, "7-day medication streak", result.BonusType)
}

func TestCalculateMedicationStreak_FourteenDayBonus(t *testing.T) {
	now := time.Date(2025, 6, 20, 12, 0, 0, 0, time.UTC)
	var entries []models.Milestone
	for i := 0; i < 14; i++ {
		entries = append(entries, milestoneOnDay(now, i))
	}

	result := CalculateMedicationStreak(entries, now)

	assert.Equal(t, 14, result.CurrentStreak)
	assert.Equal(t, 150, result.BonusPoints)
	assert.Equal(t, "14-day medication streak", result.BonusType)
}

func TestCalculateMedicationStreak_GapBreaksRun(t *testing.T) {
	now := time.Date(2025, 6, 10, 15, 0, 0, 0, time.UTC)
	// Logged today and yesterday, gap two days ago, then more logs earlier.
	entries := []models.Milestone{
		milestoneOnDay(now, 0),
		milestoneOnDay(now, 1),
		milestoneOnDay(now, 3),
		milestoneOnDay(now, 4),
	}

	result := CalculateMedicationStreak(entries, now)

	assert.Equal(t, 2, result.CurrentStreak)
	assert.Equal(t, 0, result.BonusPoints)
}

func TestCalculateMedicationStreak_TodayAbsentDoesNotBreak(t *testing.T) {
	now := time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC)
	// Nothing logged yet today; the run ending yesterday still counts.
	entries := []models.Milestone{
		milestoneOnDay(now, 1),
		milestoneOnDay(now, 2),
	}

	result := CalculateMedicationStreak(entries, now)

	assert.Equal(t, 2, result.CurrentStreak)
	assert.Equal(t, 0, result.BonusPoints)
}

func TestCalculateMedicationStreak_NoEntries(t *testing.T) {
	now := time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC)

	result := CalculateMedicationStreak(nil, now)

	assert.Equal(t, 0, result.CurrentStreak)
	assert.Equal(t, 0, result.BonusPoints)
	assert.Empty(t, result.BonusType)
}

func TestCalculateMedicationStreak_MultipleEntriesSameDay(t *testing.T) {
	now := time.Date(2025, 6, 10, 20, 0, 0, 0, time.UTC)
	entries := []models.Milestone{
		milestoneOnDay(now, 0),
		{MilestoneType: "meds", LoggedAt: now.Add(-2 * time.Hour)},
		milestoneOnDay(now, 1),
	}

	result := CalculateMedicationStreak(entries, now)

	assert.Equal(t, 2, result.CurrentStreak)
}
