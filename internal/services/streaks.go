package services

import (
	"fmt"
	"time"

	"github.com/crewcard/crewcard-api/internal/models"
)

// StreakResult is the outcome of a medication-streak computation.
type StreakResult struct {
	CurrentStreak int
	BonusPoints   int
	BonusType     string
}

// CalculateMedicationStreak counts consecutive calendar days with at least one
// logged entry, walking backward from today in now's location. Today itself
// never breaks the run: a streak that ended yesterday still counts until
// midnight passes. Entries are expected newest-first and capped by the caller
// (the last 30 suffice for the 30-day lookback window).
//
// Bonus schedule: 3 consecutive days pays 50 points; 7 days and every further
// multiple of 7 pays 150. Other lengths pay nothing.
func CalculateMedicationStreak(entries []models.Milestone, now time.Time) StreakResult {
	loggedDays := make(map[string]bool, len(entries))
	for _, e := range entries {
		loggedDays[e.LoggedAt.In(now.Location()).Format("2006-01-02")] = true
	}

	streak := 0
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	for i := 0; i < 30; i++ {
		if loggedDays[day.Format("2006-01-02")] {
			streak++
		} else if i > 0 {
			break
		}
		day = day.AddDate(0, 0, -1)
	}

	result := StreakResult{CurrentStreak: streak}
	switch {
	case streak == 3:
		result.BonusPoints = 50
		result.BonusType = "3-day medication streak"
	case streak > 0 && streak%7 == 0:
		result.BonusPoints = 150
		result.BonusType = fmt.Sprintf("%d-day medication streak", streak)
	}
	return result
}
