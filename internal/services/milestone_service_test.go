package services

import (
	"testing"
	"time"

	"github.com/crewcard/crewcard-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogMilestone_CardHolderOnly(t *testing.T) {
	env := setupServiceTestEnv(t)
	holder := env.createUser(t, "holder")
	helper := env.createUser(t, "helper")
	crew := env.createCrew(t, holder, helper)

	_, err := env.milestones.LogMilestone(LogMilestoneInput{
		CrewID:        crew.ID,
		UserID:        helper.ID,
		MilestoneType: "meds",
	})

	assert.ErrorIs(t, err, ErrNotCardHolder)
}

func TestLogMilestone_CreditsRoutineValue(t *testing.T) {
	env := setupServiceTestEnv(t)
	holder := env.createUser(t, "holder")
	crew := env.createCrew(t, holder)
	startBalance := env.crewBalance(t, crew.ID)

	// The seeded chemo routine is worth 100 points.
	result, err := env.milestones.LogMilestone(LogMilestoneInput{
		CrewID:        crew.ID,
		UserID:        holder.ID,
		MilestoneType: "chemo",
	})
	require.NoError(t, err)

	assert.Equal(t, 100, result.PointsEarned)
	assert.Equal(t, startBalance+100, result.NewBalance)
	assert.Equal(t, 0, result.BonusPoints)

	entries := env.feedEvents(t, crew.ID, models.EventMilestoneLogged)
	require.Len(t, entries, 1)
	assert.Equal(t, "chemo", entries[0].Payload.MilestoneType)
	assert.Equal(t, 100, entries[0].Payload.PointsEarned)
}

func TestLogMilestone_UnknownTypeFallsBackToDefault(t *testing.T) {
	env := setupServiceTestEnv(t)
	holder := env.createUser(t, "holder")
	crew := env.createCrew(t, holder)
	startBalance := env.crewBalance(t, crew.ID)

	result, err := env.milestones.LogMilestone(LogMilestoneInput{
		CrewID:        crew.ID,
		UserID:        holder.ID,
		MilestoneType: "meditation",
	})
	require.NoError(t, err)

	assert.Equal(t, 10, result.PointsEarned)
	assert.Equal(t, startBalance+10, result.NewBalance)
}

func TestLogMilestone_ThreeDayStreakPaysBonus(t *testing.T) {
	env := setupServiceTestEnv(t)
	holder := env.createUser(t, "holder")
	crew := env.createCrew(t, holder)
	startBalance := env.crewBalance(t, crew.ID)

	// Meds already logged yesterday and the day before.
	for daysAgo := 1; daysAgo <= 2; daysAgo++ {
		require.NoError(t, env.db.Create(&models.Milestone{
			CrewID:        crew.ID,
			UserID:        holder.ID,
			MilestoneType: "meds",
			PointsEarned:  25,
			LoggedAt:      time.Now().AddDate(0, 0, -daysAgo),
		}).Error)
	}

	result, err := env.milestones.LogMilestone(LogMilestoneInput{
		CrewID:        crew.ID,
		UserID:        holder.ID,
		MilestoneType: "meds",
	})
	require.NoError(t, err)

	// Seeded meds routine is worth 25; the 3-day streak pays 50 on top.
	assert.Equal(t, 25, result.PointsEarned)
	assert.Equal(t, 3, result.CurrentStreak)
	assert.Equal(t, 50, result.BonusPoints)
	assert.Equal(t, "3-day medication streak", result.BonusType)
	assert.Equal(t, startBalance+25+50, result.NewBalance)

	var bonusRows []models.Milestone
	require.NoError(t, env.db.
		Where("crew_id = ? AND is_streak_bonus = ?", crew.ID, true).
		Find(&bonusRows).Error)
	require.Len(t, bonusRows, 1)
	assert.Equal(t, 50, bonusRows[0].PointsEarned)
	require.NotNil(t, bonusRows[0].Note)
	assert.Equal(t, "3-day medication streak", *bonusRows[0].Note)

	member := env.member(t, crew.ID, holder.ID)
	assert.Equal(t, 3, member.Stats.CurrentStreak)
	assert.Equal(t, 3, member.Stats.LongestStreak)
}

func TestLogMilestone_BonusRowDoesNotExtendStreak(t *testing.T) {
	env := setupServiceTestEnv(t)
	holder := env.createUser(t, "holder")
	crew := env.createCrew(t, holder)

	// A lone bonus row from three days ago must not count as a logged day.
	note := "3-day medication streak"
	require.NoError(t, env.db.Create(&models.Milestone{
		CrewID:        crew.ID,
		UserID:        holder.ID,
		MilestoneType: "streak_bonus",
		PointsEarned:  50,
		Note:          &note,
		IsStreakBonus: true,
		LoggedAt:      time.Now().AddDate(0, 0, -1),
	}).Error)

	result, err := env.milestones.LogMilestone(LogMilestoneInput{
		CrewID:        crew.ID,
		UserID:        holder.ID,
		MilestoneType: "meds",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.CurrentStreak)
	assert.Equal(t, 0, result.BonusPoints)
}

func TestLogMilestone_KeepsStatsFromOtherWriters(t *testing.T) {
	env := setupServiceTestEnv(t)
	holder := env.createUser(t, "holder")
	crew := env.createCrew(t, holder)

	_, err := env.milestones.LogMilestone(LogMilestoneInput{
		CrewID:        crew.ID,
		UserID:        holder.ID,
		MilestoneType: "meds",
	})
	require.NoError(t, err)

	// Another writer bumps a different counter between the two logs.
	member := env.member(t, crew.ID, holder.ID)
	member.Stats.TasksCompleted = 4
	require.NoError(t, env.crewRepo.SaveMember(member))

	result, err := env.milestones.LogMilestone(LogMilestoneInput{
		CrewID:        crew.ID,
		UserID:        holder.ID,
		MilestoneType: "meds",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.CurrentStreak)

	member = env.member(t, crew.ID, holder.ID)
	assert.Equal(t, 4, member.Stats.TasksCompleted)
	assert.Equal(t, 1, member.Stats.CurrentStreak)
}

func TestLogMilestone_SevenDayStreakAwardsBadge(t *testing.T) {
	env := setupServiceTestEnv(t)
	holder := env.createUser(t, "holder")
	crew := env.createCrew(t, holder)

	for daysAgo := 1; daysAgo <= 6; daysAgo++ {
		require.NoError(t, env.db.Create(&models.Milestone{
			CrewID:        crew.ID,
			UserID:        holder.ID,
			MilestoneType: "meds",
			PointsEarned:  25,
			LoggedAt:      time.Now().AddDate(0, 0, -daysAgo),
		}).Error)
	}

	result, err := env.milestones.LogMilestone(LogMilestoneInput{
		CrewID:        crew.ID,
		UserID:        holder.ID,
		MilestoneType: "meds",
	})
	require.NoError(t, err)
	assert.Equal(t, 7, result.CurrentStreak)
	assert.Equal(t, 150, result.BonusPoints)

	member := env.member(t, crew.ID, holder.ID)
	assert.True(t, member.HasBadge(BadgeSevenDayStreak))
}
