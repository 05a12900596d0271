package services

import (
	"testing"
	"time"

	"github.com/crewcard/crewcard-api/internal/models"
	"github.com/crewcard/crewcard-api/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCrew_SeedsDefaultsAndEnrollsCardHolder(t *testing.T) {
	env := setupServiceTestEnv(t)
	holder := env.createUser(t, "holder")

	crew, err := env.crews.CreateCrew(CreateCrewInput{
		Name:         "Mom's Crew",
		CardHolderID: holder.ID,
	})
	require.NoError(t, err)

	assert.Equal(t, 500, crew.PointBalance)
	assert.True(t, utils.IsValidInviteCode(crew.InviteCode))

	member := env.member(t, crew.ID, holder.ID)
	assert.Equal(t, models.RoleCardHolder, member.Role)

	templates, routines, err := env.crews.GetMenu(crew.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, templates)
	assert.Len(t, routines, 8)
}

func TestCreateCrew_RejectsOutOfRangePoints(t *testing.T) {
	env := setupServiceTestEnv(t)
	holder := env.createUser(t, "holder")

	tooFew := 50
	_, err := env.crews.CreateCrew(CreateCrewInput{
		Name:           "Crew",
		CardHolderID:   holder.ID,
		StartingPoints: &tooFew,
	})
	assert.ErrorIs(t, err, ErrInvalidPoints)

	tooMany := 20000
	_, err = env.crews.CreateCrew(CreateCrewInput{
		Name:           "Crew",
		CardHolderID:   holder.ID,
		StartingPoints: &tooMany,
	})
	assert.ErrorIs(t, err, ErrInvalidPoints)
}

func TestJoinCrew_ByInviteCode(t *testing.T) {
	env := setupServiceTestEnv(t)
	holder := env.createUser(t, "holder")
	joiner := env.createUser(t, "joiner")
	crew := env.createCrew(t, holder)

	var created models.Crew
	require.NoError(t, env.db.First(&created, crew.ID).Error)

	joined, err := env.crews.JoinCrew(joiner.ID, created.InviteCode)
	require.NoError(t, err)
	assert.Equal(t, crew.ID, joined.ID)

	member := env.member(t, crew.ID, joiner.ID)
	assert.Equal(t, models.RoleCrewMember, member.Role)

	entries := env.feedEvents(t, crew.ID, models.EventMemberJoined)
	require.Len(t, entries, 1)
	assert.Equal(t, joiner.ID, entries[0].ActorID)
}

func TestJoinCrew_RejectsDuplicateAndUnknownCodes(t *testing.T) {
	env := setupServiceTestEnv(t)
	holder := env.createUser(t, "holder")
	joiner := env.createUser(t, "joiner")
	crew := env.createCrew(t, holder)

	var created models.Crew
	require.NoError(t, env.db.First(&created, crew.ID).Error)

	_, err := env.crews.JoinCrew(joiner.ID, created.InviteCode)
	require.NoError(t, err)

	_, err = env.crews.JoinCrew(joiner.ID, created.InviteCode)
	assert.ErrorIs(t, err, ErrAlreadyMember)

	_, err = env.crews.JoinCrew(joiner.ID, "not a code")
	assert.ErrorIs(t, err, ErrInvalidInviteCode)

	_, err = env.crews.JoinCrew(joiner.ID, "AAAABBBB")
	assert.ErrorIs(t, err, ErrInvalidInviteCode)
}

func TestGetFeed_NewestFirstAndSincePolling(t *testing.T) {
	env := setupServiceTestEnv(t)
	holder := env.createUser(t, "holder")
	crew := env.createCrew(t, holder)

	for _, milestoneType := range []string{"water", "meal", "sleep"} {
		_, err := env.milestones.LogMilestone(LogMilestoneInput{
			CrewID:        crew.ID,
			UserID:        holder.ID,
			MilestoneType: milestoneType,
		})
		require.NoError(t, err)
	}

	entries, err := env.crews.GetFeed(FeedInput{CrewID: crew.ID, Limit: 10})
	require.NoError(t, err)
	require.Len(t, entries, 3)
	for i := 1; i < len(entries); i++ {
		assert.False(t, entries[i].CreatedAt.After(entries[i-1].CreatedAt))
	}

	// Polling from before the first entry returns everything, oldest first.
	since := entries[len(entries)-1].CreatedAt.Add(-time.Second)
	polled, err := env.crews.GetFeed(FeedInput{CrewID: crew.ID, Since: &since})
	require.NoError(t, err)
	require.Len(t, polled, 3)
	for i := 1; i < len(polled); i++ {
		assert.False(t, polled[i].CreatedAt.Before(polled[i-1].CreatedAt))
	}
}

func TestGetLeaderboard_ExcludesCardHolder(t *testing.T) {
	env := setupServiceTestEnv(t)
	holder := env.createUser(t, "holder")
	helper := env.createUser(t, "helper")
	crew := env.createCrew(t, holder, helper)

	entries, err := env.crews.GetLeaderboard(crew.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, helper.ID, entries[0].Member.UserID)
}
