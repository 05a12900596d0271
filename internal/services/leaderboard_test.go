package services

import (
	"testing"

	"github.com/crewcard/crewcard-api/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestRankMembers_ScoreFormula(t *testing.T) {
	members := []models.CrewMember{
		{
			UserID: 1,
			Role:   models.RoleCrewMember,
			Stats:  models.MemberStats{TasksCompleted: 2, PointsSpent: 30, AuctionWins: 1},
		},
	}

	entries := RankMembers(members)

	assert.Len(t, entries, 1)
	// 2*10 + 30 + 1*15
	assert.Equal(t, 65, entries[0].Score)
	assert.Equal(t, 1, entries[0].Rank)
}

func TestRankMembers_ExcludesCardHolder(t *testing.T) {
	members := []models.CrewMember{
		{UserID: 1, Role: models.RoleCardHolder, Stats: models.MemberStats{PointsSpent: 999}},
		{UserID: 2, Role: models.RoleCrewMember, Stats: models.MemberStats{PointsSpent: 10}},
		{UserID: 3, Role: models.RoleAdmin, Stats: models.MemberStats{PointsSpent: 20}},
	}

	entries := RankMembers(members)

	assert.Len(t, entries, 2)
	assert.Equal(t, uint64(3), entries[0].Member.UserID)
	assert.Equal(t, uint64(2), entries[1].Member.UserID)
}

func TestRankMembers_TiesKeepInputOrder(t *testing.T) {
	members := []models.CrewMember{
		{UserID: 1, Role: models.RoleCrewMember, Stats: models.MemberStats{PointsSpent: 50}},
		{UserID: 2, Role: models.RoleCrewMember, Stats: models.MemberStats{PointsSpent: 50}},
		{UserID: 3, Role: models.RoleCrewMember, Stats: models.MemberStats{PointsSpent: 80}},
	}

	entries := RankMembers(members)

	assert.Equal(t, uint64(3), entries[0].Member.UserID)
	assert.Equal(t, uint64(1), entries[1].Member.UserID)
	assert.Equal(t, uint64(2), entries[2].Member.UserID)
	assert.Equal(t, []int{1, 2, 3}, []int{entries[0].Rank, entries[1].Rank, entries[2].Rank})
}
