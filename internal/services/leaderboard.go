package services

import (
	"sort"

	"github.com/crewcard/crewcard-api/internal/models"
)

// LeaderboardEntry is one ranked row of a crew's helper leaderboard.
type LeaderboardEntry struct {
	Member models.CrewMember
	Score  int
	Rank   int
}

// memberScore weights completed tasks and auction wins above raw points spent.
func memberScore(stats models.MemberStats) int {
	return stats.TasksCompleted*10 + stats.PointsSpent + stats.AuctionWins*15
}

// RankMembers ranks a crew's helpers by score, descending. The card holder is
// excluded: they request help rather than provide it. Ties keep the input
// order, so callers passing members in join order get deterministic results.
func RankMembers(members []models.CrewMember) []LeaderboardEntry {
	entries := make([]LeaderboardEntry, 0, len(members))
	for _, m := range members {
		if m.Role == models.RoleCardHolder {
			continue
		}
		entries = append(entries, LeaderboardEntry{
			Member: m,
			Score:  memberScore(m.Stats),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})

	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}
