package services

import (
	"github.com/crewcard/crewcard-api/internal/models"
	"github.com/crewcard/crewcard-api/internal/repository"
	"gorm.io/gorm"
)

// Badge identifiers. Badges are additive and never revoked.
const (
	BadgeFirstResponder = "first_responder"
	BadgeAuctionShark   = "auction_shark"
	BadgeSevenDayStreak = "seven_day_streak"
	BadgeTheOG          = "the_og"
)

// EvaluateBadges returns the badge IDs a member has newly earned given their
// current stats and the crew's live member count. Already-held badges are
// never returned again.
//
// the_og is a live cardinality check: the member qualifies while the crew has
// at most five members at evaluation time, not by frozen join order.
func EvaluateBadges(member *models.CrewMember, memberCount int64) []string {
	var earned []string

	if member.Stats.TasksCompleted >= 5 && !member.HasBadge(BadgeFirstResponder) {
		earned = append(earned, BadgeFirstResponder)
	}
	if member.Stats.AuctionWins >= 5 && !member.HasBadge(BadgeAuctionShark) {
		earned = append(earned, BadgeAuctionShark)
	}
	if member.Stats.LongestStreak >= 7 && !member.HasBadge(BadgeSevenDayStreak) {
		earned = append(earned, BadgeSevenDayStreak)
	}
	if memberCount <= 5 && !member.HasBadge(BadgeTheOG) {
		earned = append(earned, BadgeTheOG)
	}

	return earned
}

// awardNewBadges evaluates badge rules for a member whose stats just changed,
// appends the new badge IDs to the member and emits a badge_earned entry per
// badge. The member row itself is saved by the caller, inside the same
// transaction.
func awardNewBadges(tx *gorm.DB, crewRepo repository.CrewRepository, activityRepo repository.ActivityRepository, member *models.CrewMember) error {
	memberCount, err := crewRepo.WithTx(tx).CountMembers(member.CrewID)
	if err != nil {
		return err
	}

	for _, badgeID := range EvaluateBadges(member, memberCount) {
		member.Badges = append(member.Badges, badgeID)
		err := activityRepo.WithTx(tx).Append(&models.ActivityEntry{
			CrewID:    member.CrewID,
			EventType: models.EventBadgeEarned,
			ActorID:   member.UserID,
			Payload: models.ActivityPayload{
				BadgeID: badgeID,
			},
		})
		if err != nil {
			return err
		}
	}
	return nil
}
