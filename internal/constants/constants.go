package constants

// Context keys
const (
	ContextKeyUserID = "user_id"
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Auth
const (
	MinPasswordLength = 8
)

// Crew defaults
const (
	DefaultStartingPoints = 500
	MinStartingPoints     = 100
	MaxStartingPoints     = 10000
	InviteCodeLength      = 8
)

// Milestones
const (
	DefaultMilestonePoints = 10
	StreakMilestoneType    = "meds"
	StreakBonusType        = "streak_bonus"
	StreakLookbackEntries  = 30
	StreakLookbackDays     = 30
)

// Auctions
const (
	DefaultAuctionMinBid          = 5
	DefaultAuctionDurationMinutes = 60
	MinAuctionDurationMinutes     = 5
	MaxAuctionDurationMinutes     = 1440
)
