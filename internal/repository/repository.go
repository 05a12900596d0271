package repository

import (
	"time"

	"github.com/crewcard/crewcard-api/internal/models"
	"gorm.io/gorm"
)

// Every repository exposes WithTx so services can compose multiple
// repositories inside one gorm transaction. The returned value is bound to
// the transaction handle and must not outlive it.

// CrewRepository defines the interface for crew and membership data access,
// including the point ledger.
type CrewRepository interface {
	WithTx(tx *gorm.DB) CrewRepository

	// CreateWithCardHolder creates a crew, its card-holder membership and the
	// default menu/routine rows within a single transaction.
	CreateWithCardHolder(crew *models.Crew, member *models.CrewMember) error

	// FindByID finds a crew by ID
	FindByID(id uint64) (*models.Crew, error)

	// FindByInviteCode finds a crew by invite code
	FindByInviteCode(code string) (*models.Crew, error)

	// AddPoints applies a positive delta to the crew's point balance as an
	// atomic in-store update and returns the new balance.
	AddPoints(crewID uint64, amount int) (int, error)

	// DeductPoints applies a negative delta to the crew's point balance as an
	// atomic in-store update and returns the new balance. Balances may go
	// negative; no floor is enforced.
	DeductPoints(crewID uint64, amount int) (int, error)

	// AddMember adds a member to a crew
	AddMember(member *models.CrewMember) error

	// FindMember finds a specific crew member
	FindMember(crewID, userID uint64) (*models.CrewMember, error)

	// SaveMember persists stats/badges mutations on a member row
	SaveMember(member *models.CrewMember) error

	// CountMembers counts current members of a crew
	CountMembers(crewID uint64) (int64, error)

	// ListMembers lists all members of a crew with their users
	ListMembers(crewID uint64) ([]models.CrewMember, error)

	// ListMembershipsByUserID lists all crews a user is a member of
	ListMembershipsByUserID(userID uint64) ([]models.CrewMember, error)
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	CrewID   uint64
	Status   *models.TaskStatus
	Page     int
	PageSize int
}

// TaskRepository defines the interface for task data access. Status
// transitions are compare-and-set updates so concurrent callers cannot both
// succeed.
type TaskRepository interface {
	WithTx(tx *gorm.DB) TaskRepository

	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Task, error)

	// List retrieves a crew's tasks with filtering and pagination
	List(filter TaskFilter) ([]models.Task, int64, error)

	// ClaimPending transitions pending → claimed for the given claimant.
	// Returns false when the task was not pending anymore.
	ClaimPending(taskID, userID uint64) (bool, error)

	// TouchPending re-verifies a task is still pending by writing its row,
	// holding the row lock until the caller's transaction commits.
	TouchPending(taskID uint64) (bool, error)

	// StartClaimed transitions claimed → in_progress.
	StartClaimed(taskID uint64) (bool, error)

	// CompleteActive transitions claimed/in_progress → completed, recording
	// the charged cost and completion time. Returns false when the task was
	// not in a completable state.
	CompleteActive(taskID uint64, finalCost int, completedAt time.Time) (bool, error)

	// CancelPendingOrActive transitions any non-terminal state → cancelled.
	CancelPendingOrActive(taskID uint64) (bool, error)

	// ResolveAuction transitions pending → claimed for the auction winner,
	// fixing the final point cost at the winning amount.
	ResolveAuction(taskID, winnerID uint64, winningAmount int) (bool, error)

	// ListExpiredAuctions returns pending auction tasks whose deadline has
	// passed.
	ListExpiredAuctions(now time.Time) ([]models.Task, error)
}

// BidRepository defines the interface for bid data access
type BidRepository interface {
	WithTx(tx *gorm.DB) BidRepository

	// Create inserts a bid; bids are immutable once created
	Create(bid *models.Bid) error

	// LowestForTask returns the currently winning bid: lowest amount,
	// earliest placement on ties. Returns gorm.ErrRecordNotFound when the
	// task has no bids.
	LowestForTask(taskID uint64) (*models.Bid, error)

	// CountForTask counts bids placed on a task
	CountForTask(taskID uint64) (int64, error)

	// ListForTask lists a task's bids, best (lowest) first
	ListForTask(taskID uint64) ([]models.Bid, error)
}

// MilestoneRepository defines the interface for self-care milestone data
// access. The table is append-only.
type MilestoneRepository interface {
	WithTx(tx *gorm.DB) MilestoneRepository

	// Create appends a milestone row
	Create(milestone *models.Milestone) error

	// ListRecentByType returns up to limit milestones of one type for a
	// (user, crew), newest first.
	ListRecentByType(userID, crewID uint64, milestoneType string, limit int) ([]models.Milestone, error)

	// ListRecentByCrew returns up to limit milestones for a crew, newest first
	ListRecentByCrew(crewID uint64, limit int) ([]models.Milestone, error)
}

// ActivityRepository defines the interface for the append-only activity log
type ActivityRepository interface {
	WithTx(tx *gorm.DB) ActivityRepository

	// Append writes one activity entry; entries are never updated or deleted
	Append(entry *models.ActivityEntry) error

	// ListByCrew pages a crew's feed by creation time, newest first
	ListByCrew(crewID uint64, limit, offset int) ([]models.ActivityEntry, error)

	// ListSince returns a crew's entries created after the given time, oldest
	// first, for incremental polling.
	ListSince(crewID uint64, since time.Time) ([]models.ActivityEntry, error)
}

// MenuRepository defines read access to per-crew reference data
type MenuRepository interface {
	WithTx(tx *gorm.DB) MenuRepository

	// FindRoutine finds a crew's self-care routine by milestone type
	FindRoutine(crewID uint64, milestoneType string) (*models.SelfCareRoutine, error)

	// ListActiveRoutines lists a crew's active self-care routines
	ListActiveRoutines(crewID uint64) ([]models.SelfCareRoutine, error)

	// ListActiveTemplates lists a crew's active task menu templates
	ListActiveTemplates(crewID uint64) ([]models.TaskMenuTemplate, error)
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)
}
