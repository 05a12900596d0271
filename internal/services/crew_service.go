package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/crewcard/crewcard-api/internal/constants"
	"github.com/crewcard/crewcard-api/internal/models"
	"github.com/crewcard/crewcard-api/internal/repository"
	"github.com/crewcard/crewcard-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrCrewNotFound      = errors.New("crew not found")
	ErrCrewNameRequired  = errors.New("crew name is required")
	ErrInvalidInviteCode = errors.New("invalid invite code")
	ErrAlreadyMember     = errors.New("user is already a member of the crew")
	ErrNotCrewMember     = errors.New("user is not a member of the crew")
	ErrInvalidPoints     = errors.New("starting points out of range")
)

// inviteCodeAttempts bounds retries when a generated code collides with an
// existing crew.
const inviteCodeAttempts = 5

// CrewService handles crew and membership business logic.
type CrewService struct {
	db           *gorm.DB
	crewRepo     repository.CrewRepository
	activityRepo repository.ActivityRepository
	menuRepo     repository.MenuRepository
}

// NewCrewService creates a new CrewService.
func NewCrewService(db *gorm.DB, crewRepo repository.CrewRepository, activityRepo repository.ActivityRepository, menuRepo repository.MenuRepository) *CrewService {
	return &CrewService{
		db:           db,
		crewRepo:     crewRepo,
		activityRepo: activityRepo,
		menuRepo:     menuRepo,
	}
}

// CreateCrewInput represents input for creating a crew.
type CreateCrewInput struct {
	Name           string
	CardHolderID   uint64
	StartingPoints *int
}

// CreateCrew creates a crew owned by the given card holder, seeds the default
// task menu and self-care routines, and enrolls the card holder as the crew's
// single card_holder member.
func (s *CrewService) CreateCrew(input CreateCrewInput) (*models.Crew, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrCrewNameRequired
	}

	startingPoints := constants.DefaultStartingPoints
	if input.StartingPoints != nil {
		startingPoints = *input.StartingPoints
		if startingPoints < constants.MinStartingPoints || startingPoints > constants.MaxStartingPoints {
			return nil, ErrInvalidPoints
		}
	}

	var crew *models.Crew
	for attempt := 0; attempt < inviteCodeAttempts; attempt++ {
		code, err := utils.GenerateInviteCode()
		if err != nil {
			return nil, fmt.Errorf("failed to generate invite code: %w", err)
		}

		crew = &models.Crew{
			Name:         name,
			CardHolderID: input.CardHolderID,
			PointBalance: startingPoints,
			InviteCode:   code,
			Settings: models.CrewSettings{
				DefaultPoints:        startingPoints,
				AllowNegativeBalance: true,
			},
		}
		member := &models.CrewMember{
			UserID:   input.CardHolderID,
			Role:     models.RoleCardHolder,
			JoinedAt: time.Now(),
		}

		err = s.crewRepo.CreateWithCardHolder(crew, member)
		if err == nil {
			return crew, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("failed to create crew: %w", err)
		}
	}

	return nil, fmt.Errorf("failed to allocate a unique invite code")
}

// JoinCrew adds a user to the crew matching the invite code and records a
// member_joined activity entry in the same transaction.
func (s *CrewService) JoinCrew(userID uint64, inviteCode string) (*models.Crew, error) {
	code := strings.ToUpper(strings.TrimSpace(inviteCode))
	if !utils.IsValidInviteCode(code) {
		return nil, ErrInvalidInviteCode
	}

	crew, err := s.crewRepo.FindByInviteCode(code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidInviteCode
		}
		return nil, fmt.Errorf("failed to look up invite code: %w", err)
	}

	if _, err := s.crewRepo.FindMember(crew.ID, userID); err == nil {
		return nil, ErrAlreadyMember
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		crewRepo := s.crewRepo.WithTx(tx)
		activityRepo := s.activityRepo.WithTx(tx)

		member := &models.CrewMember{
			CrewID:   crew.ID,
			UserID:   userID,
			Role:     models.RoleCrewMember,
			JoinedAt: time.Now(),
		}
		if err := crewRepo.AddMember(member); err != nil {
			return err
		}

		return activityRepo.Append(&models.ActivityEntry{
			CrewID:    crew.ID,
			EventType: models.EventMemberJoined,
			ActorID:   userID,
			Payload: models.ActivityPayload{
				CrewName: crew.Name,
			},
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to join crew: %w", err)
	}

	return crew, nil
}

// GetCrew returns a crew with its members.
func (s *CrewService) GetCrew(crewID uint64) (*models.Crew, []models.CrewMember, error) {
	crew, err := s.crewRepo.FindByID(crewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrCrewNotFound
		}
		return nil, nil, fmt.Errorf("failed to find crew: %w", err)
	}

	members, err := s.crewRepo.ListMembers(crewID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list members: %w", err)
	}

	return crew, members, nil
}

// ListCrews returns all crews the user belongs to, with their memberships.
func (s *CrewService) ListCrews(userID uint64) ([]models.CrewMember, error) {
	memberships, err := s.crewRepo.ListMembershipsByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}
	return memberships, nil
}

// FeedInput controls feed reads: Since switches to incremental polling mode,
// otherwise Limit/Offset page the feed newest-first.
type FeedInput struct {
	CrewID uint64
	Limit  int
	Offset int
	Since  *time.Time
}

// GetFeed reads a crew's activity feed.
func (s *CrewService) GetFeed(input FeedInput) ([]models.ActivityEntry, error) {
	if input.Since != nil {
		entries, err := s.activityRepo.ListSince(input.CrewID, *input.Since)
		if err != nil {
			return nil, fmt.Errorf("failed to read feed: %w", err)
		}
		return entries, nil
	}

	limit := input.Limit
	if limit <= 0 || limit > constants.MaxPageSize {
		limit = constants.DefaultPageSize
	}
	entries, err := s.activityRepo.ListByCrew(input.CrewID, limit, input.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to read feed: %w", err)
	}
	return entries, nil
}

// GetLeaderboard ranks the crew's helpers by contribution score.
func (s *CrewService) GetLeaderboard(crewID uint64) ([]LeaderboardEntry, error) {
	members, err := s.crewRepo.ListMembers(crewID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	return RankMembers(members), nil
}

// GetMenu returns the crew's active task templates and self-care routines.
func (s *CrewService) GetMenu(crewID uint64) ([]models.TaskMenuTemplate, []models.SelfCareRoutine, error) {
	templates, err := s.menuRepo.ListActiveTemplates(crewID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list task templates: %w", err)
	}
	routines, err := s.menuRepo.ListActiveRoutines(crewID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list routines: %w", err)
	}
	return templates, routines, nil
}

// GetMembership returns the caller's membership in a crew.
func (s *CrewService) GetMembership(crewID, userID uint64) (*models.CrewMember, error) {
	member, err := s.crewRepo.FindMember(crewID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotCrewMember
		}
		return nil, fmt.Errorf("failed to find membership: %w", err)
	}
	return member, nil
}
