package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/crewcard/crewcard-api/internal/constants"
	"github.com/crewcard/crewcard-api/internal/models"
	"github.com/crewcard/crewcard-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrNotCardHolder        = errors.New("only the card holder can log milestones")
	ErrMilestoneTypeMissing = errors.New("milestone type is required")
)

// MilestoneService handles self-care logging and streak bonuses.
type MilestoneService struct {
	db            *gorm.DB
	milestoneRepo repository.MilestoneRepository
	crewRepo      repository.CrewRepository
	menuRepo      repository.MenuRepository
	activityRepo  repository.ActivityRepository
}

// NewMilestoneService creates a new MilestoneService.
func NewMilestoneService(db *gorm.DB, milestoneRepo repository.MilestoneRepository, crewRepo repository.CrewRepository, menuRepo repository.MenuRepository, activityRepo repository.ActivityRepository) *MilestoneService {
	return &MilestoneService{
		db:            db,
		milestoneRepo: milestoneRepo,
		crewRepo:      crewRepo,
		menuRepo:      menuRepo,
		activityRepo:  activityRepo,
	}
}

// LogMilestoneInput represents input for logging a self-care milestone.
type LogMilestoneInput struct {
	CrewID        uint64
	UserID        uint64
	MilestoneType string
	Note          *string
}

// LogMilestoneResult is the outcome of a milestone log, including any streak
// bonus paid out in the same transaction.
type LogMilestoneResult struct {
	Milestone     *models.Milestone
	PointsEarned  int
	CurrentStreak int
	BonusPoints   int
	BonusType     string
	NewBalance    int
}

// LogMilestone records a self-care event and credits the crew. Card holders
// only; helpers celebrate from the feed. Medication logs additionally feed
// the streak calculator, and a qualifying streak pays its bonus as a second
// ledger credit plus a synthetic milestone row, all inside one transaction.
func (s *MilestoneService) LogMilestone(input LogMilestoneInput) (*LogMilestoneResult, error) {
	if input.MilestoneType == "" {
		return nil, ErrMilestoneTypeMissing
	}

	member, err := s.crewRepo.FindMember(input.CrewID, input.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotCrewMember
		}
		return nil, fmt.Errorf("failed to find membership: %w", err)
	}
	if member.Role != models.RoleCardHolder {
		return nil, ErrNotCardHolder
	}

	pointValue := constants.DefaultMilestonePoints
	routineName := input.MilestoneType
	routine, err := s.menuRepo.FindRoutine(input.CrewID, input.MilestoneType)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up routine: %w", err)
	}
	if routine != nil {
		pointValue = routine.PointValue
		routineName = routine.Name
	}

	now := time.Now()
	result := &LogMilestoneResult{PointsEarned: pointValue}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		milestoneRepo := s.milestoneRepo.WithTx(tx)
		crewRepo := s.crewRepo.WithTx(tx)
		activityRepo := s.activityRepo.WithTx(tx)

		milestone := &models.Milestone{
			CrewID:        input.CrewID,
			UserID:        input.UserID,
			MilestoneType: input.MilestoneType,
			PointsEarned:  pointValue,
			Note:          input.Note,
			LoggedAt:      now,
		}
		if err := milestoneRepo.Create(milestone); err != nil {
			return err
		}
		result.Milestone = milestone

		balance, err := crewRepo.AddPoints(input.CrewID, pointValue)
		if err != nil {
			return err
		}
		result.NewBalance = balance

		err = activityRepo.Append(&models.ActivityEntry{
			CrewID:    input.CrewID,
			EventType: models.EventMilestoneLogged,
			ActorID:   input.UserID,
			Payload: models.ActivityPayload{
				MilestoneType: input.MilestoneType,
				PointsEarned:  pointValue,
				RoutineName:   routineName,
			},
		})
		if err != nil {
			return err
		}

		if input.MilestoneType != constants.StreakMilestoneType {
			return nil
		}

		// The lookback includes the row inserted above, so today always
		// counts as met.
		entries, err := milestoneRepo.ListRecentByType(
			input.UserID, input.CrewID, constants.StreakMilestoneType, constants.StreakLookbackEntries)
		if err != nil {
			return err
		}
		streak := CalculateMedicationStreak(entries, now)
		result.CurrentStreak = streak.CurrentStreak

		member, err := crewRepo.FindMember(input.CrewID, input.UserID)
		if err != nil {
			return err
		}
		member.Stats.CurrentStreak = streak.CurrentStreak
		if streak.CurrentStreak > member.Stats.LongestStreak {
			member.Stats.LongestStreak = streak.CurrentStreak
		}
		if err := awardNewBadges(tx, s.crewRepo, s.activityRepo, member); err != nil {
			return err
		}
		if err := crewRepo.SaveMember(member); err != nil {
			return err
		}

		if streak.BonusPoints == 0 {
			return nil
		}
		result.BonusPoints = streak.BonusPoints
		result.BonusType = streak.BonusType

		balance, err = crewRepo.AddPoints(input.CrewID, streak.BonusPoints)
		if err != nil {
			return err
		}
		result.NewBalance = balance

		note := streak.BonusType
		return milestoneRepo.Create(&models.Milestone{
			CrewID:        input.CrewID,
			UserID:        input.UserID,
			MilestoneType: constants.StreakBonusType,
			PointsEarned:  streak.BonusPoints,
			Note:          &note,
			IsStreakBonus: true,
			LoggedAt:      now,
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to log milestone: %w", err)
	}

	return result, nil
}

// ListRecent returns a crew's latest milestones, newest first, along with the
// active routines available to log against.
func (s *MilestoneService) ListRecent(crewID uint64, limit int) ([]models.Milestone, []models.SelfCareRoutine, error) {
	if limit <= 0 || limit > constants.MaxPageSize {
		limit = constants.DefaultPageSize
	}
	milestones, err := s.milestoneRepo.ListRecentByCrew(crewID, limit)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list milestones: %w", err)
	}
	routines, err := s.menuRepo.ListActiveRoutines(crewID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list routines: %w", err)
	}
	return milestones, routines, nil
}
