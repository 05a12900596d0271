package repository

import (
	"github.com/crewcard/crewcard-api/internal/database"
	"github.com/crewcard/crewcard-api/internal/models"
	"gorm.io/gorm"
)

// GormCrewRepository is a GORM implementation of CrewRepository
type GormCrewRepository struct {
	db *gorm.DB
}

// NewCrewRepository creates a new CrewRepository
func NewCrewRepository(db *gorm.DB) CrewRepository {
	return &GormCrewRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction
func (r *GormCrewRepository) WithTx(tx *gorm.DB) CrewRepository {
	return &GormCrewRepository{db: tx}
}

// CreateWithCardHolder creates a crew, its card-holder membership and the
// default menu/routine rows within a single transaction.
func (r *GormCrewRepository) CreateWithCardHolder(crew *models.Crew, member *models.CrewMember) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(crew).Error; err != nil {
			return err
		}

		member.CrewID = crew.ID
		if err := tx.Create(member).Error; err != nil {
			return err
		}

		return database.SeedCrewDefaults(tx, crew.ID)
	})
}

// FindByID finds a crew by ID
func (r *GormCrewRepository) FindByID(id uint64) (*models.Crew, error) {
	var crew models.Crew
	if err := r.db.First(&crew, id).Error; err != nil {
		return nil, err
	}
	return &crew, nil
}

// FindByInviteCode finds a crew by invite code
func (r *GormCrewRepository) FindByInviteCode(code string) (*models.Crew, error) {
	var crew models.Crew
	if err := r.db.Where("invite_code = ?", code).First(&crew).Error; err != nil {
		return nil, err
	}
	return &crew, nil
}

// AddPoints applies a positive delta to the crew's point balance and returns
// the new balance. The delta runs in the store so concurrent writers never
// lose updates.
func (r *GormCrewRepository) AddPoints(crewID uint64, amount int) (int, error) {
	return r.applyPointDelta(crewID, amount)
}

// DeductPoints applies a negative delta to the crew's point balance and
// returns the new balance. Balances may go negative.
func (r *GormCrewRepository) DeductPoints(crewID uint64, amount int) (int, error) {
	return r.applyPointDelta(crewID, -amount)
}

func (r *GormCrewRepository) applyPointDelta(crewID uint64, delta int) (int, error) {
	result := r.db.Model(&models.Crew{}).
		Where("id = ?", crewID).
		UpdateColumn("point_balance", gorm.Expr("point_balance + ?", delta))
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		return 0, gorm.ErrRecordNotFound
	}

	var crew models.Crew
	if err := r.db.Select("point_balance").First(&crew, crewID).Error; err != nil {
		return 0, err
	}
	return crew.PointBalance, nil
}

// AddMember adds a member to a crew
func (r *GormCrewRepository) AddMember(member *models.CrewMember) error {
	return r.db.Create(member).Error
}

// FindMember finds a specific crew member
func (r *GormCrewRepository) FindMember(crewID, userID uint64) (*models.CrewMember, error) {
	var member models.CrewMember
	err := r.db.Where("crew_id = ? AND user_id = ?", crewID, userID).First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// SaveMember persists stats/badges mutations on a member row
func (r *GormCrewRepository) SaveMember(member *models.CrewMember) error {
	return r.db.Save(member).Error
}

// CountMembers counts current members of a crew
func (r *GormCrewRepository) CountMembers(crewID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&models.CrewMember{}).Where("crew_id = ?", crewID).Count(&count).Error
	return count, err
}

// ListMembers lists all members of a crew with their users
func (r *GormCrewRepository) ListMembers(crewID uint64) ([]models.CrewMember, error) {
	var members []models.CrewMember
	err := r.db.Where("crew_id = ?", crewID).
		Preload("User").
		Order("joined_at ASC").
		Find(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}

// ListMembershipsByUserID lists all crews a user is a member of
func (r *GormCrewRepository) ListMembershipsByUserID(userID uint64) ([]models.CrewMember, error) {
	var members []models.CrewMember
	err := r.db.Where("user_id = ?", userID).
		Preload("Crew").
		Order("joined_at ASC").
		Find(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}
