package services

import (
	"testing"
	"time"

	"github.com/crewcard/crewcard-api/internal/models"
	"github.com/crewcard/crewcard-api/internal/repository"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type serviceTestEnv struct {
	db         *gorm.DB
	crews      *CrewService
	tasks      *TaskService
	auctions   *AuctionService
	milestones *MilestoneService

	crewRepo      repository.CrewRepository
	taskRepo      repository.TaskRepository
	bidRepo       repository.BidRepository
	milestoneRepo repository.MilestoneRepository
	activityRepo  repository.ActivityRepository
}

func setupServiceTestEnv(t *testing.T) serviceTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Crew{},
		&models.CrewMember{},
		&models.Task{},
		&models.Bid{},
		&models.Milestone{},
		&models.ActivityEntry{},
		&models.TaskMenuTemplate{},
		&models.SelfCareRoutine{},
	)
	require.NoError(t, err)

	crewRepo := repository.NewCrewRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	bidRepo := repository.NewBidRepository(db)
	milestoneRepo := repository.NewMilestoneRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	menuRepo := repository.NewMenuRepository(db)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return serviceTestEnv{
		db:            db,
		crews:         NewCrewService(db, crewRepo, activityRepo, menuRepo),
		tasks:         NewTaskService(db, taskRepo, crewRepo, activityRepo),
		auctions:      NewAuctionService(db, taskRepo, bidRepo, crewRepo, activityRepo),
		milestones:    NewMilestoneService(db, milestoneRepo, crewRepo, menuRepo, activityRepo),
		crewRepo:      crewRepo,
		taskRepo:      taskRepo,
		bidRepo:       bidRepo,
		milestoneRepo: milestoneRepo,
		activityRepo:  activityRepo,
	}
}

func (env serviceTestEnv) createUser(t *testing.T, name string) *models.User {
	t.Helper()
	user := &models.User{
		DisplayName:  name,
		Email:        name + "@example.com",
		PasswordHash: "hashed",
	}
	require.NoError(t, env.db.Create(user).Error)
	return user
}

// createCrew creates a crew through the service so the default menu and
// routines are seeded, then enrolls the given helpers as crew members.
func (env serviceTestEnv) createCrew(t *testing.T, cardHolder *models.User, helpers ...*models.User) *models.Crew {
	t.Helper()
	crew, err := env.crews.CreateCrew(CreateCrewInput{
		Name:         "Test Crew",
		CardHolderID: cardHolder.ID,
	})
	require.NoError(t, err)

	for _, helper := range helpers {
		require.NoError(t, env.crewRepo.AddMember(&models.CrewMember{
			CrewID:   crew.ID,
			UserID:   helper.ID,
			Role:     models.RoleCrewMember,
			JoinedAt: time.Now(),
		}))
	}
	return crew
}

func (env serviceTestEnv) crewBalance(t *testing.T, crewID uint64) int {
	t.Helper()
	var crew models.Crew
	require.NoError(t, env.db.First(&crew, crewID).Error)
	return crew.PointBalance
}

func (env serviceTestEnv) member(t *testing.T, crewID, userID uint64) *models.CrewMember {
	t.Helper()
	member, err := env.crewRepo.FindMember(crewID, userID)
	require.NoError(t, err)
	return member
}

func (env serviceTestEnv) feedEvents(t *testing.T, crewID uint64, eventType models.ActivityEventType) []models.ActivityEntry {
	t.Helper()
	var entries []models.ActivityEntry
	require.NoError(t, env.db.
		Where("crew_id = ? AND event_type = ?", crewID, eventType).
		Order("id ASC").
		Find(&entries).Error)
	return entries
}
