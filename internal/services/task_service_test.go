package services

import (
	"testing"

	"github.com/crewcard/crewcard-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTask_RequiresRequesterRole(t *testing.T) {
	env := setupServiceTestEnv(t)
	holder := env.createUser(t, "holder")
	helper := env.createUser(t, "helper")
	crew := env.createCrew(t, holder, helper)

	_, err := env.tasks.CreateTask(CreateTaskInput{
		CrewID:      crew.ID,
		CreatorID:   helper.ID,
		Title:       "Grocery run",
		Category:    "Errands",
		PointCost:   30,
		RequestMode: models.RequestModeOpen,
	})

	assert.ErrorIs(t, err, ErrNotRequester)
}

func TestCreateTask_EmitsFeedEntry(t *testing.T) {
	env := setupServiceTestEnv(t)
	holder := env.createUser(t, "holder")
	crew := env.createCrew(t, holder)

	task, err := env.tasks.CreateTask(CreateTaskInput{
		CrewID:      crew.ID,
		CreatorID:   holder.ID,
		Title:       "Grocery run",
		Category:    "Errands",
		PointCost:   30,
		RequestMode: models.RequestModeOpen,
	})
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusPending, task.Status)

	entries := env.feedEvents(t, crew.ID, models.EventTaskCreated)
	require.Len(t, entries, 1)
	assert.Equal(t, task.ID, entries[0].Payload.TaskID)
	assert.Equal(t, 30, entries[0].Payload.PointCost)
}

func TestCreateTask_DirectModeNeedsMemberAssignee(t *testing.T) {
	env := setupServiceTestEnv(t)
	holder := env.createUser(t, "holder")
	helper := env.createUser(t, "helper")
	outsider := env.createUser(t, "outsider")
	crew := env.createCrew(t, holder, helper)

	_, err := env.tasks.CreateTask(CreateTaskInput{
		CrewID:      crew.ID,
		CreatorID:   holder.ID,
		Title:       "Drive to chemo",
		Category:    "Transportation",
		PointCost:   60,
		RequestMode: models.RequestModeDirect,
	})
	assert.ErrorIs(t, err, ErrAssigneeRequired)

	_, err = env.tasks.CreateTask(CreateTaskInput{
		CrewID:      crew.ID,
		CreatorID:   holder.ID,
		Title:       "Drive to chemo",
		Category:    "Transportation",
		PointCost:   60,
		RequestMode: models.RequestModeDirect,
		AssignedTo:  &outsider.ID,
	})
	assert.ErrorIs(t, err, ErrAssigneeNotMember)
}

func TestClaimTask_RaceLoserGetsConflict(t *testing.T) {
	env := setupServiceTestEnv(t)
	holder := env.createUser(t, "holder")
	helperA := env.createUser(t, "helper-a")
	helperB := env.createUser(t, "helper-b")
	crew := env.createCrew(t, holder, helperA, helperB)

	task, err := env.tasks.CreateTask(CreateTaskInput{
		CrewID:      crew.ID,
		CreatorID:   holder.ID,
		Title:       "Laundry",
		Category:    "Household",
		PointCost:   30,
		RequestMode: models.RequestModeOpen,
	})
	require.NoError(t, err)

	claimed, err := env.tasks.ClaimTask(task.ID, helperA.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusClaimed, claimed.Status)
	require.NotNil(t, claimed.ClaimedBy)
	assert.Equal(t, helperA.ID, *claimed.ClaimedBy)

	_, err = env.tasks.ClaimTask(task.ID, helperB.ID)
	assert.ErrorIs(t, err, ErrTaskNotPending)
}

func TestClaimTask_DirectOnlyByAssignee(t *testing.T) {
	env := setupServiceTestEnv(t)
	holder := env.createUser(t, "holder")
	helperA := env.createUser(t, "helper-a")
	helperB := env.createUser(t, "helper-b")
	crew := env.createCrew(t, holder, helperA, helperB)

	task, err := env.tasks.CreateTask(CreateTaskInput{
		CrewID:      crew.ID,
		CreatorID:   holder.ID,
		Title:       "School pickup",
		Category:    "Kid Care",
		PointCost:   40,
		RequestMode: models.RequestModeDirect,
		AssignedTo:  &helperA.ID,
	})
	require.NoError(t, err)

	_, err = env.tasks.ClaimTask(task.ID, helperB.ID)
	assert.ErrorIs(t, err, ErrNotAssignee)

	claimed, err := env.tasks.ClaimTask(task.ID, helperA.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusClaimed, claimed.Status)
}

func TestCompleteTask_ChargesFinalCostAndUpdatesStats(t *testing.T) {
	env := setupServiceTestEnv(t)
	holder := env.createUser(t, "holder")
	helper := env.createUser(t, "helper")
	crew := env.createCrew(t, holder, helper)
	startBalance := env.crewBalance(t, crew.ID)

	task, err := env.tasks.CreateTask(CreateTaskInput{
		CrewID:      crew.ID,
		CreatorID:   holder.ID,
		Title:       "Bring a meal",
		Category:    "Food & Drinks",
		PointCost:   40,
		RequestMode: models.RequestModeOpen,
	})
	require.NoError(t, err)

	_, err = env.tasks.ClaimTask(task.ID, helper.ID)
	require.NoError(t, err)

	result, err := env.tasks.CompleteTask(task.ID, holder.ID)
	require.NoError(t, err)
	assert.Equal(t, 40, result.FinalCost)
	assert.Equal(t, startBalance-40, result.NewBalance)
	assert.Equal(t, models.TaskStatusCompleted, result.Task.Status)
	require.NotNil(t, result.Task.CompletedAt)

	member := env.member(t, crew.ID, helper.ID)
	assert.Equal(t, 1, member.Stats.TasksCompleted)
	assert.Equal(t, 40, member.Stats.PointsSpent)

	entries := env.feedEvents(t, crew.ID, models.EventTaskCompleted)
	require.Len(t, entries, 1)
	assert.Equal(t, helper.ID, entries[0].Payload.CompletedBy)
}

func TestCompleteTask_PendingTaskRejected(t *testing.T) {
	env := setupServiceTestEnv(t)
	holder := env.createUser(t, "holder")
	helper := env.createUser(t, "helper")
	crew := env.createCrew(t, holder, helper)

	task, err := env.tasks.CreateTask(CreateTaskInput{
		CrewID:      crew.ID,
		CreatorID:   holder.ID,
		Title:       "Dishes",
		Category:    "Household",
		PointCost:   20,
		RequestMode: models.RequestModeOpen,
	})
	require.NoError(t, err)

	_, err = env.tasks.CompleteTask(task.ID, holder.ID)
	assert.ErrorIs(t, err, ErrTaskNotActive)
}

func TestCompleteTask_AlreadyCompletedConflicts(t *testing.T) {
	env := setupServiceTestEnv(t)
	holder := env.createUser(t, "holder")
	helper := env.createUser(t, "helper")
	crew := env.createCrew(t, holder, helper)

	task, err := env.tasks.CreateTask(CreateTaskInput{
		CrewID:      crew.ID,
		CreatorID:   holder.ID,
		Title:       "Dishes",
		Category:    "Household",
		PointCost:   20,
		RequestMode: models.RequestModeOpen,
	})
	require.NoError(t, err)

	_, err = env.tasks.ClaimTask(task.ID, helper.ID)
	require.NoError(t, err)
	_, err = env.tasks.CompleteTask(task.ID, holder.ID)
	require.NoError(t, err)

	_, err = env.tasks.CompleteTask(task.ID, holder.ID)
	assert.ErrorIs(t, err, ErrTaskAlreadyCompleted)
}

func TestCompleteTask_BalanceMayGoNegative(t *testing.T) {
	env := setupServiceTestEnv(t)
	holder := env.createUser(t, "holder")
	helper := env.createUser(t, "helper")

	startingPoints := 100
	crew, err := env.crews.CreateCrew(CreateCrewInput{
		Name:           "Small Crew",
		CardHolderID:   holder.ID,
		StartingPoints: &startingPoints,
	})
	require.NoError(t, err)
	require.NoError(t, env.db.Create(&models.CrewMember{
		CrewID: crew.ID,
		UserID: helper.ID,
		Role:   models.RoleCrewMember,
	}).Error)

	task, err := env.tasks.CreateTask(CreateTaskInput{
		CrewID:      crew.ID,
		CreatorID:   holder.ID,
		Title:       "Airport run",
		Category:    "Transportation",
		PointCost:   150,
		RequestMode: models.RequestModeOpen,
	})
	require.NoError(t, err)

	_, err = env.tasks.ClaimTask(task.ID, helper.ID)
	require.NoError(t, err)

	result, err := env.tasks.CompleteTask(task.ID, holder.ID)
	require.NoError(t, err)
	assert.Equal(t, -50, result.NewBalance)
}

func TestCancelTask_TerminalStatesConflict(t *testing.T) {
	env := setupServiceTestEnv(t)
	holder := env.createUser(t, "holder")
	helper := env.createUser(t, "helper")
	crew := env.createCrew(t, holder, helper)

	task, err := env.tasks.CreateTask(CreateTaskInput{
		CrewID:      crew.ID,
		CreatorID:   holder.ID,
		Title:       "Yard work",
		Category:    "Household",
		PointCost:   40,
		RequestMode: models.RequestModeOpen,
	})
	require.NoError(t, err)

	cancelled, err := env.tasks.CancelTask(task.ID, holder.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusCancelled, cancelled.Status)

	_, err = env.tasks.CancelTask(task.ID, holder.ID)
	assert.ErrorIs(t, err, ErrTaskAlreadyFinished)
}

func TestClaimTask_KeepsStatsFromOtherWriters(t *testing.T) {
	env := setupServiceTestEnv(t)
	holder := env.createUser(t, "holder")
	helper := env.createUser(t, "helper")
	crew := env.createCrew(t, holder, helper)

	first, err := env.tasks.CreateTask(CreateTaskInput{
		CrewID:      crew.ID,
		CreatorID:   holder.ID,
		Title:       "Water the plants",
		Category:    "Household",
		PointCost:   10,
		RequestMode: models.RequestModeOpen,
	})
	require.NoError(t, err)
	second, err := env.tasks.CreateTask(CreateTaskInput{
		CrewID:      crew.ID,
		CreatorID:   holder.ID,
		Title:       "Take out the trash",
		Category:    "Household",
		PointCost:   10,
		RequestMode: models.RequestModeOpen,
	})
	require.NoError(t, err)

	_, err = env.tasks.ClaimTask(first.ID, helper.ID)
	require.NoError(t, err)

	// Another writer bumps a different counter between the two claims.
	member := env.member(t, crew.ID, helper.ID)
	member.Stats.TasksCompleted = 4
	require.NoError(t, env.crewRepo.SaveMember(member))

	_, err = env.tasks.ClaimTask(second.ID, helper.ID)
	require.NoError(t, err)

	member = env.member(t, crew.ID, helper.ID)
	assert.Equal(t, 2, member.Stats.ResponseCount)
	assert.Equal(t, 4, member.Stats.TasksCompleted)
}

func TestClaimTask_RecordsResponseTime(t *testing.T) {
	env := setupServiceTestEnv(t)
	holder := env.createUser(t, "holder")
	helper := env.createUser(t, "helper")
	crew := env.createCrew(t, holder, helper)

	task, err := env.tasks.CreateTask(CreateTaskInput{
		CrewID:      crew.ID,
		CreatorID:   holder.ID,
		Title:       "Walk the dog",
		Category:    "Pet Care",
		PointCost:   20,
		RequestMode: models.RequestModeOpen,
	})
	require.NoError(t, err)

	_, err = env.tasks.ClaimTask(task.ID, helper.ID)
	require.NoError(t, err)

	member := env.member(t, crew.ID, helper.ID)
	assert.Equal(t, 1, member.Stats.ResponseCount)
	assert.GreaterOrEqual(t, member.Stats.TotalResponseTimeMs, int64(0))
}
