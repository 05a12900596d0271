package database

import (
	"github.com/crewcard/crewcard-api/internal/models"
	"gorm.io/gorm"
)

type routineSeed struct {
	Name          string
	MilestoneType string
	PointValue    int
	Emoji         string
}

type templateSeed struct {
	Title         string
	Category      string
	DefaultPoints int
	Emoji         string
}

// DefaultSelfCareRoutines is the routine catalog every new crew starts with.
var DefaultSelfCareRoutines = []routineSeed{
	{"Completed chemo session", "chemo", 100, "💪"},
	{"Took all medications today", "meds", 25, "💊"},
	{"Good sleep (self-reported)", "sleep", 20, "😴"},
	{"Went for a walk / light exercise", "exercise", 15, "🚶"},
	{"Ate a full meal", "meal", 15, "🍽️"},
	{"Drank enough water", "water", 10, "💧"},
	{"Attended doctor appointment", "appointment", 50, "🏥"},
	{"Did something fun / laughed", "joy", 30, "😄"},
}

// DefaultTaskTemplates is the task menu every new crew starts with.
var DefaultTaskTemplates = []templateSeed{
	// Food & Drinks
	{"Bring a meal", "Food & Drinks", 30, "🍕"},
	{"Grocery run", "Food & Drinks", 40, "🛒"},
	{"Milkshake delivery", "Food & Drinks", 15, "🥤"},
	{"Cook at my house", "Food & Drinks", 50, "👨‍🍳"},
	// Transportation
	{"Drive to chemo", "Transportation", 60, "🚗"},
	{"Pick up prescriptions", "Transportation", 35, "💊"},
	{"Airport run", "Transportation", 80, "✈️"},
	{"Drive to appointment", "Transportation", 50, "🏥"},
	// Household
	{"Laundry", "Household", 30, "👕"},
	{"Dishes", "Household", 20, "🍽️"},
	{"Vacuuming", "Household", 25, "🧹"},
	{"Yard work", "Household", 40, "🌿"},
	{"Take out trash", "Household", 15, "🗑️"},
	// Errands
	{"Post office run", "Errands", 20, "📦"},
	{"Pharmacy pickup", "Errands", 25, "💊"},
	{"Returns / exchanges", "Errands", 30, "🔄"},
	{"Pet supplies", "Errands", 25, "🐾"},
	// Company & Comfort
	{"Watch a movie together", "Company & Comfort", 15, "🎬"},
	{"Sit with me during treatment", "Company & Comfort", 25, "🤗"},
	{"Phone call / video chat", "Company & Comfort", 10, "📞"},
	{"Bring flowers", "Company & Comfort", 15, "💐"},
	// Pet Care
	{"Walk the dog", "Pet Care", 20, "🐶"},
	{"Feed pets", "Pet Care", 15, "🐱"},
	{"Vet appointment", "Pet Care", 50, "🐾"},
	// Kid Care
	{"School pickup", "Kid Care", 40, "🏫"},
	{"Homework help", "Kid Care", 35, "📚"},
	{"Babysitting", "Kid Care", 60, "👶"},
	{"Take to practice", "Kid Care", 45, "⚽"},
	// Wildcard
	{"Custom request", "Wildcard", 25, "🎲"},
	{"Surprise me", "Wildcard", 20, "🎁"},
	{"Dealer's choice", "Wildcard", 30, "✨"},
}

// SeedCrewDefaults inserts the default task menu and self-care routines for a
// newly created crew. Called inside the crew-creation transaction.
func SeedCrewDefaults(tx *gorm.DB, crewID uint64) error {
	templates := make([]models.TaskMenuTemplate, len(DefaultTaskTemplates))
	for i, t := range DefaultTaskTemplates {
		templates[i] = models.TaskMenuTemplate{
			CrewID:        crewID,
			Title:         t.Title,
			Category:      t.Category,
			DefaultPoints: t.DefaultPoints,
			Emoji:         t.Emoji,
			IsActive:      true,
		}
	}
	if err := tx.Create(&templates).Error; err != nil {
		return err
	}

	routines := make([]models.SelfCareRoutine, len(DefaultSelfCareRoutines))
	for i, r := range DefaultSelfCareRoutines {
		routines[i] = models.SelfCareRoutine{
			CrewID:        crewID,
			Name:          r.Name,
			MilestoneType: r.MilestoneType,
			PointValue:    r.PointValue,
			Emoji:         r.Emoji,
			IsActive:      true,
		}
	}
	return tx.Create(&routines).Error
}
