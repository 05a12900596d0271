package scheduler

import (
	"log"

	"github.com/crewcard/crewcard-api/internal/config"
	"github.com/crewcard/crewcard-api/internal/services"
	"github.com/go-co-op/gocron/v2"
)

// Manager owns the background job scheduler.
type Manager struct {
	scheduler gocron.Scheduler
	auctions  *services.AuctionService
	config    *config.Config
}

// NewManager creates a new job manager.
func NewManager(auctions *services.AuctionService, cfg *config.Config) *Manager {
	s, err := gocron.NewScheduler()
	if err != nil {
		log.Fatalf("Failed to create scheduler: %v", err)
	}

	return &Manager{
		scheduler: s,
		auctions:  auctions,
		config:    cfg,
	}
}

// Start registers all jobs and starts the scheduler.
func Start(auctions *services.AuctionService, cfg *config.Config) *Manager {
	manager := NewManager(auctions, cfg)
	manager.RegisterJobs()
	manager.scheduler.Start()

	log.Println("Job manager started successfully")
	return manager
}

// RegisterJobs registers all background jobs.
func (m *Manager) RegisterJobs() {
	m.registerAuctionExpiryJob(NewAuctionExpiryJob(m.auctions, m.config))
}

func (m *Manager) registerAuctionExpiryJob(job *AuctionExpiryJob) {
	_, err := m.scheduler.NewJob(
		job.GetSchedule(),
		gocron.NewTask(job.Execute),
		gocron.WithName(job.GetName()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to register job %s: %v", job.GetName(), err)
	}
}

// Stop shuts the scheduler down.
func (m *Manager) Stop() {
	if err := m.scheduler.Shutdown(); err != nil {
		log.Printf("Failed to shutdown scheduler: %v", err)
	}
	log.Println("Job manager stopped")
}
