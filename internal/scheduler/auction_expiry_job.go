package scheduler

import (
	"log"
	"time"

	"github.com/crewcard/crewcard-api/internal/config"
	"github.com/crewcard/crewcard-api/internal/services"
	"github.com/go-co-op/gocron/v2"
)

// AuctionExpiryJob resolves auctions whose deadline has passed. Resolution is
// idempotent, so overlapping sweeps and per-bid auto-close racing the sweep
// are harmless.
type AuctionExpiryJob struct {
	auctions *services.AuctionService
	config   *config.Config
}

// NewAuctionExpiryJob creates the auction expiry sweep.
func NewAuctionExpiryJob(auctions *services.AuctionService, cfg *config.Config) *AuctionExpiryJob {
	return &AuctionExpiryJob{
		auctions: auctions,
		config:   cfg,
	}
}

// GetName returns the job name.
func (j *AuctionExpiryJob) GetName() string {
	return "auction_expiry_sweep"
}

// GetSchedule returns the job's schedule.
func (j *AuctionExpiryJob) GetSchedule() gocron.JobDefinition {
	return gocron.DurationJob(j.config.SweepInterval)
}

// Execute resolves every expired pending auction.
func (j *AuctionExpiryJob) Execute() {
	tasks, err := j.auctions.ListExpiredAuctions(time.Now())
	if err != nil {
		log.Printf("Failed to list expired auctions: %v", err)
		return
	}
	if len(tasks) == 0 {
		return
	}

	resolved := 0
	for _, task := range tasks {
		if err := j.auctions.ResolveExpired(task.ID); err != nil {
			log.Printf("Failed to resolve auction %d: %v", task.ID, err)
			continue
		}
		resolved++
	}
	log.Printf("Auction expiry sweep completed. Resolved %d auctions", resolved)
}
