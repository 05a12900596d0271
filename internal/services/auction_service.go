package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/crewcard/crewcard-api/internal/models"
	"github.com/crewcard/crewcard-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrNotAuctionTask     = errors.New("task is not an auction request")
	ErrAuctionClosed      = errors.New("auction is no longer accepting bids")
	ErrRequesterCannotBid = errors.New("the requester cannot bid on their own ask")
	ErrInvalidBidAmount   = errors.New("bid amount must be at least 1")
	ErrBidNotLower        = errors.New("bid must be lower than the current lowest bid")
	ErrBidBelowMinimum    = errors.New("bid is below the auction minimum")
)

// AuctionService handles reverse-auction bidding and resolution.
type AuctionService struct {
	db           *gorm.DB
	taskRepo     repository.TaskRepository
	bidRepo      repository.BidRepository
	crewRepo     repository.CrewRepository
	activityRepo repository.ActivityRepository
}

// NewAuctionService creates a new AuctionService.
func NewAuctionService(db *gorm.DB, taskRepo repository.TaskRepository, bidRepo repository.BidRepository, crewRepo repository.CrewRepository, activityRepo repository.ActivityRepository) *AuctionService {
	return &AuctionService{
		db:           db,
		taskRepo:     taskRepo,
		bidRepo:      bidRepo,
		crewRepo:     crewRepo,
		activityRepo: activityRepo,
	}
}

// PlaceBidInput represents input for placing a bid.
type PlaceBidInput struct {
	TaskID  uint64
	UserID  uint64
	Amount  int
	Comment *string
}

// PlaceBidResult is the outcome of an accepted bid.
type PlaceBidResult struct {
	Bid      *models.Bid
	Resolved bool
	Task     *models.Task
}

// PlaceBid validates and records a bid. Bids must strictly undercut the
// current lowest (or the task's point cost when no bids exist) and respect
// the auction minimum. Both the pending status and the lowest-bid check
// re-run inside the insert transaction, so two concurrent bids cannot both
// be accepted as the new lowest and no bid lands on a resolved auction. When
// the bid reaches the auto-close threshold, the auction resolves in the same
// transaction.
func (s *AuctionService) PlaceBid(input PlaceBidInput) (*PlaceBidResult, error) {
	task, err := s.taskRepo.FindByID(input.TaskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if task.RequestMode != models.RequestModeAuction {
		return nil, ErrNotAuctionTask
	}
	if task.Status != models.TaskStatusPending {
		return nil, ErrAuctionClosed
	}

	member, err := s.crewRepo.FindMember(task.CrewID, input.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotCrewMember
		}
		return nil, fmt.Errorf("failed to find membership: %w", err)
	}
	if member.Role == models.RoleCardHolder || task.CreatedBy == input.UserID {
		return nil, ErrRequesterCannotBid
	}

	if input.Amount < 1 {
		return nil, ErrInvalidBidAmount
	}
	if input.Amount < task.Auction.MinBid {
		return nil, ErrBidBelowMinimum
	}

	result := &PlaceBidResult{}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		bidRepo := s.bidRepo.WithTx(tx)

		// The pending check above ran outside this transaction; auto-close or
		// the expiry sweep may have resolved the task since. Re-verify under
		// the row lock so no bid lands on a resolved auction.
		stillPending, err := s.taskRepo.WithTx(tx).TouchPending(task.ID)
		if err != nil {
			return err
		}
		if !stillPending {
			return ErrAuctionClosed
		}

		currentLowest := task.PointCost
		lowest, err := bidRepo.LowestForTask(task.ID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if lowest != nil {
			currentLowest = lowest.BidAmount
		}
		if input.Amount >= currentLowest {
			return ErrBidNotLower
		}

		bid := &models.Bid{
			TaskID:    task.ID,
			UserID:    input.UserID,
			BidAmount: input.Amount,
			Comment:   input.Comment,
		}
		if err := bidRepo.Create(bid); err != nil {
			return err
		}
		result.Bid = bid

		payload := models.ActivityPayload{
			TaskID:    task.ID,
			TaskTitle: task.Title,
			BidAmount: input.Amount,
		}
		if input.Comment != nil {
			payload.Comment = *input.Comment
		}
		err = s.activityRepo.WithTx(tx).Append(&models.ActivityEntry{
			CrewID:    task.CrewID,
			EventType: models.EventBidPlaced,
			ActorID:   input.UserID,
			Payload:   payload,
		})
		if err != nil {
			return err
		}

		if task.Auction.AutoCloseAfterBids != nil {
			count, err := bidRepo.CountForTask(task.ID)
			if err != nil {
				return err
			}
			if count >= int64(*task.Auction.AutoCloseAfterBids) {
				resolved, err := s.resolveAuction(tx, task)
				if err != nil {
					return err
				}
				result.Resolved = resolved
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrBidNotLower) || errors.Is(err, ErrAuctionClosed) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to place bid: %w", err)
	}

	result.Task, err = s.taskRepo.FindByID(task.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload task: %w", err)
	}
	return result, nil
}

// ResolveExpired resolves an auction whose deadline has passed. Idempotent: a
// task that already left pending is a no-op, not an error, so the sweep and a
// racing auto-close never double-resolve.
func (s *AuctionService) ResolveExpired(taskID uint64) error {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to find task: %w", err)
	}

	if task.RequestMode != models.RequestModeAuction {
		return ErrNotAuctionTask
	}
	if task.Status != models.TaskStatusPending {
		return nil
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		_, err := s.resolveAuction(tx, task)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to resolve auction: %w", err)
	}
	return nil
}

// ListExpiredAuctions returns pending auction tasks past their deadline.
func (s *AuctionService) ListExpiredAuctions(now time.Time) ([]models.Task, error) {
	return s.taskRepo.ListExpiredAuctions(now)
}

// resolveAuction picks the winner (lowest bid, earliest placement on ties),
// transitions the task to claimed at the winning amount, credits the winner's
// stats and appends an auction_won entry. An auction with no bids is
// cancelled; there is no feed event for that outcome. Returns false when the
// task was already resolved by a concurrent caller.
func (s *AuctionService) resolveAuction(tx *gorm.DB, task *models.Task) (bool, error) {
	taskRepo := s.taskRepo.WithTx(tx)
	crewRepo := s.crewRepo.WithTx(tx)

	winner, err := s.bidRepo.WithTx(tx).LowestForTask(task.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			_, err := taskRepo.CancelPendingOrActive(task.ID)
			return false, err
		}
		return false, err
	}

	resolved, err := taskRepo.ResolveAuction(task.ID, winner.UserID, winner.BidAmount)
	if err != nil {
		return false, err
	}
	if !resolved {
		return false, nil
	}

	member, err := crewRepo.FindMember(task.CrewID, winner.UserID)
	if err != nil {
		return false, err
	}
	member.Stats.AuctionWins++
	if err := awardNewBadges(tx, s.crewRepo, s.activityRepo, member); err != nil {
		return false, err
	}
	if err := crewRepo.SaveMember(member); err != nil {
		return false, err
	}

	err = s.activityRepo.WithTx(tx).Append(&models.ActivityEntry{
		CrewID:    task.CrewID,
		EventType: models.EventAuctionWon,
		ActorID:   winner.UserID,
		Payload: models.ActivityPayload{
			TaskID:     task.ID,
			TaskTitle:  task.Title,
			WinningBid: winner.BidAmount,
		},
	})
	if err != nil {
		return false, err
	}
	return true, nil
}
