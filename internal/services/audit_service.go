package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"musevisit/internal/models/db_models"
	"musevisit/internal/models/response_models"
	"musevisit/internal/repositories"
	"musevisit/pkg/utils"
)

type AuditServiceInterface interface {
	// AuditCheckin is the manual override path: an administrator moves a
	// record to approved or rejected with a mandatory remark.
	AuditCheckin(ctx context.Context, id int64, status db_models.AuditStatus, remark string, auditorID uuid.UUID) ([]response_models.UnlockedAchievement, error)
	BatchAuditCheckins(ctx context.Context, ids []int64, status db_models.AuditStatus, remark string, auditorID uuid.UUID) []response_models.BatchAuditResult
	// RescanApproved re-runs the engine over every approved record and
	// downgrades stale approvals to anomaly-flagged for manual confirmation.
	RescanApproved(ctx context.Context) (response_models.RescanSummary, error)
}

type AuditService struct {
	checkinRepo        repositories.CheckinRepository
	museums            MuseumDirectoryInterface
	engine             *AuditEngine
	achievementService AchievementServiceInterface
	cfg                AuditConfig
}

func NewAuditService(
	checkinRepo repositories.CheckinRepository,
	museums MuseumDirectoryInterface,
	engine *AuditEngine,
	achievementService AchievementServiceInterface,
	cfg AuditConfig,
) AuditServiceInterface {
	return &AuditService{
		checkinRepo:        checkinRepo,
		museums:            museums,
		engine:             engine,
		achievementService: achievementService,
		cfg:                cfg,
	}
}

// validateManualTransition encodes the legal manual moves. Re-entering the
// current status is illegal; this single check is what keeps achievement
// counting idempotent, so it must stay in front of every status write.
func validateManualTransition(from, to db_models.AuditStatus, remark string) error {
	if to != db_models.AuditStatusApproved && to != db_models.AuditStatusRejected {
		return utils.ErrInvalidAuditStatus
	}
	if strings.TrimSpace(remark) == "" {
		return utils.ErrRemarkRequired
	}
	if from == to {
		return utils.ErrIllegalTransition
	}
	return nil
}

func (s *AuditService) AuditCheckin(ctx context.Context, id int64, status db_models.AuditStatus, remark string, auditorID uuid.UUID) ([]response_models.UnlockedAchievement, error) {
	rec, err := s.checkinRepo.GetByID(ctx, id)
	if err != nil {
		log.Printf("Error fetching check-in %d: %v", id, err)
		return nil, utils.ErrDatabaseError
	}
	if rec == nil {
		return nil, utils.ErrCheckinNotFound
	}

	if err := validateManualTransition(rec.AuditStatus, status, remark); err != nil {
		return nil, err
	}

	now := utils.NowUnixSeconds()
	rec.AuditStatus = status
	rec.AuditedAt = &now
	rec.AuditorID = &auditorID
	rec.AuditRemark = remark
	rec.NeedsManualReview = false

	if err := s.checkinRepo.UpdateAuditFields(ctx, rec); err != nil {
		log.Printf("Error persisting audit of check-in %d: %v", id, err)
		return nil, utils.ErrDatabaseError
	}

	if status == db_models.AuditStatusApproved {
		unlocked, err := s.achievementService.OnApproved(ctx, rec.AccountID, rec.MuseumID, rec.VisitedAt)
		if err != nil {
			// The approval stands; the recompute can be re-driven from
			// the approved-record set at the next trigger.
			log.Printf("Achievement update failed after approving check-in %d: %v", id, err)
			return nil, nil
		}
		return unlocked, nil
	}
	return nil, nil
}

func (s *AuditService) BatchAuditCheckins(ctx context.Context, ids []int64, status db_models.AuditStatus, remark string, auditorID uuid.UUID) []response_models.BatchAuditResult {
	results := make([]response_models.BatchAuditResult, 0, len(ids))
	for _, id := range ids {
		res := response_models.BatchAuditResult{ID: id, Success: true}
		if _, err := s.AuditCheckin(ctx, id, status, remark, auditorID); err != nil {
			res.Success = false
			res.Message = err.Error()
		}
		results = append(results, res)
	}
	return results
}

const rescanPageSize = 200

func (s *AuditService) RescanApproved(ctx context.Context) (response_models.RescanSummary, error) {
	var summary response_models.RescanSummary
	start := time.Now()

	for page := 1; ; page++ {
		recs, err := s.checkinRepo.ListApproved(ctx, page, rescanPageSize)
		if err != nil {
			log.Printf("Rescan aborted, cannot list approved records: %v", err)
			return summary, utils.ErrDatabaseError
		}
		if len(recs) == 0 {
			break
		}

		for i := range recs {
			if ctx.Err() != nil {
				summary.Aborted = true
				log.Printf("Rescan cancelled after %d records", summary.Scanned)
				return summary, nil
			}
			s.rescanOne(ctx, &recs[i], &summary)
		}

		if len(recs) < rescanPageSize {
			break
		}
	}

	log.Printf("Rescan finished: %d scanned, %d reclassified, %d failed in %s",
		summary.Scanned, summary.Reclassified, summary.Failed, time.Since(start))
	return summary, nil
}

// rescanOne re-evaluates a single approved record; its own failure only
// increments the failure counter and never aborts the batch.
func (s *AuditService) rescanOne(ctx context.Context, rec *db_models.CheckinRecord, summary *response_models.RescanSummary) {
	summary.Scanned++

	museum, err := s.museums.GetMuseum(ctx, rec.MuseumID)
	if err != nil && !errors.Is(err, utils.ErrMuseumNotFound) {
		summary.Failed++
		log.Printf("Rescan of check-in %d failed on museum lookup: %v", rec.ID, err)
		return
	}

	// Only visits inside the window around this record count; the record
	// itself is excluded by ID.
	window := int64(s.cfg.FrequencyWindowMinutes) * 60
	recent, err := s.checkinRepo.CountRecentApproved(ctx, rec.AccountID, rec.MuseumID, rec.VisitedAt-window, rec.VisitedAt+window, rec.ID)
	if err != nil {
		summary.Failed++
		log.Printf("Rescan of check-in %d failed on history lookup: %v", rec.ID, err)
		return
	}

	decision, err := s.engine.Evaluate(AuditInput{
		Record:              rec,
		Museum:              museum,
		RecentApprovedCount: recent,
		PhotoCount:          len(rec.Photos),
	})
	if err != nil {
		summary.Failed++
		log.Printf("Rescan of check-in %d failed in engine: %v", rec.ID, err)
		return
	}
	if decision.Status == db_models.AuditStatusApproved {
		return
	}

	// Never auto-reject on rescan; a human confirms every retroactive
	// finding.
	now := utils.NowUnixSeconds()
	rec.AuditStatus = db_models.AuditStatusFlagged
	rec.Confidence = decision.Confidence
	rec.RiskLevel = decision.RiskLevel
	rec.AnomalyType = decision.AnomalyType
	rec.NeedsManualReview = true
	rec.AuditedAt = &now
	rec.AuditorID = nil
	rec.AuditRemark = "rescan: " + decision.Reason

	if err := s.checkinRepo.UpdateAuditFields(ctx, rec); err != nil {
		summary.Failed++
		log.Printf("Rescan of check-in %d failed on persist: %v", rec.ID, err)
		return
	}
	summary.Reclassified++
}
