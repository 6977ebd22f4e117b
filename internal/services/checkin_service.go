package services

import (
	"context"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"musevisit/internal/models/db_models"
	"musevisit/internal/models/request_models"
	"musevisit/internal/models/response_models"
	"musevisit/internal/repositories"
	"musevisit/pkg/utils"
)

type CheckinServiceInterface interface {
	SubmitCheckin(ctx context.Context, req request_models.SubmitCheckinRequest, accountID uuid.UUID) (*response_models.SubmitCheckinResponse, error)
	ListCheckins(ctx context.Context, query request_models.CheckinListQuery, page, pageSize int) (*response_models.CheckinPage, error)
	DeleteDraft(ctx context.Context, draftID string, accountID uuid.UUID) error
	DeleteCheckin(ctx context.Context, id int64, accountID uuid.UUID) error
}

type CheckinService struct {
	checkinRepo        repositories.CheckinRepository
	draftRepo          repositories.CheckinDraftRepository
	museums            MuseumDirectoryInterface
	engine             *AuditEngine
	achievementService AchievementServiceInterface
	cfg                AuditConfig
}

func NewCheckinService(
	checkinRepo repositories.CheckinRepository,
	draftRepo repositories.CheckinDraftRepository,
	museums MuseumDirectoryInterface,
	engine *AuditEngine,
	achievementService AchievementServiceInterface,
	cfg AuditConfig,
) CheckinServiceInterface {
	return &CheckinService{
		checkinRepo:        checkinRepo,
		draftRepo:          draftRepo,
		museums:            museums,
		engine:             engine,
		achievementService: achievementService,
		cfg:                cfg,
	}
}

func validateSubmitPayload(req *request_models.SubmitCheckinRequest) error {
	if req.Latitude != nil || req.Longitude != nil {
		if req.Latitude == nil || req.Longitude == nil {
			return utils.ErrInvalidCoordinate
		}
		if err := utils.ValidateCoordinate(*req.Latitude, *req.Longitude); err != nil {
			return err
		}
	}
	if req.Rating != nil && (*req.Rating < 1 || *req.Rating > 5) {
		return utils.ErrInvalidRating
	}
	return nil
}

func (s *CheckinService) SubmitCheckin(ctx context.Context, req request_models.SubmitCheckinRequest, accountID uuid.UUID) (*response_models.SubmitCheckinResponse, error) {
	if err := validateSubmitPayload(&req); err != nil {
		return nil, err
	}

	museum, err := s.museums.GetMuseum(ctx, req.MuseumID)
	if err != nil {
		return nil, err
	}

	if req.IsDraft {
		return s.saveDraft(ctx, req, accountID, museum)
	}
	return s.finalize(ctx, req, accountID, museum)
}

func (s *CheckinService) saveDraft(ctx context.Context, req request_models.SubmitCheckinRequest, accountID uuid.UUID, museum *db_models.Museum) (*response_models.SubmitCheckinResponse, error) {
	draftID := strings.TrimSpace(req.DraftID)
	if draftID == "" {
		draftID = db_models.NewDraftID(accountID, utils.NowUnixMillis())
	} else {
		existing, err := s.draftRepo.GetByID(ctx, draftID)
		if err != nil {
			log.Printf("Error fetching draft %s: %v", draftID, err)
			return nil, utils.ErrDatabaseError
		}
		if existing == nil || existing.AccountID != accountID {
			return nil, utils.ErrDraftNotFound
		}
	}

	draft := buildDraft(draftID, accountID, req, museum)
	if err := s.draftRepo.Upsert(ctx, draft); err != nil {
		log.Printf("Error saving draft %s: %v", draftID, err)
		return nil, utils.ErrDatabaseError
	}

	return &response_models.SubmitCheckinResponse{
		DraftID:   draftID,
		IsDraft:   true,
		Timestamp: utils.NowUnixSeconds(),
	}, nil
}

// finalize turns the payload (or a referenced draft) into a permanent
// record; the automatic audit and, on approval, the achievement update run
// inside the same request so visible state is always consistent.
func (s *CheckinService) finalize(ctx context.Context, req request_models.SubmitCheckinRequest, accountID uuid.UUID, museum *db_models.Museum) (*response_models.SubmitCheckinResponse, error) {
	draftID := strings.TrimSpace(req.DraftID)
	if draftID != "" {
		draft, err := s.draftRepo.GetByID(ctx, draftID)
		if err != nil {
			log.Printf("Error fetching draft %s: %v", draftID, err)
			return nil, utils.ErrDatabaseError
		}
		if draft == nil || draft.AccountID != accountID {
			return nil, utils.ErrDraftNotFound
		}
	}

	rec := buildRecord(accountID, req, museum)

	windowStart := rec.VisitedAt - int64(s.cfg.FrequencyWindowMinutes)*60
	recent, err := s.checkinRepo.CountRecentApproved(ctx, accountID, req.MuseumID, windowStart, rec.VisitedAt, 0)
	if err != nil {
		log.Printf("Error loading recent check-ins for %s: %v", accountID, err)
		return nil, utils.ErrDatabaseError
	}

	decision, err := s.engine.Evaluate(AuditInput{
		Record:              rec,
		Museum:              museum,
		RecentApprovedCount: recent,
		PhotoCount:          len(req.PhotoURLs),
	})
	if err != nil {
		return nil, err
	}

	now := utils.NowUnixSeconds()
	rec.AuditStatus = decision.Status
	rec.Confidence = decision.Confidence
	rec.RiskLevel = decision.RiskLevel
	rec.AnomalyType = decision.AnomalyType
	rec.NeedsManualReview = decision.NeedsManualReview
	rec.AuditedAt = &now
	rec.AuditRemark = decision.Reason

	var id int64
	if draftID != "" {
		id, err = s.checkinRepo.CreateFromDraft(ctx, rec, draftID)
	} else {
		id, err = s.checkinRepo.Create(ctx, rec)
	}
	if err != nil {
		log.Printf("Error persisting check-in for %s: %v", accountID, err)
		return nil, utils.ErrDatabaseError
	}

	resp := &response_models.SubmitCheckinResponse{
		ID:                id,
		Timestamp:         now,
		AuditStatus:       string(decision.Status),
		NeedsManualReview: decision.NeedsManualReview,
	}
	if decision.AnomalyType != nil {
		resp.AnomalyType = string(*decision.AnomalyType)
	}

	if decision.Status == db_models.AuditStatusApproved {
		unlocked, err := s.achievementService.OnApproved(ctx, accountID, rec.MuseumID, rec.VisitedAt)
		if err != nil {
			// The record is approved; the counter recompute converges on
			// the next trigger.
			log.Printf("Achievement update failed after check-in %d: %v", id, err)
		} else {
			resp.UnlockedAchievements = unlocked
		}
	}
	return resp, nil
}

func (s *CheckinService) ListCheckins(ctx context.Context, query request_models.CheckinListQuery, page, pageSize int) (*response_models.CheckinPage, error) {
	if page < 1 {
		return nil, utils.ErrInvalidPage
	}
	if pageSize < 1 || pageSize > 100 {
		return nil, utils.ErrInvalidPageSize
	}

	if query.DraftsOnly {
		if query.AccountID == nil {
			return nil, utils.ErrInvalidInput
		}
		drafts, total, err := s.draftRepo.ListByAccount(ctx, *query.AccountID, page, pageSize)
		if err != nil {
			log.Printf("Error listing drafts: %v", err)
			return nil, utils.ErrDatabaseError
		}
		return draftPage(drafts, total, page, pageSize), nil
	}

	filter := repositories.CheckinFilter{
		AccountID: query.AccountID,
		MuseumID:  query.MuseumID,
		Status:    query.Status,
		From:      query.From,
		To:        query.To,
		Keyword:   query.Keyword,
	}
	recs, total, err := s.checkinRepo.List(ctx, filter, page, pageSize)
	if err != nil {
		log.Printf("Error listing check-ins: %v", err)
		return nil, utils.ErrDatabaseError
	}
	return recordPage(recs, total, page, pageSize), nil
}

func (s *CheckinService) DeleteDraft(ctx context.Context, draftID string, accountID uuid.UUID) error {
	draft, err := s.draftRepo.GetByID(ctx, draftID)
	if err != nil {
		log.Printf("Error fetching draft %s: %v", draftID, err)
		return utils.ErrDatabaseError
	}
	if draft == nil {
		return utils.ErrDraftNotFound
	}
	if draft.AccountID != accountID {
		return utils.ErrForbidden
	}

	if err := s.draftRepo.Delete(ctx, draftID); err != nil {
		log.Printf("Error deleting draft %s: %v", draftID, err)
		return utils.ErrDatabaseError
	}
	return nil
}

func (s *CheckinService) DeleteCheckin(ctx context.Context, id int64, accountID uuid.UUID) error {
	rec, err := s.checkinRepo.GetByID(ctx, id)
	if err != nil {
		log.Printf("Error fetching check-in %d: %v", id, err)
		return utils.ErrDatabaseError
	}
	if rec == nil {
		return utils.ErrCheckinNotFound
	}
	if rec.AccountID != accountID {
		return utils.ErrForbidden
	}

	if err := s.checkinRepo.SoftDelete(ctx, id); err != nil {
		log.Printf("Error deleting check-in %d: %v", id, err)
		return utils.ErrDatabaseError
	}
	return nil
}

func buildDraft(draftID string, accountID uuid.UUID, req request_models.SubmitCheckinRequest, museum *db_models.Museum) *db_models.CheckinDraft {
	return &db_models.CheckinDraft{
		DraftID:       draftID,
		AccountID:     accountID,
		MuseumID:      req.MuseumID,
		MuseumName:    museum.Name,
		MuseumAddress: museum.Address,
		VisitedAt:     visitedAtOrNow(req.VisitedAt),
		Latitude:      req.Latitude,
		Longitude:     req.Longitude,
		Remark:        req.Remark,
		Rating:        req.Rating,
		Mood:          req.Mood,
		Weather:       req.Weather,
		Companions:    pq.StringArray(req.Companions),
		Tags:          pq.StringArray(req.Tags),
		PhotoURLs:     pq.StringArray(req.PhotoURLs),
		DeviceInfo:    req.DeviceInfo,
	}
}

func buildRecord(accountID uuid.UUID, req request_models.SubmitCheckinRequest, museum *db_models.Museum) *db_models.CheckinRecord {
	rec := &db_models.CheckinRecord{
		AccountID:     accountID,
		MuseumID:      req.MuseumID,
		MuseumName:    museum.Name,
		MuseumAddress: museum.Address,
		VisitedAt:     visitedAtOrNow(req.VisitedAt),
		Latitude:      req.Latitude,
		Longitude:     req.Longitude,
		Remark:        req.Remark,
		Rating:        req.Rating,
		Mood:          req.Mood,
		Weather:       req.Weather,
		Companions:    pq.StringArray(req.Companions),
		Tags:          pq.StringArray(req.Tags),
		DeviceInfo:    req.DeviceInfo,
		AuditStatus:   db_models.AuditStatusPending,
	}
	for _, url := range req.PhotoURLs {
		rec.Photos = append(rec.Photos, db_models.CheckinPhoto{URL: url})
	}
	return rec
}

func visitedAtOrNow(t int64) int64 {
	if t > 0 {
		return t
	}
	return utils.NowUnixSeconds()
}

func draftPage(drafts []db_models.CheckinDraft, total int64, page, pageSize int) *response_models.CheckinPage {
	items := make([]response_models.CheckinRecord, 0, len(drafts))
	for _, d := range drafts {
		items = append(items, response_models.CheckinRecord{
			DraftID:       d.DraftID,
			IsDraft:       true,
			MuseumID:      d.MuseumID.String(),
			MuseumName:    d.MuseumName,
			MuseumAddress: d.MuseumAddress,
			VisitedAt:     d.VisitedAt,
			Latitude:      d.Latitude,
			Longitude:     d.Longitude,
			Remark:        d.Remark,
			Rating:        d.Rating,
			Mood:          d.Mood,
			Weather:       d.Weather,
			Companions:    d.Companions,
			Tags:          d.Tags,
			PhotoURLs:     d.PhotoURLs,
			AuditStatus:   string(db_models.AuditStatusPending),
		})
	}
	return &response_models.CheckinPage{Items: items, Total: total, Page: page, PageSize: pageSize}
}

func recordPage(recs []db_models.CheckinRecord, total int64, page, pageSize int) *response_models.CheckinPage {
	items := make([]response_models.CheckinRecord, 0, len(recs))
	for _, r := range recs {
		item := response_models.CheckinRecord{
			ID:                r.ID,
			MuseumID:          r.MuseumID.String(),
			MuseumName:        r.MuseumName,
			MuseumAddress:     r.MuseumAddress,
			VisitedAt:         r.VisitedAt,
			Latitude:          r.Latitude,
			Longitude:         r.Longitude,
			Remark:            r.Remark,
			Rating:            r.Rating,
			Mood:              r.Mood,
			Weather:           r.Weather,
			Companions:        r.Companions,
			Tags:              r.Tags,
			AuditStatus:       string(r.AuditStatus),
			AuditRemark:       r.AuditRemark,
			Confidence:        r.Confidence,
			RiskLevel:         string(r.RiskLevel),
			NeedsManualReview: r.NeedsManualReview,
		}
		if r.AnomalyType != nil {
			item.AnomalyType = string(*r.AnomalyType)
		}
		for _, p := range r.Photos {
			item.PhotoURLs = append(item.PhotoURLs, p.URL)
		}
		items = append(items, item)
	}
	return &response_models.CheckinPage{Items: items, Total: total, Page: page, PageSize: pageSize}
}
