package services

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"musevisit/internal/models/db_models"
	"musevisit/internal/models/response_models"
	"musevisit/internal/repositories"
	"musevisit/pkg/utils"
)

// In-memory repository fakes. They mirror the gorm implementations'
// contracts (not-found as nil, copies out, audit updates by ID) so the
// services under test cannot tell them apart from the real thing.

type fakeCheckinRepo struct {
	mu     sync.Mutex
	nextID int64
	recs   map[int64]db_models.CheckinRecord
	drafts *fakeDraftRepo
}

func newFakeCheckinRepo(drafts *fakeDraftRepo) *fakeCheckinRepo {
	return &fakeCheckinRepo{recs: map[int64]db_models.CheckinRecord{}, drafts: drafts}
}

func (f *fakeCheckinRepo) Create(_ context.Context, rec *db_models.CheckinRecord) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	rec.ID = f.nextID
	f.recs[rec.ID] = *rec
	return rec.ID, nil
}

func (f *fakeCheckinRepo) CreateFromDraft(ctx context.Context, rec *db_models.CheckinRecord, draftID string) (int64, error) {
	if err := f.drafts.Delete(ctx, draftID); err != nil {
		return 0, err
	}
	return f.Create(ctx, rec)
}

func (f *fakeCheckinRepo) GetByID(_ context.Context, id int64) (*db_models.CheckinRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.recs[id]
	if !ok || rec.DeletedAt.Valid {
		return nil, nil
	}
	out := rec
	return &out, nil
}

func (f *fakeCheckinRepo) List(_ context.Context, filter repositories.CheckinFilter, page, pageSize int) ([]db_models.CheckinRecord, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var all []db_models.CheckinRecord
	for _, rec := range f.recs {
		if rec.DeletedAt.Valid {
			continue
		}
		if filter.AccountID != nil && rec.AccountID != *filter.AccountID {
			continue
		}
		if filter.MuseumID != nil && rec.MuseumID != *filter.MuseumID {
			continue
		}
		if filter.Status != nil && rec.AuditStatus != *filter.Status {
			continue
		}
		all = append(all, rec)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].VisitedAt > all[j].VisitedAt })
	total := int64(len(all))
	start := (page - 1) * pageSize
	if start >= len(all) {
		return nil, total, nil
	}
	end := start + pageSize
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (f *fakeCheckinRepo) SoftDelete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.recs[id]
	if !ok {
		return nil
	}
	rec.DeletedAt.Valid = true
	f.recs[id] = rec
	return nil
}

func (f *fakeCheckinRepo) UpdateAuditFields(_ context.Context, rec *db_models.CheckinRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.recs[rec.ID]
	if !ok {
		return nil
	}
	stored.AuditStatus = rec.AuditStatus
	stored.Confidence = rec.Confidence
	stored.RiskLevel = rec.RiskLevel
	stored.AnomalyType = rec.AnomalyType
	stored.NeedsManualReview = rec.NeedsManualReview
	stored.AuditedAt = rec.AuditedAt
	stored.AuditorID = rec.AuditorID
	stored.AuditRemark = rec.AuditRemark
	f.recs[rec.ID] = stored
	return nil
}

func (f *fakeCheckinRepo) CountRecentApproved(_ context.Context, accountID, museumID uuid.UUID, since, until, excludeID int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, rec := range f.recs {
		if rec.DeletedAt.Valid || rec.ID == excludeID {
			continue
		}
		if rec.AccountID == accountID && rec.MuseumID == museumID &&
			rec.AuditStatus == db_models.AuditStatusApproved &&
			rec.VisitedAt >= since && rec.VisitedAt <= until {
			n++
		}
	}
	return n, nil
}

func (f *fakeCheckinRepo) CountApprovedByAccount(_ context.Context, accountID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, rec := range f.recs {
		if !rec.DeletedAt.Valid && rec.AccountID == accountID && rec.AuditStatus == db_models.AuditStatusApproved {
			n++
		}
	}
	return n, nil
}

func (f *fakeCheckinRepo) CountDistinctMuseums(_ context.Context, accountID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	seen := map[uuid.UUID]bool{}
	for _, rec := range f.recs {
		if !rec.DeletedAt.Valid && rec.AccountID == accountID && rec.AuditStatus == db_models.AuditStatusApproved {
			seen[rec.MuseumID] = true
		}
	}
	return int64(len(seen)), nil
}

func (f *fakeCheckinRepo) CountApprovedSince(_ context.Context, accountID uuid.UUID, since int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, rec := range f.recs {
		if !rec.DeletedAt.Valid && rec.AccountID == accountID &&
			rec.AuditStatus == db_models.AuditStatusApproved && rec.VisitedAt >= since {
			n++
		}
	}
	return n, nil
}

func (f *fakeCheckinRepo) ListApproved(_ context.Context, page, pageSize int) ([]db_models.CheckinRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var all []db_models.CheckinRecord
	for _, rec := range f.recs {
		if !rec.DeletedAt.Valid && rec.AuditStatus == db_models.AuditStatusApproved {
			all = append(all, rec)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	start := (page - 1) * pageSize
	if start >= len(all) {
		return nil, nil
	}
	end := start + pageSize
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], nil
}

type fakeDraftRepo struct {
	mu     sync.Mutex
	drafts map[string]db_models.CheckinDraft
}

func newFakeDraftRepo() *fakeDraftRepo {
	return &fakeDraftRepo{drafts: map[string]db_models.CheckinDraft{}}
}

func (f *fakeDraftRepo) Upsert(_ context.Context, draft *db_models.CheckinDraft) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.drafts[draft.DraftID] = *draft
	return nil
}

func (f *fakeDraftRepo) GetByID(_ context.Context, draftID string) (*db_models.CheckinDraft, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	draft, ok := f.drafts[draftID]
	if !ok {
		return nil, nil
	}
	out := draft
	return &out, nil
}

func (f *fakeDraftRepo) Delete(_ context.Context, draftID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.drafts[draftID]; !ok {
		return utils.ErrDraftNotFound
	}
	delete(f.drafts, draftID)
	return nil
}

func (f *fakeDraftRepo) ListByAccount(_ context.Context, accountID uuid.UUID, page, pageSize int) ([]db_models.CheckinDraft, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var all []db_models.CheckinDraft
	for _, draft := range f.drafts {
		if draft.AccountID == accountID {
			all = append(all, draft)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].DraftID < all[j].DraftID })
	total := int64(len(all))
	start := (page - 1) * pageSize
	if start >= len(all) {
		return nil, total, nil
	}
	end := start + pageSize
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

type fakeMuseumDirectory struct {
	museums map[uuid.UUID]*db_models.Museum
}

func newFakeMuseumDirectory(museums ...*db_models.Museum) *fakeMuseumDirectory {
	dir := &fakeMuseumDirectory{museums: map[uuid.UUID]*db_models.Museum{}}
	for _, m := range museums {
		dir.museums[m.ID] = m
	}
	return dir
}

func (f *fakeMuseumDirectory) GetMuseum(_ context.Context, id uuid.UUID) (*db_models.Museum, error) {
	museum, ok := f.museums[id]
	if !ok {
		return nil, utils.ErrMuseumNotFound
	}
	return museum, nil
}

func (f *fakeMuseumDirectory) NearbyMuseums(context.Context, float64, float64, float64) ([]response_models.NearbyMuseum, error) {
	return nil, nil
}

type fakeAchievementRepo struct {
	mu       sync.Mutex
	catalog  []db_models.Achievement
	progress map[string]db_models.UserAchievementProgress
}

func newFakeAchievementRepo(catalog []db_models.Achievement) *fakeAchievementRepo {
	for i := range catalog {
		if catalog[i].ID == uuid.Nil {
			catalog[i].ID = uuid.New()
		}
	}
	return &fakeAchievementRepo{
		catalog:  catalog,
		progress: map[string]db_models.UserAchievementProgress{},
	}
}

func progressKey(accountID, achievementID uuid.UUID) string {
	return accountID.String() + "/" + achievementID.String()
}

func (f *fakeAchievementRepo) SeedCatalog(_ context.Context, items []db_models.Achievement) error {
	return nil
}

func (f *fakeAchievementRepo) ListCatalog(_ context.Context) ([]db_models.Achievement, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]db_models.Achievement, len(f.catalog))
	copy(out, f.catalog)
	return out, nil
}

func (f *fakeAchievementRepo) GetByKey(_ context.Context, key string) (*db_models.Achievement, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, item := range f.catalog {
		if item.Key == key {
			out := item
			return &out, nil
		}
	}
	return nil, nil
}

func (f *fakeAchievementRepo) ListProgress(_ context.Context, accountID uuid.UUID) ([]db_models.UserAchievementProgress, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []db_models.UserAchievementProgress
	for _, item := range f.catalog {
		row, ok := f.progress[progressKey(accountID, item.ID)]
		if !ok {
			continue
		}
		row.Achievement = item
		out = append(out, row)
	}
	return out, nil
}

func (f *fakeAchievementRepo) GetProgress(_ context.Context, accountID, achievementID uuid.UUID) (*db_models.UserAchievementProgress, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.progress[progressKey(accountID, achievementID)]
	if !ok {
		return nil, nil
	}
	out := row
	return &out, nil
}

func (f *fakeAchievementRepo) EnsureProgressRows(_ context.Context, accountID uuid.UUID, catalog []db_models.Achievement) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, item := range catalog {
		key := progressKey(accountID, item.ID)
		if _, ok := f.progress[key]; !ok {
			f.progress[key] = db_models.UserAchievementProgress{
				BaseModel:     db_models.BaseModel{ID: uuid.New()},
				AccountID:     accountID,
				AchievementID: item.ID,
				Target:        item.Target,
			}
		}
	}
	return nil
}

func (f *fakeAchievementRepo) SaveProgress(_ context.Context, rows []*db_models.UserAchievementProgress) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, row := range rows {
		stored := *row
		stored.Achievement = db_models.Achievement{}
		f.progress[progressKey(row.AccountID, row.AchievementID)] = stored
	}
	return nil
}
