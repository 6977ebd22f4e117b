package services

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"musevisit/internal/models/db_models"
	"musevisit/internal/models/request_models"
	"musevisit/pkg/utils"
)

type checkinFixture struct {
	service      CheckinServiceInterface
	audits       AuditServiceInterface
	achievements AchievementServiceInterface
	checkins     *fakeCheckinRepo
	drafts       *fakeDraftRepo
	museum       *db_models.Museum
	accountID    uuid.UUID
}

func newCheckinFixture(t *testing.T, cfg AuditConfig) *checkinFixture {
	t.Helper()

	museum := testMuseum()
	directory := newFakeMuseumDirectory(museum)
	drafts := newFakeDraftRepo()
	checkins := newFakeCheckinRepo(drafts)
	achievementRepo := newFakeAchievementRepo(db_models.DefaultAchievementCatalog())
	achievements := NewAchievementService(achievementRepo, checkins)
	engine := NewAuditEngine(cfg)

	return &checkinFixture{
		service:      NewCheckinService(checkins, drafts, directory, engine, achievements, cfg),
		audits:       NewAuditService(checkins, directory, engine, achievements, cfg),
		achievements: achievements,
		checkins:     checkins,
		drafts:       drafts,
		museum:       museum,
		accountID:    uuid.New(),
	}
}

func (f *checkinFixture) submitRequest() request_models.SubmitCheckinRequest {
	return request_models.SubmitCheckinRequest{
		MuseumID:  f.museum.ID,
		VisitedAt: middayVisit(),
		Latitude:  ptr(museumLat),
		Longitude: ptr(museumLng),
		Remark:    "great visit",
		PhotoURLs: []string{"https://cdn.example.com/p1.jpg"},
	}
}

func TestSubmitDraftCreatesAndUpdatesInPlace(t *testing.T) {
	f := newCheckinFixture(t, DefaultAuditConfig())
	ctx := context.Background()

	req := f.submitRequest()
	req.IsDraft = true

	resp, err := f.service.SubmitCheckin(ctx, req, f.accountID)
	require.NoError(t, err)
	assert.True(t, resp.IsDraft)
	assert.True(t, strings.HasPrefix(resp.DraftID, f.accountID.String()+"_"))
	assert.Zero(t, resp.ID)

	// Resubmitting with the issued token overwrites, never forks.
	req.DraftID = resp.DraftID
	req.Remark = "edited remark"
	resp2, err := f.service.SubmitCheckin(ctx, req, f.accountID)
	require.NoError(t, err)
	assert.Equal(t, resp.DraftID, resp2.DraftID)

	_, total, err := f.drafts.ListByAccount(ctx, f.accountID, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)

	stored, err := f.drafts.GetByID(ctx, resp.DraftID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "edited remark", stored.Remark)
}

func TestSubmitDraftRejectsForeignDraftID(t *testing.T) {
	f := newCheckinFixture(t, DefaultAuditConfig())
	ctx := context.Background()

	req := f.submitRequest()
	req.IsDraft = true
	resp, err := f.service.SubmitCheckin(ctx, req, f.accountID)
	require.NoError(t, err)

	req.DraftID = resp.DraftID
	_, err = f.service.SubmitCheckin(ctx, req, uuid.New())
	require.ErrorIs(t, err, utils.ErrDraftNotFound)
}

func TestFinalizeDraftConvertsAndDeletes(t *testing.T) {
	f := newCheckinFixture(t, DefaultAuditConfig())
	ctx := context.Background()

	draftReq := f.submitRequest()
	draftReq.IsDraft = true
	draftResp, err := f.service.SubmitCheckin(ctx, draftReq, f.accountID)
	require.NoError(t, err)

	finalReq := f.submitRequest()
	finalReq.DraftID = draftResp.DraftID
	finalResp, err := f.service.SubmitCheckin(ctx, finalReq, f.accountID)
	require.NoError(t, err)

	assert.Positive(t, finalResp.ID)
	assert.False(t, finalResp.IsDraft)

	gone, err := f.drafts.GetByID(ctx, draftResp.DraftID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	rec, err := f.checkins.GetByID(ctx, finalResp.ID)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, db_models.AuditStatusApproved, rec.AuditStatus)
}

func TestFinalizeMissingDraftFails(t *testing.T) {
	f := newCheckinFixture(t, DefaultAuditConfig())

	req := f.submitRequest()
	req.DraftID = f.accountID.String() + "_1700000000000"

	_, err := f.service.SubmitCheckin(context.Background(), req, f.accountID)
	require.ErrorIs(t, err, utils.ErrDraftNotFound)
}

func TestDirectFinalizeApprovedUpdatesAchievements(t *testing.T) {
	f := newCheckinFixture(t, DefaultAuditConfig())

	resp, err := f.service.SubmitCheckin(context.Background(), f.submitRequest(), f.accountID)
	require.NoError(t, err)

	assert.Equal(t, string(db_models.AuditStatusApproved), resp.AuditStatus)
	assert.False(t, resp.NeedsManualReview)

	var keys []string
	for _, u := range resp.UnlockedAchievements {
		keys = append(keys, u.Key)
	}
	assert.Contains(t, keys, "first_visit")
}

func TestSubmitFrequencyWindowIsBounded(t *testing.T) {
	f := newCheckinFixture(t, DefaultAuditConfig())
	ctx := context.Background()

	resp, err := f.service.SubmitCheckin(ctx, f.submitRequest(), f.accountID)
	require.NoError(t, err)
	require.Equal(t, string(db_models.AuditStatusApproved), resp.AuditStatus)

	// A backdated submission two hours before the existing visit is outside
	// the window; the later visit must not count against it.
	earlier := f.submitRequest()
	earlier.VisitedAt = middayVisit() - 2*3600
	resp2, err := f.service.SubmitCheckin(ctx, earlier, f.accountID)
	require.NoError(t, err)
	assert.Equal(t, string(db_models.AuditStatusApproved), resp2.AuditStatus)

	// A repeat at the same instant is inside the window and gets flagged.
	resp3, err := f.service.SubmitCheckin(ctx, f.submitRequest(), f.accountID)
	require.NoError(t, err)
	assert.Equal(t, string(db_models.AuditStatusFlagged), resp3.AuditStatus)
	assert.Equal(t, string(db_models.AnomalyFrequency), resp3.AnomalyType)
}

func TestSubmitValidation(t *testing.T) {
	f := newCheckinFixture(t, DefaultAuditConfig())
	ctx := context.Background()

	t.Run("out of range coordinates", func(t *testing.T) {
		req := f.submitRequest()
		req.Latitude = ptr(123.0)
		_, err := f.service.SubmitCheckin(ctx, req, f.accountID)
		require.ErrorIs(t, err, utils.ErrInvalidCoordinate)
	})

	t.Run("rating bounds", func(t *testing.T) {
		req := f.submitRequest()
		req.Rating = ptr(6)
		_, err := f.service.SubmitCheckin(ctx, req, f.accountID)
		require.ErrorIs(t, err, utils.ErrInvalidRating)
	})

	t.Run("unknown museum", func(t *testing.T) {
		req := f.submitRequest()
		req.MuseumID = uuid.New()
		_, err := f.service.SubmitCheckin(ctx, req, f.accountID)
		require.ErrorIs(t, err, utils.ErrMuseumNotFound)
	})
}

func TestDeleteDraftOwnership(t *testing.T) {
	f := newCheckinFixture(t, DefaultAuditConfig())
	ctx := context.Background()

	req := f.submitRequest()
	req.IsDraft = true
	resp, err := f.service.SubmitCheckin(ctx, req, f.accountID)
	require.NoError(t, err)

	require.ErrorIs(t, f.service.DeleteDraft(ctx, resp.DraftID, uuid.New()), utils.ErrForbidden)
	require.NoError(t, f.service.DeleteDraft(ctx, resp.DraftID, f.accountID))
	require.ErrorIs(t, f.service.DeleteDraft(ctx, resp.DraftID, f.accountID), utils.ErrDraftNotFound)
}

func TestDeleteCheckinOwnership(t *testing.T) {
	f := newCheckinFixture(t, DefaultAuditConfig())
	ctx := context.Background()

	resp, err := f.service.SubmitCheckin(ctx, f.submitRequest(), f.accountID)
	require.NoError(t, err)

	require.ErrorIs(t, f.service.DeleteCheckin(ctx, resp.ID, uuid.New()), utils.ErrForbidden)
	require.NoError(t, f.service.DeleteCheckin(ctx, resp.ID, f.accountID))
	require.ErrorIs(t, f.service.DeleteCheckin(ctx, resp.ID, f.accountID), utils.ErrCheckinNotFound)
}

// End-to-end of the common review loop: a photo-less submission gets
// flagged, an administrator approves it manually, and both counters move by
// exactly one.
func TestFlaggedThenManuallyApprovedScenario(t *testing.T) {
	f := newCheckinFixture(t, DefaultAuditConfig())
	ctx := context.Background()

	draftReq := f.submitRequest()
	draftReq.IsDraft = true
	draftReq.PhotoURLs = nil
	draftResp, err := f.service.SubmitCheckin(ctx, draftReq, f.accountID)
	require.NoError(t, err)

	finalReq := f.submitRequest()
	finalReq.DraftID = draftResp.DraftID
	finalReq.PhotoURLs = nil
	finalResp, err := f.service.SubmitCheckin(ctx, finalReq, f.accountID)
	require.NoError(t, err)

	assert.Equal(t, string(db_models.AuditStatusFlagged), finalResp.AuditStatus)
	assert.Equal(t, string(db_models.AnomalyContent), finalResp.AnomalyType)
	assert.True(t, finalResp.NeedsManualReview)
	assert.Empty(t, finalResp.UnlockedAchievements)

	unlocked, err := f.audits.AuditCheckin(ctx, finalResp.ID, db_models.AuditStatusApproved, "photo provided offline", uuid.New())
	require.NoError(t, err)

	var keys []string
	for _, u := range unlocked {
		keys = append(keys, u.Key)
	}
	assert.Contains(t, keys, "first_visit")

	total, err := f.checkins.CountApprovedByAccount(ctx, f.accountID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	distinct, err := f.checkins.CountDistinctMuseums(ctx, f.accountID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, distinct)
}
