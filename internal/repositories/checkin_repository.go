package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"musevisit/internal/models/db_models"
)

// CheckinFilter narrows the record listing. Zero values mean "no constraint".
type CheckinFilter struct {
	AccountID *uuid.UUID
	MuseumID  *uuid.UUID
	Status    *db_models.AuditStatus
	From      int64
	To        int64
	Keyword   string
}

type CheckinRepository interface {
	Create(ctx context.Context, rec *db_models.CheckinRecord) (int64, error)
	// CreateFromDraft persists the final record and removes the source draft
	// in one transaction so a crash can never leave both or neither.
	CreateFromDraft(ctx context.Context, rec *db_models.CheckinRecord, draftID string) (int64, error)
	GetByID(ctx context.Context, id int64) (*db_models.CheckinRecord, error)
	List(ctx context.Context, filter CheckinFilter, page, pageSize int) ([]db_models.CheckinRecord, int64, error)
	SoftDelete(ctx context.Context, id int64) error
	UpdateAuditFields(ctx context.Context, rec *db_models.CheckinRecord) error

	// CountRecentApproved counts the account's approved check-ins at the
	// museum with visited_at inside [since, until]. excludeID keeps a record
	// under re-evaluation from counting against itself.
	CountRecentApproved(ctx context.Context, accountID, museumID uuid.UUID, since, until, excludeID int64) (int64, error)
	CountApprovedByAccount(ctx context.Context, accountID uuid.UUID) (int64, error)
	CountDistinctMuseums(ctx context.Context, accountID uuid.UUID) (int64, error)
	CountApprovedSince(ctx context.Context, accountID uuid.UUID, since int64) (int64, error)
	ListApproved(ctx context.Context, page, pageSize int) ([]db_models.CheckinRecord, error)
}

type checkinRepository struct {
	db *gorm.DB
}

func NewCheckinRepository(db *gorm.DB) CheckinRepository {
	return &checkinRepository{db: db}
}

func (r *checkinRepository) Create(ctx context.Context, rec *db_models.CheckinRecord) (int64, error) {
	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		return 0, err
	}
	return rec.ID, nil
}

func (r *checkinRepository) CreateFromDraft(ctx context.Context, rec *db_models.CheckinRecord, draftID string) (int64, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(rec).Error; err != nil {
			return err
		}
		result := tx.Delete(&db_models.CheckinDraft{}, "draft_id = ?", draftID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return rec.ID, nil
}

func (r *checkinRepository) GetByID(ctx context.Context, id int64) (*db_models.CheckinRecord, error) {
	var rec db_models.CheckinRecord
	err := r.db.WithContext(ctx).
		Preload("Photos").
		First(&rec, "id = ?", id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (r *checkinRepository) List(ctx context.Context, filter CheckinFilter, page, pageSize int) ([]db_models.CheckinRecord, int64, error) {
	q := r.db.WithContext(ctx).Model(&db_models.CheckinRecord{})

	if filter.AccountID != nil {
		q = q.Where("account_id = ?", *filter.AccountID)
	}
	if filter.MuseumID != nil {
		q = q.Where("museum_id = ?", *filter.MuseumID)
	}
	if filter.Status != nil {
		q = q.Where("audit_status = ?", *filter.Status)
	}
	if filter.From > 0 {
		q = q.Where("visited_at >= ?", filter.From)
	}
	if filter.To > 0 {
		q = q.Where("visited_at <= ?", filter.To)
	}
	if filter.Keyword != "" {
		kw := "%" + filter.Keyword + "%"
		q = q.Where("remark ILIKE ? OR museum_name ILIKE ?", kw, kw)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var recs []db_models.CheckinRecord
	offset := (page - 1) * pageSize
	err := q.Preload("Photos").
		Order("visited_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&recs).Error
	if err != nil {
		return nil, 0, err
	}
	return recs, total, nil
}

func (r *checkinRepository) SoftDelete(ctx context.Context, id int64) error {
	err := r.db.WithContext(ctx).Delete(&db_models.CheckinRecord{}, "id = ?", id).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return nil
}

func (r *checkinRepository) UpdateAuditFields(ctx context.Context, rec *db_models.CheckinRecord) error {
	return r.db.WithContext(ctx).
		Model(&db_models.CheckinRecord{}).
		Where("id = ?", rec.ID).
		Updates(map[string]interface{}{
			"audit_status":        rec.AuditStatus,
			"confidence":          rec.Confidence,
			"risk_level":          rec.RiskLevel,
			"anomaly_type":        rec.AnomalyType,
			"needs_manual_review": rec.NeedsManualReview,
			"audited_at":          rec.AuditedAt,
			"auditor_id":          rec.AuditorID,
			"audit_remark":        rec.AuditRemark,
		}).Error
}

func (r *checkinRepository) CountRecentApproved(ctx context.Context, accountID, museumID uuid.UUID, since, until, excludeID int64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&db_models.CheckinRecord{}).
		Where("account_id = ? AND museum_id = ?", accountID, museumID).
		Where("audit_status = ?", db_models.AuditStatusApproved).
		Where("visited_at BETWEEN ? AND ?", since, until).
		Where("id <> ?", excludeID).
		Count(&n).Error
	return n, err
}

func (r *checkinRepository) CountApprovedByAccount(ctx context.Context, accountID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&db_models.CheckinRecord{}).
		Where("account_id = ? AND audit_status = ?", accountID, db_models.AuditStatusApproved).
		Count(&n).Error
	return n, err
}

func (r *checkinRepository) CountDistinctMuseums(ctx context.Context, accountID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&db_models.CheckinRecord{}).
		Distinct("museum_id").
		Where("account_id = ? AND audit_status = ?", accountID, db_models.AuditStatusApproved).
		Count(&n).Error
	return n, err
}

func (r *checkinRepository) CountApprovedSince(ctx context.Context, accountID uuid.UUID, since int64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&db_models.CheckinRecord{}).
		Where("account_id = ? AND audit_status = ?", accountID, db_models.AuditStatusApproved).
		Where("visited_at >= ?", since).
		Count(&n).Error
	return n, err
}

func (r *checkinRepository) ListApproved(ctx context.Context, page, pageSize int) ([]db_models.CheckinRecord, error) {
	var recs []db_models.CheckinRecord
	offset := (page - 1) * pageSize
	err := r.db.WithContext(ctx).
		Where("audit_status = ?", db_models.AuditStatusApproved).
		Order("id ASC").
		Offset(offset).
		Limit(pageSize).
		Preload("Photos").
		Find(&recs).Error
	if err != nil {
		return nil, err
	}
	return recs, nil
}
