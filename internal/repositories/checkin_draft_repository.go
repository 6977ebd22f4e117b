package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"musevisit/internal/models/db_models"
)

type CheckinDraftRepository interface {
	Upsert(ctx context.Context, draft *db_models.CheckinDraft) error
	GetByID(ctx context.Context, draftID string) (*db_models.CheckinDraft, error)
	Delete(ctx context.Context, draftID string) error
	ListByAccount(ctx context.Context, accountID uuid.UUID, page, pageSize int) ([]db_models.CheckinDraft, int64, error)
}

type checkinDraftRepository struct {
	db *gorm.DB
}

func NewCheckinDraftRepository(db *gorm.DB) CheckinDraftRepository {
	return &checkinDraftRepository{db: db}
}

func (r *checkinDraftRepository) Upsert(ctx context.Context, draft *db_models.CheckinDraft) error {
	return r.db.WithContext(ctx).Save(draft).Error
}

func (r *checkinDraftRepository) GetByID(ctx context.Context, draftID string) (*db_models.CheckinDraft, error) {
	var draft db_models.CheckinDraft
	err := r.db.WithContext(ctx).First(&draft, "draft_id = ?", draftID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &draft, nil
}

func (r *checkinDraftRepository) Delete(ctx context.Context, draftID string) error {
	result := r.db.WithContext(ctx).Delete(&db_models.CheckinDraft{}, "draft_id = ?", draftID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *checkinDraftRepository) ListByAccount(ctx context.Context, accountID uuid.UUID, page, pageSize int) ([]db_models.CheckinDraft, int64, error) {
	q := r.db.WithContext(ctx).Model(&db_models.CheckinDraft{}).Where("account_id = ?", accountID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var drafts []db_models.CheckinDraft
	offset := (page - 1) * pageSize
	err := q.Order("updated_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&drafts).Error
	if err != nil {
		return nil, 0, err
	}
	return drafts, total, nil
}
