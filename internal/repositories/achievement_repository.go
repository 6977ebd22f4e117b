package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"musevisit/internal/models/db_models"
)

type AchievementRepository interface {
	SeedCatalog(ctx context.Context, items []db_models.Achievement) error
	ListCatalog(ctx context.Context) ([]db_models.Achievement, error)
	GetByKey(ctx context.Context, key string) (*db_models.Achievement, error)

	ListProgress(ctx context.Context, accountID uuid.UUID) ([]db_models.UserAchievementProgress, error)
	GetProgress(ctx context.Context, accountID, achievementID uuid.UUID) (*db_models.UserAchievementProgress, error)
	// EnsureProgressRows creates a zeroed progress row for every catalog
	// entry the account does not have yet. Idempotent.
	EnsureProgressRows(ctx context.Context, accountID uuid.UUID, catalog []db_models.Achievement) error
	SaveProgress(ctx context.Context, rows []*db_models.UserAchievementProgress) error
}

type achievementRepository struct {
	db *gorm.DB
}

func NewAchievementRepository(db *gorm.DB) AchievementRepository {
	return &achievementRepository{db: db}
}

func (r *achievementRepository) SeedCatalog(ctx context.Context, items []db_models.Achievement) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range items {
			item := items[i]
			if err := tx.Where("key = ?", item.Key).FirstOrCreate(&item).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *achievementRepository) ListCatalog(ctx context.Context) ([]db_models.Achievement, error) {
	var items []db_models.Achievement
	err := r.db.WithContext(ctx).Order("target ASC").Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *achievementRepository) GetByKey(ctx context.Context, key string) (*db_models.Achievement, error) {
	var item db_models.Achievement
	err := r.db.WithContext(ctx).First(&item, "key = ?", key).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (r *achievementRepository) ListProgress(ctx context.Context, accountID uuid.UUID) ([]db_models.UserAchievementProgress, error) {
	var rows []db_models.UserAchievementProgress
	err := r.db.WithContext(ctx).
		Preload("Achievement").
		Where("account_id = ?", accountID).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *achievementRepository) GetProgress(ctx context.Context, accountID, achievementID uuid.UUID) (*db_models.UserAchievementProgress, error) {
	var row db_models.UserAchievementProgress
	err := r.db.WithContext(ctx).
		First(&row, "account_id = ? AND achievement_id = ?", accountID, achievementID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *achievementRepository) EnsureProgressRows(ctx context.Context, accountID uuid.UUID, catalog []db_models.Achievement) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, item := range catalog {
			row := db_models.UserAchievementProgress{
				AccountID:     accountID,
				AchievementID: item.ID,
				Target:        item.Target,
			}
			err := tx.Where("account_id = ? AND achievement_id = ?", accountID, item.ID).
				FirstOrCreate(&row).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *achievementRepository) SaveProgress(ctx context.Context, rows []*db_models.UserAchievementProgress) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, row := range rows {
			if err := tx.Save(row).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
