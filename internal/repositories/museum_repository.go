package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"musevisit/internal/models/db_models"
)

type MuseumRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*db_models.Museum, error)
	ListActive(ctx context.Context) ([]db_models.Museum, error)
	Create(ctx context.Context, museum *db_models.Museum) (uuid.UUID, error)
}

type museumRepository struct {
	db *gorm.DB
}

func NewMuseumRepository(db *gorm.DB) MuseumRepository {
	return &museumRepository{db: db}
}

func (r *museumRepository) GetByID(ctx context.Context, id uuid.UUID) (*db_models.Museum, error) {
	var museum db_models.Museum
	err := r.db.WithContext(ctx).First(&museum, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &museum, nil
}

func (r *museumRepository) ListActive(ctx context.Context) ([]db_models.Museum, error) {
	var museums []db_models.Museum
	err := r.db.WithContext(ctx).
		Where("status = ?", "open").
		Find(&museums).Error
	if err != nil {
		return nil, err
	}
	return museums, nil
}

func (r *museumRepository) Create(ctx context.Context, museum *db_models.Museum) (uuid.UUID, error) {
	if err := r.db.WithContext(ctx).Create(museum).Error; err != nil {
		return uuid.Nil, err
	}
	return museum.ID, nil
}
