package services

import (
	"context"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"musevisit/internal/models/db_models"
	"musevisit/internal/models/response_models"
	"musevisit/internal/repositories"
	"musevisit/pkg/utils"
)

type MuseumDirectoryInterface interface {
	GetMuseum(ctx context.Context, id uuid.UUID) (*db_models.Museum, error)
	NearbyMuseums(ctx context.Context, lat, lng, radiusMeters float64) ([]response_models.NearbyMuseum, error)
}

type MuseumDirectory struct {
	museumRepo repositories.MuseumRepository
	cache      *gocache.Cache
}

func NewMuseumDirectory(museumRepo repositories.MuseumRepository) MuseumDirectoryInterface {
	return &MuseumDirectory{
		museumRepo: museumRepo,
		cache:      gocache.New(10*time.Minute, 30*time.Minute),
	}
}

// GetMuseum serves audit-engine lookups; the cache keeps batch rescans from
// re-reading one directory row per record.
func (m *MuseumDirectory) GetMuseum(ctx context.Context, id uuid.UUID) (*db_models.Museum, error) {
	if cached, ok := m.cache.Get(id.String()); ok {
		return cached.(*db_models.Museum), nil
	}

	museum, err := m.museumRepo.GetByID(ctx, id)
	if err != nil {
		log.Printf("Error fetching museum %s: %v", id, err)
		return nil, utils.ErrDatabaseError
	}
	if museum == nil {
		return nil, utils.ErrMuseumNotFound
	}

	m.cache.SetDefault(id.String(), museum)
	return museum, nil
}

func (m *MuseumDirectory) NearbyMuseums(ctx context.Context, lat, lng, radiusMeters float64) ([]response_models.NearbyMuseum, error) {
	if err := utils.ValidateCoordinate(lat, lng); err != nil {
		return nil, err
	}
	if radiusMeters <= 0 {
		return nil, utils.ErrInvalidInput
	}

	museums, err := m.museumRepo.ListActive(ctx)
	if err != nil {
		log.Printf("Error listing museums: %v", err)
		return nil, utils.ErrDatabaseError
	}

	out := make([]response_models.NearbyMuseum, 0, len(museums))
	for _, museum := range museums {
		if museum.Latitude == nil || museum.Longitude == nil {
			continue
		}
		dist, err := utils.HaversineMeters(lat, lng, *museum.Latitude, *museum.Longitude)
		if err != nil {
			// A museum with a corrupt registered coordinate should not
			// break the whole query.
			log.Printf("Skipping museum %s with invalid coordinates: %v", museum.ID, err)
			continue
		}
		if dist > radiusMeters {
			continue
		}
		out = append(out, response_models.NearbyMuseum{
			ID:             museum.ID.String(),
			Name:           museum.Name,
			Address:        museum.Address,
			Latitude:       *museum.Latitude,
			Longitude:      *museum.Longitude,
			OpeningHours:   museum.OpeningHours,
			DistanceMeters: dist,
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].DistanceMeters < out[j].DistanceMeters })
	return out, nil
}
