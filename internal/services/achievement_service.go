package services

import (
	"context"
	"log"

	"github.com/google/uuid"

	"musevisit/internal/models/db_models"
	"musevisit/internal/models/response_models"
	"musevisit/internal/repositories"
	"musevisit/pkg/utils"
)

type AchievementServiceInterface interface {
	InitializeUser(ctx context.Context, accountID uuid.UUID) error
	// OnApproved is invoked exactly once per transition into approved. It
	// recomputes every counter from the approved-record set, so a re-driven
	// call after a partial failure converges instead of double counting.
	OnApproved(ctx context.Context, accountID, museumID uuid.UUID, visitedAt int64) ([]response_models.UnlockedAchievement, error)
	CheckAndUnlock(ctx context.Context, accountID uuid.UUID) ([]response_models.UnlockedAchievement, error)
	GetUserAchievements(ctx context.Context, accountID uuid.UUID) ([]response_models.UserAchievement, error)
	ShareAchievement(ctx context.Context, accountID uuid.UUID, key string) error
}

type AchievementService struct {
	achievementRepo repositories.AchievementRepository
	checkinRepo     repositories.CheckinRepository
}

func NewAchievementService(achievementRepo repositories.AchievementRepository, checkinRepo repositories.CheckinRepository) AchievementServiceInterface {
	return &AchievementService{
		achievementRepo: achievementRepo,
		checkinRepo:     checkinRepo,
	}
}

func (a *AchievementService) InitializeUser(ctx context.Context, accountID uuid.UUID) error {
	catalog, err := a.achievementRepo.ListCatalog(ctx)
	if err != nil {
		log.Printf("Error loading achievement catalog: %v", err)
		return utils.ErrDatabaseError
	}

	if err := a.achievementRepo.EnsureProgressRows(ctx, accountID, catalog); err != nil {
		log.Printf("Error initializing achievements for %s: %v", accountID, err)
		return utils.ErrDatabaseError
	}
	return nil
}

func (a *AchievementService) OnApproved(ctx context.Context, accountID, museumID uuid.UUID, visitedAt int64) ([]response_models.UnlockedAchievement, error) {
	log.Printf("Recomputing achievements for account %s after approval at museum %s", accountID, museumID)
	return a.recompute(ctx, accountID, visitedAt)
}

func (a *AchievementService) CheckAndUnlock(ctx context.Context, accountID uuid.UUID) ([]response_models.UnlockedAchievement, error) {
	return a.recompute(ctx, accountID, utils.NowUnixSeconds())
}

// recompute pulls authoritative counts, updates every progress row and
// unlocks anything that crossed its target. Counters are monotonic: a row is
// only ever raised, and an unlocked flag is never cleared.
func (a *AchievementService) recompute(ctx context.Context, accountID uuid.UUID, at int64) ([]response_models.UnlockedAchievement, error) {
	if err := a.InitializeUser(ctx, accountID); err != nil {
		return nil, err
	}

	rows, err := a.achievementRepo.ListProgress(ctx, accountID)
	if err != nil {
		log.Printf("Error loading achievement progress for %s: %v", accountID, err)
		return nil, utils.ErrDatabaseError
	}

	counters, err := a.loadCounters(ctx, accountID, at)
	if err != nil {
		return nil, err
	}

	now := utils.NowUnixSeconds()
	var dirty []*db_models.UserAchievementProgress
	var unlocked []response_models.UnlockedAchievement

	for i := range rows {
		row := &rows[i]
		progress, ok := counters[row.Achievement.Category]
		if !ok {
			continue
		}

		changed := false
		if progress > row.Progress {
			row.Progress = progress
			changed = true
		}
		if !row.Unlocked && row.Progress >= row.Target {
			row.Unlocked = true
			unlockedAt := now
			row.UnlockedAt = &unlockedAt
			changed = true
			unlocked = append(unlocked, response_models.UnlockedAchievement{
				Key:         row.Achievement.Key,
				Name:        row.Achievement.Name,
				Description: row.Achievement.Description,
				Rarity:      row.Achievement.Rarity,
				UnlockedAt:  utils.FormatRFC3339Local(utils.FromUnixSecondsLocal(unlockedAt)),
			})
		}
		if changed {
			dirty = append(dirty, row)
		}
	}

	if len(dirty) > 0 {
		if err := a.achievementRepo.SaveProgress(ctx, dirty); err != nil {
			log.Printf("Error saving achievement progress for %s: %v", accountID, err)
			return nil, utils.ErrDatabaseError
		}
	}
	return unlocked, nil
}

func (a *AchievementService) loadCounters(ctx context.Context, accountID uuid.UUID, at int64) (map[db_models.AchievementCategory]int, error) {
	total, err := a.checkinRepo.CountApprovedByAccount(ctx, accountID)
	if err != nil {
		log.Printf("Error counting approved check-ins for %s: %v", accountID, err)
		return nil, utils.ErrDatabaseError
	}
	distinct, err := a.checkinRepo.CountDistinctMuseums(ctx, accountID)
	if err != nil {
		log.Printf("Error counting distinct museums for %s: %v", accountID, err)
		return nil, utils.ErrDatabaseError
	}
	monthly, err := a.checkinRepo.CountApprovedSince(ctx, accountID, utils.MonthStartUnix(at))
	if err != nil {
		log.Printf("Error counting monthly check-ins for %s: %v", accountID, err)
		return nil, utils.ErrDatabaseError
	}
	yearly, err := a.checkinRepo.CountApprovedSince(ctx, accountID, utils.YearStartUnix(at))
	if err != nil {
		log.Printf("Error counting yearly check-ins for %s: %v", accountID, err)
		return nil, utils.ErrDatabaseError
	}

	return map[db_models.AchievementCategory]int{
		db_models.CategoryTotalVisits:    int(total),
		db_models.CategoryDistinctMuseum: int(distinct),
		db_models.CategoryMonthlyVisits:  int(monthly),
		db_models.CategoryYearlyVisits:   int(yearly),
	}, nil
}

func (a *AchievementService) GetUserAchievements(ctx context.Context, accountID uuid.UUID) ([]response_models.UserAchievement, error) {
	if err := a.InitializeUser(ctx, accountID); err != nil {
		return nil, err
	}

	rows, err := a.achievementRepo.ListProgress(ctx, accountID)
	if err != nil {
		log.Printf("Error listing achievements for %s: %v", accountID, err)
		return nil, utils.ErrDatabaseError
	}

	out := make([]response_models.UserAchievement, 0, len(rows))
	for _, row := range rows {
		resp := response_models.UserAchievement{
			Key:         row.Achievement.Key,
			Name:        row.Achievement.Name,
			Description: row.Achievement.Description,
			Category:    string(row.Achievement.Category),
			Requirement: row.Achievement.Requirement,
			Rarity:      row.Achievement.Rarity,
			Progress:    row.Progress,
			Target:      row.Target,
			Unlocked:    row.Unlocked,
		}
		if row.UnlockedAt != nil {
			resp.UnlockedDate = utils.FormatRFC3339Local(utils.FromUnixSecondsLocal(*row.UnlockedAt))
		}
		out = append(out, resp)
	}
	return out, nil
}

func (a *AchievementService) ShareAchievement(ctx context.Context, accountID uuid.UUID, key string) error {
	item, err := a.achievementRepo.GetByKey(ctx, key)
	if err != nil {
		log.Printf("Error fetching achievement %q: %v", key, err)
		return utils.ErrDatabaseError
	}
	if item == nil {
		return utils.ErrAchievementNotFound
	}

	row, err := a.achievementRepo.GetProgress(ctx, accountID, item.ID)
	if err != nil {
		log.Printf("Error fetching achievement progress %q for %s: %v", key, accountID, err)
		return utils.ErrDatabaseError
	}
	if row == nil || !row.Unlocked {
		return utils.ErrAchievementLocked
	}
	return nil
}
