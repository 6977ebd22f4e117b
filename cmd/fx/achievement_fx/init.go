package achievement_fx

import (
	"context"

	"go.uber.org/fx"
	"gorm.io/gorm"
	"musevisit/internal/models/db_models"
	"musevisit/internal/repositories"
	"musevisit/internal/services"
)

var Module = fx.Options(
	fx.Provide(provideAchievementRepo),
	fx.Provide(provideAchievementService),
	fx.Invoke(seedCatalog),
)

func provideAchievementRepo(db *gorm.DB) repositories.AchievementRepository {
	return repositories.NewAchievementRepository(db)
}

func provideAchievementService(
	achievementRepo repositories.AchievementRepository,
	checkinRepo repositories.CheckinRepository,
) services.AchievementServiceInterface {
	return services.NewAchievementService(achievementRepo, checkinRepo)
}

func seedCatalog(achievementRepo repositories.AchievementRepository) error {
	return achievementRepo.SeedCatalog(context.Background(), db_models.DefaultAchievementCatalog())
}
