package checkin_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"
	"musevisit/internal/repositories"
	"musevisit/internal/services"
)

var Module = fx.Options(
	fx.Provide(provideAuditConfig),
	fx.Provide(provideAuditEngine),
	fx.Provide(provideCheckinRepo),
	fx.Provide(provideDraftRepo),
	fx.Provide(provideCheckinService),
)

func provideAuditConfig() services.AuditConfig {
	return services.LoadAuditConfigFromEnv()
}

func provideAuditEngine(cfg services.AuditConfig) *services.AuditEngine {
	return services.NewAuditEngine(cfg)
}

func provideCheckinRepo(db *gorm.DB) repositories.CheckinRepository {
	return repositories.NewCheckinRepository(db)
}

func provideDraftRepo(db *gorm.DB) repositories.CheckinDraftRepository {
	return repositories.NewCheckinDraftRepository(db)
}

func provideCheckinService(
	checkinRepo repositories.CheckinRepository,
	draftRepo repositories.CheckinDraftRepository,
	museums services.MuseumDirectoryInterface,
	engine *services.AuditEngine,
	achievementService services.AchievementServiceInterface,
	cfg services.AuditConfig,
) services.CheckinServiceInterface {
	return services.NewCheckinService(checkinRepo, draftRepo, museums, engine, achievementService, cfg)
}
