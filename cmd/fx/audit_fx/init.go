package audit_fx

import (
	"go.uber.org/fx"
	"musevisit/internal/repositories"
	"musevisit/internal/services"
)

var Module = fx.Provide(
	provideAuditService)

func provideAuditService(
	checkinRepo repositories.CheckinRepository,
	museums services.MuseumDirectoryInterface,
	engine *services.AuditEngine,
	achievementService services.AchievementServiceInterface,
	cfg services.AuditConfig,
) services.AuditServiceInterface {
	return services.NewAuditService(checkinRepo, museums, engine, achievementService, cfg)
}
