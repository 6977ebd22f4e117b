package controllers_fx

import (
	"go.uber.org/fx"
	"musevisit/internal/api/controllers"
)

var Module = fx.Options(
	fx.Provide(controllers.NewCheckinController),
	fx.Provide(controllers.NewAuditController),
	fx.Provide(controllers.NewAchievementController),
	fx.Provide(controllers.NewMuseumController))
