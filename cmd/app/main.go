package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/fx"

	"musevisit/cmd/fx/achievement_fx"
	"musevisit/cmd/fx/audit_fx"
	"musevisit/cmd/fx/checkin_fx"
	"musevisit/cmd/fx/controllers_fx"
	"musevisit/cmd/fx/db_fx"
	"musevisit/cmd/fx/museum_fx"
	"musevisit/internal/api/controllers"
	"musevisit/pkg/middleware"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment")
	}

	app := fx.New(
		db_fx.Module,
		museum_fx.Module,
		checkin_fx.Module,
		achievement_fx.Module,
		audit_fx.Module,
		controllers_fx.Module,

		fx.Provide(ProvideRouter),
		fx.Invoke(StartServer),
	)

	app.Run()
}

func StartServer(lc fx.Lifecycle, engine *gin.Engine) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := os.Getenv("PORT")
				if port == "" {
					port = "8080"
				}
				log.Printf("Starting HTTP server at :%s", port)
				if err := engine.Run(":" + port); err != nil {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Println("Stopping HTTP server")
			return nil
		},
	})
}

func ProvideRouter(
	checkinController *controllers.CheckinController,
	auditController *controllers.AuditController,
	achievementController *controllers.AchievementController,
	museumController *controllers.MuseumController) *gin.Engine {

	r := gin.Default()
	r.Use(gin.Recovery())
	r.Use(cors.Default())
	r.Use(middleware.TraceIDMiddleware())

	RegisterRoutes(r, checkinController, auditController, achievementController, museumController)

	return r
}

func RegisterRoutes(r *gin.Engine,
	checkinController *controllers.CheckinController,
	auditController *controllers.AuditController,
	achievementController *controllers.AchievementController,
	museumController *controllers.MuseumController) {

	museums := r.Group("/museums")
	museums.GET("/nearby", museumController.NearbyMuseums)

	checkins := r.Group("/checkins")
	checkins.Use(middleware.JWTAuthMiddleware())
	checkins.POST("", checkinController.SubmitCheckin)
	checkins.GET("", checkinController.ListCheckins)
	checkins.DELETE("/drafts/:draftId", checkinController.DeleteDraft)
	checkins.DELETE("/:id", checkinController.DeleteCheckin)

	achievements := r.Group("/achievements")
	achievements.Use(middleware.JWTAuthMiddleware())
	achievements.GET("", achievementController.GetUserAchievements)
	achievements.POST("/check", achievementController.CheckAndUnlock)
	achievements.POST("/:key/share", achievementController.ShareAchievement)

	admin := r.Group("/admin")
	admin.Use(middleware.JWTAuthMiddleware(), middleware.RoleMiddleware("admin"))
	admin.POST("/checkins/:id/audit", auditController.AuditCheckin)
	admin.POST("/checkins/audit-batch", auditController.BatchAuditCheckins)
	admin.POST("/checkins/rescan", auditController.RescanApproved)
	admin.GET("/checkins", checkinController.ListCheckins)
}
