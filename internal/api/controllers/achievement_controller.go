package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"musevisit/internal/services"
	"musevisit/pkg/utils"
)

type AchievementController struct {
	achievementService services.AchievementServiceInterface
}

func NewAchievementController(achievementService services.AchievementServiceInterface) *AchievementController {
	return &AchievementController{
		achievementService: achievementService,
	}
}

func (ctrl *AchievementController) GetUserAchievements(c *gin.Context) {
	accountID, ok := currentUserID(c)
	if !ok {
		return
	}

	achievements, err := ctrl.achievementService.GetUserAchievements(c.Request.Context(), accountID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, achievements, "Achievements fetched successfully")
}

func (ctrl *AchievementController) CheckAndUnlock(c *gin.Context) {
	accountID, ok := currentUserID(c)
	if !ok {
		return
	}

	unlocked, err := ctrl.achievementService.CheckAndUnlock(c.Request.Context(), accountID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, unlocked, "Achievement check completed")
}

func (ctrl *AchievementController) ShareAchievement(c *gin.Context) {
	accountID, ok := currentUserID(c)
	if !ok {
		return
	}

	key := c.Param("key")
	if key == "" {
		utils.RespondError(c, http.StatusBadRequest, "Achievement key is required")
		return
	}

	if err := ctrl.achievementService.ShareAchievement(c.Request.Context(), accountID, key); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, nil, "Achievement shared")
}
