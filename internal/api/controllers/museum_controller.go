package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"musevisit/internal/services"
	"musevisit/pkg/utils"
)

type MuseumController struct {
	museums services.MuseumDirectoryInterface
}

func NewMuseumController(museums services.MuseumDirectoryInterface) *MuseumController {
	return &MuseumController{
		museums: museums,
	}
}

func (ctrl *MuseumController) NearbyMuseums(c *gin.Context) {
	lat, err := strconv.ParseFloat(c.Query("lat"), 64)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Query parameter lat is required")
		return
	}
	lng, err := strconv.ParseFloat(c.Query("lng"), 64)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Query parameter lng is required")
		return
	}
	radius, err := strconv.ParseFloat(c.DefaultQuery("radius", "5000"), 64)
	if err != nil || radius <= 0 {
		utils.RespondError(c, http.StatusBadRequest, "Invalid radius")
		return
	}

	museums, err := ctrl.museums.NearbyMuseums(c.Request.Context(), lat, lng, radius)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, museums, "Nearby museums fetched successfully")
}
