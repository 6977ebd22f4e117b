package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"musevisit/internal/models/db_models"
	"musevisit/internal/models/request_models"
	"musevisit/internal/services"
	"musevisit/pkg/utils"
)

type CheckinController struct {
	checkinService services.CheckinServiceInterface
}

func NewCheckinController(checkinService services.CheckinServiceInterface) *CheckinController {
	return &CheckinController{
		checkinService: checkinService,
	}
}

func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.GetString("user_id"))
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, "Invalid user identity")
		return uuid.Nil, false
	}
	return id, true
}

func (ctrl *CheckinController) SubmitCheckin(c *gin.Context) {
	accountID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req request_models.SubmitCheckinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	resp, err := ctrl.checkinService.SubmitCheckin(c.Request.Context(), req, accountID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	if resp.IsDraft {
		utils.RespondSuccess(c, resp, "Draft saved")
		return
	}
	utils.RespondSuccess(c, resp, "Check-in submitted")
}

func (ctrl *CheckinController) ListCheckins(c *gin.Context) {
	accountID, ok := currentUserID(c)
	if !ok {
		return
	}

	pageStr := c.DefaultQuery("page", "1")
	pageSizeStr := c.DefaultQuery("pageSize", "10")

	page, err := strconv.Atoi(pageStr)
	if err != nil || page < 1 {
		utils.RespondError(c, http.StatusBadRequest, "Invalid page number")
		return
	}
	pageSize, err := strconv.Atoi(pageSizeStr)
	if err != nil || pageSize < 1 || pageSize > 100 {
		utils.RespondError(c, http.StatusBadRequest, "Invalid page size (must be 1-100)")
		return
	}

	query := request_models.CheckinListQuery{
		AccountID:  &accountID,
		Keyword:    c.Query("keyword"),
		DraftsOnly: c.Query("drafts") == "true",
	}

	// Administrators may list across users and filter by museum.
	if c.GetString("Role") == "admin" {
		query.AccountID = nil
		if v := c.Query("userId"); v != "" {
			if id, err := uuid.Parse(v); err == nil {
				query.AccountID = &id
			}
		}
	}
	if v := c.Query("museumId"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, "Invalid museum ID")
			return
		}
		query.MuseumID = &id
	}
	if v := c.Query("status"); v != "" {
		status := db_models.AuditStatus(v)
		if !status.Valid() {
			utils.RespondError(c, http.StatusBadRequest, "Invalid audit status filter")
			return
		}
		query.Status = &status
	}
	if v := c.Query("from"); v != "" {
		if ts, err := strconv.ParseInt(v, 10, 64); err == nil {
			query.From = ts
		}
	}
	if v := c.Query("to"); v != "" {
		if ts, err := strconv.ParseInt(v, 10, 64); err == nil {
			query.To = ts
		}
	}

	pageResp, err := ctrl.checkinService.ListCheckins(c.Request.Context(), query, page, pageSize)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, pageResp, "Check-ins fetched successfully")
}

func (ctrl *CheckinController) DeleteDraft(c *gin.Context) {
	accountID, ok := currentUserID(c)
	if !ok {
		return
	}

	draftID := c.Param("draftId")
	if draftID == "" {
		utils.RespondError(c, http.StatusBadRequest, "Draft ID is required")
		return
	}

	if err := ctrl.checkinService.DeleteDraft(c.Request.Context(), draftID, accountID); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, nil, "Draft deleted")
}

func (ctrl *CheckinController) DeleteCheckin(c *gin.Context) {
	accountID, ok := currentUserID(c)
	if !ok {
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		utils.RespondError(c, http.StatusBadRequest, "Invalid check-in ID")
		return
	}

	if err := ctrl.checkinService.DeleteCheckin(c.Request.Context(), id, accountID); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, nil, "Check-in deleted")
}
