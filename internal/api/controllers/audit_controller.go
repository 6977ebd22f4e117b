package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"musevisit/internal/models/db_models"
	"musevisit/internal/models/request_models"
	"musevisit/internal/services"
	"musevisit/pkg/utils"
)

type AuditController struct {
	auditService services.AuditServiceInterface
}

func NewAuditController(auditService services.AuditServiceInterface) *AuditController {
	return &AuditController{
		auditService: auditService,
	}
}

func (ctrl *AuditController) AuditCheckin(c *gin.Context) {
	auditorID, ok := currentUserID(c)
	if !ok {
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		utils.RespondError(c, http.StatusBadRequest, "Invalid check-in ID")
		return
	}

	var req request_models.AuditCheckinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	unlocked, err := ctrl.auditService.AuditCheckin(c.Request.Context(), id, db_models.AuditStatus(req.Status), req.Remark, auditorID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, gin.H{"unlocked_achievements": unlocked}, "Audit applied")
}

func (ctrl *AuditController) BatchAuditCheckins(c *gin.Context) {
	auditorID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req request_models.BatchAuditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	results := ctrl.auditService.BatchAuditCheckins(c.Request.Context(), req.IDs, db_models.AuditStatus(req.Status), req.Remark, auditorID)
	utils.RespondSuccess(c, results, "Batch audit processed")
}

func (ctrl *AuditController) RescanApproved(c *gin.Context) {
	summary, err := ctrl.auditService.RescanApproved(c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, summary, "Rescan finished")
}
