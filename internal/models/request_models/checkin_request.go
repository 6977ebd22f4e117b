package request_models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"

	"musevisit/internal/models/db_models"
)

type SubmitCheckinRequest struct {
	MuseumID uuid.UUID `json:"museum_id" binding:"required"`
	IsDraft  bool      `json:"is_draft"`
	// DraftID references a previously saved draft; empty on a brand-new
	// submission.
	DraftID string `json:"draft_id"`

	VisitedAt  int64          `json:"visited_at"`
	Latitude   *float64       `json:"latitude"`
	Longitude  *float64       `json:"longitude"`
	Remark     string         `json:"remark"`
	Rating     *int           `json:"rating"`
	Mood       string         `json:"mood"`
	Weather    string         `json:"weather"`
	Companions []string       `json:"companions"`
	Tags       []string       `json:"tags"`
	PhotoURLs  []string       `json:"photo_urls"`
	DeviceInfo datatypes.JSON `json:"device_info"`
}

type CheckinListQuery struct {
	AccountID  *uuid.UUID
	MuseumID   *uuid.UUID
	Status     *db_models.AuditStatus
	From       int64
	To         int64
	Keyword    string
	DraftsOnly bool
}
