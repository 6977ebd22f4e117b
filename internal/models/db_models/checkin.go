package db_models

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AuditStatus string

const (
	AuditStatusPending  AuditStatus = "pending"
	AuditStatusApproved AuditStatus = "approved"
	AuditStatusRejected AuditStatus = "rejected"
	AuditStatusFlagged  AuditStatus = "anomaly_flagged"
)

func (s AuditStatus) Valid() bool {
	switch s {
	case AuditStatusPending, AuditStatusApproved, AuditStatusRejected, AuditStatusFlagged:
		return true
	}
	return false
}

type AnomalyType string

const (
	AnomalyDistance  AnomalyType = "distance_anomaly"
	AnomalyTime      AnomalyType = "time_anomaly"
	AnomalyFrequency AnomalyType = "frequency_anomaly"
	AnomalyContent   AnomalyType = "content_anomaly"
)

type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// CheckinRecord is a finalized visit. Drafts live in their own table
// (CheckinDraft) and only become a CheckinRecord on finalize, so a numeric
// key here always means a permanent, audited record.
type CheckinRecord struct {
	ID        int64 `gorm:"primaryKey;autoIncrement"`
	AccountID uuid.UUID
	MuseumID  uuid.UUID

	// Denormalized at submission time so the record survives museum edits.
	MuseumName    string
	MuseumAddress string

	VisitedAt  int64
	Latitude   *float64 `gorm:"type:decimal(10,7)"`
	Longitude  *float64 `gorm:"type:decimal(10,7)"`
	Remark     string
	Rating     *int
	Mood       string
	Weather    string
	Companions pq.StringArray `gorm:"type:text[]"`
	Tags       pq.StringArray `gorm:"type:text[]"`
	DeviceInfo datatypes.JSON

	AuditStatus       AuditStatus `gorm:"type:varchar(32);index"`
	Confidence        float64
	RiskLevel         RiskLevel    `gorm:"type:varchar(16)"`
	AnomalyType       *AnomalyType `gorm:"type:varchar(32)"`
	NeedsManualReview bool
	AuditedAt         *int64
	AuditorID         *uuid.UUID
	AuditRemark       string

	Photos []CheckinPhoto `gorm:"foreignKey:CheckinID"`

	CreatedAt int64          `gorm:"autoCreateTime"`
	UpdatedAt int64          `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

type CheckinPhoto struct {
	ID        int64 `gorm:"primaryKey;autoIncrement"`
	CheckinID int64 `gorm:"index"`
	URL       string
	CreatedAt int64 `gorm:"autoCreateTime"`
}

// CheckinDraft is the mutable pre-submission form of a check-in. Its key is
// the composite token handed back to the client, never a database sequence,
// so a draft reference can never be confused with a CheckinRecord ID.
type CheckinDraft struct {
	DraftID   string    `gorm:"primaryKey;type:varchar(64)"`
	AccountID uuid.UUID `gorm:"index"`
	MuseumID  uuid.UUID

	MuseumName    string
	MuseumAddress string

	VisitedAt  int64
	Latitude   *float64 `gorm:"type:decimal(10,7)"`
	Longitude  *float64 `gorm:"type:decimal(10,7)"`
	Remark     string
	Rating     *int
	Mood       string
	Weather    string
	Companions pq.StringArray `gorm:"type:text[]"`
	Tags       pq.StringArray `gorm:"type:text[]"`
	PhotoURLs  pq.StringArray `gorm:"type:text[]"`
	DeviceInfo datatypes.JSON

	CreatedAt int64 `gorm:"autoCreateTime"`
	UpdatedAt int64 `gorm:"autoUpdateTime"`
}

// NewDraftID builds the client-facing draft token.
func NewDraftID(accountID uuid.UUID, nowMillis int64) string {
	return fmt.Sprintf("%s_%d", accountID.String(), nowMillis)
}
