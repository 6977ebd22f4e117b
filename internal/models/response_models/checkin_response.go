package response_models

type SubmitCheckinResponse struct {
	ID                   int64                 `json:"id,omitempty"`
	DraftID              string                `json:"draft_id,omitempty"`
	IsDraft              bool                  `json:"is_draft"`
	Timestamp            int64                 `json:"timestamp"`
	AuditStatus          string                `json:"audit_status,omitempty"`
	AnomalyType          string                `json:"anomaly_type,omitempty"`
	NeedsManualReview    bool                  `json:"needs_manual_review,omitempty"`
	UnlockedAchievements []UnlockedAchievement `json:"unlocked_achievements,omitempty"`
}

type CheckinRecord struct {
	ID      int64  `json:"id,omitempty"`
	DraftID string `json:"draft_id,omitempty"`
	IsDraft bool   `json:"is_draft"`

	MuseumID      string   `json:"museum_id"`
	MuseumName    string   `json:"museum_name"`
	MuseumAddress string   `json:"museum_address"`
	VisitedAt     int64    `json:"visited_at"`
	Latitude      *float64 `json:"latitude,omitempty"`
	Longitude     *float64 `json:"longitude,omitempty"`
	Remark        string   `json:"remark,omitempty"`
	Rating        *int     `json:"rating,omitempty"`
	Mood          string   `json:"mood,omitempty"`
	Weather       string   `json:"weather,omitempty"`
	Companions    []string `json:"companions,omitempty"`
	Tags          []string `json:"tags,omitempty"`
	PhotoURLs     []string `json:"photo_urls,omitempty"`

	AuditStatus       string  `json:"audit_status"`
	AuditRemark       string  `json:"audit_remark,omitempty"`
	AnomalyType       string  `json:"anomaly_type,omitempty"`
	Confidence        float64 `json:"confidence,omitempty"`
	RiskLevel         string  `json:"risk_level,omitempty"`
	NeedsManualReview bool    `json:"needs_manual_review,omitempty"`
}

type CheckinPage struct {
	Items    []CheckinRecord `json:"items"`
	Total    int64           `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
}
