package services

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"musevisit/internal/models/db_models"
	"musevisit/pkg/utils"
)

// AuditConfig holds every tunable threshold of the automatic audit pipeline.
// All distances are meters, all durations are minutes.
type AuditConfig struct {
	// GeofenceRadiusMeters is the soft band: past this distance a check-in
	// is flagged for review.
	GeofenceRadiusMeters float64
	// GeofenceHardLimitMeters is the hard band: past this distance a
	// check-in is rejected outright.
	GeofenceHardLimitMeters float64
	// OpeningHoursGraceMinutes widens the declared window on both sides so
	// only clearly out-of-hours visits are flagged.
	OpeningHoursGraceMinutes int
	// FrequencyWindowMinutes: a second approved check-in at the same museum
	// within this window is implausible.
	FrequencyWindowMinutes int
	RequirePhoto           bool
	RequireRemark          bool
}

func DefaultAuditConfig() AuditConfig {
	return AuditConfig{
		GeofenceRadiusMeters:     500,
		GeofenceHardLimitMeters:  3000,
		OpeningHoursGraceMinutes: 60,
		FrequencyWindowMinutes:   30,
		RequirePhoto:             true,
		RequireRemark:            false,
	}
}

// LoadAuditConfigFromEnv overlays AUDIT_* variables on the defaults.
func LoadAuditConfigFromEnv() AuditConfig {
	cfg := DefaultAuditConfig()
	if v, err := strconv.ParseFloat(os.Getenv("AUDIT_GEOFENCE_RADIUS_M"), 64); err == nil && v > 0 {
		cfg.GeofenceRadiusMeters = v
	}
	if v, err := strconv.ParseFloat(os.Getenv("AUDIT_GEOFENCE_HARD_LIMIT_M"), 64); err == nil && v > cfg.GeofenceRadiusMeters {
		cfg.GeofenceHardLimitMeters = v
	}
	if v, err := strconv.Atoi(os.Getenv("AUDIT_OPENING_GRACE_MIN")); err == nil && v >= 0 {
		cfg.OpeningHoursGraceMinutes = v
	}
	if v, err := strconv.Atoi(os.Getenv("AUDIT_FREQUENCY_WINDOW_MIN")); err == nil && v > 0 {
		cfg.FrequencyWindowMinutes = v
	}
	if v := os.Getenv("AUDIT_REQUIRE_PHOTO"); v != "" {
		cfg.RequirePhoto = v == "true" || v == "1"
	}
	if v := os.Getenv("AUDIT_REQUIRE_REMARK"); v != "" {
		cfg.RequireRemark = v == "true" || v == "1"
	}
	return cfg
}

// AuditDecision is the transient outcome of one engine evaluation; it is
// folded into the record's audit columns, never stored on its own.
type AuditDecision struct {
	Status            db_models.AuditStatus
	Confidence        float64
	RiskLevel         db_models.RiskLevel
	AnomalyType       *db_models.AnomalyType
	NeedsManualReview bool
	Reason            string
}

// AuditInput is everything the engine may look at. Museum may be nil and
// coordinates may be absent; every heuristic degrades to a skip when its
// input is missing.
type AuditInput struct {
	Record              *db_models.CheckinRecord
	Museum              *db_models.Museum
	RecentApprovedCount int64
	PhotoCount          int
}

type AuditEngine struct {
	cfg AuditConfig
}

func NewAuditEngine(cfg AuditConfig) *AuditEngine {
	return &AuditEngine{cfg: cfg}
}

// severity orders decisions; the highest triggered finding wins.
func severity(d AuditDecision) int {
	switch {
	case d.Status == db_models.AuditStatusRejected:
		return 3
	case d.Status == db_models.AuditStatusFlagged && d.RiskLevel == db_models.RiskMedium:
		return 2
	case d.Status == db_models.AuditStatusFlagged:
		return 1
	}
	return 0
}

// Evaluate runs the four heuristics and returns the most severe finding, or
// a clean approval when none trigger. It never fails for absent optional
// data; only malformed coordinates surface ErrInvalidCoordinate.
func (e *AuditEngine) Evaluate(in AuditInput) (AuditDecision, error) {
	var findings []AuditDecision

	d, err := e.checkGeofence(in)
	if err != nil {
		return AuditDecision{}, err
	}
	if d != nil {
		findings = append(findings, *d)
	}
	if d := e.checkOpeningHours(in); d != nil {
		findings = append(findings, *d)
	}
	if d := e.checkFrequency(in); d != nil {
		findings = append(findings, *d)
	}
	if d := e.checkContent(in); d != nil {
		findings = append(findings, *d)
	}

	if len(findings) == 0 {
		return AuditDecision{
			Status:     db_models.AuditStatusApproved,
			Confidence: 1.0,
			RiskLevel:  db_models.RiskLow,
		}, nil
	}

	worst := findings[0]
	for _, f := range findings[1:] {
		if severity(f) > severity(worst) {
			worst = f
		}
	}
	worst.NeedsManualReview = true
	return worst, nil
}

func anomaly(t db_models.AnomalyType) *db_models.AnomalyType { return &t }

func (e *AuditEngine) checkGeofence(in AuditInput) (*AuditDecision, error) {
	rec := in.Record
	if rec.Latitude == nil || rec.Longitude == nil || in.Museum == nil ||
		in.Museum.Latitude == nil || in.Museum.Longitude == nil {
		// No GPS or no registered location: cannot penalize absence.
		return nil, nil
	}

	dist, err := utils.HaversineMeters(*rec.Latitude, *rec.Longitude, *in.Museum.Latitude, *in.Museum.Longitude)
	if err != nil {
		return nil, err
	}

	switch {
	case dist > e.cfg.GeofenceHardLimitMeters:
		return &AuditDecision{
			Status:      db_models.AuditStatusRejected,
			Confidence:  0.8,
			RiskLevel:   db_models.RiskHigh,
			AnomalyType: anomaly(db_models.AnomalyDistance),
			Reason:      formatDistanceReason(dist, e.cfg.GeofenceHardLimitMeters),
		}, nil
	case dist > e.cfg.GeofenceRadiusMeters:
		return &AuditDecision{
			Status:      db_models.AuditStatusFlagged,
			Confidence:  0.6,
			RiskLevel:   db_models.RiskMedium,
			AnomalyType: anomaly(db_models.AnomalyDistance),
			Reason:      formatDistanceReason(dist, e.cfg.GeofenceRadiusMeters),
		}, nil
	}
	return nil, nil
}

func formatDistanceReason(dist, limit float64) string {
	return "distance " + strconv.FormatFloat(dist, 'f', 0, 64) +
		"m exceeds limit " + strconv.FormatFloat(limit, 'f', 0, 64) + "m"
}

func (e *AuditEngine) checkOpeningHours(in AuditInput) *AuditDecision {
	if in.Museum == nil || in.Museum.OpeningHours == "" {
		return nil
	}
	openMin, closeMin, ok := parseOpeningHours(in.Museum.OpeningHours)
	if !ok {
		// Unparseable declaration: skip rather than guess.
		log.Printf("Skipping opening-hours check, unparseable declaration %q for museum %s", in.Museum.OpeningHours, in.Museum.ID)
		return nil
	}

	visitMin := utils.MinutesOfDayLocal(in.Record.VisitedAt)
	grace := e.cfg.OpeningHoursGraceMinutes
	if visitMin >= openMin-grace && visitMin <= closeMin+grace {
		return nil
	}
	return &AuditDecision{
		Status:      db_models.AuditStatusFlagged,
		Confidence:  0.5,
		RiskLevel:   db_models.RiskMedium,
		AnomalyType: anomaly(db_models.AnomalyTime),
		Reason:      "visit at " + formatMinutes(visitMin) + " outside opening hours " + in.Museum.OpeningHours,
	}
}

// parseOpeningHours understands the directory's "HH:MM-HH:MM" declaration.
func parseOpeningHours(s string) (openMin, closeMin int, ok bool) {
	parts := strings.SplitN(strings.TrimSpace(s), "-", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	openT, err1 := time.Parse("15:04", strings.TrimSpace(parts[0]))
	closeT, err2 := time.Parse("15:04", strings.TrimSpace(parts[1]))
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	openMin = openT.Hour()*60 + openT.Minute()
	closeMin = closeT.Hour()*60 + closeT.Minute()
	if closeMin <= openMin {
		return 0, 0, false
	}
	return openMin, closeMin, true
}

func formatMinutes(m int) string {
	return time.Date(0, 1, 1, m/60, m%60, 0, 0, time.UTC).Format("15:04")
}

func (e *AuditEngine) checkFrequency(in AuditInput) *AuditDecision {
	if in.RecentApprovedCount == 0 {
		return nil
	}
	return &AuditDecision{
		Status:      db_models.AuditStatusFlagged,
		Confidence:  0.5,
		RiskLevel:   db_models.RiskMedium,
		AnomalyType: anomaly(db_models.AnomalyFrequency),
		Reason: "already " + strconv.FormatInt(in.RecentApprovedCount, 10) +
			" approved check-in(s) at this museum within " + strconv.Itoa(e.cfg.FrequencyWindowMinutes) + " minutes",
	}
}

func (e *AuditEngine) checkContent(in AuditInput) *AuditDecision {
	if e.cfg.RequirePhoto && in.PhotoCount == 0 {
		return &AuditDecision{
			Status:      db_models.AuditStatusFlagged,
			Confidence:  0.4,
			RiskLevel:   db_models.RiskLow,
			AnomalyType: anomaly(db_models.AnomalyContent),
			Reason:      "no photo attached",
		}
	}
	if e.cfg.RequireRemark && strings.TrimSpace(in.Record.Remark) == "" {
		return &AuditDecision{
			Status:      db_models.AuditStatusFlagged,
			Confidence:  0.4,
			RiskLevel:   db_models.RiskLow,
			AnomalyType: anomaly(db_models.AnomalyContent),
			Reason:      "remark is empty",
		}
	}
	return nil
}
