package db_models

import "github.com/google/uuid"

type AchievementCategory string

const (
	CategoryTotalVisits    AchievementCategory = "total_visits"
	CategoryDistinctMuseum AchievementCategory = "distinct_museums"
	CategoryMonthlyVisits  AchievementCategory = "monthly_visits"
	CategoryYearlyVisits   AchievementCategory = "yearly_visits"
)

// Achievement is static catalog data, seeded at startup and never mutated by
// user traffic.
type Achievement struct {
	BaseModel
	Key         string `gorm:"uniqueIndex;type:varchar(64)"`
	Name        string
	Description string
	Category    AchievementCategory `gorm:"type:varchar(32);index"`
	Requirement string
	Target      int
	Rarity      string `gorm:"type:varchar(16)"`
}

// UserAchievementProgress is the per-account counter against one catalog
// entry. Progress and the unlocked flag are monotonic: a later revocation of
// an approved check-in does not roll them back.
type UserAchievementProgress struct {
	BaseModel
	AccountID     uuid.UUID `gorm:"index:idx_account_achievement,unique"`
	AchievementID uuid.UUID `gorm:"index:idx_account_achievement,unique"`
	Progress      int
	Target        int
	Unlocked      bool
	UnlockedAt    *int64

	Achievement Achievement `gorm:"foreignKey:AchievementID"`
}

// DefaultAchievementCatalog is the seed set. FirstOrCreate on Key keeps the
// seed idempotent across restarts.
func DefaultAchievementCatalog() []Achievement {
	return []Achievement{
		{Key: "first_visit", Name: "First Steps", Description: "Complete your first museum check-in", Category: CategoryTotalVisits, Requirement: "1 approved check-in", Target: 1, Rarity: "common"},
		{Key: "regular_visitor", Name: "Regular Visitor", Description: "Complete 10 museum check-ins", Category: CategoryTotalVisits, Requirement: "10 approved check-ins", Target: 10, Rarity: "uncommon"},
		{Key: "museum_devotee", Name: "Museum Devotee", Description: "Complete 50 museum check-ins", Category: CategoryTotalVisits, Requirement: "50 approved check-ins", Target: 50, Rarity: "rare"},
		{Key: "explorer", Name: "Explorer", Description: "Visit 5 different museums", Category: CategoryDistinctMuseum, Requirement: "5 distinct museums", Target: 5, Rarity: "uncommon"},
		{Key: "cartographer", Name: "Cartographer", Description: "Visit 20 different museums", Category: CategoryDistinctMuseum, Requirement: "20 distinct museums", Target: 20, Rarity: "epic"},
		{Key: "monthly_regular", Name: "Monthly Regular", Description: "Check in 4 times within a calendar month", Category: CategoryMonthlyVisits, Requirement: "4 approved check-ins in one month", Target: 4, Rarity: "uncommon"},
		{Key: "annual_patron", Name: "Annual Patron", Description: "Check in 12 times within a calendar year", Category: CategoryYearlyVisits, Requirement: "12 approved check-ins in one year", Target: 12, Rarity: "rare"},
	}
}
