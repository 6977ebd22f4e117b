package response_models

type UserAchievement struct {
	Key          string `json:"key"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Category     string `json:"category"`
	Requirement  string `json:"requirement"`
	Rarity       string `json:"rarity"`
	Progress     int    `json:"progress"`
	Target       int    `json:"target"`
	Unlocked     bool   `json:"unlocked"`
	UnlockedDate string `json:"unlocked_date,omitempty"`
}

type UnlockedAchievement struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Rarity      string `json:"rarity"`
	UnlockedAt  string `json:"unlocked_at"`
}
