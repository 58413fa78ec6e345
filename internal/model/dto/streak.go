package dto

// StreakResponse reports consecutive maxed-out weeks.
type StreakResponse struct {
	HasStreak   bool `json:"hasStreak"`
	StreakWeeks int  `json:"streakWeeks"`
	WeeksNeeded int  `json:"weeksNeeded"`
}
