package dto

import (
	"time"

	"KidFlex/internal/model"
)

type SetPreferenceRequest struct {
	Day model.Day `json:"day"`
}

// PreferenceSnapshot is the full voting state served to clients and
// pushed through the watch endpoint.
type PreferenceSnapshot struct {
	WeekID        string              `json:"weekId"`
	Preferences   model.PreferenceMap `json:"preferences"`
	WinningDay    model.Day           `json:"winningDay"`
	SaturdayVotes int                 `json:"saturdayVotes"`
	SundayVotes   int                 `json:"sundayVotes"`
	VotingEnabled bool                `json:"votingEnabled"`
	UpdatedAt     time.Time           `json:"updatedAt"`
}
