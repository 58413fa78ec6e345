package dto

import (
	"time"

	"KidFlex/internal/model"
)

type AwardFlexTimeRequest struct {
	Note string `json:"note"`
}

// FlexTimeResult reports the outcome of an award or delete operation.
type FlexTimeResult struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	NewBalance int    `json:"newBalance"`
}

type FlexTimeWeekResponse struct {
	WeekID      string                `json:"weekId"`
	WeekStart   time.Time             `json:"weekStart"`
	WeekEnd     time.Time             `json:"weekEnd"`
	Balance     int                   `json:"balance"`
	BalanceText string                `json:"balanceText"`
	MaxPerWeek  int                   `json:"maxPerWeek"`
	Entries     []model.FlexTimeEntry `json:"entries"`
	LastUpdated time.Time             `json:"lastUpdated"`
}

type ViewingWindowResponse struct {
	InViewingWindow bool      `json:"inViewingWindow"`
	DecisionLocked  bool      `json:"decisionLocked"`
	VotingEnabled   bool      `json:"votingEnabled"`
	WeekID          string    `json:"weekId"`
	WeekStart       time.Time `json:"weekStart"`
	WeekEnd         time.Time `json:"weekEnd"`
	ResetsAt        time.Time `json:"resetsAt"`
	ResetsIn        string    `json:"resetsIn"`
}
