package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Day is a weekend day a participant can vote for.
type Day string

const (
	DaySaturday Day = "saturday"
	DaySunday   Day = "sunday"
)

func (d Day) Valid() bool {
	return d == DaySaturday || d == DaySunday
}

// PreferenceMap maps participant name to the day they voted for.
type PreferenceMap map[string]Day

func (p PreferenceMap) Value() (driver.Value, error) {
	if p == nil {
		return json.Marshal(PreferenceMap{})
	}
	return json.Marshal(p)
}

func (p *PreferenceMap) Scan(value interface{}) error {
	if value == nil {
		*p = PreferenceMap{}
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type %T for PreferenceMap", value)
	}

	return json.Unmarshal(data, p)
}

// DayPreferenceSet is one week's voting document.
type DayPreferenceSet struct {
	ID          int64         `gorm:"primaryKey" json:"-"`
	WeekID      string        `gorm:"uniqueIndex;size:32;not null" json:"weekId"`
	Preferences PreferenceMap `gorm:"type:jsonb;not null;default:'{}'" json:"preferences"`
	CreatedAt   time.Time     `json:"-"`
	UpdatedAt   time.Time     `json:"lastUpdated"`
}

func (DayPreferenceSet) TableName() string {
	return "day_preferences"
}
