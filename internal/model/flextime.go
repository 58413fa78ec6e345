package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// FlexTimeEntry is a single award or record inside a week's ledger.
type FlexTimeEntry struct {
	ID          string    `json:"id"`
	Minutes     int       `json:"minutes"`
	Note        string    `json:"note,omitempty"`
	AddedBy     string    `json:"addedBy"`
	AddedByName string    `json:"addedByName,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// FlexEntries stores the per-week entry list as a JSONB column.
type FlexEntries []FlexTimeEntry

func (e FlexEntries) Value() (driver.Value, error) {
	if e == nil {
		return json.Marshal(FlexEntries{})
	}
	return json.Marshal(e)
}

func (e *FlexEntries) Scan(value interface{}) error {
	if value == nil {
		*e = FlexEntries{}
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type %T for FlexEntries", value)
	}

	return json.Unmarshal(data, e)
}

// WeeklyFlexTime is one week's flex-time ledger document.
type WeeklyFlexTime struct {
	ID        int64       `gorm:"primaryKey" json:"-"`
	WeekID    string      `gorm:"uniqueIndex;size:32;not null" json:"weekId"`
	WeekStart time.Time   `gorm:"index;not null" json:"weekStart"`
	Balance   int         `gorm:"not null;default:0" json:"balance"`
	Entries   FlexEntries `gorm:"type:jsonb;not null;default:'[]'" json:"entries"`
	CreatedAt time.Time   `json:"-"`
	UpdatedAt time.Time   `gorm:"index" json:"lastUpdated"`
}

func (WeeklyFlexTime) TableName() string {
	return "flex_time_weeks"
}
