package models

import "time"

// ResourceCalendar is owned by the resource directory; the engine only reads it.
type ResourceCalendar struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	ResourceID string `gorm:"size:64;uniqueIndex;not null" json:"resource_id"`

	StartTime  string `gorm:"size:5" json:"start_time"`
	EndTime    string `gorm:"size:5" json:"end_time"`
	BreakStart string `gorm:"size:5" json:"break_start"`
	BreakEnd   string `gorm:"size:5" json:"break_end"`

	ValidFrom *time.Time `gorm:"type:date" json:"valid_from"`
	ValidTo   *time.Time `gorm:"type:date" json:"valid_to"`

	Active bool `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
