package models

import (
	"database/sql"
	"slices"
	"time"
)

type Booking struct {
	ID string `gorm:"primaryKey;size:36" json:"id"`

	ResourceID string `gorm:"size:64;not null;index:idx_bookings_resource_start,priority:1" json:"resource_id"`
	SubjectID  string `gorm:"size:64;not null;index" json:"subject_id"`

	StartTime time.Time `gorm:"not null;index:idx_bookings_resource_start,priority:2" json:"start_time"`
	EndTime   time.Time `gorm:"not null" json:"end_time"`

	Status string `gorm:"size:20;not null;default:'pending';index" json:"status"`

	ModifiableUntil sql.Null[time.Time] `gorm:"type:timestamptz" json:"-"`

	AddOns AddOnSet `gorm:"type:text;serializer:json" json:"add_ons"`

	CancelledAt *time.Time `json:"cancelled_at"`
	CompletedAt *time.Time `json:"completed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AddOnSet holds add-on identifiers with set semantics.
type AddOnSet []string

// NewAddOnSet sorts ids and drops blanks and duplicates.
func NewAddOnSet(ids []string) AddOnSet {
	out := make(AddOnSet, 0, len(ids))
	for _, id := range ids {
		if id != "" {
			out = append(out, id)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

func (s AddOnSet) Contains(id string) bool {
	_, ok := slices.BinarySearch(s, id)
	return ok
}
