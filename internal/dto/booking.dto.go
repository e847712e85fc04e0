package dto

import (
	"time"

	domain "github.com/BruksfildServices01/cast-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/cast-scheduler/internal/models"
)

type BookingDTO struct {
	ID         string `json:"id"`
	ResourceID string `json:"resource_id"`
	SubjectID  string `json:"subject_id"`

	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`

	Status          string     `json:"status"`
	ModifiableUntil *time.Time `json:"modifiable_until,omitempty"`

	AddOns []string `json:"add_ons"`

	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func FromBooking(b models.Booking) BookingDTO {
	out := BookingDTO{
		ID:          b.ID,
		ResourceID:  b.ResourceID,
		SubjectID:   b.SubjectID,
		StartTime:   b.StartTime,
		EndTime:     b.EndTime,
		Status:      b.Status,
		AddOns:      []string(b.AddOns),
		CancelledAt: b.CancelledAt,
		CompletedAt: b.CompletedAt,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
	if out.AddOns == nil {
		out.AddOns = []string{}
	}
	if b.ModifiableUntil.Valid {
		until := b.ModifiableUntil.V
		out.ModifiableUntil = &until
	}
	return out
}

func FromBookings(list []models.Booking) []BookingDTO {
	out := make([]BookingDTO, 0, len(list))
	for _, b := range list {
		out = append(out, FromBooking(b))
	}
	return out
}

type FreeSlotDTO struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func FromFreeSlots(slots []domain.FreeInterval) []FreeSlotDTO {
	out := make([]FreeSlotDTO, 0, len(slots))
	for _, s := range slots {
		out = append(out, FreeSlotDTO{Start: s.Start, End: s.End})
	}
	return out
}

type AvailabilityDTO struct {
	Available bool         `json:"available"`
	Conflicts []BookingDTO `json:"conflicts"`
}

func FromAvailability(res domain.AvailabilityResult) AvailabilityDTO {
	return AvailabilityDTO{
		Available: res.Available,
		Conflicts: FromBookings(res.Conflicts),
	}
}
