package repository

import (
	"context"
	"sync"

	"github.com/BruksfildServices01/cast-scheduler/internal/domain/booking"
)

// StaticDirectory serves calendars registered up front. Used in tests and
// local runs without a database.
type StaticDirectory struct {
	mu        sync.RWMutex
	calendars map[string]booking.ResourceCalendar
}

func NewStaticDirectory(calendars ...booking.ResourceCalendar) *StaticDirectory {
	d := &StaticDirectory{calendars: make(map[string]booking.ResourceCalendar)}
	for _, c := range calendars {
		d.Put(c)
	}
	return d
}

func (d *StaticDirectory) Put(c booking.ResourceCalendar) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calendars[c.ResourceID] = c
}

func (d *StaticDirectory) GetCalendar(
	ctx context.Context,
	resourceID string,
) (*booking.ResourceCalendar, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	c, ok := d.calendars[resourceID]
	if !ok {
		return nil, booking.ErrNotFound
	}
	return &c, nil
}

var _ booking.ResourceDirectory = (*StaticDirectory)(nil)
