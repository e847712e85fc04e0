package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/cast-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/cast-scheduler/internal/models"
)

// CalendarGormRepository reads resource_calendars, which the resource
// directory owns.
type CalendarGormRepository struct {
	db *gorm.DB
}

func NewCalendarGormRepository(db *gorm.DB) *CalendarGormRepository {
	return &CalendarGormRepository{db: db}
}

func (r *CalendarGormRepository) GetCalendar(
	ctx context.Context,
	resourceID string,
) (*booking.ResourceCalendar, error) {

	var row models.ResourceCalendar
	if err := r.db.WithContext(ctx).
		Where("resource_id = ?", resourceID).
		First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, booking.ErrNotFound
		}
		return nil, classifyStoreError(err)
	}

	return booking.CalendarFromModel(&row)
}

var _ booking.ResourceDirectory = (*CalendarGormRepository)(nil)
