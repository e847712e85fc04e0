package repository

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/cast-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/cast-scheduler/internal/httperr"
	"github.com/BruksfildServices01/cast-scheduler/internal/models"
)

const DefaultLockTimeout = 5 * time.Second

type BookingGormRepository struct {
	db          *gorm.DB
	lockTimeout time.Duration
}

func NewBookingGormRepository(db *gorm.DB, lockTimeout time.Duration) *BookingGormRepository {
	if lockTimeout <= 0 {
		lockTimeout = DefaultLockTimeout
	}
	return &BookingGormRepository{db: db, lockTimeout: lockTimeout}
}

// --------------------------------------------------
// Atomic unit
// --------------------------------------------------

func (r *BookingGormRepository) WithResourceLock(
	ctx context.Context,
	resourceIDs []string,
	fn booking.TxFunc,
) error {

	if err := ctx.Err(); err != nil {
		return err
	}

	// Once started the unit commits or rolls back on its own; a caller
	// disconnect must not leave it half applied.
	ctx = context.WithoutCancel(ctx)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(
			fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", r.lockTimeout.Milliseconds()),
		).Error; err != nil {
			return err
		}

		for _, id := range lockOrder(resourceIDs) {
			if err := tx.Exec(
				"SELECT pg_advisory_xact_lock(hashtextextended(?, 0))",
				id,
			).Error; err != nil {
				return err
			}
		}

		return fn(ctx, &gormTx{db: tx})
	})

	return classifyStoreError(err)
}

// lockOrder sorts and de-duplicates ids so every unit acquires locks in the
// same order.
func lockOrder(ids []string) []string {
	out := slices.Clone(ids)
	slices.Sort(out)
	return slices.Compact(out)
}

// classifyStoreError keeps business errors as they are and marks the
// Postgres failures that are safe to retry.
func classifyStoreError(err error) error {
	if err == nil {
		return nil
	}
	if httperr.CodeOf(err) != "" {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "55P03", "40001", "40P01": // lock_not_available, serialization_failure, deadlock_detected
			return booking.Transient(err)
		}
		if strings.HasPrefix(pgErr.Code, "08") {
			return booking.Transient(err)
		}
		return fmt.Errorf("booking store: %w", err)
	}

	if pgconn.Timeout(err) || pgconn.SafeToRetry(err) || errors.Is(err, driver.ErrBadConn) {
		return booking.Transient(err)
	}

	return fmt.Errorf("booking store: %w", err)
}

// --------------------------------------------------
// Booking (lookup)
// --------------------------------------------------

func (r *BookingGormRepository) GetBooking(
	ctx context.Context,
	id string,
) (*models.Booking, error) {
	b, err := getBooking(r.db.WithContext(ctx), id)
	if err != nil && !errors.Is(err, booking.ErrNotFound) {
		return nil, classifyStoreError(err)
	}
	return b, err
}

func (r *BookingGormRepository) ListActiveBookings(
	ctx context.Context,
	resourceID string,
	window booking.Interval,
) ([]models.Booking, error) {
	list, err := listActive(r.db.WithContext(ctx), resourceID, window)
	if err != nil {
		return nil, classifyStoreError(err)
	}
	return list, nil
}

func getBooking(db *gorm.DB, id string) (*models.Booking, error) {
	var b models.Booking
	if err := db.Where("id = ?", id).First(&b).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, booking.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

func listActive(db *gorm.DB, resourceID string, window booking.Interval) ([]models.Booking, error) {
	var list []models.Booking
	if err := db.
		Where(
			"resource_id = ? AND status <> ? AND start_time < ? AND end_time > ?",
			resourceID,
			string(booking.StatusCancelled),
			window.End,
			window.Start,
		).
		Order("start_time ASC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// --------------------------------------------------
// Listing
// --------------------------------------------------

func (r *BookingGormRepository) ListBookingsForPeriod(
	ctx context.Context,
	resourceID string,
	start time.Time,
	end time.Time,
) ([]models.Booking, error) {

	var list []models.Booking
	err := r.db.WithContext(ctx).
		Where(
			"resource_id = ? AND start_time >= ? AND start_time < ?",
			resourceID,
			start,
			end,
		).
		Order("start_time ASC").
		Find(&list).Error

	if err != nil {
		return nil, classifyStoreError(err)
	}
	return list, nil
}

func (r *BookingGormRepository) ListExpiredEditWindows(
	ctx context.Context,
	now time.Time,
) ([]models.Booking, error) {

	var list []models.Booking
	err := r.db.WithContext(ctx).
		Where(
			"status = ? AND modifiable_until < ?",
			string(booking.StatusModifiable),
			now,
		).
		Order("modifiable_until ASC").
		Find(&list).Error

	if err != nil {
		return nil, classifyStoreError(err)
	}
	return list, nil
}

// --------------------------------------------------
// Transaction view
// --------------------------------------------------

type gormTx struct {
	db *gorm.DB
}

func (t *gormTx) GetBooking(
	ctx context.Context,
	id string,
) (*models.Booking, error) {
	return getBooking(
		t.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}),
		id,
	)
}

func (t *gormTx) ListActiveBookings(
	ctx context.Context,
	resourceID string,
	window booking.Interval,
) ([]models.Booking, error) {
	return listActive(
		t.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}),
		resourceID,
		window,
	)
}

func (t *gormTx) CreateBooking(
	ctx context.Context,
	b *models.Booking,
) error {
	if err := t.db.WithContext(ctx).Create(b).Error; err != nil {
		return exclusionAsConflict(b, err)
	}
	return nil
}

func (t *gormTx) UpdateBooking(
	ctx context.Context,
	b *models.Booking,
) error {
	if err := t.db.WithContext(ctx).Save(b).Error; err != nil {
		return exclusionAsConflict(b, err)
	}
	return nil
}

// exclusionAsConflict turns the bookings_no_overlap constraint into the
// domain conflict.
func exclusionAsConflict(b *models.Booking, err error) error {
	if httperr.IsExclusionConflict(err) {
		return &booking.SlotUnavailableError{ResourceID: b.ResourceID}
	}
	return err
}

// Compile-time check
var _ booking.Repository = (*BookingGormRepository)(nil)
