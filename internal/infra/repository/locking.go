package repository

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/BruksfildServices01/cast-scheduler/internal/domain/booking"
)

// ResourceLocker is an application level mutex keyed by resource id.
type ResourceLocker interface {
	Lock(ctx context.Context, resourceIDs []string) (unlock func(context.Context) error, err error)
}

// LockingRepository takes the ResourceLocker before delegating the unit to
// the wrapped store, so writers on other instances queue in the locker
// instead of inside the database.
type LockingRepository struct {
	booking.Repository

	locker ResourceLocker
	log    logrus.FieldLogger
}

func NewLockingRepository(
	inner booking.Repository,
	locker ResourceLocker,
	log logrus.FieldLogger,
) *LockingRepository {
	return &LockingRepository{
		Repository: inner,
		locker:     locker,
		log:        log,
	}
}

func (r *LockingRepository) WithResourceLock(
	ctx context.Context,
	resourceIDs []string,
	fn booking.TxFunc,
) error {

	if err := ctx.Err(); err != nil {
		return err
	}

	ids := lockOrder(resourceIDs)
	unlock, err := r.locker.Lock(ctx, ids)
	if err != nil {
		return err
	}

	ctx = context.WithoutCancel(ctx)
	defer func() {
		if err := unlock(ctx); err != nil {
			r.log.WithError(err).WithField("resources", ids).Warn("resource lock release failed")
		}
	}()

	return r.Repository.WithResourceLock(ctx, ids, fn)
}

var _ booking.Repository = (*LockingRepository)(nil)
