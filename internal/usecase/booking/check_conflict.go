package booking

import (
	"context"
	"slices"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	domain "github.com/BruksfildServices01/cast-scheduler/internal/domain/booking"
)

const maxConflictFanOut = 8

// CheckConflict answers whether an interval is free. It never writes and
// holds no locks, so the answer can be stale by the time a booking is made.
type CheckConflict struct {
	deps Deps
}

func NewCheckConflict(deps Deps) *CheckConflict {
	return &CheckConflict{deps: deps}
}

func (uc *CheckConflict) Execute(
	ctx context.Context,
	resourceID string,
	iv domain.Interval,
	excludeID string,
) (domain.AvailabilityResult, error) {
	if _, err := domain.NewInterval(iv.Start, iv.End); err != nil {
		return domain.AvailabilityResult{}, err
	}
	if strings.TrimSpace(resourceID) == "" {
		return domain.AvailabilityResult{}, domain.ErrInvalidIdentifier
	}
	return uc.check(ctx, resourceID, iv, excludeID)
}

// ExecuteMany runs the single resource check for each distinct id
// concurrently.
func (uc *CheckConflict) ExecuteMany(
	ctx context.Context,
	resourceIDs []string,
	iv domain.Interval,
	excludeID string,
) (map[string]domain.AvailabilityResult, error) {
	if _, err := domain.NewInterval(iv.Start, iv.End); err != nil {
		return nil, err
	}

	ids := slices.Clone(resourceIDs)
	slices.Sort(ids)
	ids = slices.Compact(ids)
	if len(ids) == 0 {
		return nil, domain.ErrInvalidIdentifier
	}
	for _, id := range ids {
		if strings.TrimSpace(id) == "" {
			return nil, domain.ErrInvalidIdentifier
		}
	}

	var (
		mu  sync.Mutex
		out = make(map[string]domain.AvailabilityResult, len(ids))
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConflictFanOut)
	for _, id := range ids {
		g.Go(func() error {
			res, err := uc.check(gctx, id, iv, excludeID)
			if err != nil {
				return err
			}
			mu.Lock()
			out[id] = res
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return out, nil
}

func (uc *CheckConflict) check(
	ctx context.Context,
	resourceID string,
	iv domain.Interval,
	excludeID string,
) (domain.AvailabilityResult, error) {
	existing, err := uc.deps.Repo.ListActiveBookings(ctx, resourceID, iv)
	if err != nil {
		return domain.AvailabilityResult{}, err
	}
	return domain.NewAvailabilityResult(domain.FindConflicts(existing, iv, excludeID)), nil
}
