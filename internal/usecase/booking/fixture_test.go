package booking

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"

	domain "github.com/BruksfildServices01/cast-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/cast-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/cast-scheduler/internal/models"
	"github.com/BruksfildServices01/cast-scheduler/internal/timezone"
)

var tokyo = timezone.Location("Asia/Tokyo")

// at builds an instant on 2026-03-14 in Tokyo.
func at(hour, minute int) time.Time {
	return time.Date(2026, 3, 14, hour, minute, 0, 0, tokyo)
}

var (
	customer = domain.Actor{ID: "customer-1", Privilege: domain.PrivilegeOrdinary}
	admin    = domain.Actor{ID: "admin-1", Privilege: domain.PrivilegeAdmin}
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

type recordingNotifier struct {
	mu      sync.Mutex
	changes []domain.Change
	err     error
}

func (n *recordingNotifier) Notify(ctx context.Context, c domain.Change) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.changes = append(n.changes, c)
	return n.err
}

func (n *recordingNotifier) kinds() []domain.ChangeKind {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]domain.ChangeKind, 0, len(n.changes))
	for _, c := range n.changes {
		out = append(out, c.Kind)
	}
	return out
}

func (n *recordingNotifier) last() domain.Change {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.changes[len(n.changes)-1]
}

type fixture struct {
	deps     Deps
	repo     *repository.MemoryBookingRepository
	dir      *repository.StaticDirectory
	clock    *fakeClock
	notifier *recordingNotifier
	hook     *test.Hook
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	log, hook := test.NewNullLogger()
	clock := &fakeClock{now: at(8, 0)}
	f := &fixture{
		repo:     repository.NewMemoryBookingRepository(time.Second).WithClock(clock.Now),
		dir:      repository.NewStaticDirectory(),
		clock:    clock,
		notifier: &recordingNotifier{},
		hook:     hook,
	}
	f.deps = Deps{
		Repo:      f.repo,
		Directory: f.dir,
		Notifier:  f.notifier,
		Log:       log,
		Location:  tokyo,
		Now:       f.clock.Now,
	}
	return f
}

func (f *fixture) create(t *testing.T, resourceID string, start, end time.Time) *models.Booking {
	t.Helper()
	b, err := NewCreateBooking(f.deps, false).Execute(context.Background(), CreateBookingInput{
		ResourceID: resourceID,
		SubjectID:  "customer-1",
		Start:      start,
		End:        end,
		Actor:      customer,
	})
	if err != nil {
		t.Fatalf("create %s %v-%v: %v", resourceID, start, end, err)
	}
	return b
}

func (f *fixture) stored(t *testing.T, id string) *models.Booking {
	t.Helper()
	b, err := f.repo.GetBooking(context.Background(), id)
	if err != nil {
		t.Fatal(err)
	}
	return b
}
