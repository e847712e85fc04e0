package booking

import (
	"context"
	"errors"
	"testing"

	domain "github.com/BruksfildServices01/cast-scheduler/internal/domain/booking"
)

func TestCheckConflict(t *testing.T) {
	f := newFixture(t)
	existing := f.create(t, "cast-1", at(10, 0), at(11, 0))
	uc := NewCheckConflict(f.deps)
	ctx := context.Background()

	res, err := uc.Execute(ctx, "cast-1", domain.Interval{Start: at(10, 30), End: at(11, 30)}, "")
	if err != nil {
		t.Fatal(err)
	}
	if res.Available || len(res.Conflicts) != 1 || res.Conflicts[0].ID != existing.ID {
		t.Fatalf("result = %+v", res)
	}

	res, err = uc.Execute(ctx, "cast-1", domain.Interval{Start: at(11, 0), End: at(12, 0)}, "")
	if err != nil || !res.Available {
		t.Fatalf("back to back: %+v, %v", res, err)
	}

	res, err = uc.Execute(ctx, "cast-1", domain.Interval{Start: at(10, 30), End: at(11, 30)}, existing.ID)
	if err != nil || !res.Available {
		t.Fatalf("excluding itself: %+v, %v", res, err)
	}

	if _, err := uc.Execute(ctx, "cast-1", domain.Interval{Start: at(11, 0), End: at(10, 0)}, ""); !errors.Is(err, domain.ErrInvalidInterval) {
		t.Fatalf("inverted: %v", err)
	}
}

func TestCheckConflictIsIdempotent(t *testing.T) {
	f := newFixture(t)
	f.create(t, "cast-1", at(10, 0), at(11, 0))
	uc := NewCheckConflict(f.deps)
	iv := domain.Interval{Start: at(9, 0), End: at(12, 0)}

	first, _ := uc.Execute(context.Background(), "cast-1", iv, "")
	second, _ := uc.Execute(context.Background(), "cast-1", iv, "")
	if first.Available != second.Available || len(first.Conflicts) != len(second.Conflicts) {
		t.Fatalf("%+v vs %+v", first, second)
	}
	if len(f.notifier.kinds()) != 1 {
		t.Fatal("checks must not produce changes")
	}
}

func TestCheckConflictMany(t *testing.T) {
	f := newFixture(t)
	f.create(t, "cast-1", at(10, 0), at(11, 0))
	f.create(t, "cast-3", at(9, 0), at(10, 15))

	iv := domain.Interval{Start: at(10, 0), End: at(11, 0)}
	got, err := NewCheckConflict(f.deps).ExecuteMany(context.Background(), []string{"cast-1", "cast-2", "cast-3", "cast-1"}, iv, "")
	if err != nil {
		t.Fatal(err)
	}

	want := map[string]bool{"cast-1": false, "cast-2": true, "cast-3": false}
	if len(got) != len(want) {
		t.Fatalf("results = %+v", got)
	}
	for id, available := range want {
		if got[id].Available != available {
			t.Fatalf("%s available = %v, want %v", id, got[id].Available, available)
		}
	}

	if _, err := NewCheckConflict(f.deps).ExecuteMany(context.Background(), nil, iv, ""); !errors.Is(err, domain.ErrInvalidIdentifier) {
		t.Fatalf("empty id list: %v", err)
	}
}
