package spacedrep

import (
	"testing"
	"time"
)

func TestSelectNext_EmptyPool(t *testing.T) {
	if _, ok := SelectNext(nil, "", t0); ok {
		t.Error("expected no candidate for empty pool")
	}
}

func TestSelectNext_NothingEligible(t *testing.T) {
	pool := []Item{
		reviewedItem("a", t0.Add(time.Hour)),
		reviewedItem("b", t0.Add(2*time.Hour)),
	}
	if it, ok := SelectNext(pool, "", t0); ok {
		t.Errorf("expected none, got %q", it.ID)
	}
}

func TestSelectNext_MostOverdueFirst(t *testing.T) {
	pool := []Item{
		reviewedItem("a", t0.Add(-time.Hour)),
		reviewedItem("b", t0.Add(-3*time.Hour)),
		reviewedItem("c", t0.Add(-2*time.Hour)),
	}
	it, ok := SelectNext(pool, "", t0)
	if !ok || it.ID != "b" {
		t.Errorf("SelectNext() = %q, want b", it.ID)
	}
}

func TestSelectNext_TieBreakByStreakThenID(t *testing.T) {
	due := t0.Add(-time.Hour)
	strong := reviewedItem("a", due)
	strong.KnowCount, strong.KnowStreak = 5, 5
	weakB := reviewedItem("b", due)
	weakB.KnowStreak = 0
	weakC := reviewedItem("c", due)
	weakC.KnowStreak = 0

	ranked := Rank([]Item{strong, weakC, weakB}, t0)
	got := []string{ranked[0].ID, ranked[1].ID, ranked[2].ID}
	want := []string{"b", "c", "a"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Rank() = %v, want %v", got, want)
		}
	}
}

func TestSelectNext_NewItemsInPoolOrderWhenNothingDue(t *testing.T) {
	future := t0.Add(time.Hour)
	pool := []Item{
		reviewedItem("reviewed", future),
		NewItem("z-new", "g", "x", "y", future),
		NewItem("a-new", "g", "x", "y", future),
	}
	it, ok := SelectNext(pool, "", t0)
	if !ok || it.ID != "z-new" {
		t.Errorf("SelectNext() = %q, want z-new", it.ID)
	}
}

func TestSelectNext_DueBeatsNew(t *testing.T) {
	pool := []Item{
		NewItem("new", "g", "x", "y", t0.Add(time.Hour)),
		reviewedItem("due", t0.Add(-time.Minute)),
	}
	it, _ := SelectNext(pool, "", t0)
	if it.ID != "due" {
		t.Errorf("SelectNext() = %q, want due", it.ID)
	}
}

func TestSelectNext_NoImmediateRepeat(t *testing.T) {
	pool := []Item{
		reviewedItem("a", t0.Add(-2*time.Hour)),
		reviewedItem("b", t0.Add(-time.Hour)),
	}
	it, ok := SelectNext(pool, "a", t0)
	if !ok || it.ID != "b" {
		t.Errorf("SelectNext(last=a) = %q, want b", it.ID)
	}
}

func TestSelectNext_RepeatWhenNoAlternative(t *testing.T) {
	pool := []Item{
		reviewedItem("a", t0.Add(-time.Hour)),
		reviewedItem("b", t0.Add(time.Hour)),
	}
	it, ok := SelectNext(pool, "a", t0)
	if !ok || it.ID != "a" {
		t.Errorf("SelectNext(last=a) = %q, want a", it.ID)
	}
}

func TestSelectNext_NoImmediateRepeatAcrossPools(t *testing.T) {
	// Property: for any pool with two or more eligible items the last shown
	// item is never returned.
	pools := [][]Item{
		{reviewedItem("a", t0), reviewedItem("b", t0)},
		{reviewedItem("a", t0.Add(-time.Hour)), NewItem("b", "g", "x", "y", t0.Add(time.Hour))},
		{NewItem("a", "g", "x", "y", t0.Add(time.Hour)), NewItem("b", "g", "x", "y", t0.Add(time.Hour))},
	}
	for i, pool := range pools {
		for _, last := range []string{"a", "b"} {
			it, ok := SelectNext(pool, last, t0)
			if !ok {
				t.Fatalf("pool %d: expected a candidate", i)
			}
			if it.ID == last {
				t.Errorf("pool %d: SelectNext(last=%s) repeated the last item", i, last)
			}
		}
	}
}

func TestSelectNext_Deterministic(t *testing.T) {
	pool := []Item{
		reviewedItem("c", t0.Add(-time.Hour)),
		reviewedItem("a", t0.Add(-time.Hour)),
		reviewedItem("b", t0.Add(-time.Hour)),
		NewItem("n", "g", "x", "y", t0),
	}
	first, _ := SelectNext(pool, "x", t0)
	for i := 0; i < 50; i++ {
		got, _ := SelectNext(pool, "x", t0)
		if got.ID != first.ID {
			t.Fatalf("run %d: SelectNext() = %q, want %q", i, got.ID, first.ID)
		}
	}
}

func TestSelectNext_DoesNotReorderPool(t *testing.T) {
	pool := []Item{
		reviewedItem("b", t0.Add(-time.Hour)),
		reviewedItem("a", t0.Add(-2*time.Hour)),
	}
	SelectNext(pool, "", t0)
	if pool[0].ID != "b" || pool[1].ID != "a" {
		t.Errorf("pool reordered: %q, %q", pool[0].ID, pool[1].ID)
	}
}

func TestDueCount(t *testing.T) {
	pool := []Item{
		reviewedItem("a", t0.Add(-time.Hour)),
		reviewedItem("b", t0),
		reviewedItem("c", t0.Add(time.Hour)),
	}
	if got := DueCount(pool, t0); got != 2 {
		t.Errorf("DueCount() = %d, want 2", got)
	}
}
