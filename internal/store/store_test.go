package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/phrasely/internal/mastery"
	"github.com/abhisek/phrasely/internal/reviewlog"
	"github.com/abhisek/phrasely/internal/spacedrep"
)

var t0 = time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open("file:" + uuid.NewString() + "?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func mustGroup(t *testing.T, s *Store, name string) Group {
	t.Helper()
	g, err := s.Groups().Create(context.Background(), name, t0)
	require.NoError(t, err)
	return g
}

func mustItem(t *testing.T, s *Store, groupID, front string, created time.Time) spacedrep.Item {
	t.Helper()
	it := spacedrep.NewItem(uuid.NewString(), groupID, front, front+" (en)", created)
	require.NoError(t, s.Items().Create(context.Background(), it))
	return it
}

func newMachine(t *testing.T) *mastery.Machine {
	t.Helper()
	m, err := mastery.NewMachine(spacedrep.DefaultPolicy())
	require.NoError(t, err)
	return m
}

func TestOpenClose(t *testing.T) {
	s := openTestStore(t)
	if s.DB() == nil {
		t.Fatal("expected non-nil db")
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL mode falls back to "memory" for in-memory databases,
		// so we skip journal_mode here. It is tested with file-based DBs.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestWALOnFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "phrasely.db")
	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	var mode string
	require.NoError(t, s.DB().QueryRow("PRAGMA journal_mode").Scan(&mode))
	assert.Equal(t, "wal", mode)
}

func TestAutoMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)
	for _, table := range []string{"phrase_groups", "items", "review_log", "global_sequence"} {
		var name string
		err := s.DB().QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		require.NoError(t, err, table)
		assert.Equal(t, table, name)
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "phrasely.db")
	s, err := Open(path)
	require.NoError(t, err)
	g := mustGroup(t, s, "Dutch")
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	got, err := s.Groups().Get(context.Background(), g.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dutch", got.Name)
}

func TestSequenceCounter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var seqs []int64
	for i := 0; i < 5; i++ {
		seq, err := s.seq.Next(ctx, s.DB())
		if err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
		seqs = append(seqs, seq)
	}

	for i, seq := range seqs {
		expected := int64(i + 1)
		if seq != expected {
			t.Errorf("seq[%d] = %d, want %d", i, seq, expected)
		}
	}
}

func TestGroupRepo(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	repo := s.Groups()

	g := mustGroup(t, s, "Dutch basics")
	assert.True(t, g.Enabled)
	assert.NotEmpty(t, g.ID)

	_, err := repo.Create(ctx, "Dutch basics", t0)
	assert.ErrorIs(t, err, ErrDuplicate)

	_, err = repo.Create(ctx, "   ", t0)
	assert.Error(t, err)

	got, err := repo.GetByName(ctx, "Dutch basics")
	require.NoError(t, err)
	assert.Equal(t, g.ID, got.ID)
	assert.True(t, got.CreatedAt.Equal(t0))

	_, err = repo.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	mustGroup(t, s, "Animals")
	groups, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, "Animals", groups[0].Name)
	assert.Equal(t, "Dutch basics", groups[1].Name)
}

func TestGroupEnsure(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	g, created, err := s.Groups().Ensure(ctx, "Food", t0)
	require.NoError(t, err)
	assert.True(t, created)

	again, created, err := s.Groups().Ensure(ctx, "Food", t0)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, g.ID, again.ID)
}

func TestGroupSetEnabledAndPredicate(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	repo := s.Groups()

	a := mustGroup(t, s, "A")
	b := mustGroup(t, s, "B")
	changed, err := repo.SetEnabled(ctx, b.ID, false, newMachine(t).Refresh)
	require.NoError(t, err)
	assert.Zero(t, changed)

	enabled, err := repo.EnabledSet(ctx)
	require.NoError(t, err)
	assert.True(t, enabled(a.ID))
	assert.False(t, enabled(b.ID))
	assert.False(t, enabled("unknown"))

	_, err = repo.SetEnabled(ctx, "missing", true, newMachine(t).Refresh)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = repo.SetEnabled(ctx, a.ID, true, nil)
	assert.Error(t, err)
}

func TestGroupSetEnabledRefreshesMastery(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	m := newMachine(t)

	g := mustGroup(t, s, "Dutch")
	other := mustGroup(t, s, "Other")
	it := mustItem(t, s, g.ID, "fiets", t0)
	learning := mustItem(t, s, g.ID, "boek", t0)
	bystander := mustItem(t, s, other.ID, "kaas", t0)

	now := t0
	for range 2 * m.Policy().PromotionStreak * m.Policy().MasteryTier {
		if it.IsMastered {
			break
		}
		now = now.Add(time.Hour)
		res, err := m.ApplyReview(it, mastery.Know, nil, now)
		require.NoError(t, err)
		_, err = s.RecordReview(ctx, res.Item, res.Entry)
		require.NoError(t, err)
		it = res.Item
	}
	require.True(t, it.IsMastered)
	bystander.MasteryLevel = m.Policy().MasteryTier
	bystander.IsMastered = true
	require.NoError(t, s.Items().Save(ctx, bystander))

	changed, err := s.Groups().SetEnabled(ctx, g.ID, false, m.Refresh)
	require.NoError(t, err)
	assert.Equal(t, 1, changed)

	got, err := s.Items().Get(ctx, it.ID)
	require.NoError(t, err)
	assert.False(t, got.IsMastered)
	assert.Equal(t, it.MasteryLevel, got.MasteryLevel)

	got, err = s.Items().Get(ctx, learning.ID)
	require.NoError(t, err)
	assert.False(t, got.IsMastered)

	got, err = s.Items().Get(ctx, bystander.ID)
	require.NoError(t, err)
	assert.True(t, got.IsMastered)

	changed, err = s.Groups().SetEnabled(ctx, g.ID, true, m.Refresh)
	require.NoError(t, err)
	assert.Equal(t, 1, changed)

	got, err = s.Items().Get(ctx, it.ID)
	require.NoError(t, err)
	assert.True(t, got.IsMastered)
}

func TestGroupDeleteRemovesItems(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	g := mustGroup(t, s, "Doomed")
	keep := mustGroup(t, s, "Kept")
	mustItem(t, s, g.ID, "een", t0)
	mustItem(t, s, g.ID, "twee", t0)
	survivor := mustItem(t, s, keep.ID, "drie", t0)

	require.NoError(t, s.Groups().Delete(ctx, g.ID))

	_, err := s.Groups().Get(ctx, g.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	items, err := s.Items().ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, survivor.ID, items[0].ID)

	assert.ErrorIs(t, s.Groups().Delete(ctx, g.ID), ErrNotFound)
}

func TestItemRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	g := mustGroup(t, s, "Dutch")

	it := mustItem(t, s, g.ID, "dank je", t0)
	got, err := s.Items().Get(ctx, it.ID)
	require.NoError(t, err)
	assert.Equal(t, it.Front, got.Front)
	assert.Equal(t, it.Back, got.Back)
	assert.Nil(t, got.LastReviewedAt)
	assert.True(t, got.NextReviewAt.Equal(it.NextReviewAt))
	assert.True(t, got.IsNew())

	last := t0.Add(2 * time.Hour)
	it.LastReviewedAt = &last
	it.MasteryLevel = 3
	it.KnowStreak = 1
	it.KnowCount = 5
	it.Lapses = 2
	it.HardLapses = 1
	it.NextReviewAt = last.Add(24 * time.Hour)
	require.NoError(t, s.Items().Save(ctx, it))

	got, err = s.Items().Get(ctx, it.ID)
	require.NoError(t, err)
	assert.Equal(t, it.Counters(), got.Counters())
	require.NotNil(t, got.LastReviewedAt)
	assert.True(t, got.LastReviewedAt.Equal(last))
	assert.True(t, got.NextReviewAt.Equal(it.NextReviewAt))
	assert.Equal(t, g.ID, got.GroupID)
}

func TestItemCreateRejectsDuplicateFront(t *testing.T) {
	s := openTestStore(t)
	g := mustGroup(t, s, "Dutch")
	other := mustGroup(t, s, "Other")
	mustItem(t, s, g.ID, "hallo", t0)

	dup := spacedrep.NewItem(uuid.NewString(), g.ID, "hallo", "hi", t0)
	err := s.Items().Create(context.Background(), dup)
	assert.ErrorIs(t, err, ErrDuplicate)

	// The same front in another group is fine.
	mustItem(t, s, other.ID, "hallo", t0)
}

func TestItemCreateRejectsUnknownGroup(t *testing.T) {
	s := openTestStore(t)
	it := spacedrep.NewItem(uuid.NewString(), "no-such-group", "x", "y", t0)
	assert.Error(t, s.Items().Create(context.Background(), it))
}

func TestItemSaveRejectsInvalidState(t *testing.T) {
	s := openTestStore(t)
	g := mustGroup(t, s, "Dutch")
	it := mustItem(t, s, g.ID, "ja", t0)
	it.KnowStreak = 3

	err := s.Items().Save(context.Background(), it)
	assert.True(t, errors.Is(err, spacedrep.ErrInvalidItemState))
}

func TestItemListAndDelete(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	a := mustGroup(t, s, "A")
	b := mustGroup(t, s, "B")

	first := mustItem(t, s, a.ID, "een", t0)
	second := mustItem(t, s, a.ID, "twee", t0.Add(time.Second))
	mustItem(t, s, b.ID, "drie", t0.Add(2*time.Second))

	items, err := s.Items().ListByGroup(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, first.ID, items[0].ID)
	assert.Equal(t, second.ID, items[1].ID)

	all, err := s.Items().ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	require.NoError(t, s.Items().Delete(ctx, first.ID))
	_, err = s.Items().Get(ctx, first.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Items().Delete(ctx, first.ID), ErrNotFound)
}

func TestListLeeches(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	g := mustGroup(t, s, "A")

	leech := mustItem(t, s, g.ID, "moeilijk", t0)
	last := t0.Add(time.Hour)
	leech.LastReviewedAt = &last
	leech.Lapses = 3
	leech.HardLapses = 1
	require.NoError(t, s.Items().Save(ctx, leech))
	mustItem(t, s, g.ID, "makkelijk", t0)

	leeches, err := s.Items().ListLeeches(ctx, spacedrep.DefaultPolicy())
	require.NoError(t, err)
	require.Len(t, leeches, 1)
	assert.Equal(t, leech.ID, leeches[0].ID)
}

func sampleEntry(itemID string, at time.Time) reviewlog.Entry {
	return reviewlog.Entry{
		ItemID:           itemID,
		GroupID:          "g",
		Action:           "forgot",
		At:               at,
		Before:           spacedrep.Counters{MasteryLevel: 3, KnowStreak: 2, KnowCount: 4},
		After:            spacedrep.Counters{MasteryLevel: 1, KnowCount: 4, Lapses: 1},
		NextReviewBefore: at.Add(-time.Hour),
		NextReviewAfter:  at.Add(time.Hour),
		Interval:         time.Hour,
		CrossedIntoLeech: true,
		MasteredBefore:   true,
	}
}

func TestLogAppendAndRecent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	repo := s.Log()

	for i := 0; i < 5; i++ {
		e, err := repo.Append(ctx, sampleEntry("item", t0.Add(time.Duration(i)*time.Minute)))
		require.NoError(t, err)
		assert.Equal(t, int64(i+1), e.Sequence)
	}

	recent, err := repo.Recent(ctx, 3)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	assert.Equal(t, []int64{3, 4, 5}, []int64{recent[0].Sequence, recent[1].Sequence, recent[2].Sequence})

	got := recent[2]
	want := sampleEntry("item", t0.Add(4*time.Minute))
	assert.Equal(t, want.Before, got.Before)
	assert.Equal(t, want.After, got.After)
	assert.Equal(t, time.Hour, got.Interval)
	assert.True(t, got.At.Equal(want.At))
	assert.True(t, got.NextReviewAfter.Equal(want.NextReviewAfter))
	assert.True(t, got.CrossedIntoLeech)
	assert.True(t, got.MasteredBefore)
	assert.False(t, got.MasteredAfter)

	all, err := repo.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 5)
}

func TestLogForItem(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	repo := s.Log()

	for _, id := range []string{"a", "b", "a"} {
		_, err := repo.Append(ctx, sampleEntry(id, t0))
		require.NoError(t, err)
	}
	entries, err := repo.ForItem(ctx, "a")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, int64(1), entries[0].Sequence)
	assert.Equal(t, int64(3), entries[1].Sequence)
}

func TestLogPrune(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	repo := s.Log()

	for i := 0; i < 7; i++ {
		_, err := repo.Append(ctx, sampleEntry("item", t0))
		require.NoError(t, err)
	}

	removed, err := repo.Prune(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	entries, err := repo.Recent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, 5)
	assert.Equal(t, int64(3), entries[0].Sequence)

	// Pruning never reuses sequence numbers.
	e, err := repo.Append(ctx, sampleEntry("item", t0))
	require.NoError(t, err)
	assert.Equal(t, int64(8), e.Sequence)
}

func TestLogPruneWithFewerThanKeep(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	repo := s.Log()

	for i := 0; i < 2; i++ {
		_, err := repo.Append(ctx, sampleEntry("item", t0))
		require.NoError(t, err)
	}

	removed, err := repo.Prune(ctx, 5)
	require.NoError(t, err)
	assert.Zero(t, removed)

	entries, err := repo.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestLogLoad(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	repo := s.Log()

	for i := 0; i < 6; i++ {
		_, err := repo.Append(ctx, sampleEntry("item", t0))
		require.NoError(t, err)
	}

	l, err := repo.Load(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, l.Len())
	assert.Equal(t, int64(3), l.At(0).Sequence)
	assert.Equal(t, int64(6), l.At(3).Sequence)
}

func TestRecordReview(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	g := mustGroup(t, s, "Dutch")
	it := mustItem(t, s, g.ID, "fiets", t0)

	reviewed := it.Clone()
	at := t0.Add(time.Hour)
	reviewed.LastReviewedAt = &at
	reviewed.KnowCount = 1
	reviewed.KnowStreak = 1
	reviewed.NextReviewAt = at.Add(10 * time.Minute)

	e, err := s.RecordReview(ctx, reviewed, reviewlog.Entry{
		ItemID: it.ID, GroupID: g.ID, Action: "know", At: at,
		Before: it.Counters(), After: reviewed.Counters(),
		NextReviewBefore: it.NextReviewAt, NextReviewAfter: reviewed.NextReviewAt,
		Interval: 10 * time.Minute, WasNew: true,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), e.Sequence)

	got, err := s.Items().Get(ctx, it.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.KnowCount)

	entries, err := s.Log().ForItem(ctx, it.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].WasNew)
}

func TestRecordReviewRollsBackOnInvalidItem(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	g := mustGroup(t, s, "Dutch")
	it := mustItem(t, s, g.ID, "boek", t0)

	bad := it.Clone()
	bad.KnowStreak = 2

	_, err := s.RecordReview(ctx, bad, reviewlog.Entry{ItemID: it.ID, Action: "know", At: t0})
	require.Error(t, err)

	entries, err := s.Log().Recent(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestImport(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	build := func(fronts ...string) ImportBuilder {
		return func(g Group, _ []spacedrep.Item) []spacedrep.Item {
			var out []spacedrep.Item
			for i, f := range fronts {
				out = append(out, spacedrep.NewItem(uuid.NewString(), g.ID, f, f+" (en)", t0.Add(time.Duration(i)*time.Millisecond)))
			}
			return out
		}
	}

	res, err := s.Import(ctx, "Dutch", t0, build("een", "twee"))
	require.NoError(t, err)
	assert.True(t, res.GroupCreated)
	assert.Equal(t, 2, res.Added)
	assert.Zero(t, res.Skipped)

	var seen []string
	res, err = s.Import(ctx, "Dutch", t0, func(g Group, existing []spacedrep.Item) []spacedrep.Item {
		for _, it := range existing {
			seen = append(seen, it.Front)
		}
		return build("twee", "drie")(g, existing)
	})
	require.NoError(t, err)
	assert.False(t, res.GroupCreated)
	assert.Equal(t, []string{"een", "twee"}, seen)
	assert.Equal(t, 1, res.Added)
	assert.Equal(t, 1, res.Skipped)

	items, err := s.Items().ListByGroup(ctx, res.Group.ID)
	require.NoError(t, err)
	assert.Len(t, items, 3)
}

func TestImportRollsBackOnInvalidItem(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.Import(ctx, "Broken", t0, func(g Group, _ []spacedrep.Item) []spacedrep.Item {
		good := spacedrep.NewItem(uuid.NewString(), g.ID, "een", "one", t0)
		bad := spacedrep.NewItem(uuid.NewString(), g.ID, "twee", "two", t0)
		bad.KnowStreak = 2
		return []spacedrep.Item{good, bad}
	})
	require.ErrorIs(t, err, spacedrep.ErrInvalidItemState)

	_, err = s.Groups().GetByName(ctx, "Broken")
	assert.ErrorIs(t, err, ErrNotFound)

	items, err := s.Items().ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}
