package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/phrasely/internal/logging"
	"github.com/abhisek/phrasely/internal/reviewlog"
)

// LogRepo persists review log entries.
type LogRepo struct {
	q      querier
	seq    *sequenceCounter
	logger *logging.Logger
}

var logColumns = columnNames(ReviewLogColumns)

// Append stores e under the next global sequence number and returns it with
// Sequence set.
func (r *LogRepo) Append(ctx context.Context, e reviewlog.Entry) (reviewlog.Entry, error) {
	seq, err := r.seq.Next(ctx, r.q)
	if err != nil {
		return e, err
	}
	e.Sequence = seq

	query, args := entsql.Dialect(dialect.SQLite).
		Insert(logTable).
		Columns(logColumns...).
		Values(entryValues(e)...).
		Query()
	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		return e, fmt.Errorf("append log entry: %w", err)
	}
	return e, nil
}

// Recent returns up to limit of the newest entries, oldest first. A limit
// below 1 returns every entry.
func (r *LogRepo) Recent(ctx context.Context, limit int) ([]reviewlog.Entry, error) {
	sel := entsql.Dialect(dialect.SQLite).
		Select(logColumns...).
		From(entsql.Table(logTable)).
		OrderBy(entsql.Desc("sequence"))
	if limit > 0 {
		sel = sel.Limit(limit)
	}
	entries, err := r.query(ctx, sel)
	if err != nil {
		return nil, err
	}
	slices.Reverse(entries)
	return entries, nil
}

// ForItem returns every entry recorded for one item, oldest first.
func (r *LogRepo) ForItem(ctx context.Context, itemID string) ([]reviewlog.Entry, error) {
	sel := entsql.Dialect(dialect.SQLite).
		Select(logColumns...).
		From(entsql.Table(logTable)).
		Where(entsql.EQ("item_id", itemID)).
		OrderBy("sequence")
	return r.query(ctx, sel)
}

// Prune deletes all but the keep newest entries and reports how many were
// removed.
func (r *LogRepo) Prune(ctx context.Context, keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}
	// Find the sequence of the oldest entry to keep.
	query, args := entsql.Dialect(dialect.SQLite).
		Select("sequence").
		From(entsql.Table(logTable)).
		OrderBy(entsql.Desc("sequence")).
		Offset(keep).
		Limit(1).
		Query()

	var threshold int64
	err := r.q.QueryRowContext(ctx, query, args...).Scan(&threshold)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil // at most keep entries exist
	}
	if err != nil {
		return 0, fmt.Errorf("query log for prune: %w", err)
	}

	query, args = entsql.Dialect(dialect.SQLite).
		Delete(logTable).
		Where(entsql.LTE("sequence", threshold)).
		Query()
	res, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("prune log: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	r.logger.Info("review log pruned", "removed", n, "kept", keep)
	return n, nil
}

// Load rebuilds an in-memory log holding the newest capacity entries.
func (r *LogRepo) Load(ctx context.Context, capacity int) (*reviewlog.Log, error) {
	l := reviewlog.New(capacity)
	entries, err := r.Recent(ctx, l.Cap())
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		l.Append(e)
	}
	return l, nil
}

func (r *LogRepo) query(ctx context.Context, sel *entsql.Selector) ([]reviewlog.Entry, error) {
	query, args := sel.Query()
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query log: %w", err)
	}
	defer rows.Close()

	var entries []reviewlog.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan log entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// entryValues returns the column values of e in ReviewLogColumns order.
func entryValues(e reviewlog.Entry) []any {
	return []any{
		e.Sequence,
		e.ItemID,
		e.GroupID,
		e.Action,
		e.At.UTC(),
		e.Before.MasteryLevel,
		e.Before.KnowStreak,
		e.Before.KnowCount,
		e.Before.Lapses,
		e.Before.HardLapses,
		e.After.MasteryLevel,
		e.After.KnowStreak,
		e.After.KnowCount,
		e.After.Lapses,
		e.After.HardLapses,
		e.NextReviewBefore.UTC(),
		e.NextReviewAfter.UTC(),
		int64(e.Interval),
		e.WasNew,
		e.CrossedIntoLeech,
		e.MasteredBefore,
		e.MasteredAfter,
	}
}

func scanEntry(s scanner) (reviewlog.Entry, error) {
	var (
		e        reviewlog.Entry
		interval int64
	)
	err := s.Scan(
		&e.Sequence,
		&e.ItemID,
		&e.GroupID,
		&e.Action,
		&e.At,
		&e.Before.MasteryLevel,
		&e.Before.KnowStreak,
		&e.Before.KnowCount,
		&e.Before.Lapses,
		&e.Before.HardLapses,
		&e.After.MasteryLevel,
		&e.After.KnowStreak,
		&e.After.KnowCount,
		&e.After.Lapses,
		&e.After.HardLapses,
		&e.NextReviewBefore,
		&e.NextReviewAfter,
		&interval,
		&e.WasNew,
		&e.CrossedIntoLeech,
		&e.MasteredBefore,
		&e.MasteredAfter,
	)
	if err != nil {
		return reviewlog.Entry{}, err
	}
	e.Interval = time.Duration(interval)
	e.At = e.At.UTC()
	e.NextReviewBefore = e.NextReviewBefore.UTC()
	e.NextReviewAfter = e.NextReviewAfter.UTC()
	return e, nil
}
