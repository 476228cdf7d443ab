package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/sqlgraph"

	"github.com/abhisek/phrasely/internal/spacedrep"
)

// ItemRepo persists review items.
type ItemRepo struct {
	q querier
}

var itemColumns = columnNames(ItemsColumns)

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// Create inserts a new item. A front already present in the item's group
// returns ErrDuplicate.
func (r *ItemRepo) Create(ctx context.Context, it spacedrep.Item) error {
	if err := it.Validate(); err != nil {
		return fmt.Errorf("create item: %w", err)
	}
	query, args := entsql.Dialect(dialect.SQLite).
		Insert(itemsTable).
		Columns(itemColumns...).
		Values(itemValues(it)...).
		Query()
	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		if sqlgraph.IsUniqueConstraintError(err) {
			return fmt.Errorf("create item %q: %w", it.Front, ErrDuplicate)
		}
		return fmt.Errorf("create item %q: %w", it.Front, err)
	}
	return nil
}

// Save writes the full item record, inserting it if it does not exist.
func (r *ItemRepo) Save(ctx context.Context, it spacedrep.Item) error {
	if err := it.Validate(); err != nil {
		return fmt.Errorf("save item: %w", err)
	}
	query, args := entsql.Dialect(dialect.SQLite).
		Insert(itemsTable).
		Columns(itemColumns...).
		Values(itemValues(it)...).
		OnConflict(
			entsql.ConflictColumns("id"),
			entsql.ResolveWithNewValues(),
		).
		Query()
	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save item %q: %w", it.ID, err)
	}
	return nil
}

// Get returns the item with the given id.
func (r *ItemRepo) Get(ctx context.Context, id string) (spacedrep.Item, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select(itemColumns...).
		From(entsql.Table(itemsTable)).
		Where(entsql.EQ("id", id)).
		Query()

	it, err := scanItem(r.q.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return spacedrep.Item{}, fmt.Errorf("item %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return spacedrep.Item{}, fmt.Errorf("query item %q: %w", id, err)
	}
	return it, nil
}

// Delete removes an item.
func (r *ItemRepo) Delete(ctx context.Context, id string) error {
	query, args := entsql.Dialect(dialect.SQLite).
		Delete(itemsTable).
		Where(entsql.EQ("id", id)).
		Query()
	res, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete item %q: %w", id, err)
	}
	return expectOne(res, "item", id)
}

// ListByGroup returns the items of one group in creation order.
func (r *ItemRepo) ListByGroup(ctx context.Context, groupID string) ([]spacedrep.Item, error) {
	return r.list(ctx, entsql.EQ("group_id", groupID))
}

// ListAll returns every item in creation order.
func (r *ItemRepo) ListAll(ctx context.Context) ([]spacedrep.Item, error) {
	return r.list(ctx, nil)
}

// ListLeeches returns the items that are leeches under policy.
func (r *ItemRepo) ListLeeches(ctx context.Context, policy spacedrep.Policy) ([]spacedrep.Item, error) {
	items, err := r.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return policy.Leeches(items), nil
}

func (r *ItemRepo) list(ctx context.Context, where *entsql.Predicate) ([]spacedrep.Item, error) {
	sel := entsql.Dialect(dialect.SQLite).
		Select(itemColumns...).
		From(entsql.Table(itemsTable)).
		OrderBy("created_at", "id")
	if where != nil {
		sel = sel.Where(where)
	}
	query, args := sel.Query()

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var items []spacedrep.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// itemValues returns the column values of it in ItemsColumns order.
func itemValues(it spacedrep.Item) []any {
	var last any
	if it.LastReviewedAt != nil {
		last = it.LastReviewedAt.UTC()
	}
	return []any{
		it.ID,
		it.Front,
		it.Back,
		it.MasteryLevel,
		it.KnowStreak,
		it.KnowCount,
		it.Lapses,
		it.HardLapses,
		last,
		it.NextReviewAt.UTC(),
		it.IsMastered,
		it.CreatedAt.UTC(),
		it.GroupID,
	}
}

func scanItem(s scanner) (spacedrep.Item, error) {
	var (
		it   spacedrep.Item
		last sql.NullTime
	)
	err := s.Scan(
		&it.ID,
		&it.Front,
		&it.Back,
		&it.MasteryLevel,
		&it.KnowStreak,
		&it.KnowCount,
		&it.Lapses,
		&it.HardLapses,
		&last,
		&it.NextReviewAt,
		&it.IsMastered,
		&it.CreatedAt,
		&it.GroupID,
	)
	if err != nil {
		return spacedrep.Item{}, err
	}
	if last.Valid {
		t := last.Time.UTC()
		it.LastReviewedAt = &t
	}
	it.NextReviewAt = it.NextReviewAt.UTC()
	it.CreatedAt = it.CreatedAt.UTC()
	return it, nil
}
