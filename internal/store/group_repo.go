package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/sqlgraph"
	"github.com/google/uuid"

	"github.com/abhisek/phrasely/internal/spacedrep"
)

// Group is a named collection of phrases that can be enabled or disabled as
// a whole.
type Group struct {
	ID        string
	Name      string
	Enabled   bool
	CreatedAt time.Time
}

// GroupRepo manages phrase groups.
type GroupRepo struct {
	db *sql.DB
}

var groupColumns = columnNames(GroupsColumns)

// Create inserts a new enabled group. Names are unique.
func (r *GroupRepo) Create(ctx context.Context, name string, now time.Time) (Group, error) {
	return createGroup(ctx, r.db, name, now)
}

func createGroup(ctx context.Context, q querier, name string, now time.Time) (Group, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Group{}, errors.New("create group: empty name")
	}
	g := Group{ID: uuid.NewString(), Name: name, Enabled: true, CreatedAt: now.UTC()}

	query, args := entsql.Dialect(dialect.SQLite).
		Insert(groupsTable).
		Columns(groupColumns...).
		Values(g.ID, g.Name, g.Enabled, g.CreatedAt).
		Query()
	if _, err := q.ExecContext(ctx, query, args...); err != nil {
		if sqlgraph.IsUniqueConstraintError(err) {
			return Group{}, fmt.Errorf("create group %q: %w", name, ErrDuplicate)
		}
		return Group{}, fmt.Errorf("create group %q: %w", name, err)
	}
	return g, nil
}

// Get returns the group with the given id.
func (r *GroupRepo) Get(ctx context.Context, id string) (Group, error) {
	return getGroup(ctx, r.db, "id", id)
}

// GetByName returns the group with the given name.
func (r *GroupRepo) GetByName(ctx context.Context, name string) (Group, error) {
	return getGroup(ctx, r.db, "name", strings.TrimSpace(name))
}

// Ensure returns the named group, creating it if it does not exist.
func (r *GroupRepo) Ensure(ctx context.Context, name string, now time.Time) (Group, bool, error) {
	return ensureGroup(ctx, r.db, name, now)
}

func ensureGroup(ctx context.Context, q querier, name string, now time.Time) (Group, bool, error) {
	g, err := getGroup(ctx, q, "name", strings.TrimSpace(name))
	if err == nil {
		return g, false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return Group{}, false, err
	}
	g, err = createGroup(ctx, q, name, now)
	if err != nil {
		return Group{}, false, err
	}
	return g, true, nil
}

func getGroup(ctx context.Context, q querier, column, value string) (Group, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select(groupColumns...).
		From(entsql.Table(groupsTable)).
		Where(entsql.EQ(column, value)).
		Query()

	var g Group
	err := q.QueryRowContext(ctx, query, args...).Scan(&g.ID, &g.Name, &g.Enabled, &g.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Group{}, fmt.Errorf("group %q: %w", value, ErrNotFound)
	}
	if err != nil {
		return Group{}, fmt.Errorf("query group %q: %w", value, err)
	}
	return g, nil
}

// List returns all groups ordered by name.
func (r *GroupRepo) List(ctx context.Context) ([]Group, error) {
	return listGroups(ctx, r.db)
}

func listGroups(ctx context.Context, q querier) ([]Group, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select(groupColumns...).
		From(entsql.Table(groupsTable)).
		OrderBy("name").
		Query()

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	defer rows.Close()

	var groups []Group
	for rows.Next() {
		var g Group
		if err := rows.Scan(&g.ID, &g.Name, &g.Enabled, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan group: %w", err)
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

// MasteryFunc recomputes an item's derived IsMastered flag under a group
// predicate. (*mastery.Machine).Refresh satisfies it.
type MasteryFunc func(spacedrep.Item, spacedrep.GroupPredicate) spacedrep.Item

// SetEnabled enables or disables a group and, in the same transaction,
// recomputes IsMastered for the group's items under the new set of enabled
// groups. It returns the number of items whose flag changed.
func (r *GroupRepo) SetEnabled(ctx context.Context, id string, enabled bool, refresh MasteryFunc) (int, error) {
	if refresh == nil {
		return 0, errors.New("set group enabled: nil mastery func")
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin update group: %w", err)
	}
	defer tx.Rollback()

	query, args := entsql.Dialect(dialect.SQLite).
		Update(groupsTable).
		Set("enabled", enabled).
		Where(entsql.EQ("id", id)).
		Query()
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("update group %q: %w", id, err)
	}
	if err := expectOne(res, "group", id); err != nil {
		return 0, err
	}

	pred, err := enabledSet(ctx, tx)
	if err != nil {
		return 0, err
	}
	items := &ItemRepo{q: tx}
	list, err := items.ListByGroup(ctx, id)
	if err != nil {
		return 0, err
	}
	changed := 0
	for _, it := range list {
		next := refresh(it, pred)
		if next.IsMastered == it.IsMastered {
			continue
		}
		if err := items.Save(ctx, next); err != nil {
			return 0, err
		}
		changed++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit update group: %w", err)
	}
	return changed, nil
}

// EnabledSet returns a predicate reporting whether a group id is enabled,
// built from the current group table.
func (r *GroupRepo) EnabledSet(ctx context.Context) (spacedrep.GroupPredicate, error) {
	return enabledSet(ctx, r.db)
}

func enabledSet(ctx context.Context, q querier) (spacedrep.GroupPredicate, error) {
	groups, err := listGroups(ctx, q)
	if err != nil {
		return nil, err
	}
	enabled := make(map[string]bool, len(groups))
	for _, g := range groups {
		if g.Enabled {
			enabled[g.ID] = true
		}
	}
	return spacedrep.EnabledSet(enabled), nil
}

// Delete removes a group and all of its items. Review log entries are kept.
func (r *GroupRepo) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete group: %w", err)
	}
	defer tx.Rollback()

	query, args := entsql.Dialect(dialect.SQLite).
		Delete(itemsTable).
		Where(entsql.EQ("group_id", id)).
		Query()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete items of group %q: %w", id, err)
	}

	query, args = entsql.Dialect(dialect.SQLite).
		Delete(groupsTable).
		Where(entsql.EQ("id", id)).
		Query()
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete group %q: %w", id, err)
	}
	if err := expectOne(res, "group", id); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete group: %w", err)
	}
	return nil
}

// expectOne maps a zero-row update or delete to ErrNotFound.
func expectOne(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %q: %w", kind, id, ErrNotFound)
	}
	return nil
}
