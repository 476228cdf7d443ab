package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/abhisek/phrasely/internal/spacedrep"
)

// ImportResult reports what Import wrote.
type ImportResult struct {
	Group        Group
	GroupCreated bool
	Added        int
	Skipped      int
}

// ImportBuilder returns the items to insert into g given the items it
// already holds.
type ImportBuilder func(g Group, existing []spacedrep.Item) []spacedrep.Item

// Import ensures the named group exists and inserts the items built for it,
// all in one transaction. Items whose front is already taken in the group
// are skipped; any other failure rolls back the whole import, including a
// newly created group.
func (s *Store) Import(ctx context.Context, groupName string, now time.Time, build ImportBuilder) (ImportResult, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ImportResult{}, fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback()

	g, created, err := ensureGroup(ctx, tx, groupName, now)
	if err != nil {
		return ImportResult{}, fmt.Errorf("ensure group: %w", err)
	}
	items := &ItemRepo{q: tx}
	existing, err := items.ListByGroup(ctx, g.ID)
	if err != nil {
		return ImportResult{}, fmt.Errorf("list items: %w", err)
	}

	res := ImportResult{Group: g, GroupCreated: created}
	for _, it := range build(g, existing) {
		err := items.Create(ctx, it)
		if errors.Is(err, ErrDuplicate) {
			res.Skipped++
			continue
		}
		if err != nil {
			return ImportResult{}, err
		}
		res.Added++
	}

	if err := tx.Commit(); err != nil {
		return ImportResult{}, fmt.Errorf("commit import: %w", err)
	}
	s.logger.Debug("import committed", "group", g.Name, "added", res.Added, "skipped", res.Skipped)
	return res, nil
}
