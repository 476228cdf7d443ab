// Package session runs a review session: it picks the next item to show,
// applies learner responses through the mastery machine and persists the
// results.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/phrasely/internal/logging"
	"github.com/abhisek/phrasely/internal/mastery"
	"github.com/abhisek/phrasely/internal/reviewlog"
	"github.com/abhisek/phrasely/internal/spacedrep"
)

// ErrUnknownItem is returned when an action names an item outside the
// session pool.
var ErrUnknownItem = errors.New("session: item not in pool")

// Repo persists review results. Implementations save the item and append
// the entry atomically and return the entry with its sequence assigned.
type Repo interface {
	RecordReview(ctx context.Context, item spacedrep.Item, e reviewlog.Entry) (reviewlog.Entry, error)
}

// Options configures a Coordinator.
type Options struct {
	// Enabled reports which groups take part. Nil enables every group.
	Enabled spacedrep.GroupPredicate

	// MasteredIn decides which groups count toward IsMastered. It differs
	// from Enabled when a session is narrowed to a single group. Nil uses
	// Enabled.
	MasteredIn spacedrep.GroupPredicate

	// History is the review log to extend. Nil starts an empty log of
	// reviewlog.DefaultCapacity.
	History *reviewlog.Log

	// Limit caps the number of learner responses in this session.
	// 0 = unlimited.
	Limit int

	Logger *logging.Logger
}

// Coordinator owns the working pool of a review session. It is safe for
// concurrent use; actions on the same item are applied one at a time.
type Coordinator struct {
	id       string
	started  time.Time
	machine  *mastery.Machine
	repo     Repo
	enabled  spacedrep.GroupPredicate
	mastered spacedrep.GroupPredicate
	limit    int
	logger   *logging.Logger

	locks itemLocks

	mu        sync.Mutex
	order     []string
	pool      map[string]spacedrep.Item
	lastShown string
	history   *reviewlog.Log
	entries   []reviewlog.Entry // this session only
	answered  int
}

// New creates a Coordinator over items. Items in disabled groups are left
// out of the pool; the rest keep their given order.
func New(machine *mastery.Machine, repo Repo, items []spacedrep.Item, opts Options, now time.Time) *Coordinator {
	enabled := opts.Enabled
	if enabled == nil {
		enabled = spacedrep.AllGroupsEnabled
	}
	mastered := opts.MasteredIn
	if mastered == nil {
		mastered = enabled
	}
	history := opts.History
	if history == nil {
		history = reviewlog.New(reviewlog.DefaultCapacity)
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Nop()
	}

	c := &Coordinator{
		id:       uuid.NewString(),
		started:  now,
		machine:  machine,
		repo:     repo,
		enabled:  enabled,
		mastered: mastered,
		limit:    opts.Limit,
		history:  history,
		pool:     make(map[string]spacedrep.Item, len(items)),
	}
	c.logger = logger.With("session", c.id)

	for _, it := range items {
		if !enabled(it.GroupID) {
			continue
		}
		if _, dup := c.pool[it.ID]; dup {
			continue
		}
		c.order = append(c.order, it.ID)
		c.pool[it.ID] = it.Clone()
	}
	c.logger.Debug("session started", "pool", len(c.order))
	return c
}

// ID returns the session id.
func (c *Coordinator) ID() string { return c.id }

// Next returns the item to show at now, or false when nothing is eligible
// or the session limit is reached. The same item is not returned twice in a
// row while another is eligible.
func (c *Coordinator) Next(now time.Time) (spacedrep.Item, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.limitReached() {
		return spacedrep.Item{}, false
	}
	it, ok := spacedrep.SelectNext(c.poolLocked(), c.lastShown, now)
	if !ok {
		return spacedrep.Item{}, false
	}
	c.lastShown = it.ID
	return it, true
}

// Peek returns up to n items in the order they would be offered at now,
// without marking any as shown.
func (c *Coordinator) Peek(now time.Time, n int) []spacedrep.Item {
	c.mu.Lock()
	defer c.mu.Unlock()

	ranked := spacedrep.Rank(c.poolLocked(), now)
	if n >= 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// Item returns the current state of a pool item.
func (c *Coordinator) Item(id string) (spacedrep.Item, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	it, ok := c.pool[id]
	return it.Clone(), ok
}

// Answer applies a learner response to item id.
func (c *Coordinator) Answer(ctx context.Context, id string, action mastery.Action, now time.Time) (mastery.Result, error) {
	return c.apply(ctx, id, action.String(), true, func(it spacedrep.Item) (mastery.Result, error) {
		return c.machine.ApplyReview(it, action, c.mastered, now)
	})
}

// ResolveLeech applies a manual leech action to item id. It does not count
// toward the session limit.
func (c *Coordinator) ResolveLeech(ctx context.Context, id string, action mastery.LeechAction, now time.Time) (mastery.Result, error) {
	return c.apply(ctx, id, action.String(), false, func(it spacedrep.Item) (mastery.Result, error) {
		return c.machine.ApplyLeechAction(it, action, c.mastered, now)
	})
}

func (c *Coordinator) apply(ctx context.Context, id, action string, answer bool, fn func(spacedrep.Item) (mastery.Result, error)) (mastery.Result, error) {
	unlock := c.locks.lock(id)
	defer unlock()

	c.mu.Lock()
	it, ok := c.pool[id]
	c.mu.Unlock()
	if !ok {
		return mastery.Result{}, fmt.Errorf("%w: %s", ErrUnknownItem, id)
	}

	res, err := fn(it)
	if err != nil {
		return mastery.Result{}, fmt.Errorf("apply %s to %s: %w", action, id, err)
	}

	entry, err := c.repo.RecordReview(ctx, res.Item, res.Entry)
	if err != nil {
		return mastery.Result{}, fmt.Errorf("record %s for %s: %w", action, id, err)
	}
	res.Entry = entry

	c.mu.Lock()
	c.pool[id] = res.Item
	c.history.Append(entry)
	c.entries = append(c.entries, entry)
	if answer {
		c.answered++
	}
	c.mu.Unlock()

	c.logger.Debug("review applied",
		"item", id,
		"action", action,
		"level", res.Item.MasteryLevel,
		"next_review_at", res.Item.NextReviewAt,
	)
	if res.CrossedIntoLeech {
		c.logger.Info("item became a leech", "item", id, "front", res.Item.Front, "lapses", res.Item.Lapses)
	}
	return res, nil
}

// Summary describes the responses recorded in this session.
type Summary struct {
	SessionID string
	Started   time.Time
	reviewlog.Summary

	// Due is the number of pool items still due at the time of the call.
	Due int
}

// Summary returns the session summary at now.
func (c *Coordinator) Summary(now time.Time) Summary {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Summary{
		SessionID: c.id,
		Started:   c.started,
		Summary:   reviewlog.Summarize(c.entries),
		Due:       spacedrep.DueCount(c.poolLocked(), now),
	}
}

// History returns up to n of the newest review log entries, oldest first,
// including entries recorded before the session.
func (c *Coordinator) History(n int) []reviewlog.Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.history.Last(n)
}

// Remaining returns how many more responses the session accepts, or -1 when
// it is unlimited.
func (c *Coordinator) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.limit <= 0 {
		return -1
	}
	return max(c.limit-c.answered, 0)
}

func (c *Coordinator) limitReached() bool {
	return c.limit > 0 && c.answered >= c.limit
}

func (c *Coordinator) poolLocked() []spacedrep.Item {
	items := make([]spacedrep.Item, 0, len(c.order))
	for _, id := range c.order {
		items = append(items, c.pool[id])
	}
	return items
}
