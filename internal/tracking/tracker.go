// Package tracking records completion of tagged media items.
package tracking

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mind-engage/mindengage-courseware/internal/datamodel"
	"github.com/mind-engage/mindengage-courseware/internal/journal"
	"github.com/mind-engage/mindengage-courseware/internal/storage"
)

type Clock func() time.Time

// Item is the state of one registered media item. CompletedAt is set once,
// on the first completion.
type Item struct {
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Snapshot maps media id to state. Values handed out are copies.
type Snapshot map[string]Item

type Option func(*Tracker)

func WithClock(c Clock) Option {
	return func(t *Tracker) {
		if c != nil {
			t.now = c
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(t *Tracker) {
		if l != nil {
			t.log = l
		}
	}
}

func WithJournal(r journal.Recorder, sessionID string) Option {
	return func(t *Tracker) {
		if r != nil {
			t.journal = r
			t.sessionID = sessionID
		}
	}
}

// Tracker owns the completion registry. All methods are safe for concurrent
// use; state transitions are serialised by a single mutex.
type Tracker struct {
	bridge *datamodel.Bridge
	local  *storage.Local

	now       Clock
	log       *zap.Logger
	journal   journal.Recorder
	sessionID string

	mu       sync.Mutex
	items    map[string]Item
	started  bool
	reported bool
}

// New builds a tracker. The local adapter is used only while the bridge has
// no real handle; local may be nil to disable standalone persistence.
func New(bridge *datamodel.Bridge, local *storage.Local, opts ...Option) *Tracker {
	if bridge == nil {
		bridge = datamodel.Detached()
	}
	t := &Tracker{
		bridge:  bridge,
		local:   local,
		now:     time.Now,
		log:     zap.NewNop(),
		journal: journal.Nop{},
		items:   map[string]Item{},
	}
	for _, o := range opts {
		o(t)
	}
	t.log = t.log.With(zap.String("component", "tracking"))
	return t
}

func (t *Tracker) standalone() bool { return !t.bridge.HasHandle() && t.local != nil }

// Restore re-reads the stored state of every registered item and merges it
// monotonically: an item completed in memory is never overwritten. It reports
// whether any stored item was found.
func (t *Tracker) Restore(ctx context.Context) bool {
	if !t.standalone() {
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	found := 0
	for id, cur := range t.items {
		prior, ok := t.loadLocked(ctx, id)
		if !ok {
			continue
		}
		found++
		if !cur.Completed && prior.Completed {
			t.items[id] = prior
		}
	}
	t.log.Debug("registry restored", zap.Int("items", found))
	return found > 0
}

// Register seeds every unseen id. In standalone mode an id stored by an
// earlier session starts from its stored state; a new one is stored as not
// completed. Known ids are untouched.
func (t *Tracker) Register(ctx context.Context, ids ...string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	added := 0
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := t.items[id]; ok {
			continue
		}
		added++
		if prior, ok := t.loadLocked(ctx, id); ok {
			t.items[id] = prior
			continue
		}
		t.items[id] = Item{}
		t.persistLocked(ctx, id)
	}
	if added > 0 {
		t.startLocked()
	}
}

// MarkCompleted moves a registered item to completed and stamps the time.
// It returns true only on that first transition; repeats and unknown ids are
// no-ops.
func (t *Tracker) MarkCompleted(ctx context.Context, id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	cur, ok := t.items[id]
	if !ok {
		t.log.Debug("completion for untracked item ignored", zap.String("media_id", id))
		return false
	}
	if cur.Completed {
		return false
	}
	at := t.now()
	t.items[id] = Item{Completed: true, CompletedAt: &at}
	t.persistLocked(ctx, id)

	ev := journal.NewEvent(t.sessionID, journal.TypeMediaCompleted, id, map[string]any{"completed_at": at})
	if err := t.journal.Append(ctx, ev); err != nil {
		t.log.Warn("journal append failed", zap.String("media_id", id), zap.Error(err))
	}
	t.reportLocked()
	return true
}

func (t *Tracker) IsCompleted(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.items[id].Completed
}

// AllCompleted is true for an empty registry.
func (t *Tracker) AllCompleted() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.allCompletedLocked()
}

// Progress returns completed and registered counts.
func (t *Tracker) Progress() (done, total int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, it := range t.items {
		if it.Completed {
			done++
		}
	}
	return done, len(t.items)
}

// State returns a deep copy of the registry.
func (t *Tracker) State() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

// IDs returns registered ids in sorted order.
func (t *Tracker) IDs() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	ids := make([]string, 0, len(t.items))
	for id := range t.items {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (t *Tracker) allCompletedLocked() bool {
	for _, it := range t.items {
		if !it.Completed {
			return false
		}
	}
	return true
}

func (t *Tracker) snapshotLocked() Snapshot {
	out := make(Snapshot, len(t.items))
	for id, it := range t.items {
		out[id] = copyItem(it)
	}
	return out
}

// persistLocked stores one item under <ns>:media:<id>.
func (t *Tracker) persistLocked(ctx context.Context, id string) {
	if !t.standalone() {
		return
	}
	t.local.SaveJSON(ctx, storage.CategoryMedia, id, t.items[id])
}

func (t *Tracker) loadLocked(ctx context.Context, id string) (Item, bool) {
	if !t.standalone() {
		return Item{}, false
	}
	var it Item
	if !t.local.LoadJSON(ctx, storage.CategoryMedia, id, &it) {
		return Item{}, false
	}
	return it, true
}

// startLocked marks the content incomplete on the host the first time media
// is registered, unless the host already holds a completion.
func (t *Tracker) startLocked() {
	if t.started || !t.bridge.HasHandle() || !t.bridge.Supports(datamodel.FieldCompletionStatus) {
		return
	}
	t.started = true
	if cur, ok := t.bridge.GetField(datamodel.FieldCompletionStatus); ok && cur == datamodel.StatusCompleted {
		return
	}
	if t.allCompletedLocked() {
		return
	}
	t.bridge.SetField(datamodel.FieldCompletionStatus, datamodel.StatusIncomplete)
}

// reportLocked tells the host the content is complete the first time every
// registered item is done.
func (t *Tracker) reportLocked() {
	if t.reported || !t.bridge.HasHandle() || !t.allCompletedLocked() {
		return
	}
	t.reported = true
	if t.bridge.SetField(datamodel.FieldCompletionStatus, datamodel.StatusCompleted) {
		t.bridge.Commit()
	}
}

func copyItem(it Item) Item {
	if it.CompletedAt != nil {
		at := *it.CompletedAt
		it.CompletedAt = &at
	}
	return it
}
