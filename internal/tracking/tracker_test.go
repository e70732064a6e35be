package tracking

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/mind-engage/mindengage-courseware/internal/datamodel"
	"github.com/mind-engage/mindengage-courseware/internal/journal"
	"github.com/mind-engage/mindengage-courseware/internal/storage"
)

// tickClock advances one minute per call so restamping would be visible.
func tickClock() Clock {
	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	n := 0
	return func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Minute)
	}
}

func newStandalone(t *testing.T, kv storage.KV, opts ...Option) *Tracker {
	t.Helper()
	local := storage.NewLocal(kv, "test", zaptest.NewLogger(t))
	opts = append([]Option{WithClock(tickClock()), WithLogger(zaptest.NewLogger(t))}, opts...)
	return New(datamodel.Detached(), local, opts...)
}

func TestMarkCompleted_Idempotent(t *testing.T) {
	ctx := context.Background()
	tr := newStandalone(t, storage.NewMemoryKV())
	tr.Register(ctx, "intro-video")

	require.True(t, tr.MarkCompleted(ctx, "intro-video"))
	first := *tr.State()["intro-video"].CompletedAt

	assert.False(t, tr.MarkCompleted(ctx, "intro-video"))
	second := *tr.State()["intro-video"].CompletedAt

	assert.Equal(t, first, second)
	assert.True(t, tr.IsCompleted("intro-video"))
}

func TestMarkCompleted_UnknownIDIgnored(t *testing.T) {
	ctx := context.Background()
	tr := newStandalone(t, storage.NewMemoryKV())

	assert.False(t, tr.MarkCompleted(ctx, "ghost"))
	assert.False(t, tr.IsCompleted("ghost"))
	assert.Empty(t, tr.State())
}

func TestRegister_ReRegistrationKeepsState(t *testing.T) {
	ctx := context.Background()
	tr := newStandalone(t, storage.NewMemoryKV())
	tr.Register(ctx, "a", "b")
	tr.MarkCompleted(ctx, "a")

	tr.Register(ctx, "a", "b", "c", "")

	assert.True(t, tr.IsCompleted("a"))
	assert.Equal(t, []string{"a", "b", "c"}, tr.IDs())
	done, total := tr.Progress()
	assert.Equal(t, 1, done)
	assert.Equal(t, 3, total)
}

func TestAllCompleted(t *testing.T) {
	ctx := context.Background()
	tr := newStandalone(t, storage.NewMemoryKV())

	assert.True(t, tr.AllCompleted(), "empty registry is vacuously complete")

	tr.Register(ctx, "a", "b")
	assert.False(t, tr.AllCompleted())

	tr.MarkCompleted(ctx, "a")
	assert.False(t, tr.AllCompleted())

	tr.MarkCompleted(ctx, "b")
	assert.True(t, tr.AllCompleted())
}

func TestState_IsDefensiveCopy(t *testing.T) {
	ctx := context.Background()
	tr := newStandalone(t, storage.NewMemoryKV())
	tr.Register(ctx, "a")
	tr.MarkCompleted(ctx, "a")

	snap := tr.State()
	*snap["a"].CompletedAt = time.Time{}
	snap["a"] = Item{}
	snap["b"] = Item{Completed: true}

	assert.True(t, tr.IsCompleted("a"))
	assert.False(t, tr.State()["a"].CompletedAt.IsZero())
	assert.NotContains(t, tr.State(), "b")
}

func TestStandalone_StoresEachItemUnderItsOwnKey(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryKV()
	local := storage.NewLocal(kv, storage.DefaultNamespace, zaptest.NewLogger(t))
	tr := New(datamodel.Detached(), local, WithClock(tickClock()))

	tr.Register(ctx, "intro")
	raw, ok, err := kv.Load(ctx, "mindengage:media:intro")
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{"completed":false}`, raw)

	tr.MarkCompleted(ctx, "intro")
	raw, ok, err = kv.Load(ctx, "mindengage:media:intro")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, raw, `"completed":true`)
	assert.Contains(t, raw, `"completed_at"`)
}

func TestStandalone_PersistsAndRestores(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryKV()

	tr := newStandalone(t, kv)
	tr.Register(ctx, "a", "b")
	tr.MarkCompleted(ctx, "a")

	reloaded := newStandalone(t, kv)
	reloaded.Register(ctx, "a", "b")

	assert.True(t, reloaded.IsCompleted("a"))
	assert.False(t, reloaded.IsCompleted("b"))
	if diff := cmp.Diff(tr.State(), reloaded.State()); diff != "" {
		t.Errorf("restored registry mismatch (-want +got):\n%s", diff)
	}
}

func TestRestore_PicksUpLaterCompletions(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryKV()
	tr := newStandalone(t, kv)
	tr.Register(ctx, "a")

	require.NoError(t, kv.Save(ctx, "test:media:a", `{"completed":true,"completed_at":"2025-03-01T08:00:00Z"}`))
	require.True(t, tr.Restore(ctx))
	assert.True(t, tr.IsCompleted("a"))
}

func TestRestore_DoesNotRevertCompletedItems(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryKV()

	tr := newStandalone(t, kv)
	tr.Register(ctx, "a")
	tr.MarkCompleted(ctx, "a")
	require.NoError(t, kv.Save(ctx, "test:media:a", `{"completed":false}`))
	tr.Restore(ctx)

	assert.True(t, tr.IsCompleted("a"))
}

func TestRestore_MissingOrCorruptItem(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryKV()

	assert.False(t, newStandalone(t, kv).Restore(ctx))

	require.NoError(t, kv.Save(ctx, "test:media:a", "not-json"))
	tr := newStandalone(t, kv)
	tr.Register(ctx, "a")
	assert.False(t, tr.IsCompleted("a"))
}

func TestHosted_ReportsCompletionOnceAndSkipsLocal(t *testing.T) {
	ctx := context.Background()
	h := datamodel.NewMemoryHandle()
	kv := storage.NewMemoryKV()
	tr := New(datamodel.New(h, datamodel.Version2004), storage.NewLocal(kv, "test", nil))

	tr.Register(ctx, "a", "b")
	assert.Equal(t, datamodel.StatusIncomplete, h.Values()["cmi.completion_status"])
	tr.MarkCompleted(ctx, "a")
	assert.Zero(t, h.Commits())

	tr.MarkCompleted(ctx, "b")
	assert.Equal(t, datamodel.StatusCompleted, h.Values()["cmi.completion_status"])
	assert.Equal(t, 1, h.Commits())

	tr.Register(ctx, "c")
	tr.MarkCompleted(ctx, "c")
	assert.Equal(t, 1, h.Commits())
	assert.Equal(t, datamodel.StatusCompleted, h.Values()["cmi.completion_status"])

	_, ok, _ := kv.Load(ctx, "test:media:a")
	assert.False(t, ok, "hosted mode must not write local storage")
	assert.False(t, tr.Restore(ctx))
}

func TestHosted_KeepsExistingCompletion(t *testing.T) {
	ctx := context.Background()
	h := datamodel.NewMemoryHandle()
	require.True(t, h.SetValue("cmi.completion_status", datamodel.StatusCompleted))
	tr := New(datamodel.New(h, datamodel.Version2004), nil)

	tr.Register(ctx, "a")
	assert.Equal(t, datamodel.StatusCompleted, h.Values()["cmi.completion_status"])
}

func TestHosted_LegacySkipsCompletionStatus(t *testing.T) {
	ctx := context.Background()
	h := datamodel.NewMemoryHandle()
	tr := New(datamodel.New(h, datamodel.Version12), nil)

	tr.Register(ctx, "a")
	tr.MarkCompleted(ctx, "a")
	assert.Empty(t, h.Writes())
}

func TestMarkCompleted_JournalsFirstCompletionOnly(t *testing.T) {
	ctx := context.Background()
	rec := &journal.Memory{}
	tr := newStandalone(t, storage.NewMemoryKV(), WithJournal(rec, "sess-1"))
	tr.Register(ctx, "a")

	tr.MarkCompleted(ctx, "a")
	tr.MarkCompleted(ctx, "a")

	events := rec.Events()
	require.Len(t, events, 1)
	assert.Equal(t, journal.TypeMediaCompleted, events[0].Type)
	assert.Equal(t, "sess-1", events[0].SessionID)
	assert.Equal(t, "a", events[0].Key)
}
