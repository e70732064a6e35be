package journal

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mind-engage/mindengage-courseware/internal/db"
)

func TestNewEvent(t *testing.T) {
	e := NewEvent("s1", TypeQuizSubmitted, "q1", map[string]any{"raw": 1})
	assert.Equal(t, "s1", e.SessionID)
	assert.JSONEq(t, `{"raw":1}`, e.DataJSON)

	e = NewEvent("s1", TypeMediaCompleted, "m1", nil)
	assert.Equal(t, "{}", e.DataJSON)
}

func TestSQLRepo_AppendAndList(t *testing.T) {
	ctx := context.Background()
	dbh, err := db.Open(ctx, db.DriverSQLite, "file:journal_test?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { dbh.Close() })

	repo := NewSQLRepo(dbh)
	require.NoError(t, repo.Append(ctx, NewEvent("s1", TypeMediaCompleted, "intro", nil)))
	require.NoError(t, repo.Append(ctx, NewEvent("s2", TypeMediaCompleted, "other", nil)))
	require.NoError(t, repo.Append(ctx, NewEvent("s1", TypeQuizSubmitted, "q1", map[string]bool{"passed": true})))

	events, err := repo.List(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, TypeMediaCompleted, events[0].Type)
	assert.Equal(t, "q1", events[1].Key)
	assert.Less(t, events[0].Seq, events[1].Seq)
}

func TestMemory(t *testing.T) {
	var m Memory
	require.NoError(t, m.Append(context.Background(), NewEvent("s", TypeMediaCompleted, "a", nil)))
	require.NoError(t, m.Append(context.Background(), NewEvent("s", TypeMediaCompleted, "b", nil)))

	events := m.Events()
	require.Len(t, events, 2)
	assert.Equal(t, int64(2), events[1].Seq)
}
