package store

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/standup/internal/kv"
	"github.com/idilsaglam/standup/internal/model"
)

var fixedNow = time.Date(2024, time.January, 10, 15, 30, 0, 0, time.Local)

func newTestStore(t *testing.T, seed map[string]string) (*Store, *kv.Memory) {
	t.Helper()
	mem := kv.NewMemory(seed)
	n := 0
	s := New(mem,
		WithClock(func() time.Time { return fixedNow }),
		WithIDFunc(func() string { n++; return fmt.Sprintf("id-%d", n) }),
	)
	return s, mem
}

func alice() model.NewEntry {
	return model.NewEntry{
		Name:      "Alice",
		Date:      "2024-01-10",
		Yesterday: "Reviewed code",
		Today:     "Write tests",
	}
}

func TestEntriesEmptyStorage(t *testing.T) {
	for name, seed := range map[string]map[string]string{
		"missing key": nil,
		"empty value": {DefaultKey: ""},
		"json null":   {DefaultKey: "null"},
		"not array":   {DefaultKey: `{"id":"1"}`},
		"number":      {DefaultKey: `42`},
	} {
		t.Run(name, func(t *testing.T) {
			s, _ := newTestStore(t, seed)
			got, err := s.Entries(context.Background())
			require.NoError(t, err)
			require.Empty(t, got)
		})
	}
}

func TestEntriesCorruptStorage(t *testing.T) {
	s, _ := newTestStore(t, map[string]string{DefaultKey: `[{"id":`})
	_, err := s.Entries(context.Background())
	require.Error(t, err)

	kind, ok := KindOf(err)
	require.True(t, ok)
	require.Equal(t, KindCorrupt, kind)
	require.Equal(t, "Stored data is corrupted. Starting fresh.", UserMessage(err))
}

func TestEntriesDropsMalformedRecords(t *testing.T) {
	raw := `[
		{"id":"1","name":"Alice","date":"2024-01-10","yesterday":"a","today":"b","blockers":""},
		{"id":"2","name":"Bob","date":"2024-01-10","yesterday":"a","today":"b"},
		{"id":"3","name":"Carol","date":"2024-01-10","yesterday":"a","today":"b","blockers":null},
		{"id":4,"name":"Dan","date":"2024-01-10","yesterday":"a","today":"b","blockers":""},
		"just a string",
		null,
		[1,2],
		{"id":"5","name":"Eve","date":"2024-01-09","yesterday":"x","today":"y","blockers":"z","extra":true}
	]`
	s, _ := newTestStore(t, map[string]string{DefaultKey: raw})

	got, err := s.Entries(context.Background())
	require.NoError(t, err)
	require.Equal(t, []model.Entry{
		{ID: "1", Name: "Alice", Date: "2024-01-10", Yesterday: "a", Today: "b"},
		{ID: "5", Name: "Eve", Date: "2024-01-09", Yesterday: "x", Today: "y", Blockers: "z"},
	}, got)
}

func TestSaveAssignsFreshIDAndPersists(t *testing.T) {
	ctx := context.Background()
	s, mem := newTestStore(t, nil)

	first, err := s.Save(ctx, alice())
	require.NoError(t, err)
	second, err := s.Save(ctx, alice())
	require.NoError(t, err)
	require.NotEmpty(t, first.ID)
	require.NotEqual(t, first.ID, second.ID)

	got, err := s.Entries(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)

	matches := 0
	for _, e := range got {
		if e == first {
			matches++
		}
	}
	require.Equal(t, 1, matches)

	raw, ok, err := mem.Get(ctx, DefaultKey)
	require.NoError(t, err)
	require.True(t, ok)
	require.JSONEq(t, `[
		{"id":"id-1","name":"Alice","date":"2024-01-10","yesterday":"Reviewed code","today":"Write tests","blockers":""},
		{"id":"id-2","name":"Alice","date":"2024-01-10","yesterday":"Reviewed code","today":"Write tests","blockers":""}
	]`, raw)
}

func TestSaveUsesUUIDsByDefault(t *testing.T) {
	ctx := context.Background()
	s := New(kv.NewMemory(nil))
	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		e, err := s.Save(ctx, alice())
		require.NoError(t, err)
		require.Len(t, e.ID, 36)
		require.False(t, seen[e.ID])
		seen[e.ID] = true
	}
}

func TestSaveStartsFreshOverCorruptData(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, map[string]string{DefaultKey: "{not json"})

	e, err := s.Save(ctx, alice())
	require.NoError(t, err)

	got, err := s.Entries(ctx)
	require.NoError(t, err)
	require.Equal(t, []model.Entry{e}, got)
}

func TestSaveQuotaExceeded(t *testing.T) {
	ctx := context.Background()
	s, mem := newTestStore(t, nil)
	mem.Quota = 64

	_, err := s.Save(ctx, alice())
	require.Error(t, err)
	kind, ok := KindOf(err)
	require.True(t, ok)
	require.Equal(t, KindQuotaExceeded, kind)
	require.Equal(t, "Storage is full. Please delete some entries to make room.", UserMessage(err))

	got, err := s.Entries(ctx)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestSaveUnknownWriteFailure(t *testing.T) {
	s, mem := newTestStore(t, nil)
	mem.SetErr = errors.New("disk on fire")

	_, err := s.Save(context.Background(), alice())
	kind, ok := KindOf(err)
	require.True(t, ok)
	require.Equal(t, KindUnknown, kind)
	require.ErrorContains(t, err, "disk on fire")
}

func TestDeleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s, mem := newTestStore(t, nil)

	a, err := s.Save(ctx, alice())
	require.NoError(t, err)
	b, err := s.Save(ctx, alice())
	require.NoError(t, err)

	removed, err := s.Delete(ctx, a.ID)
	require.NoError(t, err)
	require.True(t, removed)

	before, _, _ := mem.Get(ctx, DefaultKey)
	mem.SetErr = errors.New("must not write")

	removed, err = s.Delete(ctx, a.ID)
	require.NoError(t, err)
	require.False(t, removed)

	after, _, _ := mem.Get(ctx, DefaultKey)
	require.Equal(t, before, after)

	got, err := s.Entries(ctx)
	require.NoError(t, err)
	require.Equal(t, []model.Entry{b}, got)
}

func TestDeleteOnCorruptStorage(t *testing.T) {
	s, _ := newTestStore(t, map[string]string{DefaultKey: "]["})
	removed, err := s.Delete(context.Background(), "x")
	require.False(t, removed)
	kind, _ := KindOf(err)
	require.Equal(t, KindCorrupt, kind)
}

func TestRecentCutoffAndOrder(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, nil)

	for _, n := range []model.NewEntry{
		{Name: "Zed", Date: "2024-01-10"},
		{Name: "alice", Date: "2024-01-10"},
		{Name: "Bob", Date: "2024-01-10"},
		{Name: "Carol", Date: "2024-01-03"}, // exactly at the cutoff
		{Name: "Dan", Date: "2024-01-02"},   // one day before
		{Name: "Eve", Date: "2024-01-08"},
		{Name: "Bad", Date: "01/08/2024"},
	} {
		_, err := s.Save(ctx, n)
		require.NoError(t, err)
	}

	got, err := s.Recent(ctx, 7)
	require.NoError(t, err)

	var names []string
	for _, e := range got {
		names = append(names, e.Name)
	}
	require.Equal(t, []string{"alice", "Bob", "Zed", "Eve", "Carol"}, names)
}

func TestRecentZeroDaysKeepsToday(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, nil)
	_, _ = s.Save(ctx, model.NewEntry{Name: "A", Date: "2024-01-10"})
	_, _ = s.Save(ctx, model.NewEntry{Name: "B", Date: "2024-01-09"})

	got, err := s.Recent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "A", got[0].Name)
}

func TestSort(t *testing.T) {
	entries := []model.Entry{
		{ID: "1", Name: "bob", Date: "2024-01-09"},
		{ID: "2", Name: "Anna", Date: "2024-01-09"},
		{ID: "3", Name: "Zoe", Date: "2024-01-11"},
	}
	Sort(entries)
	require.Equal(t, []string{"3", "2", "1"}, []string{entries[0].ID, entries[1].ID, entries[2].ID})
}
