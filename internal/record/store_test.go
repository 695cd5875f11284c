package record

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/engitrack/engitrack/internal/pubsub"
)

func TestStore_CreatePrepends(t *testing.T) {
	s := NewStore()
	defer s.Close()

	first := s.Create(map[string]any{"projectName": "隧道A"}, "wutan")
	second := s.Create(map[string]any{"projectName": "隧道B"}, "wutan")

	list := s.List()
	require.Len(t, list, 2)
	require.Equal(t, second.ID, list[0].ID, "newest record renders first")
	require.Equal(t, first.ID, list[1].ID)
}

func TestStore_CreateStampsProvenance(t *testing.T) {
	s := NewStore()
	defer s.Close()

	before := time.Now()
	r := s.Create(map[string]any{"projectName": "p"}, "alice")

	require.NotEmpty(t, r.ID)
	require.Equal(t, "alice", r.CreatedBy)
	require.False(t, r.CreatedAt.Before(before.Add(-time.Second)))
}

func TestStore_UpdatePreservesIdentityAndPosition(t *testing.T) {
	s := NewStore()
	defer s.Close()

	s.Create(map[string]any{"projectName": "older"}, "u")
	target := s.Create(map[string]any{"projectName": "target", "remark1": "x"}, "u")

	updated, ok := s.Update(target.ID, map[string]any{"projectName": "renamed"})
	require.True(t, ok)
	require.Equal(t, target.ID, updated.ID)
	require.Equal(t, target.CreatedBy, updated.CreatedBy)
	require.Equal(t, target.CreatedAt, updated.CreatedAt)

	// Fields replaced wholesale: remark1 is gone
	require.Nil(t, updated.Field("remark1"))

	// Position preserved
	list := s.List()
	require.Equal(t, target.ID, list[0].ID)
}

func TestStore_UpdateUnknownIsNoOp(t *testing.T) {
	s := NewStore()
	defer s.Close()

	r := s.Create(map[string]any{"projectName": "p"}, "u")

	_, ok := s.Update("missing", map[string]any{"projectName": "x"})
	require.False(t, ok)

	got, found := s.Get(r.ID)
	require.True(t, found)
	require.Equal(t, "p", got.Fields["projectName"])
}

func TestStore_Delete(t *testing.T) {
	s := NewStore()
	defer s.Close()

	keep := s.Create(map[string]any{"projectName": "keep"}, "u")
	drop := s.Create(map[string]any{"projectName": "drop"}, "u")

	require.True(t, s.Delete(drop.ID))
	require.False(t, s.Delete(drop.ID), "second delete is a no-op")

	list := s.List()
	require.Len(t, list, 1)
	require.Equal(t, keep.ID, list[0].ID)
}

func TestStore_PublishesChangeEvents(t *testing.T) {
	s := NewStore()
	defer s.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := s.Broker().Subscribe(ctx)

	r := s.Create(map[string]any{"projectName": "p"}, "u")
	s.Update(r.ID, map[string]any{"projectName": "q"})
	s.Delete(r.ID)

	want := []pubsub.EventType{pubsub.CreatedEvent, pubsub.UpdatedEvent, pubsub.DeletedEvent}
	for _, et := range want {
		select {
		case event := <-ch:
			require.Equal(t, et, event.Type)
			require.Equal(t, r.ID, event.Payload.ID)
		case <-time.After(100 * time.Millisecond):
			require.Fail(t, "timeout waiting for event", "type %s", et)
		}
	}
}

func TestStore_DeletePublishesCopy(t *testing.T) {
	recs := []Record{{
		ID:     "r1",
		Fields: map[string]any{"projectName": "p"},
	}}
	s := NewStoreWith(recs)
	defer s.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := s.Broker().Subscribe(ctx)

	require.True(t, s.Delete("r1"))

	select {
	case event := <-ch:
		require.Equal(t, pubsub.DeletedEvent, event.Type)
		event.Payload.Fields["projectName"] = "mutated"
		require.Equal(t, "p", recs[0].Fields["projectName"])
	case <-time.After(100 * time.Millisecond):
		require.Fail(t, "timeout waiting for delete event")
	}
}

func TestStore_ListReturnsCopies(t *testing.T) {
	s := NewStore()
	defer s.Close()

	r := s.Create(map[string]any{"projectName": "p"}, "u")

	list := s.List()
	list[0].Fields["projectName"] = "mutated"

	got, _ := s.Get(r.ID)
	require.Equal(t, "p", got.Fields["projectName"])
}

func TestStore_IDUniqueness(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := NewStore()
		defer s.Close()

		n := rapid.IntRange(1, 100).Draw(t, "n")
		seen := make(map[string]bool, n)
		for i := 0; i < n; i++ {
			r := s.Create(map[string]any{}, "u")
			if seen[r.ID] {
				t.Fatalf("duplicate id: %s", r.ID)
			}
			seen[r.ID] = true
		}
		if s.Len() != n {
			t.Fatalf("expected %d records, got %d", n, s.Len())
		}
	})
}
