package benchmark

import (
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRingStore_Record_FillsIDAndTimestamp(t *testing.T) {
	store := NewStore(10, zerolog.Nop())

	stored := store.Record(Entry{ClientID: "client-a", PageURL: "/products"})

	assert.NotEmpty(t, stored.ID)
	assert.NotZero(t, stored.Timestamp)
}

func TestRingStore_Record_PreservesProvidedIDAndTimestamp(t *testing.T) {
	store := NewStore(10, zerolog.Nop())

	stored := store.Record(Entry{ID: "fixed-id", Timestamp: 1700000000000})

	assert.Equal(t, "fixed-id", stored.ID)
	assert.Equal(t, int64(1700000000000), stored.Timestamp)
}

func TestRingStore_EvictsOldestAtCapacity(t *testing.T) {
	store := NewStore(3, zerolog.Nop())

	for i := 1; i <= 5; i++ {
		store.Record(Entry{ID: fmt.Sprintf("entry-%d", i)})
	}

	entries := store.List("")
	require.Len(t, entries, 3)

	// Oldest two are gone, survivors keep insertion order.
	assert.Equal(t, "entry-3", entries[0].ID)
	assert.Equal(t, "entry-4", entries[1].ID)
	assert.Equal(t, "entry-5", entries[2].ID)
}

func TestRingStore_List_FilterByClient(t *testing.T) {
	store := NewStore(10, zerolog.Nop())

	store.Record(Entry{ID: "a1", ClientID: "client-a"})
	store.Record(Entry{ID: "b1", ClientID: "client-b"})
	store.Record(Entry{ID: "a2", ClientID: "client-a"})

	all := store.List("")
	assert.Len(t, all, 3)

	onlyA := store.List("client-a")
	require.Len(t, onlyA, 2)
	assert.Equal(t, "a1", onlyA[0].ID)
	assert.Equal(t, "a2", onlyA[1].ID)

	none := store.List("client-c")
	assert.Empty(t, none)
}

func TestRingStore_Stats_EmptyStore(t *testing.T) {
	store := NewStore(10, zerolog.Nop())

	stats := store.Stats()

	require.NotNil(t, stats)
	assert.Zero(t, stats.Count)
	assert.Nil(t, stats.TimeRange)
}
