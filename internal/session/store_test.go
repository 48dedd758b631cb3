package session

import (
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreCopiesSelections(t *testing.T) {
	s := NewStore()
	regions := []string{"Europe", "Americas"}
	sess := s.Create(regions)
	regions[0] = "mutated"

	got, err := s.Get(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Europe", "Americas"}, got.Regions)

	got.Regions[1] = "mutated"
	again, err := s.Get(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "Americas", again.Regions[1])
}

func TestStoreSetRegionsAndDelete(t *testing.T) {
	s := NewStore()
	sess := s.Create(nil)
	assert.Empty(t, sess.Regions)

	upd, err := s.SetRegions(sess.ID, []string{"Sub-Saharan Africa"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Sub-Saharan Africa"}, upd.Regions)
	assert.False(t, upd.UpdatedAt.Before(upd.CreatedAt))

	s.Delete(sess.ID)
	_, err = s.Get(sess.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.SetRegions(uuid.New(), nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoreConcurrentAccess(t *testing.T) {
	s := NewStore()
	var wg sync.WaitGroup
	ids := make(chan uuid.UUID, 50)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sess := s.Create([]string{fmt.Sprintf("r%d", i)})
			_, err := s.SetRegions(sess.ID, []string{"Europe"})
			assert.NoError(t, err)
			ids <- sess.ID
		}(i)
	}
	wg.Wait()
	close(ids)
	assert.Equal(t, 50, s.Len())
	for id := range ids {
		got, err := s.Get(id)
		require.NoError(t, err)
		assert.Equal(t, []string{"Europe"}, got.Regions)
	}
}
