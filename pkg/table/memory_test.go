package table

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	testStore(t, NewMemoryStore())
}

func TestMemoryStore_List(t *testing.T) {
	a := assert.New(t)
	s := NewMemoryStore()
	base := time.Date(2020, 5, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, s.Create(cbg, newTable("b", base)))
	require.NoError(t, s.Create(cbg, newTable("a", base)))
	require.NoError(t, s.Create(cbg, newTable("c", base.Add(time.Minute))))

	list, err := s.List(cbg, 0, 10)
	a.NoError(err)
	if a.Len(list, 3) {
		a.Equal("c", list[0].ID)
		a.Equal("a", list[1].ID)
		a.Equal("b", list[2].ID)
	}

	list, err = s.List(cbg, 1, 1)
	a.NoError(err)
	if a.Len(list, 1) {
		a.Equal("a", list[0].ID)
	}

	list, err = s.List(cbg, 5, 10)
	a.NoError(err)
	a.Empty(list)
}

func TestMemoryStore_isolation(t *testing.T) {
	a := assert.New(t)
	s := NewMemoryStore()

	tbl := newTable("a", time.Now())
	require.NoError(t, s.Create(cbg, tbl))

	// changing our copy does not change the store
	tbl.Name = "changed"
	tbl.Game.Players[0].ChipCount = 100

	got, err := s.Get(cbg, "a")
	require.NoError(t, err)
	a.Equal("table a", got.Name)
	a.Equal(0, got.Game.Players[0].ChipCount)

	got.Game.Players[0].ChipCount = 50
	again, _ := s.Get(cbg, "a")
	a.Equal(0, again.Game.Players[0].ChipCount)
}

func TestMemoryStore_concurrentSaves(t *testing.T) {
	s := NewMemoryStore()
	require.NoError(t, s.Create(cbg, newTable("a", time.Now())))

	const writers = 8
	var wg sync.WaitGroup
	var mu sync.Mutex
	saved := 0

	base, err := s.Get(cbg, "a")
	require.NoError(t, err)

	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cp := base.Clone()
			if err := s.Save(cbg, cp); err == nil {
				mu.Lock()
				saved++
				mu.Unlock()
			} else {
				assert.ErrorIs(t, err, ErrConflict)
			}
		}()
	}

	wg.Wait()
	assert.Equal(t, 1, saved)

	got, _ := s.Get(cbg, "a")
	assert.Equal(t, int64(2), got.UpdateSerial)
}
