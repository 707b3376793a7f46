package cache

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bibliotech/internal/shared/failure"
)

type record struct {
	ID   string
	Name string
	Rev  int
}

func recordKey(r record) string { return r.ID }

func fetchOf(records ...record) func(context.Context) ([]record, error) {
	return func(context.Context) ([]record, error) { return records, nil }
}

func createOf(r record) func(context.Context) (record, error) {
	return func(context.Context) (record, error) { return r, nil }
}

var errRemote = errors.New("remote unavailable")

func newLoaded(t *testing.T, records ...record) *EntityCache[record] {
	t.Helper()
	c := New("records", recordKey)
	require.NoError(t, c.Load(context.Background(), fetchOf(records...)))
	return c
}

func TestLoad(t *testing.T) {
	c := New("records", recordKey)
	assert.True(t, c.IsLoading())

	err := c.Load(context.Background(), fetchOf(record{ID: "1"}, record{ID: "2"}))

	require.NoError(t, err)
	assert.False(t, c.IsLoading())
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, uint64(1), c.Version())
}

func TestLoadFailureKeepsPreviousState(t *testing.T) {
	c := newLoaded(t, record{ID: "1"})

	err := c.Load(context.Background(), func(context.Context) ([]record, error) { return nil, errRemote })

	assert.ErrorIs(t, err, failure.ErrRemote)
	assert.ErrorIs(t, err, errRemote)
	assert.False(t, c.IsLoading())
	assert.Equal(t, []record{{ID: "1"}}, c.Records())
}

func TestFirstLoadFailureClearsLoading(t *testing.T) {
	c := New("records", recordKey)

	_ = c.Load(context.Background(), func(context.Context) ([]record, error) { return nil, errRemote })

	assert.False(t, c.IsLoading())
	assert.Zero(t, c.Len())
}

func TestAddAppendsExactlyOnce(t *testing.T) {
	c := newLoaded(t, record{ID: "1"})

	got, err := c.Add(context.Background(), createOf(record{ID: "2", Name: "new"}))

	require.NoError(t, err)
	assert.Equal(t, "2", got.ID)
	assert.Equal(t, []record{{ID: "1"}, {ID: "2", Name: "new"}}, c.Records())
}

func TestAddExistingIDReplaces(t *testing.T) {
	c := newLoaded(t, record{ID: "1", Name: "loaded"})

	_, err := c.Add(context.Background(), createOf(record{ID: "1", Name: "confirmed"}))

	require.NoError(t, err)
	assert.Equal(t, []record{{ID: "1", Name: "confirmed"}}, c.Records())
}

func TestAddFailureLeavesNoGhost(t *testing.T) {
	c := newLoaded(t, record{ID: "1"})
	before := c.Version()

	_, err := c.Add(context.Background(), func(context.Context) (record, error) { return record{}, errRemote })

	assert.ErrorIs(t, err, failure.ErrRemote)
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, before, c.Version())
}

func TestUpdateReplacesWholeRecord(t *testing.T) {
	c := newLoaded(t, record{ID: "1", Name: "old", Rev: 1}, record{ID: "2"})

	_, err := c.Update(context.Background(), "1", createOf(record{ID: "1", Rev: 2}))

	require.NoError(t, err)
	got, ok := c.Get("1")
	require.True(t, ok)
	assert.Equal(t, record{ID: "1", Rev: 2}, got)
	assert.Equal(t, 2, c.Len())
}

func TestUpdateFailureKeepsRecord(t *testing.T) {
	c := newLoaded(t, record{ID: "1", Name: "old"})

	_, err := c.Update(context.Background(), "1", func(context.Context) (record, error) { return record{}, errRemote })

	assert.ErrorIs(t, err, failure.ErrRemote)
	got, _ := c.Get("1")
	assert.Equal(t, "old", got.Name)
}

func TestRemove(t *testing.T) {
	c := newLoaded(t, record{ID: "1"}, record{ID: "2"}, record{ID: "3"})

	err := c.Remove(context.Background(), "2", func(context.Context) error { return nil })

	require.NoError(t, err)
	_, ok := c.Get("2")
	assert.False(t, ok)
	got, ok := c.Get("3")
	require.True(t, ok)
	assert.Equal(t, "3", got.ID)
	assert.Equal(t, []record{{ID: "1"}, {ID: "3"}}, c.Records())
}

func TestRemoveFailureKeepsRecord(t *testing.T) {
	c := newLoaded(t, record{ID: "1"})

	err := c.Remove(context.Background(), "1", func(context.Context) error { return errRemote })

	assert.ErrorIs(t, err, failure.ErrRemote)
	assert.Equal(t, 1, c.Len())
}

func TestOverlappingOperationsOnSameIDAreRejected(t *testing.T) {
	c := newLoaded(t, record{ID: "1", Rev: 1})
	started := make(chan struct{})
	proceed := make(chan struct{})
	done := make(chan error, 1)

	go func() {
		_, err := c.Update(context.Background(), "1", func(context.Context) (record, error) {
			close(started)
			<-proceed
			return record{ID: "1", Rev: 2}, nil
		})
		done <- err
	}()
	<-started

	removeCalled := false
	err := c.Remove(context.Background(), "1", func(context.Context) error {
		removeCalled = true
		return nil
	})
	assert.ErrorIs(t, err, failure.ErrConflict)
	assert.ErrorIs(t, err, failure.ErrInFlight)
	assert.False(t, removeCalled)
	assert.True(t, c.InFlight("1"))

	// A different id is not blocked.
	_, err = c.Add(context.Background(), createOf(record{ID: "2"}))
	require.NoError(t, err)

	close(proceed)
	require.NoError(t, <-done)
	assert.False(t, c.InFlight("1"))
	got, _ := c.Get("1")
	assert.Equal(t, 2, got.Rev)
}

func TestUpdateDoesNotResurrectReloadedAwayRecord(t *testing.T) {
	c := newLoaded(t, record{ID: "1"})
	started := make(chan struct{})
	proceed := make(chan struct{})
	done := make(chan error, 1)

	go func() {
		_, err := c.Update(context.Background(), "1", func(context.Context) (record, error) {
			close(started)
			<-proceed
			return record{ID: "1", Rev: 9}, nil
		})
		done <- err
	}()
	<-started

	require.NoError(t, c.Load(context.Background(), fetchOf(record{ID: "2"})))
	close(proceed)
	require.NoError(t, <-done)

	_, ok := c.Get("1")
	assert.False(t, ok)
	assert.Equal(t, 1, c.Len())
}

func TestClose(t *testing.T) {
	c := newLoaded(t, record{ID: "1"})

	c.Close()

	assert.Zero(t, c.Len())
	_, err := c.Add(context.Background(), createOf(record{ID: "2"}))
	assert.ErrorIs(t, err, failure.ErrClosed)
	err = c.Remove(context.Background(), "1", func(context.Context) error { return nil })
	assert.ErrorIs(t, err, failure.ErrClosed)
}

func TestRecordsReturnsCopy(t *testing.T) {
	c := newLoaded(t, record{ID: "1", Name: "a"})

	snapshot := c.Records()
	snapshot[0].Name = "mutated"

	got, _ := c.Get("1")
	assert.Equal(t, "a", got.Name)
}
