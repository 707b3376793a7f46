package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bibliotech/internal/domains/author/model"
	bookmodel "bibliotech/internal/domains/book/model"
	"bibliotech/internal/infrastructure/notify"
	"bibliotech/internal/remote"
	"bibliotech/internal/shared/failure"
)

func newTestStore(t *testing.T) (*Store, *remote.Memory, *notify.Recorder) {
	t.Helper()
	gw := remote.NewMemory()
	rec := notify.NewRecorder(0)
	s := NewStore(gw, rec)
	require.NoError(t, s.Load(context.Background()))
	return s, gw, rec
}

func lastNotification(t *testing.T, rec *notify.Recorder) notify.Notification {
	t.Helper()
	n, ok := rec.Last()
	require.True(t, ok, "expected a notification")
	return n
}

func TestStoreStartsLoading(t *testing.T) {
	s := NewStore(remote.NewMemory(), nil)

	assert.True(t, s.IsLoading())
	require.NoError(t, s.Load(context.Background()))
	assert.False(t, s.IsLoading())
}

func TestAddAuthor(t *testing.T) {
	s, _, rec := newTestStore(t)

	a, err := s.Add(context.Background(), model.AuthorInput{FirstName: " Jane ", LastName: "Austen"})

	require.NoError(t, err)
	assert.Equal(t, "Jane", a.FirstName)
	assert.True(t, s.Exists(a.ID))
	assert.Len(t, s.Records(), 1)

	n := lastNotification(t, rec)
	assert.Equal(t, notify.VariantDefault, n.Variant)
	assert.Equal(t, "Author added", n.Title)
	assert.Equal(t, "Jane Austen has been added successfully.", n.Description)
}

func TestAddAuthorValidationSkipsRemote(t *testing.T) {
	s, gw, rec := newTestStore(t)

	_, err := s.Add(context.Background(), model.AuthorInput{FirstName: "Jane", LastName: "   "})

	assert.ErrorIs(t, err, failure.ErrValidation)
	assert.Zero(t, gw.Calls(remote.OpInsertAuthor))
	assert.Empty(t, s.Records())

	n := lastNotification(t, rec)
	assert.Equal(t, notify.VariantDestructive, n.Variant)
	assert.Equal(t, "Error", n.Title)
	assert.Equal(t, "Please fill in all fields", n.Description)
}

func TestAddAuthorRemoteFailure(t *testing.T) {
	s, gw, rec := newTestStore(t)
	gw.FailNext(remote.OpInsertAuthor, "network error")

	_, err := s.Add(context.Background(), model.AuthorInput{FirstName: "Jane", LastName: "Austen"})

	assert.ErrorIs(t, err, failure.ErrRemote)
	assert.Empty(t, s.Records())
	n := lastNotification(t, rec)
	assert.Equal(t, "Error adding author", n.Title)
	assert.Equal(t, "network error", n.Description)
}

func TestUpdateAuthorReplacesRecord(t *testing.T) {
	s, _, rec := newTestStore(t)
	ctx := context.Background()
	a, err := s.Add(ctx, model.AuthorInput{FirstName: "Jane", LastName: "Austen"})
	require.NoError(t, err)

	updated, err := s.Update(ctx, a.ID, model.AuthorInput{FirstName: "Jane", LastName: "Austen"})

	require.NoError(t, err)
	got, ok := s.Get(a.ID)
	require.True(t, ok)
	assert.Equal(t, updated, got)
	assert.Equal(t, a.FirstName, got.FirstName)
	assert.Equal(t, a.LastName, got.LastName)
	assert.Equal(t, a.CreatedAt, got.CreatedAt)
	assert.Len(t, s.Records(), 1)
	assert.Equal(t, "Author updated", lastNotification(t, rec).Title)
}

func TestRemoveAuthor(t *testing.T) {
	s, _, rec := newTestStore(t)
	ctx := context.Background()
	a, err := s.Add(ctx, model.AuthorInput{FirstName: "Jane", LastName: "Austen"})
	require.NoError(t, err)

	require.NoError(t, s.Remove(ctx, a.ID))

	assert.False(t, s.Exists(a.ID))
	n := lastNotification(t, rec)
	assert.Equal(t, "Author deleted", n.Title)
	assert.Equal(t, "Author has been deleted successfully.", n.Description)
}

func TestRemoveAuthorWithBooksFails(t *testing.T) {
	s, gw, rec := newTestStore(t)
	ctx := context.Background()
	a, err := s.Add(ctx, model.AuthorInput{FirstName: "Jane", LastName: "Austen"})
	require.NoError(t, err)
	_, err = gw.InsertBook(ctx, bookmodel.BookFields{AuthorID: a.ID, ISBN: "978", Title: "Emma", Year: 1815})
	require.NoError(t, err)
	before := s.Version()

	err = s.Remove(ctx, a.ID)

	assert.ErrorIs(t, err, failure.ErrRemote)
	assert.True(t, remote.IsCode(err, remote.CodeForeignKey))
	assert.True(t, s.Exists(a.ID))
	assert.Equal(t, before, s.Version())
	n := lastNotification(t, rec)
	assert.Equal(t, notify.VariantDestructive, n.Variant)
	assert.Equal(t, "Error deleting author", n.Title)
	assert.Equal(t, model.ErrAuthorHasBooks.Error(), n.Description)
}

func TestLoadFailureNotifies(t *testing.T) {
	gw := remote.NewMemory()
	rec := notify.NewRecorder(0)
	s := NewStore(gw, rec)
	gw.FailNext(remote.OpListAuthors, "permission denied")

	err := s.Load(context.Background())

	assert.ErrorIs(t, err, failure.ErrRemote)
	assert.False(t, s.IsLoading())
	n := lastNotification(t, rec)
	assert.Equal(t, "Error fetching authors", n.Title)
	assert.Equal(t, "permission denied", n.Description)
}

func TestConcurrentUpdateAndRemoveOnSameAuthor(t *testing.T) {
	s, gw, rec := newTestStore(t)
	ctx := context.Background()
	a, err := s.Add(ctx, model.AuthorInput{FirstName: "Jane", LastName: "Austen"})
	require.NoError(t, err)

	entered := make(chan struct{})
	release := make(chan struct{})
	gw.SetHook(func(_ context.Context, op remote.Op) {
		if op == remote.OpUpdateAuthor {
			close(entered)
			<-release
		}
	})

	done := make(chan error, 1)
	go func() {
		_, err := s.Update(ctx, a.ID, model.AuthorInput{FirstName: "J.", LastName: "Austen"})
		done <- err
	}()
	<-entered

	err = s.Remove(ctx, a.ID)
	assert.ErrorIs(t, err, failure.ErrConflict)
	assert.Zero(t, gw.Calls(remote.OpDeleteAuthor))
	assert.Equal(t, "Error deleting author", lastNotification(t, rec).Title)

	close(release)
	require.NoError(t, <-done)
	got, ok := s.Get(a.ID)
	require.True(t, ok)
	assert.Equal(t, "J.", got.FirstName)
}

func TestClosedStoreRejectsMutations(t *testing.T) {
	s, gw, _ := newTestStore(t)
	s.Close()

	_, err := s.Add(context.Background(), model.AuthorInput{FirstName: "Jane", LastName: "Austen"})

	assert.ErrorIs(t, err, failure.ErrClosed)
	assert.Zero(t, gw.Calls(remote.OpInsertAuthor))
}
