package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderKeepsMostRecent(t *testing.T) {
	r := NewRecorder(3)
	for i := range 5 {
		r.Notify(context.Background(), Success(fmt.Sprint(i), ""))
	}

	all := r.All()
	require.Len(t, all, 3)
	assert.Equal(t, []string{"2", "3", "4"}, []string{all[0].Title, all[1].Title, all[2].Title})

	last, ok := r.Last()
	require.True(t, ok)
	assert.Equal(t, "4", last.Title)

	r.Clear()
	_, ok = r.Last()
	assert.False(t, ok)
}

func TestVariants(t *testing.T) {
	assert.Equal(t, VariantDefault, Success("Author added", "").Variant)
	assert.Equal(t, VariantDestructive, Failure("Error adding author", "boom").Variant)
}

func TestMultiFansOut(t *testing.T) {
	a, b := NewRecorder(0), NewRecorder(0)

	Multi{a, nil, b, LogNotifier{}, Discard{}}.Notify(context.Background(), Success("Book added", "x"))

	assert.Equal(t, 1, a.Len())
	assert.Equal(t, 1, b.Len())
}

type fakePublisher struct {
	channel string
	message any
	err     error
}

func (f *fakePublisher) Publish(ctx context.Context, channel string, message any) *redis.IntCmd {
	f.channel = channel
	f.message = message
	cmd := redis.NewIntCmd(ctx)
	if f.err != nil {
		cmd.SetErr(f.err)
	} else {
		cmd.SetVal(1)
	}
	return cmd
}

func TestRedisNotifierPublishesJSON(t *testing.T) {
	pub := &fakePublisher{}
	n := Failure("Error deleting author", "cannot delete author with linked books")

	NewRedisNotifier(pub, "bibliotech:toasts").Notify(context.Background(), n)

	assert.Equal(t, "bibliotech:toasts", pub.channel)
	payload, ok := pub.message.([]byte)
	require.True(t, ok)
	var got Notification
	require.NoError(t, json.Unmarshal(payload, &got))
	assert.Equal(t, n.Title, got.Title)
	assert.Equal(t, VariantDestructive, got.Variant)
}

func TestRedisNotifierSwallowsPublishErrors(t *testing.T) {
	pub := &fakePublisher{err: errors.New("connection refused")}

	assert.NotPanics(t, func() {
		NewRedisNotifier(pub, "c").Notify(context.Background(), Success("t", "d"))
	})
}
