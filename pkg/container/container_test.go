package container

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bibliotech/internal/config"
	"bibliotech/internal/domains/author/model"
	"bibliotech/internal/infrastructure/database"
	"bibliotech/internal/remote"
)

func memoryConfig() *config.Config {
	return &config.Config{
		App:      config.AppConfig{Environment: "development", Port: "0", Locale: "en"},
		Log:      config.LogConfig{Level: "info"},
		Remote:   config.RemoteConfig{Backend: config.BackendMemory},
		Database: &database.DBConfig{},
		Notify:   config.NotifyConfig{History: 5},
	}
}

func TestNewWithMemoryBackend(t *testing.T) {
	c, err := New(t.Context(), memoryConfig())
	require.NoError(t, err)
	t.Cleanup(c.Cleanup)

	assert.Nil(t, c.DB)
	assert.Nil(t, c.Redis)
	assert.True(t, c.Session.Ready())
	assert.NotNil(t, c.AuthorHandler)
	assert.NotNil(t, c.BookHandler)
	assert.NotNil(t, c.SessionHandler)

	_, err = c.Session.Authors().Add(t.Context(), model.AuthorInput{FirstName: "Jane", LastName: "Austen"})
	require.NoError(t, err)

	last, ok := c.History.Last()
	require.True(t, ok)
	assert.Equal(t, "Author added", last.Title)
}

func TestCleanupClosesSession(t *testing.T) {
	c, err := New(t.Context(), memoryConfig())
	require.NoError(t, err)

	c.Cleanup()
	c.Cleanup()

	assert.True(t, c.Session.Closed())
}

func TestCleanupOnEmptyContainer(t *testing.T) {
	assert.NotPanics(t, (&Container{}).Cleanup)
}

func TestWithGatewayOverridesBackend(t *testing.T) {
	gw := remote.NewMemory()
	_, err := gw.InsertAuthor(t.Context(), model.AuthorFields{FirstName: "Jane", LastName: "Austen"})
	require.NoError(t, err)

	cfg := memoryConfig()
	cfg.Remote.Backend = config.BackendPostgres
	c, err := New(t.Context(), cfg, WithGateway(gw))
	require.NoError(t, err)
	t.Cleanup(c.Cleanup)

	assert.Nil(t, c.DB)
	assert.Len(t, c.Session.Authors().Records(), 1)
}
