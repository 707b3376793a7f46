// Package snapshot uploads workbook copies of both lists to object storage.
package snapshot

import (
	"bytes"
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"bibliotech/internal/config"
	"bibliotech/internal/infrastructure/storage"
	"bibliotech/internal/session"
	"bibliotech/internal/spreadsheet"
)

const (
	contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	extension   = ".xlsx"
)

// Store is the object storage a snapshot is written to.
type Store interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
	List(ctx context.Context, prefix string) ([]storage.Object, error)
	RemoveObjects(ctx context.Context, keys []string) error
}

// Result describes one uploaded snapshot.
type Result struct {
	Key     string   `json:"key"`
	URL     string   `json:"url"`
	Authors int      `json:"authors"`
	Books   int      `json:"books"`
	Pruned  []string `json:"pruned,omitempty"`
}

type Snapshotter struct {
	session *session.Session
	store   Store
	prefix  string
	keep    int
	now     func() time.Time
}

func New(s *session.Session, store Store, cfg config.SnapshotConfig) *Snapshotter {
	return &Snapshotter{
		session: s,
		store:   store,
		prefix:  cfg.Prefix,
		keep:    cfg.Keep,
		now:     time.Now,
	}
}

// Take refetches both lists, uploads them as one workbook and drops the
// oldest snapshots beyond the configured count. A failed refetch aborts the
// snapshot so a partial list is never stored.
func (sn *Snapshotter) Take(ctx context.Context) (Result, error) {
	if err := sn.session.Refresh(ctx); err != nil {
		return Result{}, fmt.Errorf("refresh before snapshot: %w", err)
	}

	authors := sn.session.AuthorsPage().Export()
	books := sn.session.BooksPage().Export()

	var buf bytes.Buffer
	if err := spreadsheet.Export(&buf, authors, books); err != nil {
		return Result{}, err
	}

	key := sn.prefix + "bibliotech-" + sn.now().UTC().Format("20060102T150405Z") + extension
	url, err := sn.store.Upload(ctx, key, buf.Bytes(), contentType)
	if err != nil {
		return Result{}, err
	}

	res := Result{Key: key, URL: url, Authors: len(authors), Books: len(books)}
	log.Info().Str("key", key).Int("authors", res.Authors).Int("books", res.Books).Msg("snapshot uploaded")

	pruned, err := sn.prune(ctx)
	if err != nil {
		// The new snapshot is stored; pruning is retried next time.
		log.Warn().Err(err).Msg("snapshot pruning failed")
	}
	res.Pruned = pruned
	return res, nil
}

// prune removes all but the newest keep snapshots. Keys sort by time.
func (sn *Snapshotter) prune(ctx context.Context) ([]string, error) {
	if sn.keep <= 0 {
		return nil, nil
	}

	objects, err := sn.store.List(ctx, sn.prefix)
	if err != nil {
		return nil, err
	}

	var keys []string
	for _, obj := range objects {
		if strings.HasSuffix(obj.Key, extension) {
			keys = append(keys, obj.Key)
		}
	}
	if len(keys) <= sn.keep {
		return nil, nil
	}

	slices.Sort(keys)
	stale := keys[:len(keys)-sn.keep]
	if err := sn.store.RemoveObjects(ctx, stale); err != nil {
		return nil, err
	}
	return stale, nil
}
