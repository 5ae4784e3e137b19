package pubsub

import (
	"path/filepath"

	"github.com/dgraph-io/badger/v3"
	"github.com/dgraph-io/badger/v3/options"
	"github.com/timshannon/badgerhold/v4"
)

const pubsubDbDir = "pubsub"

// store persists the webhook subscriptions. An empty datadir makes for an
// in-memory store.
type store struct {
	db *badgerhold.Store
}

func newStore(datadir string, logger badger.Logger) (*store, error) {
	var dbDir string
	if len(datadir) > 0 {
		dbDir = filepath.Join(datadir, pubsubDbDir)
	}

	opts := badger.DefaultOptions(dbDir)
	opts.Logger = logger
	if len(dbDir) <= 0 {
		opts.InMemory = true
	} else {
		opts.Compression = options.ZSTD
	}

	db, err := badgerhold.Open(badgerhold.Options{
		Encoder: badgerhold.DefaultEncode,
		Decoder: badgerhold.DefaultDecode,
		Options: opts,
	})
	if err != nil {
		return nil, err
	}
	return &store{db}, nil
}

func (s *store) Close() error {
	return s.db.Close()
}

func (s *store) add(sub Subscription) error {
	err := s.db.Insert(sub.ID, sub)
	if err == badgerhold.ErrKeyExists {
		return nil
	}
	return err
}

func (s *store) remove(id string) error {
	if err := s.db.Delete(id, Subscription{}); err != nil {
		if err == badgerhold.ErrNotFound {
			return ErrSubscriptionNotFound
		}
		return err
	}
	return nil
}

func (s *store) getByTopic(topic string) (subscriptions, error) {
	query := &badgerhold.Query{}
	if topic != "" {
		query = badgerhold.Where("Event").Eq(topic)
	}

	subs := make(subscriptions, 0)
	if err := s.db.Find(&subs, query.SortBy("ID")); err != nil {
		return nil, err
	}
	return subs, nil
}
