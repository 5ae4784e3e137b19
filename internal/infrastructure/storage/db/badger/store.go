package dbbadger

import (
	"context"

	"github.com/dgraph-io/badger/v3"
	"github.com/timshannon/badgerhold/v4"
)

// The helpers below run against the badger transaction of the context, if
// any, or directly against the store.

func txFromContext(ctx context.Context) *badger.Txn {
	if ctx.Value("tx") == nil {
		return nil
	}
	return ctx.Value("tx").(*badger.Txn)
}

func get(
	ctx context.Context, store *badgerhold.Store, key, result interface{},
) error {
	if tx := txFromContext(ctx); tx != nil {
		return store.TxGet(tx, key, result)
	}
	return store.Get(key, result)
}

func insert(
	ctx context.Context, store *badgerhold.Store, key, data interface{},
) error {
	if tx := txFromContext(ctx); tx != nil {
		return store.TxInsert(tx, key, data)
	}
	return store.Insert(key, data)
}

func upsert(
	ctx context.Context, store *badgerhold.Store, key, data interface{},
) error {
	if tx := txFromContext(ctx); tx != nil {
		return store.TxUpsert(tx, key, data)
	}
	return store.Upsert(key, data)
}

func update(
	ctx context.Context, store *badgerhold.Store, key, data interface{},
) error {
	if tx := txFromContext(ctx); tx != nil {
		return store.TxUpdate(tx, key, data)
	}
	return store.Update(key, data)
}

func remove(
	ctx context.Context, store *badgerhold.Store, key, dataType interface{},
) error {
	if tx := txFromContext(ctx); tx != nil {
		return store.TxDelete(tx, key, dataType)
	}
	return store.Delete(key, dataType)
}

func find(
	ctx context.Context, store *badgerhold.Store, result interface{},
	query *badgerhold.Query,
) error {
	if tx := txFromContext(ctx); tx != nil {
		return store.TxFind(tx, result, query)
	}
	return store.Find(result, query)
}
