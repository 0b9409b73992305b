// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package badger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/dgraph-io/badger/v4"

	"github.com/exhibit-org/actionbias-sub003/core"
	"github.com/exhibit-org/actionbias-sub003/storage"
	"github.com/exhibit-org/actionbias-sub003/vector"
)

// ItemRepository implements storage.ItemRepository using BadgerDB.
type ItemRepository struct {
	backend *Backend
	seq     *badger.Sequence
	owned   bool // Close also closes the backend
	logger  *slog.Logger
}

var _ storage.ItemRepository = (*ItemRepository)(nil)

// NewItemRepository creates a new ItemRepository on an open backend.
// The caller keeps ownership of the backend.
func NewItemRepository(backend *Backend) (*ItemRepository, error) {
	seq, err := backend.GetSequence(itemSeq)
	if err != nil {
		return nil, err
	}

	return &ItemRepository{
		backend: backend,
		seq:     seq,
		logger:  backend.logger.With("component", "item-repository"),
	}, nil
}

// Open opens a BadgerDB database at path and returns a repository that
// owns it.
func Open(path string, logger *slog.Logger) (*ItemRepository, error) {
	backend, err := OpenBackend(path, false, logger)
	if err != nil {
		return nil, err
	}
	return ownedRepository(backend)
}

// OpenInMemory opens a volatile database and returns a repository that
// owns it.
func OpenInMemory(logger *slog.Logger) (*ItemRepository, error) {
	backend, err := OpenBackend("", true, logger)
	if err != nil {
		return nil, err
	}
	return ownedRepository(backend)
}

func ownedRepository(backend *Backend) (*ItemRepository, error) {
	repo, err := NewItemRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}
	repo.owned = true
	return repo, nil
}

// Close releases the sequence and, when owned, the backend.
func (r *ItemRepository) Close() error {
	if r.backend.IsClosed() {
		return nil
	}
	err := r.seq.Release()
	if r.owned {
		err = errors.Join(err, r.backend.Close())
	}
	return err
}

func (r *ItemRepository) view(ctx context.Context, fn func(tx *badger.Txn) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if r.backend.IsClosed() {
		return storage.ErrStorageClosed
	}
	return r.backend.WithTx(fn, false)
}

func (r *ItemRepository) update(ctx context.Context, fn func(tx *badger.Txn) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if r.backend.IsClosed() {
		return storage.ErrStorageClosed
	}
	return r.backend.WithTx(func(tx *badger.Txn) error {
		if err := fn(tx); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// readRecord returns nil without error when the item doesn't exist.
func (r *ItemRepository) readRecord(tx *badger.Txn, id string) (*storage.Record, error) {
	item, err := tx.Get(makeItemKey(id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var record *storage.Record
	err = item.Value(func(val []byte) error {
		record, err = storage.UnmarshalRecord(val)
		return err
	})
	return record, err
}

func (r *ItemRepository) mustRecord(ctx context.Context, id string) (*storage.Record, error) {
	var record *storage.Record
	err := r.view(ctx, func(tx *badger.Txn) error {
		var err error
		record, err = r.readRecord(tx, id)
		if err != nil {
			return err
		}
		if record == nil {
			return fmt.Errorf("%w: %s", storage.ErrNotFound, id)
		}
		return nil
	})
	return record, err
}

// Item implements hierarchy.Graph.
func (r *ItemRepository) Item(ctx context.Context, id string) (*core.WorkItem, error) {
	record, err := r.mustRecord(ctx, id)
	if err != nil {
		return nil, err
	}
	return &record.Item, nil
}

// ParentOf implements hierarchy.Graph.
func (r *ItemRepository) ParentOf(ctx context.Context, id string) (string, error) {
	record, err := r.mustRecord(ctx, id)
	if err != nil {
		return "", err
	}
	return record.Item.ParentID, nil
}

// ChildrenOf implements hierarchy.Graph. Children are returned in insertion order.
func (r *ItemRepository) ChildrenOf(ctx context.Context, id string) ([]string, error) {
	return r.scanEdges(ctx, itemParentPrefix, id)
}

// DependenciesOf implements hierarchy.Relations.
func (r *ItemRepository) DependenciesOf(ctx context.Context, id string) ([]string, error) {
	record, err := r.mustRecord(ctx, id)
	if err != nil {
		return nil, err
	}
	deps := make([]string, len(record.Item.DependsOn))
	copy(deps, record.Item.DependsOn)
	return deps, nil
}

// DependentsOf implements hierarchy.Relations. Dependents are returned in insertion order.
func (r *ItemRepository) DependentsOf(ctx context.Context, id string) ([]string, error) {
	return r.scanEdges(ctx, itemDepPrefix, id)
}

func (r *ItemRepository) scanEdges(ctx context.Context, prefix, from string) ([]string, error) {
	ids := []string{}
	err := r.view(ctx, func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makePartialEdgeKey(prefix, from)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			val, err := iter.Item().ValueCopy(nil)
			if err != nil {
				return err
			}
			ids = append(ids, string(val))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// Items returns every stored item in insertion order.
func (r *ItemRepository) Items(ctx context.Context) ([]*core.WorkItem, error) {
	items := []*core.WorkItem{}
	err := r.view(ctx, func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(itemOrderPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			id, err := iter.Item().ValueCopy(nil)
			if err != nil {
				return err
			}
			record, err := r.readRecord(tx, string(id))
			if err != nil {
				return err
			}
			if record == nil {
				r.logger.Warn("order index points at missing item", "id", string(id))
				continue
			}
			items = append(items, &record.Item)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// Count returns the number of stored items.
func (r *ItemRepository) Count(ctx context.Context) (int, error) {
	count := 0
	err := r.view(ctx, func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(itemOrderPrefix)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	})
	return count, err
}

// PutItems inserts or replaces items by ID.
func (r *ItemRepository) PutItems(ctx context.Context, items ...*core.WorkItem) error {
	err := r.update(ctx, func(tx *badger.Txn) error {
		for _, item := range items {
			if item == nil || item.ID == "" {
				return fmt.Errorf("%w: missing id", storage.ErrInvalidItem)
			}

			old, err := r.readRecord(tx, item.ID)
			if err != nil {
				return err
			}

			var seq uint64
			if old != nil {
				seq = old.Seq
				if err := deleteEdges(tx, &old.Item, seq); err != nil {
					return err
				}
			} else {
				seq, err = r.nextSeq()
				if err != nil {
					return err
				}
			}

			record := &storage.Record{Seq: seq, Item: *item}
			value, err := storage.MarshalRecord(record)
			if err != nil {
				return err
			}
			if err := tx.Set(makeItemKey(item.ID), value); err != nil {
				return err
			}
			if err := tx.Set(makeOrderKey(seq), []byte(item.ID)); err != nil {
				return err
			}
			if err := setEdges(tx, item, seq); err != nil {
				return err
			}
		}
		return nil
	})
	if err == nil {
		r.logger.Debug("items stored", "count", len(items))
	}
	return err
}

// DeleteItems removes items by ID along with their index entries.
func (r *ItemRepository) DeleteItems(ctx context.Context, ids ...string) error {
	return r.update(ctx, func(tx *badger.Txn) error {
		for _, id := range ids {
			record, err := r.readRecord(tx, id)
			if err != nil {
				return err
			}
			if record == nil {
				return fmt.Errorf("%w: %s", storage.ErrNotFound, id)
			}
			if err := deleteEdges(tx, &record.Item, record.Seq); err != nil {
				return err
			}
			if err := tx.Delete(makeOrderKey(record.Seq)); err != nil {
				return err
			}
			if err := tx.Delete(makeItemKey(id)); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *ItemRepository) nextSeq() (uint64, error) {
	next, err := r.seq.Next()
	if err != nil {
		return 0, err
	}
	// BadgerDB sequences can return 0 on first call, so we skip it
	if next == 0 {
		return r.seq.Next()
	}
	return next, nil
}

func setEdges(tx *badger.Txn, item *core.WorkItem, seq uint64) error {
	id := []byte(item.ID)
	if item.ParentID != "" && item.ParentID != item.ID {
		if err := tx.Set(makeEdgeKey(itemParentPrefix, item.ParentID, seq), id); err != nil {
			return err
		}
	}
	for _, dep := range item.DependsOn {
		if err := tx.Set(makeEdgeKey(itemDepPrefix, dep, seq), id); err != nil {
			return err
		}
	}
	return nil
}

func deleteEdges(tx *badger.Txn, item *core.WorkItem, seq uint64) error {
	if item.ParentID != "" {
		if err := tx.Delete(makeEdgeKey(itemParentPrefix, item.ParentID, seq)); err != nil {
			return err
		}
	}
	for _, dep := range item.DependsOn {
		if err := tx.Delete(makeEdgeKey(itemDepPrefix, dep, seq)); err != nil {
			return err
		}
	}
	return nil
}

// Query implements vector.Index with a brute-force cosine scan.
// The result is a *vector.ResultSet.
func (r *ItemRepository) Query(ctx context.Context, q vector.Query) (any, error) {
	rows := []vector.Match{}
	err := r.view(ctx, func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(itemPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			var record *storage.Record
			err := iter.Item().Value(func(val []byte) error {
				var err error
				record, err = storage.UnmarshalRecord(val)
				return err
			})
			if err != nil {
				return err
			}

			item := &record.Item
			if !item.HasEmbedding() || item.Done || q.Excludes(item.ID) {
				continue
			}
			sim := vector.CosineSimilarity(q.Vector, item.Embedding)
			if sim < q.Threshold {
				continue
			}
			rows = append(rows, vector.Match{
				ID:          item.ID,
				Title:       item.Title,
				Description: item.Description,
				Similarity:  sim,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Similarity > rows[j].Similarity
	})
	if q.Limit > 0 && len(rows) > q.Limit {
		rows = rows[:q.Limit]
	}
	return &vector.ResultSet{Rows: rows}, nil
}
