/*
 * Copyright 2018 The CovenantSQL Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package storage implements the keyed persistent store of the ledger on top
// of leveldb, with an LRU read cache and atomic batch writes.
package storage

import (
	"sync"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	ls "github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/CovenantSQL/crowdfund/utils/log"
)

const (
	// DefaultCacheSize is the number of values kept by the read cache.
	DefaultCacheSize = 1024
)

var (
	// ErrNotFound indicates the key does not exist.
	ErrNotFound = errors.New("key not found")
	// ErrStorageClosed indicates the storage is already closed.
	ErrStorageClosed = errors.New("storage closed")
)

// Storage is a leveldb backed key value store. Reads are served from an LRU
// cache which is kept in sync by Write.
type Storage struct {
	sync.RWMutex
	db     *leveldb.DB
	cache  *lru.Cache
	closed uint32
}

// Open opens or creates the leveldb database at path.
func Open(path string, cacheSize int) (s *Storage, err error) {
	var db *leveldb.DB
	if db, err = leveldb.OpenFile(path, &opt.Options{Strict: opt.DefaultStrict}); err != nil {
		err = errors.Wrapf(err, "open leveldb %s failed", path)
		return
	}
	if s, err = newStorage(db, cacheSize); err != nil {
		_ = db.Close()
		return
	}
	log.WithField("path", path).Info("storage opened")
	return
}

// OpenMemory opens a storage which lives in memory only.
func OpenMemory(cacheSize int) (s *Storage, err error) {
	var db *leveldb.DB
	if db, err = leveldb.Open(ls.NewMemStorage(), nil); err != nil {
		err = errors.Wrap(err, "open memory leveldb failed")
		return
	}
	return newStorage(db, cacheSize)
}

func newStorage(db *leveldb.DB, cacheSize int) (s *Storage, err error) {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	s = &Storage{db: db}
	if s.cache, err = lru.New(cacheSize); err != nil {
		err = errors.Wrap(err, "create read cache failed")
		return nil, err
	}
	return
}

func (s *Storage) isClosed() bool {
	return atomic.LoadUint32(&s.closed) == 1
}

// Get returns a copy of the value of key or ErrNotFound.
func (s *Storage) Get(key []byte) (value []byte, err error) {
	if s.isClosed() {
		return nil, ErrStorageClosed
	}
	s.RLock()
	defer s.RUnlock()

	if v, ok := s.cache.Get(string(key)); ok {
		return append([]byte(nil), v.([]byte)...), nil
	}
	if value, err = s.db.Get(key, nil); err != nil {
		if err == leveldb.ErrNotFound {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "read leveldb failed")
	}
	s.cache.Add(string(key), append([]byte(nil), value...))
	return
}

// Has reports whether key exists.
func (s *Storage) Has(key []byte) (ok bool, err error) {
	if s.isClosed() {
		return false, ErrStorageClosed
	}
	s.RLock()
	defer s.RUnlock()

	if s.cache.Contains(string(key)) {
		return true, nil
	}
	if ok, err = s.db.Has(key, nil); err != nil {
		err = errors.Wrap(err, "read leveldb failed")
	}
	return
}

// Iterate calls fn for each key with prefix in key order, iteration stops at
// the first error returned by fn.
func (s *Storage) Iterate(prefix []byte, fn func(key, value []byte) error) (err error) {
	if s.isClosed() {
		return ErrStorageClosed
	}
	s.RLock()
	defer s.RUnlock()

	it := s.db.NewIterator(util.BytesPrefix(prefix), nil)
	defer it.Release()
	for it.Next() {
		if err = fn(it.Key(), it.Value()); err != nil {
			return
		}
	}
	if err = it.Error(); err != nil {
		err = errors.Wrap(err, "iterate leveldb failed")
	}
	return
}

// Write applies all operations of b atomically.
func (s *Storage) Write(b *Batch) (err error) {
	if s.isClosed() {
		return ErrStorageClosed
	}
	if b == nil || b.Len() == 0 {
		return
	}
	s.Lock()
	defer s.Unlock()

	if err = s.db.Write(b.batch, &opt.WriteOptions{Sync: true}); err != nil {
		// the cache may hold a stale copy of any key in b
		s.cache.Purge()
		return errors.Wrap(err, "write batch failed")
	}
	for _, op := range b.ops {
		if op.del {
			s.cache.Remove(op.key)
		} else {
			s.cache.Add(op.key, op.value)
		}
	}
	return
}

// Close closes the underlying database.
func (s *Storage) Close() (err error) {
	if !atomic.CompareAndSwapUint32(&s.closed, 0, 1) {
		return
	}
	s.Lock()
	defer s.Unlock()
	s.cache.Purge()
	return s.db.Close()
}
