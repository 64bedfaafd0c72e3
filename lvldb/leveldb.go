// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package lvldb implements kv.Store on goleveldb. It backs the contract state of a node.
package lvldb

import (
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/vechain/stakerewards/kv"
)

var _ kv.GetPutCloser = (*LevelDB)(nil)

const minCacheSize = 16

// Options tunes a persistent store. Sizes below 16 are raised to 16.
type Options struct {
	CacheSize              int // MiB, split between block cache and write buffer
	OpenFilesCacheCapacity int
}

func (o Options) leveldbOptions() *opt.Options {
	cache := max(o.CacheSize, minCacheSize)
	return &opt.Options{
		OpenFilesCacheCapacity: max(o.OpenFilesCacheCapacity, minCacheSize),
		BlockCacheCapacity:     cache / 2 * opt.MiB,
		WriteBuffer:            cache / 4 * opt.MiB, // two buffers are allocated
		Filter:                 filter.NewBloomFilter(10),
	}
}

var (
	readOpt   = &opt.ReadOptions{}
	writeOpt  = &opt.WriteOptions{}
	// committed operations are fsynced so they survive a crash
	commitOpt = &opt.WriteOptions{Sync: true}
)

// LevelDB is a kv.Store over a goleveldb instance.
type LevelDB struct {
	db *leveldb.DB
}

// New opens the store at path, creating it if missing.
func New(path string, opts Options) (*LevelDB, error) {
	stg, err := storage.OpenFile(path, false)
	if err != nil {
		return nil, errors.Wrapf(err, "open storage %v", path)
	}
	return open(stg, opts)
}

// NewMem creates a store that lives in memory only.
func NewMem() (*LevelDB, error) {
	return open(storage.NewMemStorage(), Options{})
}

func open(stg storage.Storage, opts Options) (*LevelDB, error) {
	db, err := leveldb.Open(stg, opts.leveldbOptions())
	if err != nil {
		_ = stg.Close()
		return nil, errors.Wrap(err, "open level db")
	}
	return &LevelDB{db: db}, nil
}

// IsNotFound reports whether err is the missing-key error of Get.
func (l *LevelDB) IsNotFound(err error) bool { return errors.Is(err, leveldb.ErrNotFound) }

func (l *LevelDB) Get(key []byte) ([]byte, error) { return l.db.Get(key, readOpt) }
func (l *LevelDB) Has(key []byte) (bool, error) { return l.db.Has(key, readOpt) }
func (l *LevelDB) Put(key, value []byte) error { return l.db.Put(key, value, writeOpt) }
func (l *LevelDB) Delete(key []byte) error { return l.db.Delete(key, writeOpt) }
func (l *LevelDB) Iterate(r kv.Range) kv.Iterator {
	return l.db.NewIterator(&util.Range{Start: r.Start, Limit: r.Limit}, readOpt)
}

// Close releases the store. Later calls fail.
func (l *LevelDB) Close() error { return l.db.Close() }

// Bulk returns a batch applied atomically, and durably, by Write.
func (l *LevelDB) Bulk() kv.Bulk {
	return &bulk{db: l.db, batch: new(leveldb.Batch)}
}

type bulk struct {
	db    *leveldb.DB
	batch *leveldb.Batch
}

func (b *bulk) Put(key, value []byte) error {
	b.batch.Put(key, value)
	return nil
}

func (b *bulk) Delete(key []byte) error {
	b.batch.Delete(key)
	return nil
}

func (b *bulk) Len() int { return b.batch.Len() }
func (b *bulk) Write() error { return b.db.Write(b.batch, commitOpt) }
