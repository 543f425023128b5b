package store

import (
	"github.com/ckblabs/ckb-chainstate/storeerrors"
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	lverrors "github.com/syndtr/goleveldb/leveldb/errors"
	"github.com/syndtr/goleveldb/leveldb/iterator"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// levelDB is a thin wrapper around goleveldb, grounded on
// database/ffldb/ldb's LevelDB/LevelDBCursor pair: one goleveldb instance
// per store, with buckets/columns layered over it as key prefixes rather
// than engine-level column families.
type levelDB struct {
	ldb *leveldb.DB
}

func openLevelDB(path string) (*levelDB, error) {
	ldb, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, errors.Wrapf(storeEngineErr(err), "open %s", path)
	}
	return &levelDB{ldb: ldb}, nil
}

func (db *levelDB) close() error {
	return storeEngineErr(db.ldb.Close())
}

// get returns the value, whether it was found, and an engine error. A
// missing key is reported as (nil, false, nil) — absence is never an
// error.
func (db *levelDB) get(key []byte) ([]byte, bool, error) {
	value, err := db.ldb.Get(key, nil)
	if err == lverrors.ErrNotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, storeEngineErr(err)
	}
	return value, true, nil
}

func (db *levelDB) write(batch *leveldb.Batch) error {
	return storeEngineErr(db.ldb.Write(batch, nil))
}

// cursor opens a prefix iterator, matching LevelDBCursor.
func (db *levelDB) cursor(prefix []byte) iterator.Iterator {
	return db.ldb.NewIterator(util.BytesPrefix(prefix), nil)
}

// storeEngineErr wraps a raw goleveldb error with storeerrors.ErrEngine so
// callers can errors.Is against a single kind regardless of which concrete
// goleveldb failure occurred.
func storeEngineErr(err error) error {
	if err == nil {
		return nil
	}
	return errors.Wrap(storeerrors.ErrEngine, err.Error())
}
