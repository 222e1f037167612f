package bolt_driver

import (
	"bytes"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"

	"github.com/meverselabs/ledger/common/rlog"
	"github.com/meverselabs/ledger/core/backend"
)

const (
	DriverName = "bolt"
	FileName   = "state.db"
)

var bucketName = []byte{0}

func init() {
	backend.RegisterDriver(DriverName, NewStoreBackendBolt)
}

type StoreBackendBolt struct {
	db *bolt.DB
}

// NewStoreBackendBolt opens the bolt file in the directory of the path
func NewStoreBackendBolt(path string) (backend.StoreBackend, error) {
	if err := os.MkdirAll(path, os.ModePerm); err != nil {
		return nil, errors.WithStack(err)
	}

	start := time.Now()
	db, err := bolt.Open(filepath.Join(path, FileName), 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errors.Wrapf(err, "open bolt %v", path)
	}
	if err := db.Update(func(txn *bolt.Tx) error {
		_, err := txn.CreateBucketIfNotExists(bucketName)
		return err
	}); err != nil {
		db.Close()
		return nil, errors.WithStack(err)
	}
	rlog.Named("backend").Infow("Bolt is opened", "path", path, "elapsed", time.Since(start))
	back := &StoreBackendBolt{
		db: db,
	}
	return back, nil
}

func (st *StoreBackendBolt) Shrink() {
}

func (st *StoreBackendBolt) Close() {
	start := time.Now()
	st.db.Close()
	rlog.Named("backend").Infow("Bolt is closed", "elapsed", time.Since(start))
}

func (st *StoreBackendBolt) View(fn func(txn backend.StoreReader) error) error {
	return st.db.View(func(txn *bolt.Tx) error {
		return fn(&StoreBackendBoltTx{bucket: txn.Bucket(bucketName)})
	})
}

func (st *StoreBackendBolt) Update(fn func(txn backend.StoreWriter) error) error {
	return st.db.Update(func(txn *bolt.Tx) error {
		return fn(&StoreBackendBoltTx{bucket: txn.Bucket(bucketName)})
	})
}

type StoreBackendBoltTx struct {
	bucket *bolt.Bucket
}

func (r *StoreBackendBoltTx) Get(key []byte) ([]byte, error) {
	value := r.bucket.Get(key)
	if value == nil {
		return nil, backend.ErrNotExistKey
	}
	// bolt values are only valid during the transaction
	cp := make([]byte, len(value))
	copy(cp, value)
	return cp, nil
}

func (r *StoreBackendBoltTx) Iterate(prefix []byte, fn func(key []byte, value []byte) error) error {
	c := r.bucket.Cursor()
	var key, value []byte
	if len(prefix) > 0 {
		key, value = c.Seek(prefix)
	} else {
		key, value = c.First()
	}
	for ; key != nil && bytes.HasPrefix(key, prefix); key, value = c.Next() {
		if err := fn(key, value); err != nil {
			return err
		}
	}
	return nil
}

func (r *StoreBackendBoltTx) Set(key []byte, value []byte) error {
	return errors.WithStack(r.bucket.Put(key, value))
}

func (r *StoreBackendBoltTx) Delete(key []byte) error {
	return errors.WithStack(r.bucket.Delete(key))
}
