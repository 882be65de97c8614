// Package leveldb implements the ability to read and write receipts to a
// LevelDB key value store. Keys are the big endian receipt number so the
// store iterates in chain order.
package leveldb

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ardanlabs/fundme/foundation/blockchain/database"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/iterator"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// receiptPrefix namespaces the receipt keys inside the store.
var receiptPrefix = []byte("r/")

// LevelDB represents the serialization implementation for reading and storing
// receipts in a LevelDB database. This implements the database.Serializer
// interface.
type LevelDB struct {
	db *leveldb.DB
}

// New opens or creates the database at the specified path.
func New(dbPath string) (*LevelDB, error) {
	db, err := leveldb.OpenFile(dbPath, nil)
	if err != nil {
		return nil, fmt.Errorf("opening leveldb: %w", err)
	}

	return &LevelDB{db: db}, nil
}

// Close releases the database files.
func (l *LevelDB) Close() error {
	return l.db.Close()
}

// Write stores the receipt under its number. The write is synced so the
// receipt survives a crash of the node.
func (l *LevelDB) Write(receipt database.Receipt) error {
	data, err := json.Marshal(receipt)
	if err != nil {
		return err
	}

	key := receiptKey(receipt.Number)

	exists, err := l.db.Has(key, nil)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("receipt %d already exists", receipt.Number)
	}

	return l.db.Put(key, data, &opt.WriteOptions{Sync: true})
}

// GetReceipt returns the receipt with the specified number.
func (l *LevelDB) GetReceipt(num uint64) (database.Receipt, error) {
	data, err := l.db.Get(receiptKey(num), nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return database.Receipt{}, fmt.Errorf("receipt %d: %w", num, database.ErrEndOfChain)
		}
		return database.Receipt{}, err
	}

	var receipt database.Receipt
	if err := json.Unmarshal(data, &receipt); err != nil {
		return database.Receipt{}, fmt.Errorf("decoding receipt %d: %w", num, err)
	}

	return receipt, nil
}

// ForEach returns an iterator to walk through all the receipts in order.
func (l *LevelDB) ForEach() database.Iterator {
	return &levelIterator{iter: l.db.NewIterator(util.BytesPrefix(receiptPrefix), nil)}
}

// Reset deletes every receipt in a single batch.
func (l *LevelDB) Reset() error {
	iter := l.db.NewIterator(util.BytesPrefix(receiptPrefix), nil)
	defer iter.Release()

	var batch leveldb.Batch
	for iter.Next() {
		batch.Delete(append([]byte(nil), iter.Key()...))
	}
	if err := iter.Error(); err != nil {
		return err
	}

	return l.db.Write(&batch, &opt.WriteOptions{Sync: true})
}

// receiptKey builds the key for the specified receipt number.
func receiptKey(num uint64) []byte {
	key := make([]byte, len(receiptPrefix)+8)
	copy(key, receiptPrefix)
	binary.BigEndian.PutUint64(key[len(receiptPrefix):], num)
	return key
}

// =============================================================================

// levelIterator walks the receipts with a LevelDB iterator. The iterator
// is released once the end is reached. This implements the database
// Iterator interface.
type levelIterator struct {
	iter iterator.Iterator
	eoc  bool
}

// Next retrieves the next receipt from the store.
func (li *levelIterator) Next() (database.Receipt, error) {
	if li.eoc {
		return database.Receipt{}, database.ErrEndOfChain
	}

	if !li.iter.Next() {
		li.eoc = true
		err := li.iter.Error()
		li.iter.Release()

		if err != nil {
			return database.Receipt{}, err
		}
		return database.Receipt{}, database.ErrEndOfChain
	}

	var receipt database.Receipt
	if err := json.Unmarshal(li.iter.Value(), &receipt); err != nil {
		return database.Receipt{}, fmt.Errorf("decoding receipt: %w", err)
	}

	return receipt, nil
}

// Done returns the end of chain value.
func (li *levelIterator) Done() bool {
	return li.eoc
}
