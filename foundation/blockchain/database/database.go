// Package database handles the lower level types shared by the blockchain
// packages: accounts, transactions, receipts and the contract for any
// package providing support for storing the receipt log.
package database

import "errors"

// ErrEndOfChain is returned by an iterator once the last receipt was read.
var ErrEndOfChain = errors.New("end of chain")

// Serializer interface represents the behavior required to be implemented by any
// package providing support for storing and reading the receipt log.
type Serializer interface {
	Write(receipt Receipt) error
	GetReceipt(num uint64) (Receipt, error)
	ForEach() Iterator
	Close() error
	Reset() error
}

// Iterator interface represents the behavior required to be implemented by any
// package providing support to iterate over the receipts.
type Iterator interface {
	Next() (Receipt, error)
	Done() bool
}
