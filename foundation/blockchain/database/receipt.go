package database

import (
	"math/big"
	"time"
)

// Set of status values a receipt can carry.
const (
	StatusReverted uint8 = 0
	StatusSuccess  uint8 = 1
)

// Receipt represents a transaction as it was executed by the node. Every
// transaction that passed validation gets a receipt, including the ones that
// reverted, since gas is still paid for those.
type Receipt struct {
	SignedTx
	Number    uint64 `json:"number"`    // Position of this receipt in the chain, starting at 1.
	TimeStamp uint64 `json:"timestamp"` // Ethereum: The time the transaction was executed.
	GasPrice  uint64 `json:"gas_price"` // Ethereum: The price of one unit of gas to be paid for fees.
	GasUnits  uint64 `json:"gas_units"` // Ethereum: The number of units of gas used for this transaction.
	Status    uint8  `json:"status"`    // Ethereum: 1 when the call succeeded, 0 when it reverted.
	Error     string `json:"error"`     // Reason the transaction reverted.
	FromID    string `json:"from"`      // Account recovered from the signature.
	Hash      string `json:"hash"`      // Hash of the signed transaction.
}

// NewReceipt constructs a receipt for the transaction.
func NewReceipt(tx SignedTx, number uint64, now time.Time, gasPrice uint64) Receipt {
	return Receipt{
		SignedTx:  tx,
		Number:    number,
		TimeStamp: uint64(now.UTC().UnixMilli()),
		GasPrice:  gasPrice,
	}
}

// Succeeded reports whether the transaction executed without reverting.
func (r Receipt) Succeeded() bool {
	return r.Status == StatusSuccess
}

// GasCost returns the amount of wei the sender paid for the execution.
func (r Receipt) GasCost() *big.Int {
	cost := new(big.Int).SetUint64(r.GasUnits)
	return cost.Mul(cost, new(big.Int).SetUint64(r.GasPrice))
}

// Time returns the receipt timestamp as a time value.
func (r Receipt) Time() time.Time {
	return time.UnixMilli(int64(r.TimeStamp)).UTC()
}
