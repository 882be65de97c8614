package fundme

import "github.com/ethereum/go-ethereum/params"

// Gas schedule charged for contract storage access. The values follow the
// Ethereum EIP-2200 storage pricing.
const (
	gasStorageLoad  = params.SloadGasEIP2200
	gasStorageSet   = params.SstoreSetGasEIP2200
	gasStorageReset = params.SstoreResetGasEIP2200
	gasValueCall    = params.CallValueTransferGas
	gasMemoryCopy   = params.CopyGas
)

// GasMeter accumulates the gas used while executing a contract call. A nil
// meter is valid and records nothing.
type GasMeter struct {
	limit uint64
	used  uint64
}

// NewGasMeter constructs a meter that reports when the limit is passed. A
// limit of zero means unlimited.
func NewGasMeter(limit uint64) *GasMeter {
	return &GasMeter{limit: limit}
}

// Consume records the specified amount of gas.
func (g *GasMeter) Consume(amount uint64) {
	if g == nil {
		return
	}
	g.used += amount
}

// Used returns the gas consumed so far.
func (g *GasMeter) Used() uint64 {
	if g == nil {
		return 0
	}
	return g.used
}

// Exceeded reports whether more gas was used than the limit allows.
func (g *GasMeter) Exceeded() bool {
	if g == nil {
		return false
	}
	return g.limit > 0 && g.used > g.limit
}
