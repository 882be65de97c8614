package fundme

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ardanlabs/fundme/foundation/blockchain/database"
)

// funderSource represents how the withdraw algorithm walks the funder
// sequence.
type funderSource interface {
	count() int
	at(index int) database.AccountID
}

// storageFunders reads every length check and element straight from
// contract storage.
type storageFunders struct {
	storage *slots
	gas     *GasMeter
}

func (sf storageFunders) count() int {
	return sf.storage.loadFunderCount(sf.gas)
}

func (sf storageFunders) at(index int) database.AccountID {
	return sf.storage.loadFunder(sf.gas, index)
}

// memoryFunders is a working copy of the funder sequence.
type memoryFunders []database.AccountID

func (mf memoryFunders) count() int {
	return len(mf)
}

func (mf memoryFunders) at(index int) database.AccountID {
	return mf[index]
}

// storageFunders returns a source bound to contract storage.
func (l *Ledger) storageFunders(gas *GasMeter) funderSource {
	return storageFunders{storage: &l.storage, gas: gas}
}

// memoryFunders loads the funder sequence once.
func (l *Ledger) memoryFunders(gas *GasMeter) funderSource {
	return memoryFunders(l.storage.loadFunders(gas))
}

// =============================================================================

// withdraw is the single withdrawal algorithm shared by both variants.
//
// The ledger is reset before the transfer starts. Code running in the owner
// account during the transfer can only observe an empty ledger, and if the
// transfer fails the ledger is put back as it was before the call.
func (l *Ledger) withdraw(ctx context.Context, msg Msg, source func(gas *GasMeter) funderSource) error {
	if msg.Sender != l.owner {
		return fmt.Errorf("%w: caller %s", ErrNotOwner, msg.Sender)
	}

	before := l.storage.copy()

	funders := source(msg.Gas)
	for i := 0; i < funders.count(); i++ {
		l.storage.storeContribution(msg.Gas, funders.at(i), new(big.Int))
	}
	l.storage.clearFunders(msg.Gas)

	balance := l.bank.Balance(l.address)

	msg.Gas.Consume(gasValueCall)
	if err := l.bank.Transfer(ctx, l.address, l.owner, balance); err != nil {
		l.storage = before
		return fmt.Errorf("%w: %w", ErrTransferFailed, err)
	}

	l.evHandler("fundme: withdraw: owner[%s] value[%s] funders[%d]", l.owner, balance, len(before.funders))

	return nil
}
