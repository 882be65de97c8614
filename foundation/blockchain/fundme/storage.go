package fundme

import (
	"math/big"

	"github.com/ardanlabs/fundme/foundation/blockchain/database"
)

// slots is the persistent storage of the contract. Every read and write
// goes through these methods so the gas meter sees the access pattern of
// the caller.
type slots struct {
	contributions map[database.AccountID]*big.Int
	funders       []database.AccountID
}

func newSlots() slots {
	return slots{
		contributions: make(map[database.AccountID]*big.Int),
	}
}

// loadContribution reads the amount funded by the account.
func (s *slots) loadContribution(gas *GasMeter, accountID database.AccountID) *big.Int {
	gas.Consume(gasStorageLoad)
	return s.contribution(accountID)
}

// storeContribution writes the amount funded by the account. A zero value
// removes the slot.
func (s *slots) storeContribution(gas *GasMeter, accountID database.AccountID, value *big.Int) {
	current := s.contribution(accountID)

	switch {
	case current.Cmp(value) == 0:
		gas.Consume(gasStorageLoad)
	case current.Sign() == 0:
		gas.Consume(gasStorageSet)
	default:
		gas.Consume(gasStorageReset)
	}

	if value.Sign() == 0 {
		delete(s.contributions, accountID)
		return
	}
	s.contributions[accountID] = new(big.Int).Set(value)
}

// loadFunderCount reads the length of the funder sequence.
func (s *slots) loadFunderCount(gas *GasMeter) int {
	gas.Consume(gasStorageLoad)
	return len(s.funders)
}

// loadFunder reads a single element of the funder sequence. The caller
// checks the bounds.
func (s *slots) loadFunder(gas *GasMeter, index int) database.AccountID {
	gas.Consume(gasStorageLoad)
	return s.funders[index]
}

// loadFunders reads the whole funder sequence into memory.
func (s *slots) loadFunders(gas *GasMeter) []database.AccountID {
	n := s.loadFunderCount(gas)

	funders := make([]database.AccountID, n)
	for i := range n {
		funders[i] = s.loadFunder(gas, i)
		gas.Consume(gasMemoryCopy)
	}

	return funders
}

// pushFunder appends the account to the funder sequence.
func (s *slots) pushFunder(gas *GasMeter, accountID database.AccountID) {
	if s.loadFunderCount(gas) == 0 {
		gas.Consume(gasStorageSet)
	} else {
		gas.Consume(gasStorageReset)
	}
	gas.Consume(gasStorageSet)

	s.funders = append(s.funders, accountID)
}

// clearFunders replaces the funder sequence with an empty one.
func (s *slots) clearFunders(gas *GasMeter) {
	if len(s.funders) == 0 {
		gas.Consume(gasStorageLoad)
	} else {
		gas.Consume(gasStorageReset)
	}

	s.funders = nil
}

// contribution returns a copy of the stored amount without metering.
func (s *slots) contribution(accountID database.AccountID) *big.Int {
	value, exists := s.contributions[accountID]
	if !exists {
		return new(big.Int)
	}
	return new(big.Int).Set(value)
}

// copy makes a deep copy of the storage.
func (s *slots) copy() slots {
	cpy := slots{
		contributions: make(map[database.AccountID]*big.Int, len(s.contributions)),
		funders:       make([]database.AccountID, len(s.funders)),
	}

	for accountID, value := range s.contributions {
		cpy.contributions[accountID] = new(big.Int).Set(value)
	}
	copy(cpy.funders, s.funders)

	return cpy
}
