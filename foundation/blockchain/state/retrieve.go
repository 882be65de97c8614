package state

import (
	"github.com/ardanlabs/fundme/foundation/blockchain/accounts"
	"github.com/ardanlabs/fundme/foundation/blockchain/database"
	"github.com/ardanlabs/fundme/foundation/blockchain/genesis"
)

// RetrieveGenesis returns a copy of the genesis information.
func (s *State) RetrieveGenesis() genesis.Genesis {
	return s.genesis
}

// RetrieveBeneficiary returns the account collecting the gas fees.
func (s *State) RetrieveBeneficiary() database.AccountID {
	return s.beneficiaryID
}

// RetrieveAccounts returns a copy of the information for every account.
func (s *State) RetrieveAccounts() map[database.AccountID]accounts.Info {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.accounts.Copy()
}

// RetrieveOwner returns the owner of the fund me contract.
func (s *State) RetrieveOwner() database.AccountID {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.ledger.Owner()
}

// RetrieveFundMe returns the account the fund me contract lives at.
func (s *State) RetrieveFundMe() database.AccountID {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.ledger.Address()
}

// RetrievePriceFeed returns the account the price feed lives at.
func (s *State) RetrievePriceFeed() database.AccountID {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.ledger.PriceFeed().Address()
}

// RetrieveLatestNumber returns the number of the latest receipt.
func (s *State) RetrieveLatestNumber() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.latest
}
