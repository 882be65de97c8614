package state

import (
	"context"
	"errors"
	"math/big"

	"github.com/ardanlabs/fundme/foundation/blockchain/accounts"
	"github.com/ardanlabs/fundme/foundation/blockchain/database"
	"github.com/ardanlabs/fundme/foundation/blockchain/pricefeed"
)

// QueryAccount returns a copy of the account information.
func (s *State) QueryAccount(accountID database.AccountID) accounts.Info {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.accounts.Query(accountID)
}

// QueryLatestRound returns the latest round reported by the price feed.
func (s *State) QueryLatestRound(ctx context.Context) (pricefeed.Round, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.feed.LatestRoundData(ctx)
}

// QueryPrice returns the current USD price of one ether at 18 decimals.
func (s *State) QueryPrice(ctx context.Context) (*big.Int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return pricefeed.Price(ctx, s.feed)
}

// QueryContribution returns the amount funded by the account since the
// last withdrawal.
func (s *State) QueryContribution(accountID database.AccountID) *big.Int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.ledger.Contribution(accountID)
}

// QueryFunder returns the funder at the specified position.
func (s *State) QueryFunder(index int) (database.AccountID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.ledger.Funder(index)
}

// QueryFunders returns a copy of the funder sequence.
func (s *State) QueryFunders() []database.AccountID {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.ledger.Funders()
}

// QueryContractBalance returns the value held by the fund me contract.
func (s *State) QueryContractBalance() *big.Int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.ledger.Balance()
}

// QueryReceipts returns the receipts from storage. If the account is empty
// all receipts are returned, otherwise only the ones sent from or to the
// account.
func (s *State) QueryReceipts(accountID database.AccountID) ([]database.Receipt, error) {
	var out []database.Receipt

	iter := s.storage.ForEach()
	for !iter.Done() {
		receipt, err := iter.Next()
		if err != nil {
			if errors.Is(err, database.ErrEndOfChain) {
				break
			}
			return nil, err
		}

		if accountID == "" || database.AccountID(receipt.FromID) == accountID || receipt.ToID == accountID {
			out = append(out, receipt)
		}
	}

	return out, nil
}

// QueryReceipt returns the receipt with the specified number.
func (s *State) QueryReceipt(num uint64) (database.Receipt, error) {
	return s.storage.GetReceipt(num)
}
