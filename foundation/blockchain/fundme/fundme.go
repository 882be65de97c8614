// Package fundme implements the funding ledger contract. It accepts value
// above a USD denominated minimum, records every funder and lets the owner
// withdraw the entire balance, resetting the ledger.
//
// The ledger holds no lock. A call runs to completion before the next one
// starts, which the caller guarantees by serializing calls. The only point
// where foreign code runs during a call is the outbound value transfer of a
// withdrawal, and the ledger is always reset before that transfer starts.
package fundme

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ardanlabs/fundme/foundation/blockchain/database"
	"github.com/ardanlabs/fundme/foundation/blockchain/pricefeed"
)

// Set of error variables for the contract calls.
var (
	ErrInsufficientContribution = errors.New("fundme: insufficient contribution")
	ErrNotOwner                 = errors.New("fundme: not owner")
	ErrTransferFailed           = errors.New("fundme: transfer failed")
	ErrIndexOutOfRange          = errors.New("fundme: index out of range")
)

// MinimumUSD is the smallest contribution accepted, 50 USD at 18 decimals.
var MinimumUSD = pricefeed.USD(50)

// EventHandler defines a function that is called when events
// occur in the processing of contract calls.
type EventHandler func(v string, args ...any)

// Bank represents the behavior required to move native value between
// accounts.
type Bank interface {
	Balance(accountID database.AccountID) *big.Int
	Transfer(ctx context.Context, from database.AccountID, to database.AccountID, value *big.Int) error
}

// Msg carries the context of a single call: who is calling, the value sent
// along with the call and the meter charged for storage access.
type Msg struct {
	Sender database.AccountID
	Value  *big.Int
	Gas    *GasMeter
}

// value returns the value sent with the call, never nil.
func (m Msg) value() *big.Int {
	if m.Value == nil {
		return new(big.Int)
	}
	return m.Value
}

// Config represents the values required to deploy the contract.
type Config struct {
	Address   database.AccountID
	Deployer  database.AccountID
	PriceFeed pricefeed.Feed
	Bank      Bank
	EvHandler EventHandler
}

// Ledger is the deployed funding contract.
type Ledger struct {
	address   database.AccountID
	owner     database.AccountID
	priceFeed pricefeed.Feed
	bank      Bank
	evHandler EventHandler
	storage   slots
}

// New deploys the contract. The deployer becomes the owner.
func New(cfg Config) (*Ledger, error) {
	if !cfg.Address.IsAccountID() {
		return nil, fmt.Errorf("invalid contract account %q", cfg.Address)
	}

	if !cfg.Deployer.IsAccountID() {
		return nil, fmt.Errorf("invalid deployer account %q", cfg.Deployer)
	}

	if cfg.PriceFeed == nil {
		return nil, errors.New("price feed is required")
	}

	if cfg.Bank == nil {
		return nil, errors.New("bank is required")
	}

	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	l := Ledger{
		address:   cfg.Address,
		owner:     cfg.Deployer,
		priceFeed: cfg.PriceFeed,
		bank:      cfg.Bank,
		evHandler: ev,
		storage:   newSlots(),
	}

	return &l, nil
}

// Fund records a contribution from the caller. The value sent must be worth
// at least MinimumUSD at the current price.
func (l *Ledger) Fund(ctx context.Context, msg Msg) error {
	value := msg.value()

	usd, err := pricefeed.ConversionRate(ctx, l.priceFeed, value)
	if err != nil {
		return fmt.Errorf("fund: %w", err)
	}

	if usd.Cmp(MinimumUSD) < 0 {
		return fmt.Errorf("%w: sent %s wei worth %s, need %s", ErrInsufficientContribution, value, usd, MinimumUSD)
	}

	if err := l.bank.Transfer(ctx, msg.Sender, l.address, value); err != nil {
		return fmt.Errorf("fund: %w", err)
	}

	total := l.storage.loadContribution(msg.Gas, msg.Sender)
	total.Add(total, value)
	l.storage.storeContribution(msg.Gas, msg.Sender, total)
	l.storage.pushFunder(msg.Gas, msg.Sender)

	l.evHandler("fundme: fund: funder[%s] value[%s] usd[%s] total[%s]", msg.Sender, value, usd, total)

	return nil
}

// Withdraw resets the ledger and transfers the entire balance to the owner.
// The funder sequence is read from storage on every step.
func (l *Ledger) Withdraw(ctx context.Context, msg Msg) error {
	return l.withdraw(ctx, msg, l.storageFunders)
}

// CheaperWithdraw behaves exactly like Withdraw but reads the funder
// sequence into memory once before resetting the ledger.
func (l *Ledger) CheaperWithdraw(ctx context.Context, msg Msg) error {
	return l.withdraw(ctx, msg, l.memoryFunders)
}

// =============================================================================

// Address returns the account the contract lives at.
func (l *Ledger) Address() database.AccountID {
	return l.address
}

// Owner returns the account allowed to withdraw.
func (l *Ledger) Owner() database.AccountID {
	return l.owner
}

// PriceFeed returns the price feed used to value contributions.
func (l *Ledger) PriceFeed() pricefeed.Feed {
	return l.priceFeed
}

// Version returns the version of the price feed aggregator.
func (l *Ledger) Version() uint64 {
	return l.priceFeed.Version()
}

// Balance returns the value held by the contract.
func (l *Ledger) Balance() *big.Int {
	return l.bank.Balance(l.address)
}

// Contribution returns the amount funded by the account since the last
// withdrawal. Zero is returned for accounts that never funded.
func (l *Ledger) Contribution(accountID database.AccountID) *big.Int {
	return l.storage.contribution(accountID)
}

// Funder returns the funder at the specified position.
func (l *Ledger) Funder(index int) (database.AccountID, error) {
	if index < 0 || index >= len(l.storage.funders) {
		return "", fmt.Errorf("%w: index %d, funders %d", ErrIndexOutOfRange, index, len(l.storage.funders))
	}

	return l.storage.funders[index], nil
}

// FunderCount returns the length of the funder sequence.
func (l *Ledger) FunderCount() int {
	return len(l.storage.funders)
}

// Funders returns a copy of the funder sequence.
func (l *Ledger) Funders() []database.AccountID {
	funders := make([]database.AccountID, len(l.storage.funders))
	copy(funders, l.storage.funders)
	return funders
}

// =============================================================================

// Snapshot is a copy of the contract storage.
type Snapshot struct {
	storage slots
}

// Snapshot captures the contract storage so it can be restored if the
// enclosing transaction reverts.
func (l *Ledger) Snapshot() Snapshot {
	return Snapshot{storage: l.storage.copy()}
}

// Restore puts the contract storage back to the captured state.
func (l *Ledger) Restore(snapshot Snapshot) {
	l.storage = snapshot.storage.copy()
}
