// Package accounts maintains account balances and other account information.
// It is the native value bank of the chain: every wei held by an externally
// owned account or a contract lives here.
package accounts

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/ardanlabs/fundme/foundation/blockchain/database"
	"github.com/ardanlabs/fundme/foundation/blockchain/genesis"
)

// ErrInsufficientFunds is returned when an account can't cover a debit.
var ErrInsufficientFunds = errors.New("insufficient funds")

// Receiver is executed after value lands in an account that registered it.
// This is where contract code of the recipient runs. Returning an error
// rejects the transfer and the value moves back to the sender.
type Receiver func(ctx context.Context, from database.AccountID, value *big.Int) error

// Info represents information stored for an individual account.
type Info struct {
	Balance *big.Int `json:"balance"`
	Nonce   uint64   `json:"nonce"`
}

// Accounts manages data related to accounts who have transacted on
// the blockchain.
type Accounts struct {
	genesis   genesis.Genesis
	info      map[database.AccountID]Info
	receivers map[database.AccountID]Receiver
	mu        sync.RWMutex
}

// New constructs the accounts with the balances from genesis.
func New(gen genesis.Genesis) (*Accounts, error) {
	accts := Accounts{
		genesis:   gen,
		info:      make(map[database.AccountID]Info),
		receivers: make(map[database.AccountID]Receiver),
	}

	if err := accts.applyGenesis(); err != nil {
		return nil, err
	}

	return &accts, nil
}

// Reset re-initalizes the accounts back to the genesis information.
func (act *Accounts) Reset() error {
	act.mu.Lock()
	defer act.mu.Unlock()

	act.info = make(map[database.AccountID]Info)
	return act.applyGenesis()
}

// Replace updates the accounts based on the specified accounts.
func (act *Accounts) Replace(accounts *Accounts) {
	accounts.mu.RLock()
	info := accounts.info
	accounts.mu.RUnlock()

	act.mu.Lock()
	defer act.mu.Unlock()

	act.info = info
}

// Clone makes a copy of the current accounts. Registered receivers are not
// part of the copy since they are code, not state.
func (act *Accounts) Clone() *Accounts {
	act.mu.RLock()
	defer act.mu.RUnlock()

	accounts := Accounts{
		genesis:   act.genesis,
		info:      act.snapshot(),
		receivers: make(map[database.AccountID]Receiver),
	}

	return &accounts
}

// Copy makes a copy of the current information for all accounts.
func (act *Accounts) Copy() map[database.AccountID]Info {
	act.mu.RLock()
	defer act.mu.RUnlock()

	return act.snapshot()
}

// Query returns the information for the specified account.
func (act *Accounts) Query(accountID database.AccountID) Info {
	act.mu.RLock()
	defer act.mu.RUnlock()

	return act.lookup(accountID)
}

// Balance returns the current balance for the specified account.
func (act *Accounts) Balance(accountID database.AccountID) *big.Int {
	return act.Query(accountID).Balance
}

// Nonce returns the last nonce used by the specified account.
func (act *Accounts) Nonce(accountID database.AccountID) uint64 {
	return act.Query(accountID).Nonce
}

// SetNonce records the nonce of the latest transaction from the account.
func (act *Accounts) SetNonce(accountID database.AccountID, nonce uint64) {
	act.mu.Lock()
	defer act.mu.Unlock()

	info := act.lookup(accountID)
	info.Nonce = nonce
	act.info[accountID] = info
}

// ValidateNonce validates the nonce for the specified transaction is larger
// than the last nonce used by the account who signed the transaction.
func (act *Accounts) ValidateNonce(accountID database.AccountID, nonce uint64) error {
	info := act.Query(accountID)

	if nonce <= info.Nonce {
		return fmt.Errorf("invalid nonce, got %d, exp > %d", nonce, info.Nonce)
	}

	return nil
}

// RegisterReceiver installs code that runs whenever value is transferred
// to the specified account.
func (act *Accounts) RegisterReceiver(accountID database.AccountID, rcv Receiver) {
	act.mu.Lock()
	defer act.mu.Unlock()

	if rcv == nil {
		delete(act.receivers, accountID)
		return
	}
	act.receivers[accountID] = rcv
}

// Credit adds value to the specified account.
func (act *Accounts) Credit(accountID database.AccountID, value *big.Int) {
	act.mu.Lock()
	defer act.mu.Unlock()

	info := act.lookup(accountID)
	info.Balance.Add(info.Balance, value)
	act.info[accountID] = info
}

// Debit removes value from the specified account. The account must hold
// enough value to cover the debit.
func (act *Accounts) Debit(accountID database.AccountID, value *big.Int) error {
	act.mu.Lock()
	defer act.mu.Unlock()

	info := act.lookup(accountID)
	if info.Balance.Cmp(value) < 0 {
		return fmt.Errorf("%w: account %s, balance %s, needed %s", ErrInsufficientFunds, accountID, info.Balance, value)
	}

	info.Balance.Sub(info.Balance, value)
	act.info[accountID] = info
	return nil
}

// Transfer moves value between two accounts. When the receiving account has
// registered a receiver, it runs after the balances moved and the lock is
// released, so the receiver is free to call back into the chain. If the
// receiver fails every balance is put back to what it was before the
// transfer, including anything the receiver moved while it ran.
func (act *Accounts) Transfer(ctx context.Context, from database.AccountID, to database.AccountID, value *big.Int) error {
	if value.Sign() < 0 {
		return fmt.Errorf("invalid transfer value %s", value)
	}

	var rcv Receiver
	var before map[database.AccountID]Info
	err := func() error {
		act.mu.Lock()
		defer act.mu.Unlock()

		fromInfo := act.lookup(from)
		if fromInfo.Balance.Cmp(value) < 0 {
			return fmt.Errorf("%w: account %s, balance %s, needed %s", ErrInsufficientFunds, from, fromInfo.Balance, value)
		}

		rcv = act.receivers[to]
		if rcv != nil {
			before = act.snapshot()
		}

		fromInfo.Balance.Sub(fromInfo.Balance, value)
		act.info[from] = fromInfo

		toInfo := act.lookup(to)
		toInfo.Balance.Add(toInfo.Balance, value)
		act.info[to] = toInfo

		return nil
	}()

	if err != nil {
		return err
	}

	if rcv == nil {
		return nil
	}

	if err := rcv(ctx, from, value); err != nil {
		act.mu.Lock()
		defer act.mu.Unlock()

		act.info = before

		return fmt.Errorf("transfer rejected by %s: %w", to, err)
	}

	return nil
}

// Total returns the sum of all balances. Value is never created or destroyed
// by a transfer so this only changes with genesis.
func (act *Accounts) Total() *big.Int {
	act.mu.RLock()
	defer act.mu.RUnlock()

	total := new(big.Int)
	for _, info := range act.info {
		total.Add(total, info.Balance)
	}
	return total
}

// =============================================================================

// lookup returns a private copy of the account information so the caller
// can modify the balance before storing it back. The caller must hold a lock.
func (act *Accounts) lookup(accountID database.AccountID) Info {
	info, exists := act.info[accountID]
	if !exists {
		return Info{Balance: new(big.Int)}
	}
	return info.copy()
}

// snapshot returns a deep copy of the account information. The caller must
// hold a lock.
func (act *Accounts) snapshot() map[database.AccountID]Info {
	info := make(map[database.AccountID]Info, len(act.info))
	for accountID, i := range act.info {
		info[accountID] = i.copy()
	}
	return info
}

// applyGenesis loads the genesis balances. The caller must hold the lock or
// own the value exclusively.
func (act *Accounts) applyGenesis() error {
	for accountStr, balance := range act.genesis.Balances {
		accountID, err := database.ToAccountID(accountStr)
		if err != nil {
			return fmt.Errorf("genesis balance for %q: %w", accountStr, err)
		}

		value := new(big.Int)
		if balance != nil {
			value.Set(balance)
		}
		act.info[accountID] = Info{Balance: value}
	}

	return nil
}

// copy returns a deep copy of the information.
func (info Info) copy() Info {
	balance := new(big.Int)
	if info.Balance != nil {
		balance.Set(info.Balance)
	}

	return Info{
		Balance: balance,
		Nonce:   info.Nonce,
	}
}
