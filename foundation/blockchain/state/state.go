// Package state is the core API for the node and implements all the
// business rules and processing. Every submitted transaction is executed
// immediately and produces exactly one receipt.
package state

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ardanlabs/fundme/foundation/blockchain/accounts"
	"github.com/ardanlabs/fundme/foundation/blockchain/database"
	"github.com/ardanlabs/fundme/foundation/blockchain/fundme"
	"github.com/ardanlabs/fundme/foundation/blockchain/genesis"
	"github.com/ardanlabs/fundme/foundation/blockchain/pricefeed"
)

// Set of contracts the deployer creates when the chain starts. The value is
// the deployer nonce used for the deployment.
const (
	priceFeedNonce = 1
	fundMeNonce    = 2
)

// Set of error variables for executing transactions.
var (
	ErrNotPayable    = errors.New("method is not payable")
	ErrUnknownMethod = errors.New("unknown method")
	ErrOutOfGas      = errors.New("out of gas")
	ErrReplay        = errors.New("receipt log does not replay")
)

// =============================================================================

// EventHandler defines a function that is called when events
// occur in the processing of transactions.
type EventHandler func(v string, args ...any)

// Config represents the configuration required to start the node.
type Config struct {
	BeneficiaryID database.AccountID
	Genesis       genesis.Genesis
	Storage       database.Serializer
	EvHandler     EventHandler
	Now           func() time.Time
}

// State manages the accounts, the deployed contracts and the receipt log.
type State struct {
	mu sync.Mutex

	beneficiaryID database.AccountID
	deployerID    database.AccountID
	genesis       genesis.Genesis
	storage       database.Serializer
	evHandler     EventHandler
	now           func() time.Time

	accounts *accounts.Accounts
	feed     *pricefeed.Mock
	ledger   *fundme.Ledger
	latest   uint64
	pending  []string
}

// New constructs the node state, deploys the contracts and replays the
// receipt log found in storage.
func New(cfg Config) (*State, error) {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	if cfg.Storage == nil {
		return nil, errors.New("storage is required")
	}

	if err := cfg.Genesis.Validate(); err != nil {
		return nil, err
	}

	deployerID, err := database.ToAccountID(cfg.Genesis.Deployer)
	if err != nil {
		return nil, fmt.Errorf("genesis deployer: %w", err)
	}

	beneficiaryID := cfg.BeneficiaryID
	if beneficiaryID == "" {
		beneficiaryID = database.ZeroAccountID
	}
	if !beneficiaryID.IsAccountID() {
		return nil, fmt.Errorf("invalid beneficiary account %q", beneficiaryID)
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	state := State{
		beneficiaryID: beneficiaryID,
		deployerID:    deployerID,
		genesis:       cfg.Genesis,
		storage:       cfg.Storage,
		evHandler:     ev,
		now:           now,
	}

	if err := state.deploy(); err != nil {
		return nil, err
	}

	if err := state.replay(context.Background()); err != nil {
		return nil, err
	}

	return &state, nil
}

// Shutdown cleanly brings the node down.
func (s *State) Shutdown() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.evHandler("state: shutdown: closing storage")

	return s.storage.Close()
}

// Reset clears the receipt log and puts the node back to the genesis state.
func (s *State) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.storage.Reset(); err != nil {
		return err
	}

	return s.deploy()
}

// RegisterReceiver installs code that runs whenever value is transferred to
// the specified account. The receiver runs while a transaction is executing
// and must not call back into the State API.
func (s *State) RegisterReceiver(accountID database.AccountID, rcv accounts.Receiver) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.accounts.RegisterReceiver(accountID, rcv)
}

// =============================================================================

// deploy builds the genesis accounts and creates the price feed and the
// fund me contract from the deployer account.
func (s *State) deploy() error {
	accts, err := accounts.New(s.genesis)
	if err != nil {
		return err
	}

	feedID := database.ContractAccountID(s.deployerID, priceFeedNonce)
	feed := pricefeed.NewMock(feedID, s.genesis.PriceFeed.Decimals, s.genesis.PriceFeed.InitialAnswer)
	if _, err := feed.UpdateRoundData(1, s.genesis.PriceFeed.InitialAnswer, s.genesis.Date, s.genesis.Date); err != nil {
		return err
	}

	ledger, err := fundme.New(fundme.Config{
		Address:   database.ContractAccountID(s.deployerID, fundMeNonce),
		Deployer:  s.deployerID,
		PriceFeed: feed,
		Bank:      accts,
		EvHandler: s.record,
	})
	if err != nil {
		return err
	}

	accts.SetNonce(s.deployerID, fundMeNonce)

	s.accounts = accts
	s.feed = feed
	s.ledger = ledger
	s.latest = 0
	s.pending = nil

	s.evHandler("state: deploy: pricefeed[%s] fundme[%s] owner[%s]", feedID, ledger.Address(), s.deployerID)

	return nil
}

// replay executes every receipt in storage again. The outcome of every
// transaction must match what was recorded.
func (s *State) replay(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	iter := s.storage.ForEach()
	for !iter.Done() {
		stored, err := iter.Next()
		if err != nil {
			if errors.Is(err, database.ErrEndOfChain) {
				break
			}
			return err
		}

		if stored.Number != s.latest+1 {
			return fmt.Errorf("%w: receipt %d follows %d", ErrReplay, stored.Number, s.latest)
		}

		receipt, err := s.execute(ctx, stored.SignedTx, stored.Time())
		if err != nil {
			return fmt.Errorf("%w: receipt %d: %w", ErrReplay, stored.Number, err)
		}

		if receipt.Status != stored.Status || receipt.GasUnits != stored.GasUnits {
			return fmt.Errorf("%w: receipt %d: status[%d/%d] gas[%d/%d]", ErrReplay, stored.Number, receipt.Status, stored.Status, receipt.GasUnits, stored.GasUnits)
		}

		s.latest = stored.Number
		s.pending = nil
	}

	if s.latest > 0 {
		s.evHandler("state: replay: receipts[%d]", s.latest)
	}

	return nil
}

// record buffers contract events until the transaction that raised them
// is committed.
func (s *State) record(v string, args ...any) {
	s.pending = append(s.pending, fmt.Sprintf(v, args...))
}

// flush sends the buffered contract events.
func (s *State) flush() {
	for _, event := range s.pending {
		s.evHandler("%s", event)
	}
	s.pending = nil
}
