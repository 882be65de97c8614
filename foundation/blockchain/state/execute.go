package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ardanlabs/fundme/foundation/blockchain/accounts"
	"github.com/ardanlabs/fundme/foundation/blockchain/database"
	"github.com/ardanlabs/fundme/foundation/blockchain/fundme"
	"github.com/ardanlabs/fundme/foundation/blockchain/pricefeed"
	"github.com/ardanlabs/fundme/foundation/blockchain/signature"
	"github.com/ethereum/go-ethereum/params"
)

// gasUpdateAnswer is charged for recording a new round in the price feed.
const gasUpdateAnswer = params.SstoreSetGasEIP2200 + params.SstoreResetGasEIP2200

// SubmitTx validates and executes the transaction, writes the receipt to
// storage and returns it. A transaction that fails validation is rejected
// with an error and produces no receipt. A transaction that reverts still
// produces a receipt since the sender pays for the gas used.
func (s *State) SubmitTx(ctx context.Context, signedTx database.SignedTx) (database.Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := s.snapshot()

	receipt, err := s.execute(ctx, signedTx, s.now())
	if err != nil {
		s.evHandler("state: SubmitTx: REJECTED: tx[%s]: %s", signedTx, err)
		return database.Receipt{}, err
	}

	if err := s.storage.Write(receipt); err != nil {
		s.restore(before)
		s.pending = nil
		return database.Receipt{}, fmt.Errorf("writing receipt %d: %w", receipt.Number, err)
	}

	s.latest = receipt.Number
	s.flush()
	s.receiptEvent(receipt)

	return receipt, nil
}

// =============================================================================

// snapshot captures everything a transaction can change.
type snapshot struct {
	accounts *accounts.Accounts
	ledger   fundme.Snapshot
	round    pricefeed.Round
}

func (s *State) snapshot() snapshot {
	return snapshot{
		accounts: s.accounts.Clone(),
		ledger:   s.ledger.Snapshot(),
		round:    s.feed.Snapshot(),
	}
}

func (s *State) restore(snap snapshot) {
	s.accounts.Replace(snap.accounts)
	s.ledger.Restore(snap.ledger)
	s.feed.Restore(snap.round)
}

// execute runs the transaction against the current state and builds the
// receipt. The caller must hold the lock.
func (s *State) execute(ctx context.Context, signedTx database.SignedTx, now time.Time) (database.Receipt, error) {
	fromID, err := s.validate(signedTx)
	if err != nil {
		return database.Receipt{}, err
	}

	// Buy the gas and consume the nonce. A revert does not undo either.
	maxFee := s.maxFee()
	if err := s.accounts.Debit(fromID, maxFee); err != nil {
		return database.Receipt{}, err
	}
	s.accounts.SetNonce(fromID, signedTx.Nonce)

	receipt := database.NewReceipt(signedTx, s.latest+1, now, s.genesis.GasPrice)
	receipt.FromID = fromID.String()
	receipt.Hash = signature.Hash(signedTx)

	before := s.snapshot()
	gas := fundme.NewGasMeter(s.genesis.GasLimit - params.TxGas)

	err = s.call(ctx, fromID, signedTx.Tx, gas, now)
	if err == nil && gas.Exceeded() {
		err = fmt.Errorf("%w: used %d, limit %d", ErrOutOfGas, params.TxGas+gas.Used(), s.genesis.GasLimit)
	}

	receipt.GasUnits = min(params.TxGas+gas.Used(), s.genesis.GasLimit)
	receipt.Status = database.StatusSuccess

	if err != nil {
		s.restore(before)
		s.pending = nil

		receipt.Status = database.StatusReverted
		receipt.Error = err.Error()
		if errors.Is(err, ErrOutOfGas) {
			receipt.GasUnits = s.genesis.GasLimit
		}
	}

	// Refund the unused gas and pay the beneficiary for the gas used.
	fee := receipt.GasCost()
	s.accounts.Credit(fromID, new(big.Int).Sub(maxFee, fee))
	s.accounts.Credit(s.beneficiaryID, fee)

	s.evHandler("state: execute: tx[%s] to[%s] method[%s] status[%d] gas[%d]", signedTx, signedTx.ToID, signedTx.Method, receipt.Status, receipt.GasUnits)

	return receipt, nil
}

// validate performs the checks that decide if a transaction is accepted
// at all and returns the sender.
func (s *State) validate(signedTx database.SignedTx) (database.AccountID, error) {
	if err := signedTx.Validate(s.genesis.ChainID); err != nil {
		return "", err
	}

	fromID, err := signedTx.FromAccount()
	if err != nil {
		return "", err
	}

	if err := s.accounts.ValidateNonce(fromID, signedTx.Nonce); err != nil {
		return "", err
	}

	if s.genesis.GasLimit < params.TxGas {
		return "", fmt.Errorf("gas limit %d is below the intrinsic gas %d", s.genesis.GasLimit, params.TxGas)
	}

	cost := new(big.Int).Add(signedTx.Value, s.maxFee())
	if balance := s.accounts.Balance(fromID); balance.Cmp(cost) < 0 {
		return "", fmt.Errorf("%w: account %s, balance %s, needed %s", accounts.ErrInsufficientFunds, fromID, balance, cost)
	}

	return fromID, nil
}

// maxFee is the most a transaction can be charged for gas.
func (s *State) maxFee() *big.Int {
	fee := new(big.Int).SetUint64(s.genesis.GasLimit)
	return fee.Mul(fee, new(big.Int).SetUint64(s.genesis.GasPrice))
}

// call routes the transaction to the contract method or performs a plain
// value transfer between accounts.
func (s *State) call(ctx context.Context, fromID database.AccountID, tx database.Tx, gas *fundme.GasMeter, now time.Time) error {
	switch tx.ToID {
	case s.ledger.Address():
		msg := fundme.Msg{Sender: fromID, Value: tx.Value, Gas: gas}

		switch tx.Method {
		case "", database.MethodFund:
			return s.ledger.Fund(ctx, msg)

		case database.MethodWithdraw:
			if err := notPayable(tx); err != nil {
				return err
			}
			return s.ledger.Withdraw(ctx, msg)

		case database.MethodCheaperWithdraw:
			if err := notPayable(tx); err != nil {
				return err
			}
			return s.ledger.CheaperWithdraw(ctx, msg)
		}

	case s.feed.Address():
		if tx.Method == database.MethodUpdateAnswer {
			if err := notPayable(tx); err != nil {
				return err
			}

			answer, ok := new(big.Int).SetString(string(tx.Data), 10)
			if !ok {
				return fmt.Errorf("invalid answer %q", tx.Data)
			}

			gas.Consume(gasUpdateAnswer)
			round := s.feed.UpdateAnswer(answer, now)
			s.record("pricefeed: updateAnswer: round[%d] answer[%s]", round.RoundID, round.Answer)

			return nil
		}

	default:
		if tx.Method == "" {
			return s.accounts.Transfer(ctx, fromID, tx.ToID, tx.Value)
		}
	}

	return fmt.Errorf("%w: %q on %s", ErrUnknownMethod, tx.Method, tx.ToID)
}

// notPayable rejects value attached to a call that can't accept it.
func notPayable(tx database.Tx) error {
	if tx.Value != nil && tx.Value.Sign() != 0 {
		return fmt.Errorf("%w: %s sent to %s", ErrNotPayable, tx.Value, tx.Method)
	}
	return nil
}

// receiptEvent provides a specific event about a new receipt for
// application specific support.
func (s *State) receiptEvent(receipt database.Receipt) {
	receiptJSON, err := json.Marshal(receipt)
	if err != nil {
		receiptJSON = []byte(fmt.Sprintf("%q", err.Error()))
	}

	s.evHandler(`viewer: receipt: {"number":%d,"status":%d,"receipt":%s}`, receipt.Number, receipt.Status, string(receiptJSON))
}
