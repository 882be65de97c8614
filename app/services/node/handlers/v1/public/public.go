// Package public maintains the group of handlers for public access.
package public

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/ardanlabs/fundme/business/sys/validate"
	"github.com/ardanlabs/fundme/business/web/errs"
	"github.com/ardanlabs/fundme/foundation/blockchain/database"
	"github.com/ardanlabs/fundme/foundation/blockchain/fundme"
	"github.com/ardanlabs/fundme/foundation/blockchain/state"
	"github.com/ardanlabs/fundme/foundation/events"
	"github.com/ardanlabs/fundme/foundation/nameservice"
	"github.com/ardanlabs/fundme/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handlers manages the set of node endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
	NS    *nameservice.NameService
	WS    websocket.Upgrader
	Evts  *events.Events
}

// Events handles a web socket to provide events to a client.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	ch := h.Evts.Acquire(v.TraceID)
	defer h.Evts.Release(v.TraceID)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, wd := <-ch:
			if !wd {
				return nil
			}

			if err := c.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return err
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}
		}
	}
}

// SubmitTransaction executes a signed transaction from a wallet and returns
// the receipt.
func (h Handlers) SubmitTransaction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var st submitTx
	if err := web.Decode(r, &st); err != nil {
		return errs.NewTrusted(fmt.Errorf("unable to decode payload: %w", err), http.StatusBadRequest)
	}

	if err := validate.Check(st); err != nil {
		return err
	}

	signedTx := st.toSignedTx()

	h.Log.Infow("submit tx", "traceid", v.TraceID, "from:nonce", signedTx, "to", signedTx.ToID, "method", signedTx.Method, "value", signedTx.Value)

	rcpt, err := h.State.SubmitTx(ctx, signedTx)
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	return web.Respond(ctx, w, toReceipt(rcpt, h.NS.Lookup), http.StatusOK)
}

// Genesis returns the genesis information.
func (h Handlers) Genesis(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	gen := h.State.RetrieveGenesis()
	return web.Respond(ctx, w, gen, http.StatusOK)
}

// Accounts returns the current balances for all accounts or the one
// specified.
func (h Handlers) Accounts(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var acts []info

	switch param := web.Param(r, "account"); param {
	case "":
		for accountID, act := range h.State.RetrieveAccounts() {
			acts = append(acts, h.info(accountID, act.Balance.String(), database.FormatEther(act.Balance), act.Nonce))
		}
		sort.Slice(acts, func(i, j int) bool { return acts[i].Account < acts[j].Account })

	default:
		accountID, err := h.resolve(param)
		if err != nil {
			return err
		}

		act := h.State.QueryAccount(accountID)
		acts = append(acts, h.info(accountID, act.Balance.String(), database.FormatEther(act.Balance), act.Nonce))
	}

	ai := actInfo{
		LatestReceipt: h.State.RetrieveLatestNumber(),
		Accounts:      acts,
	}

	return web.Respond(ctx, w, ai, http.StatusOK)
}

// Owner returns the owner of the fund me contract.
func (h Handlers) Owner(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	ownerID := h.State.RetrieveOwner()

	o := owner{
		Contract: h.State.RetrieveFundMe(),
		Owner:    ownerID,
		Name:     h.NS.Lookup(ownerID),
	}

	return web.Respond(ctx, w, o, http.StatusOK)
}

// PriceFeed returns the latest round of the price feed the contract uses.
func (h Handlers) PriceFeed(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	round, err := h.State.QueryLatestRound(ctx)
	if err != nil {
		return errs.NewTrusted(err, http.StatusConflict)
	}

	price, err := h.State.QueryPrice(ctx)
	if err != nil {
		return errs.NewTrusted(err, http.StatusConflict)
	}

	pf := priceFeed{
		Address:   h.State.RetrievePriceFeed(),
		Decimals:  h.State.RetrieveGenesis().PriceFeed.Decimals,
		RoundID:   round.RoundID,
		Answer:    round.Answer.String(),
		PriceUSD:  database.FormatEther(price),
		UpdatedAt: round.UpdatedAt.Format(time.RFC3339),
	}

	return web.Respond(ctx, w, pf, http.StatusOK)
}

// ContractBalance returns the value held by the fund me contract.
func (h Handlers) ContractBalance(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	balance := h.State.QueryContractBalance()

	cb := contractBalance{
		Contract: h.State.RetrieveFundMe(),
		Balance:  balance.String(),
		Ether:    database.FormatEther(balance),
	}

	return web.Respond(ctx, w, cb, http.StatusOK)
}

// Funders returns the funders recorded since the last withdrawal in the
// order they funded.
func (h Handlers) Funders(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	funderIDs := h.State.QueryFunders()

	funders := make([]funder, len(funderIDs))
	for i, accountID := range funderIDs {
		funders[i] = h.funder(i, accountID)
	}

	return web.Respond(ctx, w, funders, http.StatusOK)
}

// Funder returns the funder at the specified index.
func (h Handlers) Funder(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	index, err := strconv.Atoi(web.Param(r, "index"))
	if err != nil {
		return errs.NewTrusted(fmt.Errorf("invalid index: %w", err), http.StatusBadRequest)
	}

	accountID, err := h.State.QueryFunder(index)
	if err != nil {
		if errors.Is(err, fundme.ErrIndexOutOfRange) {
			return errs.NewTrusted(err, http.StatusNotFound)
		}
		return err
	}

	return web.Respond(ctx, w, h.funder(index, accountID), http.StatusOK)
}

// Contribution returns the amount funded by the account since the last
// withdrawal.
func (h Handlers) Contribution(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	accountID, err := h.resolve(web.Param(r, "account"))
	if err != nil {
		return err
	}

	amount := h.State.QueryContribution(accountID)

	c := contribution{
		Account:      accountID,
		Name:         h.NS.Lookup(accountID),
		Contribution: amount.String(),
		Ether:        database.FormatEther(amount),
	}

	return web.Respond(ctx, w, c, http.StatusOK)
}

// Receipts returns the receipt log, optionally filtered by account.
func (h Handlers) Receipts(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var accountID database.AccountID
	if param := web.Param(r, "account"); param != "" {
		var err error
		if accountID, err = h.resolve(param); err != nil {
			return err
		}
	}

	dbReceipts, err := h.State.QueryReceipts(accountID)
	if err != nil {
		return err
	}

	if len(dbReceipts) == 0 {
		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}

	receipts := make([]receipt, len(dbReceipts))
	for i, rcpt := range dbReceipts {
		receipts[i] = toReceipt(rcpt, h.NS.Lookup)
	}

	return web.Respond(ctx, w, receipts, http.StatusOK)
}

// =============================================================================

// resolve accepts either a hex account id or a name known to the name
// service.
func (h Handlers) resolve(param string) (database.AccountID, error) {
	accountID, err := h.NS.Resolve(param)
	if err != nil {
		return "", errs.NewTrusted(err, http.StatusBadRequest)
	}
	return accountID, nil
}

func (h Handlers) info(accountID database.AccountID, balance string, ether string, nonce uint64) info {
	return info{
		Account: accountID,
		Name:    h.NS.Lookup(accountID),
		Balance: balance,
		Ether:   ether,
		Nonce:   nonce,
	}
}

func (h Handlers) funder(index int, accountID database.AccountID) funder {
	return funder{
		Index:        index,
		Account:      accountID,
		Name:         h.NS.Lookup(accountID),
		Contribution: h.State.QueryContribution(accountID).String(),
	}
}
