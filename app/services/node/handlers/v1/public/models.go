package public

import (
	"math/big"

	"github.com/ardanlabs/fundme/foundation/blockchain/database"
)

type info struct {
	Account database.AccountID `json:"account"`
	Name    string             `json:"name"`
	Balance string             `json:"balance"`
	Ether   string             `json:"ether"`
	Nonce   uint64             `json:"nonce"`
}

type actInfo struct {
	LatestReceipt uint64 `json:"latest_receipt"`
	Accounts      []info `json:"accounts"`
}

type owner struct {
	Contract database.AccountID `json:"contract"`
	Owner    database.AccountID `json:"owner"`
	Name     string             `json:"name"`
}

type priceFeed struct {
	Address   database.AccountID `json:"address"`
	Decimals  uint8              `json:"decimals"`
	RoundID   uint64             `json:"round_id"`
	Answer    string             `json:"answer"`
	PriceUSD  string             `json:"price_usd"`
	UpdatedAt string             `json:"updated_at"`
}

type contractBalance struct {
	Contract database.AccountID `json:"contract"`
	Balance  string             `json:"balance"`
	Ether    string             `json:"ether"`
}

type funder struct {
	Index        int                `json:"index"`
	Account      database.AccountID `json:"account"`
	Name         string             `json:"name"`
	Contribution string             `json:"contribution"`
}

type contribution struct {
	Account      database.AccountID `json:"account"`
	Name         string             `json:"name"`
	Contribution string             `json:"contribution"`
	Ether        string             `json:"ether"`
}

type receipt struct {
	Number    uint64             `json:"number"`
	Hash      string             `json:"hash"`
	FromID    database.AccountID `json:"from"`
	FromName  string             `json:"from_name"`
	ToID      database.AccountID `json:"to"`
	ToName    string             `json:"to_name"`
	Nonce     uint64             `json:"nonce"`
	Value     string             `json:"value"`
	Method    string             `json:"method"`
	Data      string             `json:"data"`
	GasPrice  uint64             `json:"gas_price"`
	GasUnits  uint64             `json:"gas_units"`
	GasCost   string             `json:"gas_cost"`
	Status    uint8              `json:"status"`
	Error     string             `json:"error,omitempty"`
	TimeStamp uint64             `json:"timestamp"`
	Sig       string             `json:"sig"`
}

// submitTx is the payload a wallet posts. The fields line up with the json
// encoding of a signed transaction.
type submitTx struct {
	ChainID uint16   `json:"chain_id" validate:"required"`
	Nonce   uint64   `json:"nonce" validate:"required"`
	ToID    string   `json:"to" validate:"required,account"`
	Value   *big.Int `json:"value" validate:"required"`
	Method  string   `json:"method" validate:"omitempty,oneof=fund withdraw cheaperWithdraw updateAnswer"`
	Data    []byte   `json:"data"`
	V       *big.Int `json:"v" validate:"required"`
	R       *big.Int `json:"r" validate:"required"`
	S       *big.Int `json:"s" validate:"required"`
}

func (st submitTx) toSignedTx() database.SignedTx {
	return database.SignedTx{
		Tx: database.Tx{
			ChainID: st.ChainID,
			Nonce:   st.Nonce,
			ToID:    database.AccountID(st.ToID),
			Value:   st.Value,
			Method:  st.Method,
			Data:    st.Data,
		},
		V: st.V,
		R: st.R,
		S: st.S,
	}
}

func toReceipt(r database.Receipt, lookup func(database.AccountID) string) receipt {
	fromID := database.AccountID(r.FromID)

	value := "0"
	if r.Value != nil {
		value = r.Value.String()
	}

	return receipt{
		Number:    r.Number,
		Hash:      r.Hash,
		FromID:    fromID,
		FromName:  lookup(fromID),
		ToID:      r.ToID,
		ToName:    lookup(r.ToID),
		Nonce:     r.Nonce,
		Value:     value,
		Method:    r.Method,
		Data:      string(r.Data),
		GasPrice:  r.GasPrice,
		GasUnits:  r.GasUnits,
		GasCost:   r.GasCost().String(),
		Status:    r.Status,
		Error:     r.Error,
		TimeStamp: r.TimeStamp,
		Sig:       r.SignatureString(),
	}
}
