package cmd

import (
	"bytes"
	"crypto/ecdsa"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"os"
	"time"

	"github.com/ardanlabs/fundme/business/web/errs"
	"github.com/ardanlabs/fundme/foundation/blockchain/database"
	"github.com/ardanlabs/fundme/foundation/blockchain/genesis"
	"github.com/ethereum/go-ethereum/crypto"
)

var client = http.Client{Timeout: 10 * time.Second}

type accountInfo struct {
	Account database.AccountID `json:"account"`
	Name    string             `json:"name"`
	Balance string             `json:"balance"`
	Ether   string             `json:"ether"`
	Nonce   uint64             `json:"nonce"`
}

type accounts struct {
	LatestReceipt uint64        `json:"latest_receipt"`
	Accounts      []accountInfo `json:"accounts"`
}

type contracts struct {
	Contract database.AccountID `json:"contract"`
	Owner    database.AccountID `json:"owner"`
}

type priceFeed struct {
	Address  database.AccountID `json:"address"`
	Decimals uint8              `json:"decimals"`
	RoundID  uint64             `json:"round_id"`
	Answer   string             `json:"answer"`
	PriceUSD string             `json:"price_usd"`
}

// =============================================================================

// get performs a GET against the node and decodes the response into v.
func get(path string, v any) error {
	resp, err := client.Get(nodeURL + path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return decode(resp, v)
}

// decode reads a node response. Errors reported by the node are returned as
// go errors.
func decode(resp *http.Response, v any) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= http.StatusBadRequest {
		var er errs.Response
		if err := json.Unmarshal(body, &er); err != nil || er.Error == "" {
			return fmt.Errorf("node returned %s", resp.Status)
		}
		if len(er.Fields) > 0 {
			return fmt.Errorf("%s: %v", er.Error, er.Fields)
		}
		return errors.New(er.Error)
	}

	if resp.StatusCode == http.StatusNoContent || v == nil {
		return nil
	}

	return json.Unmarshal(body, v)
}

// loadAccount reads the private key of the wallet and returns the account.
func loadAccount() (*ecdsa.PrivateKey, database.AccountID, error) {
	privateKey, err := crypto.LoadECDSA(getPrivateKeyPath())
	if err != nil {
		return nil, "", err
	}

	return privateKey, database.PublicKeyToAccountID(privateKey.PublicKey), nil
}

// queryAccount returns the node's view of the account.
func queryAccount(accountID database.AccountID) (accountInfo, error) {
	var acts accounts
	if err := get(fmt.Sprintf("/v1/accounts/list/%s", accountID), &acts); err != nil {
		return accountInfo{}, err
	}

	if len(acts.Accounts) == 0 {
		return accountInfo{}, fmt.Errorf("account %s not found", accountID)
	}

	return acts.Accounts[0], nil
}

// fundMeContract returns the address and owner of the fund me contract.
func fundMeContract() (contracts, error) {
	var c contracts
	err := get("/v1/fundme/owner", &c)
	return c, err
}

// submit signs the transaction with the next nonce of the wallet account
// and sends it to the node. The receipt is printed.
func submit(toID database.AccountID, value *big.Int, method string, data []byte) error {
	privateKey, fromID, err := loadAccount()
	if err != nil {
		return err
	}

	var gen genesis.Genesis
	if err := get("/v1/genesis/list", &gen); err != nil {
		return err
	}

	act, err := queryAccount(fromID)
	if err != nil {
		return err
	}

	tx, err := database.NewTx(gen.ChainID, act.Nonce+1, toID, value, method, data)
	if err != nil {
		return err
	}

	signedTx, err := tx.Sign(privateKey)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(signedTx)
	if err != nil {
		return err
	}

	resp, err := client.Post(nodeURL+"/v1/tx/submit", "application/json", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var receipt json.RawMessage
	if err := decode(resp, &receipt); err != nil {
		return err
	}

	return printJSON(receipt)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
