// Package genesis maintains access to the genesis file.
package genesis

import (
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"time"
)

// Genesis represents the genesis file.
type Genesis struct {
	Date      time.Time           `json:"date"`
	ChainID   uint16              `json:"chain_id"`   // The chain id represents an unique id for this running instance.
	GasPrice  uint64              `json:"gas_price"`  // Wei paid for each unit of gas used by a transaction.
	GasLimit  uint64              `json:"gas_limit"`  // Maximum units of gas a single transaction can use.
	Deployer  string              `json:"deployer"`   // Account that deploys the contracts and owns the fund me ledger.
	PriceFeed PriceFeed           `json:"price_feed"` // Starting configuration of the mock price feed.
	Balances  map[string]*big.Int `json:"balances"`   // Starting balances in wei.
}

// PriceFeed represents the configuration of the mock aggregator deployed
// with the chain.
type PriceFeed struct {
	Decimals      uint8    `json:"decimals"`       // Number of decimals the answer is scaled by.
	InitialAnswer *big.Int `json:"initial_answer"` // USD price of one ether scaled by decimals.
}

// =============================================================================

// Load opens and consumes the genesis file.
func Load(path string) (Genesis, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Genesis{}, err
	}

	var genesis Genesis
	if err := json.Unmarshal(content, &genesis); err != nil {
		return Genesis{}, fmt.Errorf("decoding genesis: %w", err)
	}

	if err := genesis.Validate(); err != nil {
		return Genesis{}, err
	}

	return genesis, nil
}

// Validate checks the genesis values are usable.
func (g Genesis) Validate() error {
	if g.ChainID == 0 {
		return fmt.Errorf("genesis: chain id must be set")
	}

	if g.GasLimit == 0 {
		return fmt.Errorf("genesis: gas limit must be set")
	}

	if g.Deployer == "" {
		return fmt.Errorf("genesis: deployer must be set")
	}

	if g.PriceFeed.InitialAnswer == nil || g.PriceFeed.InitialAnswer.Sign() <= 0 {
		return fmt.Errorf("genesis: price feed initial answer must be positive")
	}

	return nil
}
