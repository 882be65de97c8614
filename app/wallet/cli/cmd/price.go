package cmd

import (
	"fmt"
	"log"
	"math/big"

	"github.com/ardanlabs/fundme/foundation/blockchain/database"
	"github.com/spf13/cobra"
)

var answer string

var priceCmd = &cobra.Command{
	Use:   "price",
	Short: "Show the price feed or report a new answer",
	Run:   priceRun,
}

func init() {
	rootCmd.AddCommand(priceCmd)
	priceCmd.Flags().StringVarP(&answer, "answer", "n", "", "New answer scaled by the feed decimals.")
}

func priceRun(cmd *cobra.Command, args []string) {
	var pf priceFeed
	if err := get("/v1/fundme/pricefeed", &pf); err != nil {
		log.Fatal(err)
	}

	if answer == "" {
		fmt.Printf("feed %s round %d answer %s (%d decimals) %s USD/ETH\n", pf.Address, pf.RoundID, pf.Answer, pf.Decimals, pf.PriceUSD)
		return
	}

	if _, ok := new(big.Int).SetString(answer, 10); !ok {
		log.Fatalf("invalid answer %q", answer)
	}

	if err := submit(pf.Address, new(big.Int), database.MethodUpdateAnswer, []byte(answer)); err != nil {
		log.Fatal(err)
	}
}
