package cmd

import (
	"log"
	"math/big"

	"github.com/ardanlabs/fundme/foundation/blockchain/database"
	"github.com/spf13/cobra"
)

var cheaper bool

var withdrawCmd = &cobra.Command{
	Use:   "withdraw",
	Short: "Withdraw the contract balance to the owner",
	Run:   withdrawRun,
}

func init() {
	rootCmd.AddCommand(withdrawCmd)
	withdrawCmd.Flags().BoolVarP(&cheaper, "cheaper", "c", false, "Use the withdraw that reads the funders once.")
}

func withdrawRun(cmd *cobra.Command, args []string) {
	c, err := fundMeContract()
	if err != nil {
		log.Fatal(err)
	}

	method := database.MethodWithdraw
	if cheaper {
		method = database.MethodCheaperWithdraw
	}

	if err := submit(c.Contract, new(big.Int), method, nil); err != nil {
		log.Fatal(err)
	}
}
