package cmd

import (
	"log"

	"github.com/ardanlabs/fundme/foundation/blockchain/database"
	"github.com/spf13/cobra"
)

var fundValue string

var fundCmd = &cobra.Command{
	Use:   "fund",
	Short: "Fund the fund me contract",
	Run:   fundRun,
}

func init() {
	rootCmd.AddCommand(fundCmd)
	fundCmd.Flags().StringVarP(&fundValue, "value", "v", "0.1", "Value in ether to fund.")
}

func fundRun(cmd *cobra.Command, args []string) {
	wei, err := database.ParseEther(fundValue)
	if err != nil {
		log.Fatal(err)
	}

	c, err := fundMeContract()
	if err != nil {
		log.Fatal(err)
	}

	if err := submit(c.Contract, wei, database.MethodFund, nil); err != nil {
		log.Fatal(err)
	}
}
