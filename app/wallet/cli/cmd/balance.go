package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
)

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Print your balance.",
	Run:   balanceRun,
}

func init() {
	rootCmd.AddCommand(balanceCmd)
}

func balanceRun(cmd *cobra.Command, args []string) {
	_, accountID, err := loadAccount()
	if err != nil {
		log.Fatal(err)
	}

	act, err := queryAccount(accountID)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("For Account:", accountID)
	fmt.Printf("%s ETH (%s wei) nonce %d\n", act.Ether, act.Balance, act.Nonce)
}
