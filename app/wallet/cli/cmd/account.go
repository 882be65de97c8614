package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
)

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Print the account of the wallet key and its role on the node",
	Run:   accountRun,
}

var offline bool

func init() {
	rootCmd.AddCommand(accountCmd)
	accountCmd.Flags().BoolVarP(&offline, "offline", "o", false, "Only print the account, don't ask the node.")
}

func accountRun(cmd *cobra.Command, args []string) {
	_, accountID, err := loadAccount()
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(accountID)
	if offline {
		return
	}

	c, err := fundMeContract()
	if err != nil {
		log.Fatal(err)
	}

	if c.Owner == accountID {
		fmt.Printf("owner of fund me contract %s\n", c.Contract)
	}
}
