package cmd

import (
	"log"

	"github.com/ardanlabs/fundme/foundation/blockchain/database"
	"github.com/spf13/cobra"
)

var (
	to    string
	value string
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send value to another account",
	Run:   sendRun,
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().StringVarP(&to, "to", "t", "", "Account receiving the value.")
	sendCmd.Flags().StringVarP(&value, "value", "v", "0", "Value in ether to send.")
	sendCmd.MarkFlagRequired("to")
}

func sendRun(cmd *cobra.Command, args []string) {
	toID, err := database.ToAccountID(to)
	if err != nil {
		log.Fatal(err)
	}

	wei, err := database.ParseEther(value)
	if err != nil {
		log.Fatal(err)
	}

	if err := submit(toID, wei, "", nil); err != nil {
		log.Fatal(err)
	}
}
