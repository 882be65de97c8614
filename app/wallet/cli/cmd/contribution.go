package cmd

import (
	"fmt"
	"log"

	"github.com/ardanlabs/fundme/foundation/blockchain/database"
	"github.com/spf13/cobra"
)

var contributor string

var contributionCmd = &cobra.Command{
	Use:   "contribution",
	Short: "Show the amount an account funded since the last withdrawal",
	Run:   contributionRun,
}

func init() {
	rootCmd.AddCommand(contributionCmd)
	contributionCmd.Flags().StringVarP(&contributor, "of", "o", "", "Account or name to look up, the wallet account when not set.")
}

func contributionRun(cmd *cobra.Command, args []string) {
	accountID := database.AccountID(contributor)
	if contributor == "" {
		var err error
		if _, accountID, err = loadAccount(); err != nil {
			log.Fatal(err)
		}
	}

	var c struct {
		Account      string `json:"account"`
		Name         string `json:"name"`
		Contribution string `json:"contribution"`
		Ether        string `json:"ether"`
	}
	if err := get(fmt.Sprintf("/v1/fundme/contributions/%s", accountID), &c); err != nil {
		log.Fatal(err)
	}

	fmt.Printf("%s (%s) contributed %s ETH (%s wei)\n", c.Name, c.Account, c.Ether, c.Contribution)
}
