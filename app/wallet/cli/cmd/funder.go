package cmd

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/spf13/cobra"
)

var index int

var funderCmd = &cobra.Command{
	Use:   "funder",
	Short: "Show the funders of the contract",
	Run:   funderRun,
}

func init() {
	rootCmd.AddCommand(funderCmd)
	funderCmd.Flags().IntVarP(&index, "index", "i", -1, "Position of the funder, all funders when not set.")
}

func funderRun(cmd *cobra.Command, args []string) {
	path := "/v1/fundme/funders"
	if index >= 0 {
		path = fmt.Sprintf("%s/%d", path, index)
	}

	var funders json.RawMessage
	if err := get(path, &funders); err != nil {
		log.Fatal(err)
	}

	if err := printJSON(funders); err != nil {
		log.Fatal(err)
	}
}
