package commands

import (
	"errors"
	"fmt"
	"io"

	"github.com/ardanlabs/fundme/foundation/blockchain/database"
	"github.com/ardanlabs/fundme/foundation/nameservice"
)

// Receipts writes the persisted receipt log. When an account is provided
// only the receipts sent from or to it are written.
func Receipts(w io.Writer, account string, ns *nameservice.NameService, storage database.Serializer) error {
	var accountID database.AccountID
	if account != "" {
		var err error
		if accountID, err = ns.Resolve(account); err != nil {
			return err
		}
	}

	iter := storage.ForEach()
	for !iter.Done() {
		receipt, err := iter.Next()
		if err != nil {
			if errors.Is(err, database.ErrEndOfChain) {
				break
			}
			return err
		}

		fromID := database.AccountID(receipt.FromID)
		if accountID != "" && fromID != accountID && receipt.ToID != accountID {
			continue
		}

		status := "success"
		if !receipt.Succeeded() {
			status = "reverted: " + receipt.Error
		}

		fmt.Fprintf(w, "#%d  From: %s  To: %s  Method: %q  Value: %s ETH  Gas: %d  Fee: %s ETH  Status: %s\n",
			receipt.Number, ns.Lookup(fromID), ns.Lookup(receipt.ToID), receipt.Method,
			database.FormatEther(receipt.Value), receipt.GasUnits, database.FormatEther(receipt.GasCost()), status)
	}

	return nil
}
