package commands

import (
	"fmt"
	"io"

	"github.com/ardanlabs/fundme/foundation/blockchain/database"
	"github.com/ardanlabs/fundme/foundation/blockchain/genesis"
	"github.com/ardanlabs/fundme/foundation/blockchain/state"
	"github.com/ardanlabs/fundme/foundation/nameservice"
	"go.uber.org/zap"
)

// LedgerConfig carries the values the node was started with so the replay
// reproduces the same state.
type LedgerConfig struct {
	Beneficiary string
	GenesisPath string
}

// Ledger replays the receipt log into a fresh state and writes the fund me
// ledger that results.
func Ledger(w io.Writer, log *zap.SugaredLogger, cfg LedgerConfig, ns *nameservice.NameService, storage database.Serializer) error {
	gen, err := genesis.Load(cfg.GenesisPath)
	if err != nil {
		return err
	}

	beneficiaryID, err := ns.Resolve(cfg.Beneficiary)
	if err != nil {
		return err
	}

	ev := func(v string, args ...any) {
		log.Debugw(fmt.Sprintf(v, args...))
	}

	st, err := state.New(state.Config{
		BeneficiaryID: beneficiaryID,
		Genesis:       gen,
		Storage:       storage,
		EvHandler:     ev,
	})
	if err != nil {
		return err
	}

	owner := st.RetrieveOwner()
	balance := st.QueryContractBalance()

	fmt.Fprintf(w, "Receipts:  %d\n", st.RetrieveLatestNumber())
	fmt.Fprintf(w, "FundMe:    %s\n", st.RetrieveFundMe())
	fmt.Fprintf(w, "PriceFeed: %s\n", st.RetrievePriceFeed())
	fmt.Fprintf(w, "Owner:     %s (%s)\n", ns.Lookup(owner), owner)
	fmt.Fprintf(w, "Balance:   %s ETH\n\n", database.FormatEther(balance))

	for i, funderID := range st.QueryFunders() {
		fmt.Fprintf(w, "Funder[%d]: %s  Contribution: %s ETH\n", i, ns.Lookup(funderID), database.FormatEther(st.QueryContribution(funderID)))
	}

	return nil
}
