package state_test

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/ardanlabs/fundme/foundation/blockchain/database"
	"github.com/ardanlabs/fundme/foundation/blockchain/fundme"
	"github.com/ardanlabs/fundme/foundation/blockchain/genesis"
	"github.com/ardanlabs/fundme/foundation/blockchain/state"
	"github.com/ardanlabs/fundme/foundation/blockchain/storage/memory"
	"github.com/ethereum/go-ethereum/crypto"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

const (
	chainID  = 1
	gasPrice = 15
	gasLimit = 1_000_000
)

// keys holds the accounts used by the tests. The owner deploys the
// contracts, the beneficiary collects the fees.
type keys struct {
	owner       *ecdsa.PrivateKey
	beneficiary *ecdsa.PrivateKey
	funders     []*ecdsa.PrivateKey
}

func newKeys(t *testing.T, funders int) keys {
	t.Helper()

	generate := func() *ecdsa.PrivateKey {
		pk, err := crypto.GenerateKey()
		if err != nil {
			t.Fatalf("\t%s\tShould be able to generate a key: %s", failed, err)
		}
		return pk
	}

	k := keys{
		owner:       generate(),
		beneficiary: generate(),
	}
	for range funders {
		k.funders = append(k.funders, generate())
	}

	return k
}

func id(pk *ecdsa.PrivateKey) database.AccountID {
	return database.PublicKeyToAccountID(pk.PublicKey)
}

func ether(t *testing.T, amount string) *big.Int {
	t.Helper()

	wei, err := database.ParseEther(amount)
	if err != nil {
		t.Fatalf("\t%s\tShould be able to parse %q: %s", failed, amount, err)
	}
	return wei
}

func newGenesis(t *testing.T, k keys, limit uint64) genesis.Genesis {
	t.Helper()

	balances := map[string]*big.Int{
		id(k.owner).String(): ether(t, "100"),
	}
	for _, pk := range k.funders {
		balances[id(pk).String()] = ether(t, "100")
	}

	return genesis.Genesis{
		Date:     time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		ChainID:  chainID,
		GasPrice: gasPrice,
		GasLimit: limit,
		Deployer: id(k.owner).String(),
		PriceFeed: genesis.PriceFeed{
			Decimals:      8,
			InitialAnswer: big.NewInt(2000_00000000),
		},
		Balances: balances,
	}
}

func newState(t *testing.T, k keys, gen genesis.Genesis, strg database.Serializer) *state.State {
	t.Helper()

	if strg == nil {
		var err error
		if strg, err = memory.New(); err != nil {
			t.Fatalf("\t%s\tShould be able to construct storage: %s", failed, err)
		}
	}

	st, err := state.New(state.Config{
		BeneficiaryID: id(k.beneficiary),
		Genesis:       gen,
		Storage:       strg,
	})
	if err != nil {
		t.Fatalf("\t%s\tShould be able to construct the state: %s", failed, err)
	}

	return st
}

func signTx(t *testing.T, st *state.State, pk *ecdsa.PrivateKey, to database.AccountID, value *big.Int, method string, data []byte) database.SignedTx {
	t.Helper()

	nonce := st.QueryAccount(id(pk)).Nonce + 1

	tx, err := database.NewTx(chainID, nonce, to, value, method, data)
	if err != nil {
		t.Fatalf("\t%s\tShould be able to construct the transaction: %s", failed, err)
	}

	signedTx, err := tx.Sign(pk)
	if err != nil {
		t.Fatalf("\t%s\tShould be able to sign the transaction: %s", failed, err)
	}

	return signedTx
}

func submit(t *testing.T, st *state.State, pk *ecdsa.PrivateKey, to database.AccountID, value *big.Int, method string) database.Receipt {
	t.Helper()

	receipt, err := st.SubmitTx(context.Background(), signTx(t, st, pk, to, value, method, nil))
	if err != nil {
		t.Fatalf("\t%s\tShould be able to submit %q: %s", failed, method, err)
	}

	return receipt
}

// =============================================================================

func Test_Deploy(t *testing.T) {
	t.Log("Given the need to deploy the contracts at startup.")
	{
		k := newKeys(t, 0)
		st := newState(t, k, newGenesis(t, k, gasLimit), nil)

		if st.RetrieveOwner() != id(k.owner) {
			t.Fatalf("\t%s\tShould make the deployer the owner: got %s", failed, st.RetrieveOwner())
		}
		t.Logf("\t%s\tShould make the deployer the owner.", success)

		if exp := database.ContractAccountID(id(k.owner), 1); st.RetrievePriceFeed() != exp {
			t.Fatalf("\t%s\tShould deploy the price feed at %s: got %s", failed, exp, st.RetrievePriceFeed())
		}
		t.Logf("\t%s\tShould deploy the price feed from the deployer.", success)

		if exp := database.ContractAccountID(id(k.owner), 2); st.RetrieveFundMe() != exp {
			t.Fatalf("\t%s\tShould deploy fund me at %s: got %s", failed, exp, st.RetrieveFundMe())
		}
		t.Logf("\t%s\tShould deploy fund me from the deployer.", success)

		if st.QueryAccount(id(k.owner)).Nonce != 2 {
			t.Fatalf("\t%s\tShould consume the deployer nonces: got %d", failed, st.QueryAccount(id(k.owner)).Nonce)
		}
		t.Logf("\t%s\tShould consume the deployer nonces.", success)

		price, err := st.QueryPrice(context.Background())
		if err != nil || price.Cmp(ether(t, "2000")) != 0 {
			t.Fatalf("\t%s\tShould report the genesis price: got %v, %v", failed, price, err)
		}
		t.Logf("\t%s\tShould report the genesis price.", success)
	}
}

func Test_SingleFunder(t *testing.T) {
	t.Log("Given the need to fund and withdraw with a single funder.")
	{
		k := newKeys(t, 1)
		st := newState(t, k, newGenesis(t, k, gasLimit), nil)
		fundMe := st.RetrieveFundMe()
		funder := k.funders[0]

		receipt := submit(t, st, funder, fundMe, ether(t, "1"), database.MethodFund)
		if !receipt.Succeeded() {
			t.Fatalf("\t%s\tShould be able to fund: %s", failed, receipt.Error)
		}
		t.Logf("\t%s\tShould be able to fund.", success)

		if got := st.QueryContribution(id(funder)); got.Cmp(ether(t, "1")) != 0 {
			t.Fatalf("\t%s\tShould record the exact contribution: got %s", failed, got)
		}
		t.Logf("\t%s\tShould record the exact contribution.", success)

		exp := new(big.Int).Sub(ether(t, "99"), receipt.GasCost())
		if got := st.QueryAccount(id(funder)).Balance; got.Cmp(exp) != 0 {
			t.Fatalf("\t%s\tShould charge the funder the value and the gas: got %s, exp %s", failed, got, exp)
		}
		t.Logf("\t%s\tShould charge the funder the value and the gas.", success)

		ownerBefore := st.QueryAccount(id(k.owner)).Balance
		contractBefore := st.QueryContractBalance()

		receipt = submit(t, st, k.owner, fundMe, nil, database.MethodWithdraw)
		if !receipt.Succeeded() {
			t.Fatalf("\t%s\tShould be able to withdraw: %s", failed, receipt.Error)
		}
		t.Logf("\t%s\tShould be able to withdraw.", success)

		exp = new(big.Int).Add(ownerBefore, contractBefore)
		exp.Sub(exp, receipt.GasCost())
		if got := st.QueryAccount(id(k.owner)).Balance; got.Cmp(exp) != 0 {
			t.Fatalf("\t%s\tShould credit the owner the balance less the gas cost: got %s, exp %s", failed, got, exp)
		}
		t.Logf("\t%s\tShould credit the owner the balance less the gas cost.", success)

		if st.QueryContractBalance().Sign() != 0 {
			t.Fatalf("\t%s\tShould empty the contract.", failed)
		}
		t.Logf("\t%s\tShould empty the contract.", success)
	}
}

// result is the observable outcome of funding with five funders and
// withdrawing.
type result struct {
	contract      *big.Int
	contributions []*big.Int
	balances      []*big.Int
	funderErr     error
	ownerGain     *big.Int
	gasUnits      uint64
	gasCost       *big.Int
}

func runFiveFunders(t *testing.T, k keys, method string) result {
	t.Helper()

	st := newState(t, k, newGenesis(t, k, gasLimit), nil)
	fundMe := st.RetrieveFundMe()

	for _, pk := range k.funders {
		if receipt := submit(t, st, pk, fundMe, ether(t, "1"), database.MethodFund); !receipt.Succeeded() {
			t.Fatalf("\t%s\tShould be able to fund: %s", failed, receipt.Error)
		}
	}

	ownerBefore := st.QueryAccount(id(k.owner)).Balance

	receipt := submit(t, st, k.owner, fundMe, nil, method)
	if !receipt.Succeeded() {
		t.Fatalf("\t%s\tShould be able to %s: %s", failed, method, receipt.Error)
	}

	res := result{
		contract:  st.QueryContractBalance(),
		ownerGain: new(big.Int).Sub(st.QueryAccount(id(k.owner)).Balance, ownerBefore),
		gasUnits:  receipt.GasUnits,
		gasCost:   receipt.GasCost(),
	}
	for _, pk := range k.funders {
		res.contributions = append(res.contributions, st.QueryContribution(id(pk)))
		res.balances = append(res.balances, st.QueryAccount(id(pk)).Balance)
	}
	_, res.funderErr = st.QueryFunder(0)

	return res
}

func Test_FiveFunders(t *testing.T) {
	t.Log("Given the need to withdraw from five funders with both withdraw methods.")
	{
		k := newKeys(t, 5)

		standard := runFiveFunders(t, k, database.MethodWithdraw)
		cheaper := runFiveFunders(t, k, database.MethodCheaperWithdraw)

		for _, tst := range []struct {
			name string
			res  result
		}{
			{name: database.MethodWithdraw, res: standard},
			{name: database.MethodCheaperWithdraw, res: cheaper},
		} {
			f := func(t *testing.T) {
				if tst.res.contract.Sign() != 0 {
					t.Fatalf("\t%s\tShould empty the contract: got %s", failed, tst.res.contract)
				}
				t.Logf("\t%s\tShould empty the contract.", success)

				for i, c := range tst.res.contributions {
					if c.Sign() != 0 {
						t.Fatalf("\t%s\tShould reset the contribution of funder %d: got %s", failed, i, c)
					}
				}
				t.Logf("\t%s\tShould reset every contribution.", success)

				if !errors.Is(tst.res.funderErr, fundme.ErrIndexOutOfRange) {
					t.Fatalf("\t%s\tShould fail to read funder 0: %v", failed, tst.res.funderErr)
				}
				t.Logf("\t%s\tShould fail to read funder 0.", success)

				exp := new(big.Int).Sub(ether(t, "5"), tst.res.gasCost)
				if tst.res.ownerGain.Cmp(exp) != 0 {
					t.Fatalf("\t%s\tShould credit the owner 5 ether less the gas cost: got %s, exp %s", failed, tst.res.ownerGain, exp)
				}
				t.Logf("\t%s\tShould credit the owner 5 ether less the gas cost.", success)
			}

			t.Run(tst.name, f)
		}

		for i := range standard.balances {
			if standard.balances[i].Cmp(cheaper.balances[i]) != 0 {
				t.Fatalf("\t%s\tShould leave identical funder balances: %s/%s", failed, standard.balances[i], cheaper.balances[i])
			}
		}
		t.Logf("\t%s\tShould leave identical funder balances.", success)

		if cheaper.gasUnits >= standard.gasUnits {
			t.Fatalf("\t%s\tShould use less gas with cheaperWithdraw: %d/%d", failed, standard.gasUnits, cheaper.gasUnits)
		}
		t.Logf("\t%s\tShould use less gas with cheaperWithdraw: %d/%d", success, standard.gasUnits, cheaper.gasUnits)
	}
}

func Test_Rejected(t *testing.T) {
	t.Log("Given the need to reject transactions without a receipt.")
	{
		k := newKeys(t, 1)
		st := newState(t, k, newGenesis(t, k, gasLimit), nil)
		fundMe := st.RetrieveFundMe()
		funder := k.funders[0]
		ctx := context.Background()

		t.Logf("\tTest 0:\tWhen the nonce was already used.")
		{
			submit(t, st, funder, fundMe, ether(t, "1"), database.MethodFund)

			tx, err := database.NewTx(chainID, 1, fundMe, ether(t, "1"), database.MethodFund, nil)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to construct the transaction: %s", failed, err)
			}
			signedTx, err := tx.Sign(funder)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to sign the transaction: %s", failed, err)
			}

			if _, err := st.SubmitTx(ctx, signedTx); err == nil {
				t.Fatalf("\t%s\tTest 0:\tShould reject the transaction.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould reject the transaction.", success)
		}

		t.Logf("\tTest 1:\tWhen the transaction is for another chain.")
		{
			tx, err := database.NewTx(chainID+1, 10, fundMe, ether(t, "1"), database.MethodFund, nil)
			if err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to construct the transaction: %s", failed, err)
			}
			signedTx, err := tx.Sign(funder)
			if err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to sign the transaction: %s", failed, err)
			}

			if _, err := st.SubmitTx(ctx, signedTx); err == nil {
				t.Fatalf("\t%s\tTest 1:\tShould reject the transaction.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould reject the transaction.", success)
		}

		t.Logf("\tTest 2:\tWhen the sender can't afford the value and the gas.")
		{
			before := st.QueryAccount(id(funder))

			_, err := st.SubmitTx(ctx, signTx(t, st, funder, fundMe, ether(t, "99"), database.MethodFund, nil))
			if err == nil {
				t.Fatalf("\t%s\tTest 2:\tShould reject the transaction.", failed)
			}
			t.Logf("\t%s\tTest 2:\tShould reject the transaction.", success)

			after := st.QueryAccount(id(funder))
			if after.Nonce != before.Nonce || after.Balance.Cmp(before.Balance) != 0 {
				t.Fatalf("\t%s\tTest 2:\tShould not charge the sender or use the nonce.", failed)
			}
			t.Logf("\t%s\tTest 2:\tShould not charge the sender or use the nonce.", success)
		}

		if st.RetrieveLatestNumber() != 1 {
			t.Fatalf("\t%s\tShould only have the receipt of the accepted transaction: got %d", failed, st.RetrieveLatestNumber())
		}
		t.Logf("\t%s\tShould only have the receipt of the accepted transaction.", success)
	}
}

func Test_Reverted(t *testing.T) {
	type table struct {
		name   string
		sender func(k keys) *ecdsa.PrivateKey
		value  string
		method string
		err    string
	}

	tt := []table{
		{name: "below-minimum", sender: func(k keys) *ecdsa.PrivateKey { return k.funders[0] }, value: "0.02", method: database.MethodFund, err: "insufficient contribution"},
		{name: "not-owner", sender: func(k keys) *ecdsa.PrivateKey { return k.funders[0] }, value: "0", method: database.MethodWithdraw, err: "not owner"},
		{name: "not-payable", sender: func(k keys) *ecdsa.PrivateKey { return k.owner }, value: "1", method: database.MethodCheaperWithdraw, err: "not payable"},
		{name: "unknown-method", sender: func(k keys) *ecdsa.PrivateKey { return k.owner }, value: "0", method: "selfdestruct", err: "unknown method"},
	}

	t.Log("Given the need to charge gas for transactions that revert.")
	{
		for testID, tst := range tt {
			f := func(t *testing.T) {
				k := newKeys(t, 2)
				st := newState(t, k, newGenesis(t, k, gasLimit), nil)
				fundMe := st.RetrieveFundMe()

				submit(t, st, k.funders[1], fundMe, ether(t, "1"), database.MethodFund)

				sender := tst.sender(k)
				before := st.QueryAccount(id(sender))
				funders := st.QueryFunders()

				receipt := submit(t, st, sender, fundMe, ether(t, tst.value), tst.method)
				if receipt.Succeeded() || !strings.Contains(receipt.Error, tst.err) {
					t.Fatalf("\t%s\tTest %d:\tShould revert with %q: status[%d] error[%s]", failed, testID, tst.err, receipt.Status, receipt.Error)
				}
				t.Logf("\t%s\tTest %d:\tShould revert with %q.", success, testID, tst.err)

				after := st.QueryAccount(id(sender))
				exp := new(big.Int).Sub(before.Balance, receipt.GasCost())
				if after.Balance.Cmp(exp) != 0 {
					t.Fatalf("\t%s\tTest %d:\tShould only charge the gas: got %s, exp %s", failed, testID, after.Balance, exp)
				}
				t.Logf("\t%s\tTest %d:\tShould only charge the gas.", success, testID)

				if after.Nonce != before.Nonce+1 {
					t.Fatalf("\t%s\tTest %d:\tShould use the nonce: got %d", failed, testID, after.Nonce)
				}
				t.Logf("\t%s\tTest %d:\tShould use the nonce.", success, testID)

				if len(st.QueryFunders()) != len(funders) || st.QueryContractBalance().Cmp(ether(t, "1")) != 0 {
					t.Fatalf("\t%s\tTest %d:\tShould leave the ledger unchanged.", failed, testID)
				}
				t.Logf("\t%s\tTest %d:\tShould leave the ledger unchanged.", success, testID)

				if st.QueryAccount(id(k.beneficiary)).Balance.Cmp(new(big.Int).SetUint64(0)) <= 0 {
					t.Fatalf("\t%s\tTest %d:\tShould pay the beneficiary.", failed, testID)
				}
				t.Logf("\t%s\tTest %d:\tShould pay the beneficiary.", success, testID)
			}

			t.Run(tst.name, f)
		}
	}
}

func Test_OutOfGas(t *testing.T) {
	t.Log("Given the need to revert a transaction that runs out of gas.")
	{
		k := newKeys(t, 1)
		st := newState(t, k, newGenesis(t, k, 30_000), nil)
		funder := k.funders[0]

		receipt := submit(t, st, funder, st.RetrieveFundMe(), ether(t, "1"), database.MethodFund)
		if receipt.Succeeded() || !strings.Contains(receipt.Error, "out of gas") {
			t.Fatalf("\t%s\tShould revert with out of gas: %s", failed, receipt.Error)
		}
		t.Logf("\t%s\tShould revert with out of gas.", success)

		if receipt.GasUnits != 30_000 {
			t.Fatalf("\t%s\tShould charge the whole gas limit: got %d", failed, receipt.GasUnits)
		}
		t.Logf("\t%s\tShould charge the whole gas limit.", success)

		if st.QueryContribution(id(funder)).Sign() != 0 || st.QueryContractBalance().Sign() != 0 {
			t.Fatalf("\t%s\tShould leave the ledger unchanged.", failed)
		}
		t.Logf("\t%s\tShould leave the ledger unchanged.", success)
	}
}

func Test_TransferRejected(t *testing.T) {
	t.Log("Given the need to revert a withdraw the owner rejects.")
	{
		k := newKeys(t, 3)
		st := newState(t, k, newGenesis(t, k, gasLimit), nil)
		fundMe := st.RetrieveFundMe()

		for _, pk := range k.funders {
			submit(t, st, pk, fundMe, ether(t, "1"), database.MethodFund)
		}

		st.RegisterReceiver(id(k.owner), func(ctx context.Context, from database.AccountID, value *big.Int) error {
			return errors.New("owner can't receive")
		})

		for _, method := range []string{database.MethodWithdraw, database.MethodCheaperWithdraw} {
			receipt := submit(t, st, k.owner, fundMe, nil, method)
			if receipt.Succeeded() || !strings.Contains(receipt.Error, "transfer failed") {
				t.Fatalf("\t%s\tShould revert %s with transfer failed: %s", failed, method, receipt.Error)
			}
			t.Logf("\t%s\tShould revert %s with transfer failed.", success, method)

			if len(st.QueryFunders()) != 3 || st.QueryContractBalance().Cmp(ether(t, "3")) != 0 {
				t.Fatalf("\t%s\tShould restore the ledger after %s.", failed, method)
			}
			t.Logf("\t%s\tShould restore the ledger after %s.", success, method)

			for _, pk := range k.funders {
				if st.QueryContribution(id(pk)).Cmp(ether(t, "1")) != 0 {
					t.Fatalf("\t%s\tShould restore the contributions after %s.", failed, method)
				}
			}
			t.Logf("\t%s\tShould restore the contributions after %s.", success, method)
		}
	}
}

func Test_UpdateAnswer(t *testing.T) {
	t.Log("Given the need to change the price reported by the mock feed.")
	{
		k := newKeys(t, 1)
		st := newState(t, k, newGenesis(t, k, gasLimit), nil)
		funder := k.funders[0]
		ctx := context.Background()

		signedTx := signTx(t, st, k.owner, st.RetrievePriceFeed(), nil, database.MethodUpdateAnswer, []byte("100000000000"))
		receipt, err := st.SubmitTx(ctx, signedTx)
		if err != nil || !receipt.Succeeded() {
			t.Fatalf("\t%s\tShould be able to update the answer: %v %s", failed, err, receipt.Error)
		}
		t.Logf("\t%s\tShould be able to update the answer.", success)

		round, err := st.QueryLatestRound(ctx)
		if err != nil || round.RoundID != 2 || round.Answer.Cmp(big.NewInt(1000_00000000)) != 0 {
			t.Fatalf("\t%s\tShould start a new round: %+v %v", failed, round, err)
		}
		t.Logf("\t%s\tShould start a new round.", success)

		receipt = submit(t, st, funder, st.RetrieveFundMe(), ether(t, "0.03"), database.MethodFund)
		if receipt.Succeeded() {
			t.Fatalf("\t%s\tShould reject 0.03 ether at 1000 USD.", failed)
		}
		t.Logf("\t%s\tShould reject 0.03 ether at 1000 USD.", success)

		receipt = submit(t, st, funder, st.RetrieveFundMe(), ether(t, "0.05"), "")
		if !receipt.Succeeded() {
			t.Fatalf("\t%s\tShould route a plain transfer to fund: %s", failed, receipt.Error)
		}
		t.Logf("\t%s\tShould route a plain transfer to fund.", success)
	}
}

func Test_Replay(t *testing.T) {
	t.Log("Given the need to rebuild the state from the receipt log.")
	{
		k := newKeys(t, 3)
		gen := newGenesis(t, k, gasLimit)

		strg, err := memory.New()
		if err != nil {
			t.Fatalf("\t%s\tShould be able to construct storage: %s", failed, err)
		}

		st := newState(t, k, gen, strg)
		fundMe := st.RetrieveFundMe()
		ctx := context.Background()

		submit(t, st, k.funders[0], fundMe, ether(t, "1"), database.MethodFund)
		submit(t, st, k.funders[1], fundMe, ether(t, "0.01"), database.MethodFund)
		submit(t, st, k.owner, fundMe, nil, database.MethodWithdraw)
		if _, err := st.SubmitTx(ctx, signTx(t, st, k.owner, st.RetrievePriceFeed(), nil, database.MethodUpdateAnswer, []byte("300000000000"))); err != nil {
			t.Fatalf("\t%s\tShould be able to update the answer: %s", failed, err)
		}
		submit(t, st, k.funders[2], fundMe, ether(t, "2"), database.MethodFund)

		replayed := newState(t, k, gen, strg)

		if replayed.RetrieveLatestNumber() != st.RetrieveLatestNumber() {
			t.Fatalf("\t%s\tShould replay every receipt: got %d, exp %d", failed, replayed.RetrieveLatestNumber(), st.RetrieveLatestNumber())
		}
		t.Logf("\t%s\tShould replay every receipt.", success)

		exp := st.RetrieveAccounts()
		got := replayed.RetrieveAccounts()
		if len(got) != len(exp) {
			t.Fatalf("\t%s\tShould rebuild the same accounts: got %d, exp %d", failed, len(got), len(exp))
		}
		for accountID, info := range exp {
			if got[accountID].Balance.Cmp(info.Balance) != 0 || got[accountID].Nonce != info.Nonce {
				t.Fatalf("\t%s\tShould rebuild account %s: got %+v, exp %+v", failed, accountID, got[accountID], info)
			}
		}
		t.Logf("\t%s\tShould rebuild the same accounts.", success)

		if replayed.QueryContribution(id(k.funders[2])).Cmp(ether(t, "2")) != 0 || len(replayed.QueryFunders()) != 1 {
			t.Fatalf("\t%s\tShould rebuild the ledger.", failed)
		}
		t.Logf("\t%s\tShould rebuild the ledger.", success)

		price, err := replayed.QueryPrice(ctx)
		if err != nil || price.Cmp(ether(t, "3000")) != 0 {
			t.Fatalf("\t%s\tShould rebuild the price feed: got %v %v", failed, price, err)
		}
		t.Logf("\t%s\tShould rebuild the price feed.", success)

		receipts, err := replayed.QueryReceipts(id(k.funders[1]))
		if err != nil || len(receipts) != 1 || receipts[0].Succeeded() {
			t.Fatalf("\t%s\tShould find the reverted receipt of the funder: %d %v", failed, len(receipts), err)
		}
		t.Logf("\t%s\tShould find the reverted receipt of the funder.", success)

		if err := replayed.Reset(); err != nil {
			t.Fatalf("\t%s\tShould be able to reset: %s", failed, err)
		}
		if replayed.RetrieveLatestNumber() != 0 || replayed.QueryContractBalance().Sign() != 0 {
			t.Fatalf("\t%s\tShould reset back to genesis.", failed)
		}
		t.Logf("\t%s\tShould reset back to genesis.", success)
	}
}
