package storage_test

import (
	"errors"
	"fmt"
	"math/big"
	"path/filepath"
	"testing"
	"time"

	"github.com/ardanlabs/fundme/foundation/blockchain/database"
	"github.com/ardanlabs/fundme/foundation/blockchain/storage/disk"
	"github.com/ardanlabs/fundme/foundation/blockchain/storage/leveldb"
	"github.com/ardanlabs/fundme/foundation/blockchain/storage/memory"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func receipt(num uint64, status uint8) database.Receipt {
	tx := database.SignedTx{
		Tx: database.Tx{
			ChainID: 1,
			Nonce:   num,
			ToID:    "0xe7f1725E7734CE288F8367e1Bb143E90bb3F0512",
			Value:   big.NewInt(int64(num) * 1000),
			Method:  database.MethodFund,
		},
	}

	r := database.NewReceipt(tx, num, time.Date(2026, 1, 1, 0, 0, int(num), 0, time.UTC), 15)
	r.GasUnits = 21_000
	r.Status = status
	r.Hash = fmt.Sprintf("0x%064x", num)
	return r
}

func Test_Serializers(t *testing.T) {
	type table struct {
		name string
		open func(t *testing.T) database.Serializer
	}

	tt := []table{
		{
			name: "memory",
			open: func(t *testing.T) database.Serializer {
				m, err := memory.New()
				if err != nil {
					t.Fatalf("\t%s\tShould be able to open memory storage: %s", failed, err)
				}
				return m
			},
		},
		{
			name: "disk",
			open: func(t *testing.T) database.Serializer {
				d, err := disk.New(filepath.Join(t.TempDir(), "receipts"))
				if err != nil {
					t.Fatalf("\t%s\tShould be able to open disk storage: %s", failed, err)
				}
				return d
			},
		},
		{
			name: "leveldb",
			open: func(t *testing.T) database.Serializer {
				l, err := leveldb.New(filepath.Join(t.TempDir(), "receipts"))
				if err != nil {
					t.Fatalf("\t%s\tShould be able to open leveldb storage: %s", failed, err)
				}
				return l
			},
		},
	}

	t.Log("Given the need to persist the receipt log.")
	{
		for testID, tst := range tt {
			f := func(t *testing.T) {
				s := tst.open(t)
				defer s.Close()

				for i := uint64(1); i <= 3; i++ {
					status := database.StatusSuccess
					if i == 2 {
						status = database.StatusReverted
					}
					if err := s.Write(receipt(i, status)); err != nil {
						t.Fatalf("\t%s\tTest %d:\tShould be able to write receipt %d: %s", failed, testID, i, err)
					}
				}
				t.Logf("\t%s\tTest %d:\tShould be able to write receipts.", success, testID)

				if err := s.Write(receipt(2, database.StatusSuccess)); err == nil {
					t.Fatalf("\t%s\tTest %d:\tShould reject rewriting a receipt.", failed, testID)
				}
				t.Logf("\t%s\tTest %d:\tShould reject rewriting a receipt.", success, testID)

				got, err := s.GetReceipt(2)
				if err != nil {
					t.Fatalf("\t%s\tTest %d:\tShould be able to read receipt 2: %s", failed, testID, err)
				}
				if got.Number != 2 || got.Status != database.StatusReverted || got.Value.Int64() != 2000 || got.Method != database.MethodFund {
					t.Fatalf("\t%s\tTest %d:\tShould read back receipt 2: %+v", failed, testID, got)
				}
				t.Logf("\t%s\tTest %d:\tShould read back receipt 2.", success, testID)

				if _, err := s.GetReceipt(4); !errors.Is(err, database.ErrEndOfChain) {
					t.Fatalf("\t%s\tTest %d:\tShould report the end of chain: %v", failed, testID, err)
				}
				t.Logf("\t%s\tTest %d:\tShould report the end of chain.", success, testID)

				var nums []uint64
				iter := s.ForEach()
				for !iter.Done() {
					r, err := iter.Next()
					if err != nil {
						if errors.Is(err, database.ErrEndOfChain) {
							break
						}
						t.Fatalf("\t%s\tTest %d:\tShould be able to iterate: %s", failed, testID, err)
					}
					nums = append(nums, r.Number)
				}

				if len(nums) != 3 || nums[0] != 1 || nums[1] != 2 || nums[2] != 3 {
					t.Fatalf("\t%s\tTest %d:\tShould iterate in order: got %v", failed, testID, nums)
				}
				t.Logf("\t%s\tTest %d:\tShould iterate in order.", success, testID)

				if err := s.Reset(); err != nil {
					t.Fatalf("\t%s\tTest %d:\tShould be able to reset: %s", failed, testID, err)
				}
				if _, err := s.GetReceipt(1); !errors.Is(err, database.ErrEndOfChain) {
					t.Fatalf("\t%s\tTest %d:\tShould be empty after reset: %v", failed, testID, err)
				}
				t.Logf("\t%s\tTest %d:\tShould be empty after reset.", success, testID)

				if err := s.Write(receipt(1, database.StatusSuccess)); err != nil {
					t.Fatalf("\t%s\tTest %d:\tShould be able to write after reset: %s", failed, testID, err)
				}
				t.Logf("\t%s\tTest %d:\tShould be able to write after reset.", success, testID)
			}

			t.Run(tst.name, f)
		}
	}
}
