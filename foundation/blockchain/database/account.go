package database

import (
	"crypto/ecdsa"
	"errors"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// AccountID represents an account id that is used to sign transactions and is
// associated with transactions and contracts on the blockchain. The value is
// always stored in its checksummed hex form so map lookups are stable.
type AccountID string

// ZeroAccountID is the account id of all zero bytes.
const ZeroAccountID AccountID = "0x0000000000000000000000000000000000000000"

// ToAccountID converts a hex-encoded string to an account and validates the
// hex-encoded string is formatted correctly.
func ToAccountID(hex string) (AccountID, error) {
	if !common.IsHexAddress(hex) {
		return "", errors.New("invalid account format")
	}

	return AccountID(common.HexToAddress(hex).Hex()), nil
}

// PublicKeyToAccountID converts the public key to an account value.
func PublicKeyToAccountID(pk ecdsa.PublicKey) AccountID {
	return AccountID(crypto.PubkeyToAddress(pk).Hex())
}

// ContractAccountID returns the account a contract deployed by the specified
// account at the specified nonce will live at.
func ContractAccountID(deployer AccountID, nonce uint64) AccountID {
	return AccountID(crypto.CreateAddress(deployer.Address(), nonce).Hex())
}

// IsAccountID verifies whether the underlying data represents a valid
// hex-encoded account.
func (a AccountID) IsAccountID() bool {
	return common.IsHexAddress(string(a))
}

// Address returns the go-ethereum representation of the account.
func (a AccountID) Address() common.Address {
	return common.HexToAddress(string(a))
}

// String implements the fmt.Stringer interface.
func (a AccountID) String() string {
	return string(a)
}
