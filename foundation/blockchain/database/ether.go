package database

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/params"
)

var weiPerEther = big.NewInt(params.Ether)

// ParseEther converts a decimal ether amount like "0.025" into wei. The
// conversion is exact, any fraction smaller than a wei is an error.
func ParseEther(ether string) (*big.Int, error) {
	ether = strings.TrimSpace(ether)
	if ether == "" {
		return nil, errors.New("empty ether amount")
	}

	r, ok := new(big.Rat).SetString(ether)
	if !ok {
		return nil, fmt.Errorf("invalid ether amount %q", ether)
	}

	if r.Sign() < 0 {
		return nil, fmt.Errorf("negative ether amount %q", ether)
	}

	r.Mul(r, new(big.Rat).SetInt(weiPerEther))
	if !r.IsInt() {
		return nil, fmt.Errorf("ether amount %q is more precise than one wei", ether)
	}

	return new(big.Int).Set(r.Num()), nil
}

// FormatEther renders a wei amount as a decimal ether string without
// losing precision.
func FormatEther(wei *big.Int) string {
	if wei == nil {
		return "0"
	}

	r := new(big.Rat).SetFrac(wei, weiPerEther)
	s := r.FloatString(18)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
