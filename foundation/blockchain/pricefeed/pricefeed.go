// Package pricefeed provides access to price oracles and the conversion
// math used to value native currency in USD.
package pricefeed

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ardanlabs/fundme/foundation/blockchain/database"
)

// Decimals is the fixed point scale all converted values are reported in.
const Decimals = 18

// ErrInvalidPrice is returned when a feed reports a price that can't be
// used for a conversion.
var ErrInvalidPrice = errors.New("pricefeed: invalid price")

// ErrStaleRound is returned when a round is set behind the latest round.
var ErrStaleRound = errors.New("pricefeed: stale round")

// Round represents a single answer reported by an aggregator.
type Round struct {
	RoundID         uint64    `json:"round_id"`
	Answer          *big.Int  `json:"answer"`
	StartedAt       time.Time `json:"started_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	AnsweredInRound uint64    `json:"answered_in_round"`
}

// Feed represents the behavior of an aggregator reporting the USD price of
// one unit of the native currency.
type Feed interface {
	Address() database.AccountID
	Decimals() uint8
	Version() uint64
	LatestRoundData(ctx context.Context) (Round, error)
}

// =============================================================================

// Price returns the latest USD price of one ether scaled to 18 decimals.
func Price(ctx context.Context, feed Feed) (*big.Int, error) {
	round, err := feed.LatestRoundData(ctx)
	if err != nil {
		return nil, fmt.Errorf("latest round data: %w", err)
	}

	if round.Answer == nil || round.Answer.Sign() <= 0 {
		return nil, fmt.Errorf("%w: round %d answered %v", ErrInvalidPrice, round.RoundID, round.Answer)
	}

	return scale(round.Answer, feed.Decimals()), nil
}

// ConversionRate returns the USD value of the wei amount scaled to
// 18 decimals.
func ConversionRate(ctx context.Context, feed Feed, amount *big.Int) (*big.Int, error) {
	price, err := Price(ctx, feed)
	if err != nil {
		return nil, err
	}

	usd := new(big.Int).Mul(price, amount)
	return usd.Div(usd, pow10(Decimals)), nil
}

// USD returns the whole dollar amount scaled to 18 decimals.
func USD(dollars int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(dollars), pow10(Decimals))
}

// =============================================================================

// scale moves the answer from the feed decimals to 18 decimals.
func scale(answer *big.Int, decimals uint8) *big.Int {
	switch {
	case decimals < Decimals:
		return new(big.Int).Mul(answer, pow10(Decimals-int(decimals)))
	case decimals > Decimals:
		return new(big.Int).Div(answer, pow10(int(decimals)-Decimals))
	default:
		return new(big.Int).Set(answer)
	}
}

// pow10 returns 10^n.
func pow10(n int) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
}
