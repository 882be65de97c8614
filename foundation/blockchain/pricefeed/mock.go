package pricefeed

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ardanlabs/fundme/foundation/blockchain/database"
)

// mockVersion is the aggregator interface version the mock reports.
const mockVersion = 0

// Mock is an aggregator whose answer is set by the caller. It is deployed by
// the node on development chains in place of a live oracle.
type Mock struct {
	address  database.AccountID
	decimals uint8

	mu     sync.RWMutex
	latest Round
	rounds map[uint64]Round
}

// NewMock constructs a mock aggregator with a first round holding the
// initial answer.
func NewMock(address database.AccountID, decimals uint8, initialAnswer *big.Int) *Mock {
	m := Mock{
		address:  address,
		decimals: decimals,
		rounds:   make(map[uint64]Round),
	}

	m.UpdateAnswer(initialAnswer, time.Now())
	return &m
}

// Address returns the account the aggregator lives at.
func (m *Mock) Address() database.AccountID {
	return m.address
}

// Decimals returns the number of decimals the answer is scaled by.
func (m *Mock) Decimals() uint8 {
	return m.decimals
}

// Version returns the aggregator version.
func (m *Mock) Version() uint64 {
	return mockVersion
}

// LatestRoundData returns the most recent round.
func (m *Mock) LatestRoundData(ctx context.Context) (Round, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.latest.copy(), nil
}

// GetRoundData returns the round with the specified id.
func (m *Mock) GetRoundData(ctx context.Context, roundID uint64) (Round, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	round, exists := m.rounds[roundID]
	return round.copy(), exists
}

// UpdateAnswer starts a new round with the specified answer.
func (m *Mock) UpdateAnswer(answer *big.Int, now time.Time) Round {
	m.mu.Lock()
	defer m.mu.Unlock()

	round := Round{
		RoundID:   m.latest.RoundID + 1,
		Answer:    new(big.Int).Set(answer),
		StartedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}
	round.AnsweredInRound = round.RoundID

	m.latest = round
	m.rounds[round.RoundID] = round

	return round.copy()
}

// UpdateRoundData replaces the data for a specific round. The round becomes
// the latest round. The id can't be below the latest round, otherwise the
// next UpdateAnswer would write over a stored round.
func (m *Mock) UpdateRoundData(roundID uint64, answer *big.Int, startedAt time.Time, updatedAt time.Time) (Round, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if roundID < m.latest.RoundID {
		return Round{}, fmt.Errorf("%w: got %d, latest %d", ErrStaleRound, roundID, m.latest.RoundID)
	}

	round := Round{
		RoundID:         roundID,
		Answer:          new(big.Int).Set(answer),
		StartedAt:       startedAt.UTC(),
		UpdatedAt:       updatedAt.UTC(),
		AnsweredInRound: roundID,
	}

	m.latest = round
	m.rounds[roundID] = round

	return round.copy(), nil
}

// Snapshot returns the current latest round so it can be restored if the
// transaction that changed it reverts.
func (m *Mock) Snapshot() Round {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.latest.copy()
}

// Restore makes the specified round the latest round again and drops any
// rounds recorded after it.
func (m *Mock) Restore(round Round) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id := range m.rounds {
		if id > round.RoundID {
			delete(m.rounds, id)
		}
	}

	m.latest = round.copy()
	m.rounds[round.RoundID] = m.latest
}

// =============================================================================

// copy returns a deep copy of the round.
func (r Round) copy() Round {
	if r.Answer != nil {
		r.Answer = new(big.Int).Set(r.Answer)
	}
	return r
}
