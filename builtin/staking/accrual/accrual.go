// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accrual

import (
	"math"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/stakerewards/safemath"
	"github.com/vechain/stakerewards/thor"
)

var basisPoints = uint256.NewInt(thor.BasisPoints)

// Schedule is the fixed reward window [Start, Start+Lifetime) and its annual rate.
// Start is zero until the reward clock is started.
type Schedule struct {
	Start    uint64
	Lifetime uint64
	APR      uint64 // basis points
}

// Started reports whether the reward clock has been started.
func (s Schedule) Started() bool {
	return s.Start != 0
}

// End returns the expiry of the window. Accrual never passes it. A window
// reaching past the largest timestamp ends there.
func (s Schedule) End() uint64 {
	end, err := safemath.AddUint64(s.Start, s.Lifetime)
	if err != nil {
		return math.MaxUint64
	}
	return end
}

// Interval returns the accrual interval for an account last settled at last.
// to is below from only when now is behind the last settlement.
func (s Schedule) Interval(last, now uint64) (from, to uint64) {
	return safemath.Max(last, s.Start), safemath.Min(now, s.End())
}

// Elapsed returns the length of the accrual interval, zero when it is empty.
func (s Schedule) Elapsed(last, now uint64) uint64 {
	from, to := s.Interval(last, now)
	if to <= from {
		return 0
	}
	return to - from
}

// Remaining returns the window left after now, clamped to [Start, End].
// The whole lifetime remains while the clock is not started.
func (s Schedule) Remaining(now uint64) uint64 {
	if !s.Started() {
		return s.Lifetime
	}
	effective := safemath.Min(safemath.Max(now, s.Start), s.End())
	return s.End() - effective
}

// ClaimTime is the point up to which a claim at now would accrue, zero while the clock is not started.
func (s Schedule) ClaimTime(now uint64) uint64 {
	if !s.Started() {
		return 0
	}
	return safemath.Min(now, s.End())
}

// Expired reports whether now is past the window.
func (s Schedule) Expired(now uint64) bool {
	return s.Started() && now > s.End()
}

// Closed reports whether the staking window has ended at now.
func (s Schedule) Closed(now uint64) bool {
	return s.Started() && now >= s.End()
}

// Reward returns floor(floor(staked * APR / 10000) * duration / Lifetime).
// The two truncating divisions are applied in this order.
func (s Schedule) Reward(staked *uint256.Int, duration uint64) (*uint256.Int, error) {
	if staked.IsZero() || duration == 0 || s.APR == 0 {
		return new(uint256.Int), nil
	}
	annual, err := safemath.MulDiv(staked, uint256.NewInt(s.APR), basisPoints)
	if err != nil {
		return nil, errors.WithMessage(err, "annual reward")
	}
	reward, err := safemath.MulDiv(annual, uint256.NewInt(duration), uint256.NewInt(s.Lifetime))
	if err != nil {
		return nil, errors.WithMessage(err, "prorated reward")
	}
	return reward, nil
}
