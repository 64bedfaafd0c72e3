// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/rand"
	"testing"

	fuzz "github.com/google/gofuzz"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakerewards/builtin/staking/reverts"
	"github.com/vechain/stakerewards/test/datagen"
	"github.com/vechain/stakerewards/thor"
)

type fuzzOp struct {
	Kind    uint8
	Who     uint8
	Amount  uint16
	Advance uint16
	Batch   []uint8
}

// TestRandomSequences drives random operation sequences through a short, high rate window and
// checks after every step that the ledger sums match, the contract holds exactly principal plus
// reserves, and settlement times never move backwards.
func TestRandomSequences(t *testing.T) {
	const lifetime = 1000

	for seed := int64(1); seed <= 20; seed++ {
		var ops []fuzzOp
		fuzz.New().NilChance(0).NumElements(40, 120).RandSource(rand.NewSource(seed)).Fuzz(&ops) // #nosec G404

		env := newTestEnv(t, func(p *Params) {
			p.RewardLifetime = lifetime
			p.FixedAPR = thor.BasisPoints
			p.MaxStakable = u(200_000)
		})
		users := []thor.Address{alice, bob, carol, datagen.RandAddress()}
		last := make(map[thor.Address]uint64)
		now := t0 - 100

		for i, op := range ops {
			now += uint64(op.Advance % 60)
			who := users[int(op.Who)%len(users)]
			amount := uint64(op.Amount%5000) + 1

			var err error
			switch op.Kind % 8 {
			case 0, 1:
				err = env.stake(who, amount, now)
			case 2:
				err = env.unstake(who, amount%500+1, now)
			case 3:
				_, err = env.claim(who, now)
			case 4:
				err = env.start(now)
			case 5:
				err = env.depositFixed(amount)
			case 6:
				err = env.depositDynamic(amount)
			case 7:
				addrs := make([]thor.Address, 0, len(op.Batch))
				amounts := make([]*uint256.Int, 0, len(op.Batch))
				total := new(uint256.Int)
				for _, b := range op.Batch {
					addrs = append(addrs, users[int(b)%len(users)])
					amounts = append(amounts, u(uint64(b)))
					total.AddUint64(total, uint64(b))
				}
				err = env.do(func() error { return env.staking.AllocateDynamicReward(admin, addrs, amounts, total) })
			}
			if err != nil {
				require.True(t, reverts.IsRevertErr(err), "seed %d op %d: unexpected error %v", seed, i, err)
			}

			env.checkConservation(t)
			for _, addr := range users {
				acc, err := env.staking.Account(addr)
				require.NoError(t, err)
				assert.GreaterOrEqual(t, acc.LastSettlementTime, last[addr], "seed %d op %d", seed, i)
				last[addr] = acc.LastSettlementTime
			}
		}
	}
}

// The obligation recorded for each account never falls short of what it could still claim.
func TestObligationCoversPending(t *testing.T) {
	env := newTestEnv(t)
	users := []thor.Address{alice, bob, carol}

	require.NoError(t, env.start(t0))
	require.NoError(t, env.depositFixed(initialBalance/2))
	for i, addr := range users {
		require.NoError(t, env.stake(addr, uint64(1000*(i+1)), t0+uint64(i)*day))
	}

	for _, now := range []uint64{t0 + 3*day, t0 + year/3, t0 + year - 1, t0 + year} {
		for _, addr := range users {
			info, err := env.staking.AccountInfo(addr, now)
			require.NoError(t, err)
			assert.True(t, info.PendingFixed.Cmp(info.MaxObligation) <= 0, "pending %s above obligation %s", info.PendingFixed, info.MaxObligation)
		}
	}
}
