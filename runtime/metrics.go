// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"math"
	"time"

	"github.com/holiman/uint256"

	"github.com/vechain/stakerewards/builtin/solidity"
	"github.com/vechain/stakerewards/builtin/staking"
	"github.com/vechain/stakerewards/builtin/staking/reverts"
	"github.com/vechain/stakerewards/builtin/token"
	"github.com/vechain/stakerewards/metrics"
	"github.com/vechain/stakerewards/thor"
)

var (
	metricOpCount      = metrics.LazyLoadCounterVec("staking_ops_count", []string{"op", "result"})
	metricOpDuration   = metrics.LazyLoadHistogramVec("staking_op_duration_us", []string{"op"}, metrics.BucketOps)
	metricPools        = metrics.LazyLoadGaugeVec("staking_pool_amount", []string{"pool"})
	metricAccounts     = metrics.LazyLoadGauge("staking_accounts")
	metricStorageWords = metrics.LazyLoadCounterVec("state_storage_words", []string{"contract", "access"})
	metricCache        = metrics.LazyLoadGaugeVec("state_cache", []string{"result"})
)

// opResult labels an outcome with the revert kind, or "error" for infrastructure failures.
func opResult(err error) string {
	if err == nil {
		return "ok"
	}
	if kind, ok := reverts.KindOf(err); ok {
		return kind.String()
	}
	return "error"
}

func observeOp(name string, err error, elapsed time.Duration) {
	if metrics.NoOp() {
		return
	}
	metricOpCount().AddWithLabel(1, map[string]string{"op": name, "result": opResult(err)})
	metricOpDuration().ObserveWithLabels(elapsed.Microseconds(), map[string]string{"op": name})
}

func storageAccessMeter(contract thor.Address) solidity.AccessFunc {
	label := contract.String()
	return func(words uint64, write bool) {
		if metrics.NoOp() {
			return
		}
		access := "read"
		if write {
			access = "write"
		}
		metricStorageWords().AddWithLabel(int64(words), map[string]string{"contract": label, "access": access})
	}
}

// gaugeValue saturates amounts that do not fit a gauge.
func gaugeValue(v *uint256.Int) int64 {
	if v == nil {
		return 0
	}
	if !v.IsUint64() || v.Uint64() > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(v.Uint64())
}

func (rt *Runtime) updateGauges() {
	if metrics.NoOp() {
		return
	}
	if err := rt.View(func(sk *staking.Staking, _ *token.Token, _ uint64) error {
		totals, err := sk.Totals()
		if err != nil {
			return err
		}
		count, err := sk.AccountCount()
		if err != nil {
			return err
		}
		for pool, v := range map[string]*uint256.Int{
			"staked":              totals.TotalStaked,
			"fixed_available":     totals.FixedRewardsAvailable,
			"fixed_obligation":    totals.FixedObligation,
			"dynamic_to_allocate": totals.DynamicToAllocate,
			"dynamic_allocated":   totals.DynamicAllocated,
		} {
			metricPools().SetWithLabel(gaugeValue(v), map[string]string{"pool": pool})
		}
		metricAccounts().Set(int64(min(count, math.MaxInt64)))

		hits, misses := rt.state.CacheStats()
		metricCache().SetWithLabel(hits, map[string]string{"result": "hit"})
		metricCache().SetWithLabel(misses, map[string]string{"result": "miss"})
		return nil
	}); err != nil {
		logger.Warn("failed to update gauges", "err", err)
	}
}
