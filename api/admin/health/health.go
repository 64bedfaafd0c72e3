// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package health

import (
	"sync"
	"time"

	"github.com/vechain/stakerewards/builtin/staking"
	"github.com/vechain/stakerewards/builtin/token"
	"github.com/vechain/stakerewards/runtime"
)

// Status is the body of the health endpoint.
type Status struct {
	Healthy     bool           `json:"healthy"`
	LastOp      uint64         `json:"lastOp"`
	Time        uint64         `json:"time"`
	AuditError  string         `json:"auditError,omitempty"`
	ClockOffset *time.Duration `json:"clockOffset,omitempty"`
}

// Health audits the accounting on request. The audit walks every account so
// results are reused for minInterval.
type Health struct {
	lock        sync.Mutex
	rt          *runtime.Runtime
	minInterval time.Duration
	checkedAt   time.Time
	checkedOp   uint64
	auditErr    error
	clockOffset *time.Duration
}

func NewHealth(rt *runtime.Runtime, minInterval time.Duration) *Health {
	return &Health{
		rt:          rt,
		minInterval: minInterval,
	}
}

// ClockOffset records the last measured offset of the local clock.
func (h *Health) ClockOffset(offset time.Duration) {
	h.lock.Lock()
	defer h.lock.Unlock()

	h.clockOffset = &offset
}

// Status returns the node status, auditing the accounting again when an op
// was applied since the last audit, the cached result expired, or force is set.
func (h *Health) Status(force bool) (*Status, error) {
	h.lock.Lock()
	defer h.lock.Unlock()

	lastOp := h.rt.LastOp()
	stale := h.checkedAt.IsZero() || lastOp != h.checkedOp || time.Since(h.checkedAt) >= h.minInterval
	if force || stale {
		err := h.rt.View(func(sk *staking.Staking, _ *token.Token, _ uint64) error {
			h.auditErr = sk.Audit()
			return nil
		})
		if err != nil {
			return nil, err
		}
		h.checkedAt = time.Now()
		h.checkedOp = lastOp
	}

	status := &Status{
		Healthy:     h.auditErr == nil,
		LastOp:      lastOp,
		Time:        h.rt.Now(),
		ClockOffset: h.clockOffset,
	}
	if h.auditErr != nil {
		status.AuditError = h.auditErr.Error()
	}
	return status, nil
}
