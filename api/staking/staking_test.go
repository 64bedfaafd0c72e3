// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakerewards/api/staking"
	"github.com/vechain/stakerewards/test/testnode"
	"github.com/vechain/stakerewards/thor"
)

const halfYear = 365 * 24 * time.Hour / 2

var (
	node *testnode.Node
	ts   *httptest.Server
)

func initStakingServer(t *testing.T) {
	node = testnode.New(t)
	router := mux.NewRouter()
	staking.New(node.Runtime).Mount(router, "/staking")
	ts = httptest.NewServer(router)
	t.Cleanup(ts.Close)
}

func httpGet(t *testing.T, path string) ([]byte, int) {
	res, err := http.Get(ts.URL + path) //#nosec G107
	require.NoError(t, err)
	defer res.Body.Close()
	r, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return r, res.StatusCode
}

func httpPost(t *testing.T, path string, body any) ([]byte, int) {
	var data []byte
	switch b := body.(type) {
	case string:
		data = []byte(b)
	default:
		var err error
		data, err = json.Marshal(body)
		require.NoError(t, err)
	}
	res, err := http.Post(ts.URL+path, "application/json", bytes.NewReader(data)) //#nosec G107
	require.NoError(t, err)
	defer res.Body.Close()
	r, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return r, res.StatusCode
}

func decode[T any](t *testing.T, data []byte) *T {
	var v T
	require.NoError(t, json.Unmarshal(data, &v), string(data))
	return &v
}

func amount(v string) map[string]string {
	return map[string]string{"amount": v}
}

func call(caller thor.Address, fields map[string]string) map[string]string {
	body := map[string]string{"caller": caller.String()}
	for k, v := range fields {
		body[k] = v
	}
	return body
}

func TestStakingAPI(t *testing.T) {
	for name, tt := range map[string]func(*testing.T){
		"params":           testParams,
		"admin only":       testAdminOnly,
		"full lifecycle":   testLifecycle,
		"dynamic rewards":  testDynamicRewards,
		"bad requests":     testBadRequests,
		"funding failures": testFundingFailures,
	} {
		initStakingServer(t)
		t.Run(name, tt)
	}
}

func testParams(t *testing.T) {
	res, status := httpGet(t, "/staking/params")
	require.Equal(t, http.StatusOK, status)

	params := decode[staking.Params](t, res)
	assert.Equal(t, testnode.Contract, params.Contract)
	assert.Equal(t, testnode.Admin, params.Admin)
	assert.Equal(t, testnode.Token, params.Token)
	assert.Equal(t, thor.DefaultRewardLifetime, params.RewardLifetime)
	assert.Equal(t, thor.DefaultFixedAPR, params.FixedAPR)
	assert.Equal(t, thor.MaxAmount.Dec(), params.MaxStakable.String())
	assert.Zero(t, params.RewardStartTime)
}

func testAdminOnly(t *testing.T) {
	for _, path := range []string{
		"/staking/admin/start",
		"/staking/admin/fixed/withdraw",
	} {
		_, status := httpPost(t, path, call(testnode.Alice, nil))
		assert.Equal(t, http.StatusForbidden, status, path)
	}
	for _, path := range []string{
		"/staking/admin/fixed/deposit",
		"/staking/admin/dynamic/deposit",
	} {
		_, status := httpPost(t, path, call(testnode.Bob, amount("1")))
		assert.Equal(t, http.StatusForbidden, status, path)
	}
	_, status := httpPost(t, "/staking/admin/dynamic/allocate", &staking.AllocateRequest{Caller: testnode.Bob})
	assert.Equal(t, http.StatusForbidden, status)

	// nothing was committed
	assert.Equal(t, uint64(1), node.Runtime.LastOp())
}

func testLifecycle(t *testing.T) {
	res, status := httpPost(t, "/staking/admin/start", call(testnode.Admin, nil))
	require.Equal(t, http.StatusOK, status, string(res))
	started := decode[staking.StartResult](t, res)
	assert.Equal(t, uint64(testnode.StartTime), started.StartTime)
	assert.Equal(t, uint64(2), started.Receipt.Op)

	res, status = httpPost(t, "/staking/admin/fixed/deposit", call(testnode.Admin, amount("0x3e8")))
	require.Equal(t, http.StatusOK, status, string(res))
	assert.Equal(t, "1000", decode[staking.AmountResult](t, res).Amount.String())

	res, status = httpPost(t, "/staking/stake", call(testnode.Alice, amount("1000")))
	require.Equal(t, http.StatusOK, status, string(res))
	receipt := decode[staking.Receipt](t, res)
	assert.Equal(t, uint64(4), receipt.Op)
	require.Len(t, receipt.Events, 1)
	assert.Equal(t, "Staked", receipt.Events[0].Name)
	assert.Equal(t, "1000", receipt.Events[0].Amount.String())
	require.Len(t, receipt.Transfers, 1)
	assert.Equal(t, testnode.Alice, receipt.Transfers[0].Sender)
	assert.Equal(t, testnode.Contract, receipt.Transfers[0].Recipient)

	node.Clock.Advance(halfYear)

	res, status = httpGet(t, "/staking/accounts/"+testnode.Alice.String())
	require.Equal(t, http.StatusOK, status)
	acc := decode[staking.Account](t, res)
	assert.True(t, acc.Staked)
	assert.Equal(t, "1000", acc.StakedAmount.String())
	assert.Equal(t, "25", acc.PendingFixed.String())
	assert.Equal(t, "0", acc.PendingDynamic.String())
	assert.Equal(t, uint64(testnode.StartTime), acc.LastSettlementTime)
	assert.Equal(t, acc.Time, acc.EffectiveClaimTime)

	res, status = httpGet(t, "/staking/accounts/"+testnode.Alice.String()+"/share")
	require.Equal(t, http.StatusOK, status)
	share := decode[staking.Share](t, res)
	assert.Equal(t, "1000", share.Total.String())
	assert.Equal(t, "1000", share.Individual.String())

	res, status = httpPost(t, "/staking/claim", call(testnode.Alice, nil))
	require.Equal(t, http.StatusOK, status, string(res))
	claimed := decode[staking.ClaimResult](t, res)
	assert.Equal(t, "25", claimed.Fixed.String())
	assert.Equal(t, "0", claimed.Dynamic.String())
	require.Len(t, claimed.Receipt.Events, 1)
	assert.Equal(t, "RewardClaimed", claimed.Receipt.Events[0].Name)

	res, status = httpPost(t, "/staking/unstake", call(testnode.Alice, amount("1000")))
	require.Equal(t, http.StatusOK, status, string(res))
	assert.Equal(t, "Unstaked", decode[staking.Receipt](t, res).Events[0].Name)

	res, status = httpGet(t, "/staking/totals")
	require.Equal(t, http.StatusOK, status)
	totals := decode[staking.Totals](t, res)
	assert.Equal(t, uint64(testnode.StartTime), totals.RewardStartTime)
	assert.Equal(t, "0", totals.TotalStaked.String())
	assert.Equal(t, "975", totals.FixedRewardsAvailable.String())
	assert.Equal(t, "0", totals.FixedObligation.String())

	// the window has to close before the reserve can be withdrawn
	_, status = httpPost(t, "/staking/admin/fixed/withdraw", call(testnode.Admin, nil))
	assert.Equal(t, http.StatusBadRequest, status)

	node.Clock.Advance(halfYear + time.Second)
	res, status = httpPost(t, "/staking/admin/fixed/withdraw", call(testnode.Admin, nil))
	require.Equal(t, http.StatusOK, status, string(res))
	assert.Equal(t, "975", decode[staking.AmountResult](t, res).Amount.String())
}

func testDynamicRewards(t *testing.T) {
	_, status := httpPost(t, "/staking/admin/start", call(testnode.Admin, nil))
	require.Equal(t, http.StatusOK, status)

	res, status := httpPost(t, "/staking/admin/dynamic/deposit", call(testnode.Admin, amount("300")))
	require.Equal(t, http.StatusOK, status, string(res))

	res, status = httpPost(t, "/staking/admin/dynamic/allocate", map[string]any{
		"caller":    testnode.Admin.String(),
		"addresses": []string{testnode.Alice.String(), testnode.Bob.String()},
		"amounts":   []any{"200", 100},
		"total":     "300",
	})
	require.Equal(t, http.StatusOK, status, string(res))
	receipt := decode[staking.Receipt](t, res)
	require.Len(t, receipt.Events, 3)
	assert.Equal(t, "DynamicAllocationBatch", receipt.Events[2].Name)

	res, status = httpPost(t, "/staking/claim", call(testnode.Bob, nil))
	require.Equal(t, http.StatusOK, status, string(res))
	assert.Equal(t, "100", decode[staking.ClaimResult](t, res).Dynamic.String())

	res, status = httpGet(t, "/staking/totals")
	require.Equal(t, http.StatusOK, status)
	totals := decode[staking.Totals](t, res)
	assert.Equal(t, "0", totals.DynamicToAllocate.String())
	assert.Equal(t, "200", totals.DynamicAllocated.String())
}

func testBadRequests(t *testing.T) {
	for _, tt := range []struct {
		name string
		path string
		body any
	}{
		{"not json", "/staking/stake", "stake"},
		{"unknown field", "/staking/stake", call(testnode.Alice, map[string]string{"amount": "1", "memo": "x"})},
		{"missing amount", "/staking/stake", call(testnode.Alice, nil)},
		{"bad amount", "/staking/stake", call(testnode.Alice, amount("ten"))},
		{"zero amount", "/staking/stake", call(testnode.Alice, amount("0"))},
		{"above 128 bits", "/staking/stake", call(testnode.Alice, amount("0x100000000000000000000000000000000"))},
		{"unstake without stake", "/staking/unstake", call(testnode.Alice, amount("1"))},
		{"claim before start", "/staking/claim", call(testnode.Alice, nil)},
		{"bad caller", "/staking/claim", map[string]string{"caller": "0x01"}},
		{"contract as caller", "/staking/stake", call(testnode.Contract, amount("5"))},
		{
			"length mismatch", "/staking/admin/dynamic/allocate",
			map[string]any{"caller": testnode.Admin.String(), "addresses": []string{testnode.Alice.String()}, "amounts": []string{}, "total": "0"},
		},
	} {
		res, status := httpPost(t, tt.path, tt.body)
		assert.Equal(t, http.StatusBadRequest, status, tt.name+": "+string(res))
	}

	_, status := httpGet(t, "/staking/accounts/0x1234")
	assert.Equal(t, http.StatusBadRequest, status)

	_, status = httpGet(t, "/staking/stake")
	assert.Equal(t, http.StatusMethodNotAllowed, status)

	assert.Equal(t, uint64(1), node.Runtime.LastOp())
}

func testFundingFailures(t *testing.T) {
	// more than the genesis balance
	_, status := httpPost(t, "/staking/stake", call(testnode.Bob, amount("1000001")))
	assert.Equal(t, http.StatusBadRequest, status)

	_, status = httpPost(t, "/staking/admin/dynamic/allocate", map[string]any{
		"caller":    testnode.Admin.String(),
		"addresses": []string{testnode.Alice.String()},
		"amounts":   []string{"5"},
		"total":     "5",
	})
	assert.Equal(t, http.StatusBadRequest, status)
}
