// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package transfers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakerewards/api/transfers"
	"github.com/vechain/stakerewards/api/utils"
	"github.com/vechain/stakerewards/builtin/token"
	"github.com/vechain/stakerewards/logdb"
	"github.com/vechain/stakerewards/test/datagen"
	"github.com/vechain/stakerewards/thor"
)

const defaultLogLimit uint64 = 1000

func initTransferServer(t *testing.T, limit uint64) (*httptest.Server, []thor.Address) {
	db, err := logdb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	senders := datagen.RandAddresses(5)
	recipient := datagen.RandAddress()
	w := db.NewWriter()
	for i, from := range senders {
		op := uint64(i + 1)
		require.NoError(t, w.Write(op, 100*op, nil, []*token.Transfer{
			{Sender: from, Recipient: recipient, Amount: uint256.NewInt(op)},
			{Sender: recipient, Recipient: from, Amount: uint256.NewInt(1)},
		}))
	}
	require.NoError(t, w.Commit())

	router := mux.NewRouter()
	transfers.New(db, limit).Mount(router, "/logs/transfer")
	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)
	return ts, append(senders, recipient)
}

func httpPost(t *testing.T, url string, body any) ([]byte, int) {
	data, err := json.Marshal(body)
	require.NoError(t, err)
	res, err := http.Post(url, "application/x-www-form-urlencoded", bytes.NewReader(data)) //#nosec G107
	require.NoError(t, err)
	defer res.Body.Close()
	r, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return r, res.StatusCode
}

func filter(t *testing.T, ts *httptest.Server, f *transfers.TransferFilter) []*transfers.FilteredTransfer {
	res, status := httpPost(t, ts.URL+"/logs/transfer", f)
	require.Equal(t, http.StatusOK, status, string(res))
	var tLogs []*transfers.FilteredTransfer
	require.NoError(t, json.Unmarshal(res, &tLogs))
	return tLogs
}

func TestEmptyFilter(t *testing.T) {
	ts, _ := initTransferServer(t, defaultLogLimit)

	tLogs := filter(t, ts, &transfers.TransferFilter{})
	assert.Len(t, tLogs, 10)
	assert.Equal(t, uint64(1), tLogs[0].Meta.Op)
	assert.Equal(t, uint32(0), tLogs[0].Meta.Index)
	assert.Equal(t, uint32(1), tLogs[1].Meta.Index)
}

func TestFilterByCriteria(t *testing.T) {
	ts, addrs := initTransferServer(t, defaultLogLimit)
	recipient := addrs[len(addrs)-1]

	tLogs := filter(t, ts, &transfers.TransferFilter{
		CriteriaSet: []*logdb.TransferCriteria{{Sender: &addrs[2]}},
	})
	require.Len(t, tLogs, 1)
	assert.Equal(t, "3", tLogs[0].Amount.String())
	assert.Equal(t, uint64(300), tLogs[0].Meta.Time)

	// criteria are OR-ed
	tLogs = filter(t, ts, &transfers.TransferFilter{
		CriteriaSet: []*logdb.TransferCriteria{{Sender: &addrs[0]}, {Recipient: &addrs[1]}},
	})
	assert.Len(t, tLogs, 2)

	tLogs = filter(t, ts, &transfers.TransferFilter{
		CriteriaSet: []*logdb.TransferCriteria{{Sender: &recipient}},
		Range:       &utils.Range{Unit: utils.TimeRangeType, To: new(uint64)},
	})
	assert.Empty(t, tLogs)
}

func TestFilterDescending(t *testing.T) {
	ts, addrs := initTransferServer(t, defaultLogLimit)

	limit := uint64(3)
	tLogs := filter(t, ts, &transfers.TransferFilter{
		Order:   logdb.DESC,
		Options: &utils.Options{Limit: &limit},
	})
	require.Len(t, tLogs, 3)
	assert.Equal(t, uint64(5), tLogs[0].Meta.Op)
	assert.Equal(t, addrs[4], tLogs[0].Recipient)
}

func TestLimits(t *testing.T) {
	ts, _ := initTransferServer(t, 5)

	_, status := httpPost(t, ts.URL+"/logs/transfer", &transfers.TransferFilter{})
	assert.Equal(t, http.StatusForbidden, status)

	limit := uint64(6)
	_, status = httpPost(t, ts.URL+"/logs/transfer", &transfers.TransferFilter{Options: &utils.Options{Limit: &limit}})
	assert.Equal(t, http.StatusForbidden, status)

	_, status = httpPost(t, ts.URL+"/logs/transfer", map[string]any{"criteriaSet": []any{nil}})
	assert.Equal(t, http.StatusBadRequest, status)

	_, status = httpPost(t, ts.URL+"/logs/transfer", &transfers.TransferFilter{Order: "sideways"})
	assert.Equal(t, http.StatusBadRequest, status)
}
