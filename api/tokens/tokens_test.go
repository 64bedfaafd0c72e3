// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tokens_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakerewards/api/tokens"
	"github.com/vechain/stakerewards/test/testnode"
)

func httpGet(t *testing.T, url string) ([]byte, int) {
	res, err := http.Get(url) //#nosec G107
	require.NoError(t, err)
	defer res.Body.Close()
	r, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return r, res.StatusCode
}

func TestTokens(t *testing.T) {
	node := testnode.New(t)
	_, err := node.Runtime.Stake(testnode.Alice, uint256.NewInt(400))
	require.NoError(t, err)

	router := mux.NewRouter()
	tokens.New(node.Runtime).Mount(router, "/token")
	ts := httptest.NewServer(router)
	defer ts.Close()

	res, status := httpGet(t, ts.URL+"/token")
	require.Equal(t, http.StatusOK, status)
	var tok tokens.Token
	require.NoError(t, json.Unmarshal(res, &tok))
	assert.Equal(t, testnode.Token, tok.Address)
	assert.Equal(t, "STK", tok.Symbol)
	assert.Equal(t, "3000000", tok.TotalSupply.String())

	for _, tt := range []struct {
		addr string
		want string
	}{
		{testnode.Alice.String(), "999600"},
		{testnode.Contract.String(), "400"},
		{"0x0000000000000000000000000000000000000001", "0"},
	} {
		res, status = httpGet(t, ts.URL+"/token/balances/"+tt.addr)
		require.Equal(t, http.StatusOK, status)
		var bal tokens.Balance
		require.NoError(t, json.Unmarshal(res, &bal))
		assert.Equal(t, tt.want, bal.Balance.String(), tt.addr)
	}

	_, status = httpGet(t, ts.URL+"/token/balances/0xzz")
	assert.Equal(t, http.StatusBadRequest, status)
}
