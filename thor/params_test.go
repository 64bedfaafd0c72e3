// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import (
	"encoding/json"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
)

func TestIsValidAmount(t *testing.T) {
	tests := []struct {
		v    *uint256.Int
		want bool
	}{
		{nil, false},
		{uint256.NewInt(0), true},
		{MaxAmount, true},
		{new(uint256.Int).AddUint64(MaxAmount, 1), false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsValidAmount(tt.v))
	}
	assert.Equal(t, AmountBits, MaxAmount.BitLen())
}

func TestAddressJSON(t *testing.T) {
	addr := BytesToAddress([]byte("staker"))

	data, err := json.Marshal(&addr)
	assert.NoError(t, err)
	assert.Equal(t, `"`+addr.String()+`"`, string(data))

	var decoded Address
	assert.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, addr, decoded)

	_, err = ParseAddress("0x1234")
	assert.Error(t, err)
	_, err = ParseAddress("zz" + addr.String()[2:])
	assert.Error(t, err)
	assert.True(t, Address{}.IsZero())
}

func TestBlake2b(t *testing.T) {
	a := Blake2b([]byte("a"), []byte("b"))
	b := Blake2b([]byte("ab"))
	assert.Equal(t, a, b)
	assert.NotEqual(t, Keccak256([]byte("ab")), b)
}
