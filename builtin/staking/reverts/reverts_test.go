// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"errors"
	"testing"

	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestIsRevertErr(t *testing.T) {
	tests := []struct {
		name string
		err  any
		want bool
	}{
		{"nil", nil, false},
		{"not an error", "boom", false},
		{"plain error", errors.New("boom"), false},
		{"revert", New(Policy, "staking window closed"), true},
		{"wrapped revert", pkgerrors.Wrap(New(Funding, "short"), "settle"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRevertErr(tt.err))
		})
	}
}

func TestKindOf(t *testing.T) {
	err := pkgerrors.WithMessage(Newf(Input, "sum %d != total %d", 199, 200), "allocate")
	kind, ok := KindOf(err)
	assert.True(t, ok)
	assert.Equal(t, Input, kind)
	assert.Equal(t, "input", kind.String())
	assert.Equal(t, "allocate: sum 199 != total 200", err.Error())

	_, ok = KindOf(errors.New("x"))
	assert.False(t, ok)
	assert.Equal(t, "unknown", Kind(0).String())
}
