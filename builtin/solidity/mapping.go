// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"reflect"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vechain/stakerewards/thor"
)

// Key is anything with a stable byte form, addresses and slots in practice.
type Key interface {
	Bytes() []byte
}

// Mapping stores RLP encoded values of type V at blake2b(key, base).
type Mapping[K Key, V any] struct {
	context *Context
	base    thor.Bytes32
}

func NewMapping[K Key, V any](context *Context, base thor.Bytes32) *Mapping[K, V] {
	return &Mapping[K, V]{context: context, base: base}
}

func (m *Mapping[K, V]) slot(key K) thor.Bytes32 {
	return thor.Blake2b(key.Bytes(), m.base.Bytes())
}

// zero returns the value of a missing entry. Pointer types get a pointer to a
// zero value so callers never see nil.
func zero[V any]() (v V) {
	if t := reflect.TypeFor[V](); t.Kind() == reflect.Pointer {
		v = reflect.New(t.Elem()).Interface().(V)
	}
	return
}

// Get returns the value stored for key, or the zero value of V.
func (m *Mapping[K, V]) Get(key K) (V, error) {
	value := zero[V]()
	err := m.context.state.DecodeStorage(m.context.address, m.slot(key), func(raw []byte) error {
		m.context.touch(len(raw), false)
		if len(raw) == 0 {
			return nil
		}
		return rlp.DecodeBytes(raw, &value)
	})
	return value, err
}

func (m *Mapping[K, V]) Set(key K, value V) error {
	return m.context.state.EncodeStorage(m.context.address, m.slot(key), func() ([]byte, error) {
		raw, err := rlp.EncodeToBytes(value)
		if err != nil {
			return nil, err
		}
		m.context.touch(len(raw), true)
		return raw, nil
	})
}
