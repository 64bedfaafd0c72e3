// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"
)

// Stage abstracts the changes of a state pending to be written.
type Stage struct {
	state   *State
	changes map[storageKey]rlp.RawValue
	order   []storageKey
}

// Len returns the number of changed storage slots.
func (s *Stage) Len() int {
	return len(s.changes)
}

// Commit writes all changes into the kv store atomically.
func (s *Stage) Commit() error {
	if len(s.changes) == 0 {
		return nil
	}
	bulk := s.state.store.Bulk()
	for _, k := range s.order {
		v := s.changes[k]
		if len(v) == 0 {
			if err := bulk.Delete(k.Bytes()); err != nil {
				return errors.Wrap(err, "stage delete")
			}
			continue
		}
		if err := bulk.Put(k.Bytes(), v); err != nil {
			return errors.Wrap(err, "stage put")
		}
	}
	if err := bulk.Write(); err != nil {
		return errors.Wrap(err, "commit state")
	}
	s.state.reset(s.changes)
	return nil
}
