// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package state manages contract storage of the staking node.
// It follows the flow as bellow:
//
//	         o
//	         |
//	[ revertable state ]
//	         |
//	  [ stacked map ] -> [ journal ] -> [ stage ] -> [ kv bulk write ]
//	         |
//	   [ lru cache ]
//	         |
//	   [ kv store ]
//
// Every storage write lands in the stacked map. A checkpoint marks the stack depth and
// reverting to it discards all writes since, which is how a failed operation is undone.
// Staging collects the journal and commits it to the kv store in one atomic bulk write.
package state
