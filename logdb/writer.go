// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"database/sql"

	"github.com/pkg/errors"

	"github.com/vechain/stakerewards/builtin/staking"
	"github.com/vechain/stakerewards/builtin/token"
)

const (
	insertEventQuery    = "INSERT INTO event(" + eventColumns + ") VALUES(?,?,?,?,?,?,?,?)"
	insertTransferQuery = "INSERT INTO transfer(" + transferColumns + ") VALUES(?,?,?,?,?)"
)

// Writer accumulates the records of committed operations in one sqlite
// transaction until Commit or Rollback.
type Writer struct {
	db          *LogDB
	tx          *sql.Tx
	uncommitted int
}

// NewWriter creates a log writer.
func (db *LogDB) NewWriter() *Writer {
	return &Writer{db: db}
}

// Write stores the events and transfers of operation op, executed at time.
func (w *Writer) Write(op, time uint64, events []*staking.Event, transfers []*token.Transfer) error {
	if len(events) > int(MaxIndex)+1 || len(transfers) > int(MaxIndex)+1 {
		return errors.Errorf("too many records in op %d", op)
	}
	if _, ok := newSequence(op, 0); !ok {
		return errors.Errorf("op %d out of range", op)
	}
	if len(events) == 0 && len(transfers) == 0 {
		return nil
	}

	// prepared before Begin: the tx holds the only connection
	evStmt, err := w.db.stmtCache.Prepare(insertEventQuery)
	if err != nil {
		return errors.Wrap(err, "prepare event insert")
	}
	trStmt, err := w.db.stmtCache.Prepare(insertTransferQuery)
	if err != nil {
		return errors.Wrap(err, "prepare transfer insert")
	}

	if w.tx == nil {
		tx, err := w.db.db.Begin()
		if err != nil {
			return errors.Wrap(err, "begin log tx")
		}
		w.tx = tx
	}

	if len(events) > 0 {
		txStmt := w.tx.Stmt(evStmt)
		for i, ev := range events {
			e := newEvent(op, uint32(i), time, ev)
			seq, _ := newSequence(e.Op, e.Index)
			topic := e.Topic
			if _, err := txStmt.Exec(
				int64(seq),
				e.Time,
				topic[:],
				e.Name,
				e.Account.Bytes(),
				amountBytes(e.Amount),
				amountBytes(e.Fixed),
				amountBytes(e.Dynamic),
			); err != nil {
				return errors.Wrap(err, "insert event")
			}
		}
	}

	if len(transfers) > 0 {
		txStmt := w.tx.Stmt(trStmt)
		for i, tr := range transfers {
			t := newTransfer(op, uint32(i), time, tr)
			seq, _ := newSequence(t.Op, t.Index)
			if _, err := txStmt.Exec(
				int64(seq),
				t.Time,
				t.Sender.Bytes(),
				t.Recipient.Bytes(),
				amountBytes(t.Amount),
			); err != nil {
				return errors.Wrap(err, "insert transfer")
			}
		}
	}
	w.uncommitted += len(events) + len(transfers)
	return nil
}

// Commit commits accumulated logs.
func (w *Writer) Commit() error {
	if w.tx == nil {
		return nil
	}
	tx := w.tx
	w.tx, w.uncommitted = nil, 0
	return errors.Wrap(tx.Commit(), "commit log tx")
}

// Rollback rollbacks all uncommitted logs.
func (w *Writer) Rollback() error {
	if w.tx == nil {
		return nil
	}
	tx := w.tx
	w.tx, w.uncommitted = nil, 0
	return errors.Wrap(tx.Rollback(), "rollback log tx")
}

// UncommittedCount returns the count of uncommitted logs.
func (w *Writer) UncommittedCount() int {
	return w.uncommitted
}
