// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package logdb keeps the audit trail of committed operations: the events the
// staking engine emitted and the token transfers it made.
package logdb

import (
	"context"
	"database/sql"
	"strings"

	"github.com/holiman/uint256"
	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/vechain/stakerewards/thor"
)

type LogDB struct {
	path          string
	db            *sql.DB
	driverVersion string
	stmtCache     *stmtCache
}

// New create or open log db at given path.
func New(path string) (logDB *LogDB, err error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrap(err, "open log db")
	}
	defer func() {
		if logDB == nil {
			db.Close()
		}
	}()
	// one connection: ":memory:" databases are per connection, and writers serialize anyway
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(eventTableSchema + transferTableSchema); err != nil {
		return nil, errors.Wrap(err, "create log tables")
	}

	driverVer, _, _ := sqlite3.Version()
	return &LogDB{
		path:          path,
		db:            db,
		driverVersion: driverVer,
		stmtCache:     newStmtCache(db),
	}, nil
}

// NewMem create a log db in ram.
func NewMem() (*LogDB, error) {
	return New(":memory:")
}

// Close close the log db.
func (db *LogDB) Close() error {
	db.stmtCache.Clear()
	return db.db.Close()
}

func (db *LogDB) Path() string {
	return db.path
}

// DriverVersion returns the sqlite library version.
func (db *LogDB) DriverVersion() string {
	return db.driverVersion
}

// NewestOp returns the highest operation number written, or 0 when empty.
func (db *LogDB) NewestOp() (uint64, error) {
	var seq sql.NullInt64
	row := db.db.QueryRow("SELECT MAX(seq) FROM (SELECT MAX(seq) AS seq FROM event UNION ALL SELECT MAX(seq) FROM transfer)")
	if err := row.Scan(&seq); err != nil {
		return 0, errors.Wrap(err, "query newest op")
	}
	if !seq.Valid {
		return 0, nil
	}
	return sequence(seq.Int64).Op(), nil
}

func appendRange(stmt *strings.Builder, args []any, r *Range) []any {
	if r == nil {
		return args
	}
	if r.Unit == Time {
		stmt.WriteString(" AND time >= ?")
		args = append(args, r.From)
		if r.To >= r.From {
			stmt.WriteString(" AND time <= ?")
			args = append(args, r.To)
		}
		return args
	}
	lo, hi := opBounds(r.From, r.To)
	stmt.WriteString(" AND seq >= ?")
	args = append(args, int64(lo))
	if r.To >= r.From {
		stmt.WriteString(" AND seq <= ?")
		args = append(args, int64(hi))
	}
	return args
}

func appendTail(stmt *strings.Builder, args []any, order Order, opts *Options) []any {
	if order == DESC {
		stmt.WriteString(" ORDER BY seq DESC")
	} else {
		stmt.WriteString(" ORDER BY seq ASC")
	}
	if opts != nil {
		stmt.WriteString(" LIMIT ?, ?")
		args = append(args, opts.Offset, opts.Limit)
	}
	return args
}

func (db *LogDB) FilterEvents(ctx context.Context, filter *EventFilter) ([]*Event, error) {
	if filter == nil {
		return db.queryEvents(ctx, "SELECT "+eventColumns+" FROM event ORDER BY seq ASC")
	}
	observeEventQuery(filter)

	var (
		stmt strings.Builder
		args []any
	)
	stmt.WriteString("SELECT " + eventColumns + " FROM event WHERE 1")
	args = appendRange(&stmt, args, filter.Range)

	for i, criteria := range filter.CriteriaSet {
		if i == 0 {
			stmt.WriteString(" AND (( 1")
		} else {
			stmt.WriteString(" OR ( 1")
		}
		if criteria.Topic != nil {
			stmt.WriteString(" AND topic = ?")
			args = append(args, criteria.Topic.Bytes())
		}
		if criteria.Account != nil {
			stmt.WriteString(" AND account = ?")
			args = append(args, criteria.Account.Bytes())
		}
		stmt.WriteString(" )")
	}
	if len(filter.CriteriaSet) > 0 {
		stmt.WriteString(" )")
	}
	args = appendTail(&stmt, args, filter.Order, filter.Options)
	return db.queryEvents(ctx, stmt.String(), args...)
}

func (db *LogDB) FilterTransfers(ctx context.Context, filter *TransferFilter) ([]*Transfer, error) {
	if filter == nil {
		return db.queryTransfers(ctx, "SELECT "+transferColumns+" FROM transfer ORDER BY seq ASC")
	}
	observeTransferQuery(filter)

	var (
		stmt strings.Builder
		args []any
	)
	stmt.WriteString("SELECT " + transferColumns + " FROM transfer WHERE 1")
	args = appendRange(&stmt, args, filter.Range)

	for i, criteria := range filter.CriteriaSet {
		if i == 0 {
			stmt.WriteString(" AND (( 1")
		} else {
			stmt.WriteString(" OR ( 1")
		}
		if criteria.Sender != nil {
			stmt.WriteString(" AND sender = ?")
			args = append(args, criteria.Sender.Bytes())
		}
		if criteria.Recipient != nil {
			stmt.WriteString(" AND recipient = ?")
			args = append(args, criteria.Recipient.Bytes())
		}
		stmt.WriteString(" )")
	}
	if len(filter.CriteriaSet) > 0 {
		stmt.WriteString(" )")
	}
	args = appendTail(&stmt, args, filter.Order, filter.Options)
	return db.queryTransfers(ctx, stmt.String(), args...)
}

func (db *LogDB) queryEvents(ctx context.Context, query string, args ...any) ([]*Event, error) {
	stmt, err := db.stmtCache.Prepare(query)
	if err != nil {
		return nil, errors.Wrap(err, "prepare event query")
	}
	rows, err := stmt.QueryContext(ctx, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query events")
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		var (
			seq     int64
			time    uint64
			topic   []byte
			name    string
			account []byte
			amount  []byte
			fixed   []byte
			dynamic []byte
		)
		if err := rows.Scan(&seq, &time, &topic, &name, &account, &amount, &fixed, &dynamic); err != nil {
			return nil, errors.Wrap(err, "scan event")
		}
		events = append(events, &Event{
			Op:      sequence(seq).Op(),
			Index:   sequence(seq).Index(),
			Time:    time,
			Topic:   thor.BytesToBytes32(topic),
			Name:    name,
			Account: thor.BytesToAddress(account),
			Amount:  new(uint256.Int).SetBytes(amount),
			Fixed:   new(uint256.Int).SetBytes(fixed),
			Dynamic: new(uint256.Int).SetBytes(dynamic),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate events")
	}
	return events, nil
}

func (db *LogDB) queryTransfers(ctx context.Context, query string, args ...any) ([]*Transfer, error) {
	stmt, err := db.stmtCache.Prepare(query)
	if err != nil {
		return nil, errors.Wrap(err, "prepare transfer query")
	}
	rows, err := stmt.QueryContext(ctx, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query transfers")
	}
	defer rows.Close()

	var transfers []*Transfer
	for rows.Next() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		var (
			seq       int64
			time      uint64
			sender    []byte
			recipient []byte
			amount    []byte
		)
		if err := rows.Scan(&seq, &time, &sender, &recipient, &amount); err != nil {
			return nil, errors.Wrap(err, "scan transfer")
		}
		transfers = append(transfers, &Transfer{
			Op:        sequence(seq).Op(),
			Index:     sequence(seq).Index(),
			Time:      time,
			Sender:    thor.BytesToAddress(sender),
			Recipient: thor.BytesToAddress(recipient),
			Amount:    new(uint256.Int).SetBytes(amount),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate transfers")
	}
	return transfers, nil
}
