// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

// Amounts are 32-byte big-endian blobs so they sort and compare bytewise.
const (
	eventTableSchema = `CREATE TABLE IF NOT EXISTS event (
	seq INTEGER PRIMARY KEY NOT NULL,
	time INTEGER NOT NULL,
	topic BLOB NOT NULL,
	name TEXT NOT NULL,
	account BLOB NOT NULL,
	amount BLOB NOT NULL,
	fixed BLOB NOT NULL,
	dynamic BLOB NOT NULL
);

CREATE INDEX IF NOT EXISTS event_i0 ON event(topic, seq);
CREATE INDEX IF NOT EXISTS event_i1 ON event(account, seq);
CREATE INDEX IF NOT EXISTS event_i2 ON event(time);`

	transferTableSchema = `CREATE TABLE IF NOT EXISTS transfer (
	seq INTEGER PRIMARY KEY NOT NULL,
	time INTEGER NOT NULL,
	sender BLOB NOT NULL,
	recipient BLOB NOT NULL,
	amount BLOB NOT NULL
);

CREATE INDEX IF NOT EXISTS transfer_i0 ON transfer(sender, seq);
CREATE INDEX IF NOT EXISTS transfer_i1 ON transfer(recipient, seq);
CREATE INDEX IF NOT EXISTS transfer_i2 ON transfer(time);`

	eventColumns    = "seq, time, topic, name, account, amount, fixed, dynamic"
	transferColumns = "seq, time, sender, recipient, amount"
)
