/*
 * Copyright (c) 2026 frozensunq contributors
 */
package notify

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/miekg/dns"
)

// sqliteSchema mirrors the teacher's DefaultTables convention in
// tdns/db.go: one CREATE TABLE IF NOT EXISTS per table, looked up by
// (zonename, class, rrtype) with the RR stored as presentation-format text
// and parsed back out with dns.NewRR.
const sqliteSchema = `CREATE TABLE IF NOT EXISTS 'ZoneRRs' (
id		INTEGER PRIMARY KEY,
zonename	TEXT,
class		INTEGER,
rrtype		TEXT,
rr		TEXT,
UNIQUE (zonename, class, rrtype, rr)
)`

// SqliteSource is the reference DataSource implementation, grounded on
// the teacher's tdns/db.go KeyDB: a single *sql.DB guarded by the
// mattn/go-sqlite3 driver, with every RRset lookup a parameterized
// SELECT against one flat table rather than KeyDB's several
// purpose-specific ones — this module only ever needs four RR types.
type SqliteSource struct {
	db *sql.DB
}

// NewSqliteSource opens (creating if necessary) a sqlite database at
// dbfile and ensures the ZoneRRs table exists.
func NewSqliteSource(dbfile string) (*SqliteSource, error) {
	if dbfile == "" {
		return nil, fmt.Errorf("notify: sqlite source: db filename unspecified")
	}
	db, err := sql.Open("sqlite3", dbfile)
	if err != nil {
		return nil, fmt.Errorf("notify: sqlite source: sql.Open: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("notify: sqlite source: schema setup: %w", err)
	}
	return &SqliteSource{db: db}, nil
}

// Close releases the underlying *sql.DB.
func (s *SqliteSource) Close() error {
	return s.db.Close()
}

// PutRR inserts or replaces a single presentation-format RR under
// zone/class/rrtype, for seeding a SqliteSource in tests or at load
// time from a zone file.
func (s *SqliteSource) PutRR(zone string, class uint16, rrtype, rr string) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO ZoneRRs (zonename, class, rrtype, rr) VALUES (?, ?, ?, ?)`,
		CanonicalZoneName(zone), class, rrtype, rr,
	)
	return err
}

func (s *SqliteSource) lookup(zone string, class uint16, rrtype string) ([]dns.RR, error) {
	rows, err := s.db.Query(
		`SELECT rr FROM ZoneRRs WHERE zonename = ? AND class = ? AND rrtype = ?`,
		CanonicalZoneName(zone), class, rrtype,
	)
	if err != nil {
		return nil, fmt.Errorf("notify: sqlite source: query %s %s: %w", zone, rrtype, err)
	}
	defer rows.Close()

	var out []dns.RR
	for rows.Next() {
		var text string
		if err := rows.Scan(&text); err != nil {
			return nil, fmt.Errorf("notify: sqlite source: scan %s %s: %w", zone, rrtype, err)
		}
		rr, err := dns.NewRR(text)
		if err != nil {
			return nil, fmt.Errorf("notify: sqlite source: parse stored RR %q: %w", text, err)
		}
		out = append(out, rr)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, ErrZoneNotFound
	}
	return out, nil
}

func (s *SqliteSource) LookupSOA(zone string, class uint16) ([]dns.RR, error) {
	return s.lookup(zone, class, "SOA")
}

func (s *SqliteSource) LookupNS(zone string, class uint16) ([]dns.RR, error) {
	return s.lookup(zone, class, "NS")
}

func (s *SqliteSource) LookupA(owner string, class uint16) ([]dns.RR, error) {
	return s.lookup(owner, class, "A")
}

func (s *SqliteSource) LookupAAAA(owner string, class uint16) ([]dns.RR, error) {
	return s.lookup(owner, class, "AAAA")
}
