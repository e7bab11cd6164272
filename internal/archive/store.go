// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package archive persists retrieved Patents in a local SQLite database
// with a full-text retrieval index.
// Implements: prd005-archive (R1-R4).
package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/bkuznetsov/patent-engine/pkg/types"
)

const dbFile = "patents.db"

// Store manages the patent archive SQLite database.
type Store struct {
	db         *sql.DB
	dir        string
	maxResults int
}

// NewStore opens or creates the archive database at dir/patents.db. It
// creates the schema if it does not exist (R1.1, R1.2).
func NewStore(cfg types.ArchiveConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating archive directory: %w", err)
	}

	dbPath := filepath.Join(cfg.Dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{
		db:         db,
		dir:        cfg.Dir,
		maxResults: maxResults,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS patents (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			title TEXT NOT NULL,
			publication_date TEXT,
			application_date TEXT,
			authors TEXT,
			patent_holders TEXT,
			ipc_codes TEXT,
			abstract TEXT,
			claims TEXT,
			description TEXT,
			synthetic INTEGER NOT NULL DEFAULT 0,
			saved_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_patents_publication ON patents(publication_date)`,
		`CREATE INDEX IF NOT EXISTS idx_patents_synthetic ON patents(synthetic)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='patents_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE patents_fts USING fts5(title, abstract, claims, description, content=patents, content_rowid=rowid)`,
			`CREATE TRIGGER patents_ai AFTER INSERT ON patents BEGIN
				INSERT INTO patents_fts(rowid, title, abstract, claims, description)
				VALUES (new.rowid, new.title, new.abstract, new.claims, new.description);
			END`,
			`CREATE TRIGGER patents_ad AFTER DELETE ON patents BEGIN
				INSERT INTO patents_fts(patents_fts, rowid, title, abstract, claims, description)
				VALUES('delete', old.rowid, old.title, old.abstract, old.claims, old.description);
			END`,
			`CREATE TRIGGER patents_au AFTER UPDATE ON patents BEGIN
				INSERT INTO patents_fts(patents_fts, rowid, title, abstract, claims, description)
				VALUES('delete', old.rowid, old.title, old.abstract, old.claims, old.description);
				INSERT INTO patents_fts(rowid, title, abstract, claims, description)
				VALUES (new.rowid, new.title, new.abstract, new.claims, new.description);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}

	return nil
}

// SaveSummary holds counts from an archive save (R2.3).
type SaveSummary struct {
	Inserted int
	Updated  int
	Skipped  int
}

// Total returns the number of records processed.
func (s SaveSummary) Total() int {
	return s.Inserted + s.Updated + s.Skipped
}

// Save upserts patents into the archive in a single transaction (R2.1).
// A record with an empty identifier is skipped. Saving an identifier that
// already exists replaces the stored record (R2.2).
func (s *Store) Save(ctx context.Context, patents []types.Patent) (SaveSummary, error) {
	var summary SaveSummary

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return summary, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO patents (id, title, publication_date, application_date,
			authors, patent_holders, ipc_codes, abstract, claims, description,
			synthetic, saved_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			title=excluded.title, publication_date=excluded.publication_date,
			application_date=excluded.application_date, authors=excluded.authors,
			patent_holders=excluded.patent_holders, ipc_codes=excluded.ipc_codes,
			abstract=excluded.abstract, claims=excluded.claims,
			description=excluded.description, synthetic=excluded.synthetic,
			saved_at=excluded.saved_at`)
	if err != nil {
		return summary, fmt.Errorf("preparing upsert: %w", err)
	}
	defer stmt.Close()

	savedAt := time.Now().UTC().Format(time.RFC3339)
	for _, p := range patents {
		if p.ID == "" {
			summary.Skipped++
			continue
		}

		var exists int
		if err := tx.QueryRowContext(ctx,
			`SELECT count(*) FROM patents WHERE id = ?`, p.ID,
		).Scan(&exists); err != nil {
			return summary, fmt.Errorf("checking record %s: %w", p.ID, err)
		}

		authorsJSON, _ := json.Marshal(p.Authors)
		holdersJSON, _ := json.Marshal(p.PatentHolders)
		ipcJSON, _ := json.Marshal(p.IPCCodes)

		_, err := stmt.ExecContext(ctx,
			p.ID, p.Title, formatDate(p.PublicationDate), formatDate(p.ApplicationDate),
			string(authorsJSON), string(holdersJSON), string(ipcJSON),
			p.Abstract, p.Claims, p.Description, p.Synthetic, savedAt,
		)
		if err != nil {
			return summary, fmt.Errorf("saving record %s: %w", p.ID, err)
		}

		if exists > 0 {
			summary.Updated++
		} else {
			summary.Inserted++
		}
	}

	if err := tx.Commit(); err != nil {
		return summary, fmt.Errorf("committing: %w", err)
	}
	return summary, nil
}

// QueryOptions holds parameters for archive queries (R3).
type QueryOptions struct {
	// Query is the FTS5 full-text search string matched against title,
	// abstract, claims, and description (R3.1).
	Query string

	// IPC filters by exact classification code (R3.2).
	IPC string

	// Author filters by exact inventor name (R3.3).
	Author string

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// IsEmpty reports whether the query has no search terms or filters.
func (q QueryOptions) IsEmpty() bool {
	return q.Query == "" && q.IPC == "" && q.Author == ""
}

// Recall queries the archive with optional full-text search and structured
// filters (R3). Results are ranked by relevance for full-text queries or
// sorted by identifier otherwise.
func (s *Store) Recall(ctx context.Context, opts QueryOptions) ([]types.Patent, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb     strings.Builder
		args   []any
		useFTS = opts.Query != ""
	)

	if useFTS {
		qb.WriteString(
			`SELECT p.id, p.title, p.publication_date, p.application_date,
				p.authors, p.patent_holders, p.ipc_codes,
				p.abstract, p.claims, p.description, p.synthetic
			FROM patents_fts
			JOIN patents p ON p.rowid = patents_fts.rowid
			WHERE patents_fts MATCH ?`)
		args = append(args, opts.Query)
	} else {
		qb.WriteString(
			`SELECT p.id, p.title, p.publication_date, p.application_date,
				p.authors, p.patent_holders, p.ipc_codes,
				p.abstract, p.claims, p.description, p.synthetic
			FROM patents p
			WHERE 1=1`)
	}

	if opts.IPC != "" {
		qb.WriteString(` AND EXISTS (SELECT 1 FROM json_each(p.ipc_codes) WHERE value = ?)`)
		args = append(args, opts.IPC)
	}

	if opts.Author != "" {
		qb.WriteString(` AND EXISTS (SELECT 1 FROM json_each(p.authors) WHERE value = ?)`)
		args = append(args, opts.Author)
	}

	if useFTS {
		qb.WriteString(` ORDER BY patents_fts.rank`)
	} else {
		qb.WriteString(` ORDER BY p.id`)
	}

	qb.WriteString(` LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying archive: %w", err)
	}
	defer rows.Close()

	var patents []types.Patent
	for rows.Next() {
		var (
			p           types.Patent
			pubDate     sql.NullString
			appDate     sql.NullString
			authorsJSON sql.NullString
			holdersJSON sql.NullString
			ipcJSON     sql.NullString
		)

		if err := rows.Scan(
			&p.ID, &p.Title, &pubDate, &appDate,
			&authorsJSON, &holdersJSON, &ipcJSON,
			&p.Abstract, &p.Claims, &p.Description, &p.Synthetic,
		); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}

		if pubDate.Valid {
			p.PublicationDate = parseDate(pubDate.String)
		}
		if appDate.Valid {
			p.ApplicationDate = parseDate(appDate.String)
		}
		if authorsJSON.Valid {
			json.Unmarshal([]byte(authorsJSON.String), &p.Authors)
		}
		if holdersJSON.Valid {
			json.Unmarshal([]byte(holdersJSON.String), &p.PatentHolders)
		}
		if ipcJSON.Valid {
			json.Unmarshal([]byte(ipcJSON.String), &p.IPCCodes)
		}

		patents = append(patents, p)
	}

	return patents, rows.Err()
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

func parseDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
