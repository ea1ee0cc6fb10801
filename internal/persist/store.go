// Package persist records search runs and matches to Postgres.
package persist

import (
	"database/sql"
	"encoding/hex"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"ethvanity/internal/kernel"
	"ethvanity/internal/worker"
)

// Store holds prepared statements against a search_runs/matches schema:
//
//	CREATE TABLE search_runs (
//	    id BIGSERIAL PRIMARY KEY,
//	    base_entropy TEXT NOT NULL,
//	    num_threads INTEGER NOT NULL,
//	    condition BIGINT NOT NULL,
//	    started_at TIMESTAMPTZ NOT NULL DEFAULT now(),
//	    finished_at TIMESTAMPTZ,
//	    addresses_checked BIGINT,
//	    match_found BOOLEAN
//	);
//	CREATE TABLE matches (
//	    id BIGSERIAL PRIMARY KEY,
//	    run_id BIGINT REFERENCES search_runs(id),
//	    entropy TEXT NOT NULL,
//	    address TEXT NOT NULL,
//	    mnemonic TEXT NOT NULL,
//	    private_key TEXT NOT NULL,
//	    found_by_index INTEGER NOT NULL,
//	    found_at TIMESTAMPTZ NOT NULL DEFAULT now(),
//	    UNIQUE (address)
//	);
type Store struct {
	db *sql.DB

	startRunStmt  *sql.Stmt
	finishRunStmt *sql.Stmt
	saveMatchStmt *sql.Stmt
}

// Open connects to Postgres and prepares the statements Store uses.
func Open(connStr string) (*Store, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	s := &Store{db: db}
	if err := s.prepareStatements(); err != nil {
		db.Close()
		return nil, fmt.Errorf("preparing statements: %w", err)
	}
	return s, nil
}

func (s *Store) prepareStatements() error {
	var err error

	s.startRunStmt, err = s.db.Prepare(`
		INSERT INTO search_runs (base_entropy, num_threads, condition)
		VALUES ($1, $2, $3)
		RETURNING id`)
	if err != nil {
		return err
	}

	s.finishRunStmt, err = s.db.Prepare(`
		UPDATE search_runs
		SET finished_at = $2, addresses_checked = $3, match_found = $4
		WHERE id = $1`)
	if err != nil {
		return err
	}

	s.saveMatchStmt, err = s.db.Prepare(`
		INSERT INTO matches (run_id, entropy, address, mnemonic, private_key, found_by_index)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (address)
		DO UPDATE SET entropy = EXCLUDED.entropy, mnemonic = EXCLUDED.mnemonic,
			private_key = EXCLUDED.private_key, found_by_index = EXCLUDED.found_by_index`)
	return err
}

// RunParams describes a search run for the initial search_runs insert.
type RunParams struct {
	BaseEntropy kernel.Entropy
	NumThreads  uint32
	Condition   uint64
}

// StartRun inserts a new search_runs row and returns its id.
func (s *Store) StartRun(p RunParams) (int64, error) {
	var id int64
	err := s.startRunStmt.QueryRow(hex.EncodeToString(p.BaseEntropy[:]), p.NumThreads, int64(p.Condition)).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("inserting search run: %w", err)
	}
	return id, nil
}

// FinishRun records the final stats for a search run.
func (s *Store) FinishRun(runID int64, addressesChecked int64, matchFound bool) error {
	if runID == 0 {
		return nil
	}
	_, err := s.finishRunStmt.Exec(runID, time.Now(), addressesChecked, matchFound)
	return err
}

// SaveMatch records a found match, keyed by its address so repeated runs
// against the same condition don't duplicate rows.
func (s *Store) SaveMatch(runID int64, m worker.Match) error {
	_, err := s.saveMatchStmt.Exec(
		runID,
		hex.EncodeToString(m.Entropy[:]),
		fmt.Sprintf("0x%x", m.Address),
		m.Mnemonic,
		m.PrivateKeyHex,
		m.FoundByIndex,
	)
	return err
}

// Close releases the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
