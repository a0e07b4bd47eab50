// Package store persists the user-editable KPI cards in a local SQLite
// database, the thin relational layer behind the card board.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned for lookups and updates against unknown card ids.
var ErrNotFound = errors.New("kpi card not found")

// KPI is one card on the board. Weekly cards point at a monthly parent via
// ParentID; top-level cards leave it empty.
type KPI struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Current   float64   `json:"current"`
	Target    float64   `json:"target"`
	Unit      string    `json:"unit,omitempty"`
	ParentID  string    `json:"parentId,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Store wraps the SQLite connection.
type Store struct {
	db *sql.DB
}

// Open connects to the database file and ensures the schema exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open kpi database: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS kpis (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		current REAL NOT NULL DEFAULT 0,
		target REAL NOT NULL DEFAULT 0,
		unit TEXT NOT NULL DEFAULT '',
		parent_id TEXT NOT NULL DEFAULT '',
		updated_at DATETIME NOT NULL
	);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create kpi schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// List returns all cards, monthly parents first, then by title.
func (s *Store) List(ctx context.Context) ([]KPI, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, current, target, unit, parent_id, updated_at
		 FROM kpis ORDER BY parent_id, title`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []KPI
	for rows.Next() {
		var k KPI
		if err := rows.Scan(&k.ID, &k.Title, &k.Current, &k.Target, &k.Unit, &k.ParentID, &k.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, k)
	}
	return out, rows.Err()
}

// Get fetches one card by id.
func (s *Store) Get(ctx context.Context, id string) (KPI, error) {
	var k KPI
	err := s.db.QueryRowContext(ctx,
		`SELECT id, title, current, target, unit, parent_id, updated_at
		 FROM kpis WHERE id = ?`, id).
		Scan(&k.ID, &k.Title, &k.Current, &k.Target, &k.Unit, &k.ParentID, &k.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return KPI{}, ErrNotFound
	}
	return k, err
}

// Create inserts a new card and assigns it an id.
func (s *Store) Create(ctx context.Context, k KPI) (KPI, error) {
	k.ID = uuid.New().String()
	k.UpdatedAt = time.Now().UTC()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kpis (id, title, current, target, unit, parent_id, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		k.ID, k.Title, k.Current, k.Target, k.Unit, k.ParentID, k.UpdatedAt)
	if err != nil {
		return KPI{}, err
	}
	return k, nil
}

// Update rewrites an existing card.
func (s *Store) Update(ctx context.Context, k KPI) (KPI, error) {
	k.UpdatedAt = time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`UPDATE kpis SET title = ?, current = ?, target = ?, unit = ?, parent_id = ?, updated_at = ?
		 WHERE id = ?`,
		k.Title, k.Current, k.Target, k.Unit, k.ParentID, k.UpdatedAt, k.ID)
	if err != nil {
		return KPI{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return KPI{}, ErrNotFound
	}
	return k, nil
}

// Delete removes a card and detaches its children.
func (s *Store) Delete(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `UPDATE kpis SET parent_id = '' WHERE parent_id = ?`, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM kpis WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}
