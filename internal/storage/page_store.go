package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/bethropolis/blox/internal/block"
	"github.com/bethropolis/blox/internal/logger"
)

// ErrPageNotFound is returned when loading a page that was never saved.
var ErrPageNotFound = errors.New("page not found")

// Page is the metadata of a saved page.
type Page struct {
	ID        string
	Name      string
	Blocks    int
	UpdatedAt time.Time
}

// PageStore saves and loads ordered block records per page.
type PageStore struct {
	db *DB
}

func NewPageStore(db *DB) *PageStore {
	return &PageStore{db: db}
}

// Save replaces the page's snapshot with records, keeping their order.
func (s *PageStore) Save(ctx context.Context, pageID, name string, records []block.Record) error {
	tx, err := s.db.Conn().BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO pages (id, name, created_at, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET name = excluded.name, updated_at = excluded.updated_at`,
		pageID, name, now, now,
	); err != nil {
		return fmt.Errorf("upsert page: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM blocks WHERE page_id = ?`, pageID); err != nil {
		return fmt.Errorf("clear blocks: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO blocks (page_id, id, position, parent_id, type, name, properties_json, library_block_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for pos, r := range records {
		props, err := json.Marshal(r.Properties)
		if err != nil {
			return fmt.Errorf("encode properties of %q: %w", r.ID, err)
		}
		if r.Properties == nil {
			props = []byte("{}")
		}
		var parent sql.NullString
		if r.ParentID != nil {
			parent = sql.NullString{String: *r.ParentID, Valid: true}
		}
		if _, err := stmt.ExecContext(ctx, pageID, r.ID, pos, parent, r.Type, r.Name, string(props), r.LibraryBlockID); err != nil {
			return fmt.Errorf("insert block %q: %w", r.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	logger.DebugTagf("storage", "PageStore: Saved page %q (%d blocks)", pageID, len(records))
	return nil
}

// Load returns the page's records in saved order.
func (s *PageStore) Load(ctx context.Context, pageID string) ([]block.Record, error) {
	var exists int
	err := s.db.Conn().QueryRowContext(ctx, `SELECT COUNT(*) FROM pages WHERE id = ?`, pageID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("load page: %w", err)
	}
	if exists == 0 {
		return nil, fmt.Errorf("%w: %q", ErrPageNotFound, pageID)
	}

	rows, err := s.db.Conn().QueryContext(ctx,
		`SELECT id, parent_id, type, name, properties_json, library_block_id
		 FROM blocks WHERE page_id = ? ORDER BY position ASC`, pageID)
	if err != nil {
		return nil, fmt.Errorf("load blocks: %w", err)
	}
	defer rows.Close()

	records := []block.Record{}
	for rows.Next() {
		var r block.Record
		var parent sql.NullString
		var props string
		if err := rows.Scan(&r.ID, &parent, &r.Type, &r.Name, &props, &r.LibraryBlockID); err != nil {
			return nil, err
		}
		if parent.Valid {
			p := parent.String
			r.ParentID = &p
		}
		if err := json.Unmarshal([]byte(props), &r.Properties); err != nil {
			return nil, fmt.Errorf("decode properties of %q: %w", r.ID, err)
		}
		if len(r.Properties) == 0 {
			r.Properties = nil
		}
		records = append(records, r)
	}
	logger.DebugTagf("storage", "PageStore: Loaded page %q (%d blocks)", pageID, len(records))
	return records, rows.Err()
}

// List returns saved pages, most recently updated first.
func (s *PageStore) List(ctx context.Context) ([]Page, error) {
	rows, err := s.db.Conn().QueryContext(ctx,
		`SELECT p.id, p.name, p.updated_at, COUNT(b.id)
		 FROM pages p LEFT JOIN blocks b ON b.page_id = p.id
		 GROUP BY p.id ORDER BY p.updated_at DESC, p.id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pages []Page
	for rows.Next() {
		var p Page
		if err := rows.Scan(&p.ID, &p.Name, &p.UpdatedAt, &p.Blocks); err != nil {
			return nil, err
		}
		pages = append(pages, p)
	}
	return pages, rows.Err()
}

// Delete removes a page and its blocks.
func (s *PageStore) Delete(ctx context.Context, pageID string) error {
	tx, err := s.db.Conn().BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.ExecContext(ctx, `DELETE FROM blocks WHERE page_id = ?`, pageID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM pages WHERE id = ?`, pageID); err != nil {
		return err
	}
	return tx.Commit()
}
