package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// number of processed documents kept in the upload history
const MaxHistory = 5

type HistoryEntry struct {
	ID string `json:"id"`

	Name        string `json:"name"`
	MIMEType    string `json:"mimeType,omitempty"`
	DocumentURI string `json:"documentUri,omitempty"`

	Created time.Time `json:"created"`
}

// AddHistory records a processed document and drops everything beyond the
// newest MaxHistory entries.
func (s *Store) AddHistory(ctx context.Context, entry HistoryEntry) (*HistoryEntry, error) {
	if entry.Name == "" {
		return nil, fmt.Errorf("%w: history entry needs a name", ErrInvalid)
	}

	entry.ID = uuid.NewString()
	entry.Created = s.now().UTC().Truncate(time.Millisecond)

	tx, err := s.db.BeginTx(ctx, nil)

	if err != nil {
		return nil, fmt.Errorf("begin history tx: %w", err)
	}

	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO history (id, name, mime_type, document_uri, created_at) VALUES (?, ?, ?, ?, ?)",
		entry.ID, entry.Name, entry.MIMEType, entry.DocumentURI, toMillis(entry.Created),
	); err != nil {
		return nil, fmt.Errorf("add history: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM history WHERE id NOT IN (SELECT id FROM history ORDER BY created_at DESC, rowid DESC LIMIT ?)",
		MaxHistory,
	); err != nil {
		return nil, fmt.Errorf("trim history: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit history: %w", err)
	}

	return &entry, nil
}

// History lists recently processed documents, newest first.
func (s *Store) History(ctx context.Context) ([]HistoryEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, mime_type, document_uri, created_at FROM history ORDER BY created_at DESC, rowid DESC",
	)

	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}

	defer rows.Close()

	var result []HistoryEntry

	for rows.Next() {
		var (
			entry   HistoryEntry
			created int64
		)

		if err := rows.Scan(&entry.ID, &entry.Name, &entry.MIMEType, &entry.DocumentURI, &created); err != nil {
			return nil, err
		}

		entry.Created = fromMillis(created)
		result = append(result, entry)
	}

	return result, rows.Err()
}
