package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Note struct {
	ID         string `json:"id"`
	DocumentID string `json:"documentId"`

	Content string `json:"content"`

	Created    time.Time  `json:"created"`
	LastEdited *time.Time `json:"lastEdited,omitempty"`
}

// Notes lists notes newest first. An empty document id lists all notes.
func (s *Store) Notes(ctx context.Context, documentID string) ([]Note, error) {
	query := "SELECT id, document_id, content, created_at, last_edited FROM notes"

	var args []any

	if documentID != "" {
		query += " WHERE document_id = ?"
		args = append(args, documentID)
	}

	query += " ORDER BY created_at DESC, rowid DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)

	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}

	defer rows.Close()

	var result []Note

	for rows.Next() {
		note, err := scanNote(rows)

		if err != nil {
			return nil, err
		}

		result = append(result, *note)
	}

	return result, rows.Err()
}

func (s *Store) Note(ctx context.Context, id string) (*Note, error) {
	row := s.db.QueryRowContext(ctx, "SELECT id, document_id, content, created_at, last_edited FROM notes WHERE id = ?", id)

	note, err := scanNote(row)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}

	return note, err
}

func (s *Store) AddNote(ctx context.Context, documentID, content string) (*Note, error) {
	content = strings.TrimSpace(content)

	if documentID == "" {
		return nil, fmt.Errorf("%w: document id is required", ErrInvalid)
	}

	if content == "" {
		return nil, fmt.Errorf("%w: note content is empty", ErrInvalid)
	}

	note := &Note{
		ID:         uuid.NewString(),
		DocumentID: documentID,

		Content: content,

		Created: s.now().UTC().Truncate(time.Millisecond),
	}

	if _, err := s.db.ExecContext(ctx,
		"INSERT INTO notes (id, document_id, content, created_at) VALUES (?, ?, ?, ?)",
		note.ID, note.DocumentID, note.Content, toMillis(note.Created),
	); err != nil {
		return nil, fmt.Errorf("add note: %w", err)
	}

	return note, nil
}

func (s *Store) UpdateNote(ctx context.Context, id, content string) (*Note, error) {
	content = strings.TrimSpace(content)

	if content == "" {
		return nil, fmt.Errorf("%w: note content is empty", ErrInvalid)
	}

	edited := s.now().UTC()

	res, err := s.db.ExecContext(ctx,
		"UPDATE notes SET content = ?, last_edited = ? WHERE id = ?",
		content, toMillis(edited), id,
	)

	if err != nil {
		return nil, fmt.Errorf("update note: %w", err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}

	return s.Note(ctx, id)
}

func (s *Store) DeleteNote(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM notes WHERE id = ?", id)

	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}

	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanNote(row scanner) (*Note, error) {
	var (
		note    Note
		created int64
		edited  sql.NullInt64
	)

	if err := row.Scan(&note.ID, &note.DocumentID, &note.Content, &created, &edited); err != nil {
		return nil, err
	}

	note.Created = fromMillis(created)

	if edited.Valid {
		t := fromMillis(edited.Int64)
		note.LastEdited = &t
	}

	return &note, nil
}
