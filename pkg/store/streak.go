package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/elimu-ai/elimu/pkg/streak"
)

var _ streak.Store = (*Store)(nil)

func (s *Store) Streak(ctx context.Context) (*streak.Data, error) {
	var (
		data  streak.Data
		dates string
	)

	err := s.db.QueryRowContext(ctx,
		"SELECT current_streak, longest_streak, last_study_date, total_sessions, study_dates FROM streak WHERE id = 1",
	).Scan(&data.CurrentStreak, &data.LongestStreak, &data.LastStudyDate, &data.TotalSessions, &dates)

	if errors.Is(err, sql.ErrNoRows) {
		return &streak.Data{}, nil
	}

	if err != nil {
		return nil, fmt.Errorf("read streak: %w", err)
	}

	if err := json.Unmarshal([]byte(dates), &data.StudyDates); err != nil {
		return nil, fmt.Errorf("decode study dates: %w", err)
	}

	return &data, nil
}

func (s *Store) SaveStreak(ctx context.Context, data *streak.Data) error {
	dates := data.StudyDates

	if dates == nil {
		dates = []string{}
	}

	encoded, err := json.Marshal(dates)

	if err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, `
INSERT INTO streak (id, current_streak, longest_streak, last_study_date, total_sessions, study_dates)
VALUES (1, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
    current_streak = excluded.current_streak,
    longest_streak = excluded.longest_streak,
    last_study_date = excluded.last_study_date,
    total_sessions = excluded.total_sessions,
    study_dates = excluded.study_dates`,
		data.CurrentStreak, data.LongestStreak, data.LastStudyDate, data.TotalSessions, string(encoded),
	); err != nil {
		return fmt.Errorf("save streak: %w", err)
	}

	return nil
}
