package streak

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, _ := time.Parse(DateLayout, s)
	return t.Add(10 * time.Hour)
}

func TestRecordFirstSession(t *testing.T) {
	d, changed := Data{}.Record(day("2025-03-01"))

	require.True(t, changed)
	require.Equal(t, 1, d.CurrentStreak)
	require.Equal(t, 1, d.LongestStreak)
	require.Equal(t, 1, d.TotalSessions)
	require.Equal(t, "2025-03-01", d.LastStudyDate)
	require.Equal(t, []string{"2025-03-01"}, d.StudyDates)
}

func TestRecordSameDay(t *testing.T) {
	d, _ := Data{}.Record(day("2025-03-01"))

	again, changed := d.Record(day("2025-03-01").Add(5 * time.Hour))

	require.False(t, changed)
	require.Equal(t, d, again)
}

func TestRecordConsecutiveDays(t *testing.T) {
	var d Data

	for _, s := range []string{"2025-02-27", "2025-02-28", "2025-03-01"} {
		d, _ = d.Record(day(s))
	}

	require.Equal(t, 3, d.CurrentStreak)
	require.Equal(t, 3, d.LongestStreak)
	require.Equal(t, 3, d.TotalSessions)
}

func TestRecordGapRestarts(t *testing.T) {
	var d Data

	for _, s := range []string{"2025-03-01", "2025-03-02", "2025-03-05"} {
		d, _ = d.Record(day(s))
	}

	require.Equal(t, 1, d.CurrentStreak)
	require.Equal(t, 2, d.LongestStreak)
	require.Len(t, d.StudyDates, 3)
}

func TestRecordKeepsLastDates(t *testing.T) {
	var d Data

	start := day("2024-01-01")

	for i := range MaxStudyDates + 10 {
		d, _ = d.Record(start.AddDate(0, 0, i))
	}

	require.Len(t, d.StudyDates, MaxStudyDates)
	require.Equal(t, start.AddDate(0, 0, 10).Format(DateLayout), d.StudyDates[0])
	require.Equal(t, MaxStudyDates+10, d.CurrentStreak)
}

func TestRefresh(t *testing.T) {
	d := Data{CurrentStreak: 4, LongestStreak: 6, LastStudyDate: "2025-03-01"}

	same, changed := d.Refresh(day("2025-03-02"))
	require.False(t, changed)
	require.Equal(t, 4, same.CurrentStreak)

	reset, changed := d.Refresh(day("2025-03-03"))
	require.True(t, changed)
	require.Equal(t, 0, reset.CurrentStreak)
	require.Equal(t, 6, reset.LongestStreak)

	_, changed = Data{}.Refresh(day("2025-03-03"))
	require.False(t, changed)
}

func TestMilestones(t *testing.T) {
	d := Data{}
	require.Nil(t, d.CurrentMilestone())
	require.Equal(t, 1, d.NextMilestone().Days)
	require.Equal(t, 1, d.DaysUntilNextMilestone())

	d.CurrentStreak = 10
	require.Equal(t, 7, d.CurrentMilestone().Days)
	require.Equal(t, 14, d.NextMilestone().Days)
	require.Equal(t, 4, d.DaysUntilNextMilestone())

	d.CurrentStreak = 400
	require.Equal(t, 365, d.CurrentMilestone().Days)
	require.Nil(t, d.NextMilestone())
	require.Equal(t, 0, d.DaysUntilNextMilestone())
}

type memoryStore struct {
	data *Data

	saves int
}

func (s *memoryStore) Streak(ctx context.Context) (*Data, error) {
	if s.data == nil {
		return nil, nil
	}

	d := *s.data
	return &d, nil
}

func (s *memoryStore) SaveStreak(ctx context.Context, data *Data) error {
	s.saves++

	d := *data
	s.data = &d

	return nil
}

func TestTrackerRecord(t *testing.T) {
	store := &memoryStore{}
	now := day("2025-03-01")

	tracker := New(store, WithClock(func() time.Time { return now }))

	summary, changed, err := tracker.Record(context.Background())
	require.NoError(t, err)
	require.True(t, changed)
	require.Equal(t, 1, summary.CurrentStreak)
	require.Equal(t, "First Step", summary.CurrentMilestone.Title)
	require.Equal(t, 2, summary.DaysUntilNextMilestone)

	_, changed, err = tracker.Record(context.Background())
	require.NoError(t, err)
	require.False(t, changed)
	require.Equal(t, 1, store.saves)

	now = now.AddDate(0, 0, 1)

	summary, _, err = tracker.Record(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, summary.CurrentStreak)
	require.Equal(t, 2, store.saves)
}

func TestTrackerLoadResetsInactiveStreak(t *testing.T) {
	store := &memoryStore{data: &Data{CurrentStreak: 5, LongestStreak: 5, LastStudyDate: "2025-03-01"}}

	tracker := New(store, WithClock(func() time.Time { return day("2025-03-04") }))

	summary, err := tracker.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, 0, summary.CurrentStreak)
	require.Equal(t, 5, summary.LongestStreak)
	require.Equal(t, 1, store.saves)
	require.Equal(t, 0, store.data.CurrentStreak)
}
