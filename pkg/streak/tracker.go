package streak

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

type Store interface {
	Streak(ctx context.Context) (*Data, error)
	SaveStreak(ctx context.Context, data *Data) error
}

type Summary struct {
	Data

	CurrentMilestone *Milestone `json:"currentMilestone,omitempty"`
	NextMilestone    *Milestone `json:"nextMilestone,omitempty"`

	DaysUntilNextMilestone int `json:"daysUntilNextMilestone"`
}

func Summarize(d Data) *Summary {
	return &Summary{
		Data: d,

		CurrentMilestone: d.CurrentMilestone(),
		NextMilestone:    d.NextMilestone(),

		DaysUntilNextMilestone: d.DaysUntilNextMilestone(),
	}
}

type Tracker struct {
	store Store

	now    func() time.Time
	logger *slog.Logger

	mu sync.Mutex
}

type Option func(*Tracker)

func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		t.now = now
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(t *Tracker) {
		t.logger = logger
	}
}

func New(store Store, options ...Option) *Tracker {
	t := &Tracker{
		store: store,

		now:    time.Now,
		logger: slog.Default(),
	}

	for _, option := range options {
		option(t)
	}

	return t
}

// Load returns the stored streak, resetting it first when the learner has
// been inactive for more than a day.
func (t *Tracker) Load(ctx context.Context) (*Summary, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	data, err := t.load(ctx)

	if err != nil {
		return nil, err
	}

	return Summarize(*data), nil
}

// Record registers today's study session.
func (t *Tracker) Record(ctx context.Context) (*Summary, bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	data, err := t.load(ctx)

	if err != nil {
		return nil, false, err
	}

	previous := data.CurrentMilestone()

	updated, changed := data.Record(t.now())

	if !changed {
		return Summarize(*data), false, nil
	}

	if err := t.store.SaveStreak(ctx, &updated); err != nil {
		return nil, false, err
	}

	t.logger.Debug("study session recorded", "streak", updated.CurrentStreak, "sessions", updated.TotalSessions)

	if m := updated.CurrentMilestone(); m != nil && (previous == nil || previous.Days != m.Days) {
		t.logger.Info("milestone achieved", "title", m.Title, "days", m.Days)
	}

	return Summarize(updated), true, nil
}

func (t *Tracker) load(ctx context.Context) (*Data, error) {
	data, err := t.store.Streak(ctx)

	if err != nil {
		return nil, err
	}

	if data == nil {
		data = new(Data)
	}

	refreshed, changed := data.Refresh(t.now())

	if !changed {
		return data, nil
	}

	if err := t.store.SaveStreak(ctx, &refreshed); err != nil {
		return nil, err
	}

	t.logger.Debug("streak reset after inactivity", "last", data.LastStudyDate)

	return &refreshed, nil
}
