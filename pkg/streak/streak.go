package streak

import (
	"slices"
	"time"
)

const (
	DateLayout = "2006-01-02"

	// number of study dates kept in history
	MaxStudyDates = 365
)

type Milestone struct {
	Days  int    `json:"days"`
	Title string `json:"title"`
	Emoji string `json:"emoji"`
	Color string `json:"color"`
}

var Milestones = []Milestone{
	{Days: 1, Title: "First Step", Emoji: "👶", Color: "#4CAF50"},
	{Days: 3, Title: "Getting Started", Emoji: "🌱", Color: "#8BC34A"},
	{Days: 7, Title: "One Week", Emoji: "📅", Color: "#FF9800"},
	{Days: 14, Title: "Two Weeks", Emoji: "💪", Color: "#FF5722"},
	{Days: 30, Title: "One Month", Emoji: "🏆", Color: "#9C27B0"},
	{Days: 60, Title: "Two Months", Emoji: "🔥", Color: "#E91E63"},
	{Days: 100, Title: "Centurion", Emoji: "👑", Color: "#FFD700"},
	{Days: 365, Title: "Year Master", Emoji: "🌟", Color: "#6200EA"},
}

type Data struct {
	CurrentStreak int `json:"currentStreak"`
	LongestStreak int `json:"longestStreak"`

	// calendar date in DateLayout, empty before the first session
	LastStudyDate string `json:"lastStudyDate,omitempty"`

	TotalSessions int      `json:"totalStudySessions"`
	StudyDates    []string `json:"studyDates"`
}

// Record registers a study session on the calendar day of now. It reports
// false when a session was already recorded that day.
func (d Data) Record(now time.Time) (Data, bool) {
	today := now.Format(DateLayout)

	if d.LastStudyDate == today {
		return d, false
	}

	current := 1

	if days, ok := daysSince(d.LastStudyDate, now); ok && days == 1 {
		current = d.CurrentStreak + 1
	}

	dates := slices.DeleteFunc(slices.Clone(d.StudyDates), func(s string) bool {
		return s == today
	})

	dates = append(dates, today)
	slices.Sort(dates)

	if len(dates) > MaxStudyDates {
		dates = dates[len(dates)-MaxStudyDates:]
	}

	return Data{
		CurrentStreak: current,
		LongestStreak: max(d.LongestStreak, current),

		LastStudyDate: today,

		TotalSessions: d.TotalSessions + 1,
		StudyDates:    dates,
	}, true
}

// Refresh resets the current streak when more than one day has passed
// since the last session. The longest streak is kept.
func (d Data) Refresh(now time.Time) (Data, bool) {
	days, ok := daysSince(d.LastStudyDate, now)

	if !ok || days <= 1 || d.CurrentStreak == 0 {
		return d, false
	}

	d.CurrentStreak = 0
	return d, true
}

func (d Data) CurrentMilestone() *Milestone {
	var result *Milestone

	for _, m := range Milestones {
		if m.Days <= d.CurrentStreak {
			result = &m
		}
	}

	return result
}

func (d Data) NextMilestone() *Milestone {
	for _, m := range Milestones {
		if m.Days > d.CurrentStreak {
			return &m
		}
	}

	return nil
}

func (d Data) DaysUntilNextMilestone() int {
	next := d.NextMilestone()

	if next == nil {
		return 0
	}

	return next.Days - d.CurrentStreak
}

func daysSince(date string, now time.Time) (int, bool) {
	if date == "" {
		return 0, false
	}

	last, err := time.Parse(DateLayout, date)

	if err != nil {
		return 0, false
	}

	today, _ := time.Parse(DateLayout, now.Format(DateLayout))

	return int(today.Sub(last).Hours() / 24), true
}
