package planner

import (
	"sort"
	"time"

	"github.com/maheshrc27/content-planner/internal/models"
)

const (
	DefaultWeeklyGoal = 5

	// NeedsContentDays is how far ahead an unwritten idea counts as urgent.
	NeedsContentDays = 3
	// GapLookaheadDays is the number of days after today checked for gaps.
	GapLookaheadDays = 7
	// ProgressWindowDays is the trailing window counted towards the weekly goal.
	ProgressWindowDays = 7
)

// Buckets is the dashboard view of a page's posts for one day.
type Buckets struct {
	Today             string        `json:"today"`
	ReadyToPost       []models.Post `json:"ready_to_post"`
	NeedsContent      []models.Post `json:"needs_content"`
	CalendarGaps      []string      `json:"calendar_gaps"`
	WeeklyProgress    float64       `json:"weekly_progress"`
	PublishedThisWeek int           `json:"published_this_week"`
	WeeklyGoal        int           `json:"weekly_goal"`
}

// Triage partitions posts relative to today in a single pass. It does not
// modify posts and returns the same result for the same input.
func Triage(posts []models.Post, today time.Time, weeklyGoal int) Buckets {
	day := DateOf(today)

	b := Buckets{
		Today:        FormatDate(day),
		ReadyToPost:  []models.Post{},
		NeedsContent: []models.Post{},
		CalendarGaps: []string{},
		WeeklyGoal:   weeklyGoal,
	}

	type pending struct {
		post   models.Post
		offset int
	}
	var needs []pending
	occupied := make(map[string]struct{}, len(posts))

	for _, p := range posts {
		d, err := ParseDate(p.PostDate)
		if err != nil {
			continue
		}
		occupied[FormatDate(d)] = struct{}{}
		offset := DaysBetween(day, d)

		switch p.Status {
		case models.PostStatusDraft, models.PostStatusReview:
			if offset == 0 {
				b.ReadyToPost = append(b.ReadyToPost, p)
			}
		case models.PostStatusIdea:
			if offset >= 0 && offset <= NeedsContentDays {
				needs = append(needs, pending{post: p, offset: offset})
			}
		case models.PostStatusPublished:
			if offset <= 0 && offset >= -ProgressWindowDays {
				b.PublishedThisWeek++
			}
		}
	}

	sort.SliceStable(needs, func(i, j int) bool { return needs[i].offset < needs[j].offset })
	for _, n := range needs {
		b.NeedsContent = append(b.NeedsContent, n.post)
	}

	for i := 1; i <= GapLookaheadDays; i++ {
		key := FormatDate(day.AddDate(0, 0, i))
		if _, ok := occupied[key]; !ok {
			b.CalendarGaps = append(b.CalendarGaps, key)
		}
	}

	b.WeeklyProgress = WeeklyProgress(b.PublishedThisWeek, weeklyGoal)
	return b
}

// WeeklyProgress converts a published count into a percentage of goal,
// clamped to [0, 100]. A non-positive goal yields 0.
func WeeklyProgress(published, goal int) float64 {
	if goal <= 0 || published <= 0 {
		return 0
	}
	pct := float64(published*100) / float64(goal)
	if pct > 100 {
		return 100
	}
	return pct
}

// DateOf truncates t to its calendar date, as seen in t's own location, and
// returns it as midnight UTC so day arithmetic is free of DST shifts.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ParseDate(s string) (time.Time, error) {
	return time.Parse(models.DateLayout, s)
}

func FormatDate(t time.Time) string {
	return t.Format(models.DateLayout)
}

// DaysBetween returns the number of whole days from a to b. Both must be
// values produced by DateOf or ParseDate.
func DaysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}
