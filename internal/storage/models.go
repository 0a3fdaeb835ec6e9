package storage

import "time"

// DayKey renders the UTC calendar day used as the row key for per-day state.
func DayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// PrevDayKey is the key for the calendar day before t.
func PrevDayKey(t time.Time) string {
	return t.UTC().AddDate(0, 0, -1).Format("2006-01-02")
}

type Profile struct {
	UserID      string
	Tier        string
	WeeksActive int
	ByteBalance int
	StartedAt   time.Time
}

type DailyState struct {
	UserID           string
	Day              string
	RitualsCompleted int
	CapReached       bool
	Rerolled         bool
	StreakDays       int
	WeeksActive      int
	LastCompletionAt *time.Time
}

type Assignment struct {
	ID          int64
	UserID      string
	Day         string
	RitualID1   string
	RitualID2   *string
	WeeksActive int
	Mode        string
	CreatedAt   time.Time
}

// RitualIDs lists the assignment's slots in order, skipping an empty slot 2.
func (a *Assignment) RitualIDs() []string {
	if a.RitualID2 == nil {
		return []string{a.RitualID1}
	}
	return []string{a.RitualID1, *a.RitualID2}
}

func (a *Assignment) Has(ritualID string) bool {
	for _, id := range a.RitualIDs() {
		if id == ritualID {
			return true
		}
	}
	return false
}

type Completion struct {
	ID           int64
	PublicID     string
	UserID       string
	AssignmentID int64
	RitualID     string
	Day          string
	Journal      string
	Mood         int
	DwellSeconds int
	WordCount    int
	BytesAwarded int
	CompletedAt  time.Time
}

type RitualHistory struct {
	UserID          string
	RitualID        string
	LastAssignedDay string
	TimesCompleted  int
}

type PendingReward struct {
	ID        int64
	UserID    string
	Bytes     int
	CreatedAt time.Time
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
