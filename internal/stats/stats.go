package stats

const (
	// StorageKey is the single key the record is persisted under.
	StorageKey = "lingoScene_stats"

	// DefaultGoal is the daily word goal for new learners.
	DefaultGoal = 10

	// CheckInBonus is awarded for a successful daily check-in.
	CheckInBonus = 10

	// PointsPerLevel is the number of points needed for each level.
	PointsPerLevel = 100
)

// UserStats is the learner's progress record.
type UserStats struct {
	Streak        int  `json:"streak"`
	LastLoginDate Date `json:"lastLoginDate"`
	Points        int  `json:"points"`
	LearnedWords  int  `json:"learnedWords"`
	WordsToday    int  `json:"wordsToday"`
	GoalToday     int  `json:"goalToday"`

	// LastStreakDate is the day the streak was last credited, by check-in
	// or by the first completed session of the day.
	LastStreakDate Date `json:"lastStreakDate"`
}

// Defaults returns the record for a first run on today.
func Defaults(today Date, goal int) UserStats {
	if goal <= 0 {
		goal = DefaultGoal
	}
	return UserStats{
		LastLoginDate: today,
		GoalToday:     goal,
	}
}

// Rollover applies the day transition for today. It reports whether
// anything changed. The streak is reset when the last login is older than
// yesterday and is never incremented here. A last login in the future, as
// after a clock or time zone change, keeps the streak.
func (s UserStats) Rollover(today Date) (UserStats, bool) {
	if s.LastLoginDate.Equal(today) {
		return s, false
	}

	s.WordsToday = 0
	if s.LastLoginDate.IsZero() || today.DaysSince(s.LastLoginDate) > 1 {
		s.Streak = 0
	}
	s.LastLoginDate = today
	return s, true
}

// CheckInResult describes what a check-in did.
type CheckInResult int

const (
	// CheckInCredited means the streak and bonus were applied.
	CheckInCredited CheckInResult = iota

	// CheckInAlreadyToday means the streak was already credited today.
	// Nothing changes but the learner still gets the celebration.
	CheckInAlreadyToday

	// CheckInAfterLearning means words were already learned today, which
	// counts as having checked in. Nothing changes.
	CheckInAfterLearning
)

// Celebrate reports whether the UI should show the celebration banner.
func (r CheckInResult) Celebrate() bool {
	return r != CheckInAfterLearning
}

func (r CheckInResult) String() string {
	switch r {
	case CheckInCredited:
		return "credited"
	case CheckInAlreadyToday:
		return "already-today"
	case CheckInAfterLearning:
		return "after-learning"
	default:
		return "unknown"
	}
}

// CheckIn credits the daily streak and bonus once per day.
func (s UserStats) CheckIn(today Date) (UserStats, CheckInResult) {
	if s.WordsToday > 0 {
		return s, CheckInAfterLearning
	}
	if s.LastStreakDate.Equal(today) {
		return s, CheckInAlreadyToday
	}

	s.Streak++
	s.LastLoginDate = today
	s.LastStreakDate = today
	s.Points += CheckInBonus
	return s, CheckInCredited
}

// RecordCompletion adds the reward of a finished session. The first
// completion of a day also credits the streak unless a check-in already did.
func (s UserStats) RecordCompletion(points, words int, today Date) UserStats {
	if s.WordsToday == 0 && words > 0 && !s.LastStreakDate.Equal(today) {
		s.Streak++
		s.LastStreakDate = today
	}
	s.Points += points
	s.LearnedWords += words
	s.WordsToday += words
	return s
}

// Level is the learner's level, starting at 0.
func (s UserStats) Level() int {
	return s.Points / PointsPerLevel
}

// LevelProgress is the fraction of the way to the next level.
func (s UserStats) LevelProgress() float64 {
	return float64(s.Points%PointsPerLevel) / PointsPerLevel
}

// GoalProgress is today's words as a fraction of the goal, capped at 1.
func (s UserStats) GoalProgress() float64 {
	if s.GoalToday <= 0 {
		return 0
	}
	p := float64(s.WordsToday) / float64(s.GoalToday)
	if p > 1 {
		return 1
	}
	return p
}

// CheckedInToday reports whether the streak was credited today, either
// explicitly or by learning.
func (s UserStats) CheckedInToday(today Date) bool {
	return s.WordsToday > 0 || s.LastStreakDate.Equal(today)
}
