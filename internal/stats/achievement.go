package stats

// Achievement is a milestone shown on the profile.
type Achievement struct {
	Name        string
	Description string
	Progress    int
	Target      int
}

// Unlocked reports whether the target has been reached.
func (a Achievement) Unlocked() bool {
	return a.Progress >= a.Target
}

// Fraction returns progress toward the target, capped at 1.
func (a Achievement) Fraction() float64 {
	if a.Target <= 0 {
		return 1
	}
	f := float64(a.Progress) / float64(a.Target)
	if f > 1 {
		return 1
	}
	return f
}

// Achievements derives the achievement list from the record.
func (s UserStats) Achievements() []Achievement {
	return []Achievement{
		{
			Name:        "Word Master",
			Description: "Learn 100 words",
			Progress:    s.LearnedWords,
			Target:      100,
		},
		{
			Name:        "Week Warrior",
			Description: "7 day streak",
			Progress:    s.Streak,
			Target:      7,
		},
	}
}
