package stats

// WeekDays is the length of the profile activity chart.
const WeekDays = 7

// DayWords is the number of words completed on one calendar day.
type DayWords struct {
	Day   Date
	Words int
}

// Week returns the seven days ending at today, oldest first. counts is
// keyed by YYYY-MM-DD; missing days count as zero.
func Week(today Date, counts map[string]int) []DayWords {
	out := make([]DayWords, WeekDays)
	for i := range out {
		d := today.AddDays(i - (WeekDays - 1))
		out[i] = DayWords{Day: d, Words: counts[d.String()]}
	}
	return out
}

// MaxWords returns the largest day in the slice, or 0.
func MaxWords(days []DayWords) int {
	m := 0
	for _, d := range days {
		m = max(m, d.Words)
	}
	return m
}
