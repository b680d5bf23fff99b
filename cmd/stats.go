package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/scenelingo/internal/export"
	"github.com/abhisek/scenelingo/internal/logging"
	"github.com/abhisek/scenelingo/internal/stats"
	"github.com/abhisek/scenelingo/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show learning statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		logging.Discard()
		ctx := cmd.Context()
		exportPath, _ := cmd.Flags().GetString("export")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		b, err := openBackend(ctx, cfg)
		if err != nil {
			return err
		}
		defer b.Close()

		st, err := b.stats.Load(ctx)
		if err != nil {
			return fmt.Errorf("load stats: %w", err)
		}
		today := b.stats.Today()
		events := b.store.EventRepo()

		from := today.AddDays(-(stats.WeekDays - 1))
		recent, err := events.WordsByDay(ctx, from.String(), today.String())
		if err != nil {
			return fmt.Errorf("query activity: %w", err)
		}

		printStats(st, today, recent)

		if exportPath == "" {
			return nil
		}
		sessions, err := events.QuerySessionEvents(ctx, store.QueryOpts{})
		if err != nil {
			return fmt.Errorf("query sessions: %w", err)
		}
		days, err := events.WordsByDay(ctx, "0000-01-01", today.String())
		if err != nil {
			return fmt.Errorf("query activity: %w", err)
		}
		err = export.WriteFile(exportPath, export.Report{
			Stats:     st,
			Sessions:  sessions,
			Days:      days,
			Generated: time.Now(),
		})
		if err != nil {
			return err
		}
		fmt.Printf("\nExported %d sessions to %s\n", len(sessions), exportPath)
		return nil
	},
}

func printStats(st stats.UserStats, today stats.Date, recent []store.DayActivity) {
	sep := strings.Repeat("─", 40)

	fmt.Println("Progress")
	fmt.Println(sep)
	fmt.Printf("Streak:       %d days\n", st.Streak)
	fmt.Printf("Points:       %d (level %d)\n", st.Points, st.Level())
	fmt.Printf("Words:        %d learned\n", st.LearnedWords)
	fmt.Printf("Today:        %d / %d words\n", st.WordsToday, st.GoalToday)
	if st.CheckedInToday(today) {
		fmt.Println("Check-in:     done")
	} else {
		fmt.Println("Check-in:     not yet")
	}

	counts := map[string]int{}
	for _, d := range recent {
		counts[d.Day] = d.Words
	}
	week := stats.Week(today, counts)
	peak := max(stats.MaxWords(week), 1)

	fmt.Println()
	fmt.Println("This week")
	fmt.Println(sep)
	for _, d := range week {
		bar := strings.Repeat("█", d.Words*20/peak)
		fmt.Printf("%s %s  %-20s %d\n", d.Day.Weekday().String()[:3], d.Day, bar, d.Words)
	}

	fmt.Println()
	fmt.Println("Achievements")
	fmt.Println(sep)
	for _, a := range st.Achievements() {
		mark := "○"
		if a.Unlocked() {
			mark = "●"
		}
		fmt.Printf("%s %-14s %3d / %-3d  %s\n", mark, a.Name, min(a.Progress, a.Target), a.Target, a.Description)
	}
}

func init() {
	statsCmd.Flags().StringP("export", "o", "", "Also write the full history to an .xlsx workbook at this path")
}
