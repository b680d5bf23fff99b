package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/scenelingo/internal/logging"
	"github.com/abhisek/scenelingo/internal/stats"
)

var checkinCmd = &cobra.Command{
	Use:   "checkin",
	Short: "Claim today's daily bonus without opening the app",
	RunE: func(cmd *cobra.Command, args []string) error {
		logging.Discard()
		ctx := cmd.Context()

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		b, err := openBackend(ctx, cfg)
		if err != nil {
			return err
		}
		defer b.Close()

		if _, err := b.stats.Load(ctx); err != nil {
			return fmt.Errorf("load stats: %w", err)
		}
		st, res, err := b.stats.CheckIn(ctx)
		if err != nil {
			return fmt.Errorf("check in: %w", err)
		}

		switch res {
		case stats.CheckInCredited:
			fmt.Printf("🔥 Daily bonus! +%d ★  (streak %d, %d points)\n", stats.CheckInBonus, st.Streak, st.Points)
		case stats.CheckInAlreadyToday:
			fmt.Printf("Already checked in today. Streak %d, %d points.\n", st.Streak, st.Points)
		case stats.CheckInAfterLearning:
			fmt.Printf("You already studied today, so your streak is safe. Streak %d.\n", st.Streak)
		}
		return nil
	},
}
