package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/scenelingo/internal/catalog"
)

var scenesCmd = &cobra.Command{
	Use:   "scenes",
	Short: "List the available scenes by category",
	Run: func(cmd *cobra.Command, args []string) {
		for _, c := range catalog.AllCategories() {
			scenes := catalog.ByCategory(c)
			if len(scenes) == 0 {
				continue
			}
			fmt.Println(catalog.CategoryDisplayName(c))
			fmt.Println(strings.Repeat("─", 60))
			for _, s := range scenes {
				fmt.Printf("  %-14s  %-18s  %s\n", s.ID, s.Title, s.Description)
			}
			fmt.Println()
		}
	},
}
