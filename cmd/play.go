package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/scenelingo/internal/catalog"
)

var playCmd = &cobra.Command{
	Use:   "play [scene]",
	Short: "Open a scene's flashcards directly",
	Long:  "Open a scene's flashcards, skipping the splash screen. Run `scenelingo scenes` for the list of scene IDs.",
	Args:  cobra.MaximumNArgs(1),
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		var ids []string
		for _, s := range catalog.All() {
			ids = append(ids, s.ID+"\t"+s.Title)
		}
		return ids, cobra.ShellCompDirectiveNoFileComp
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		ao := appOptions{SkipSplash: true}
		if len(args) == 1 {
			scene, ok := catalog.ByID(args[0])
			if !ok {
				return fmt.Errorf("unknown scene %q (see `scenelingo scenes`)", args[0])
			}
			ao.StartScene = &scene
		}
		return runApp(cmd, ao)
	},
}
