package main

import (
	"errors"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"glucoguard/internal/app"
	"glucoguard/internal/ledger"
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Log today's habits (once per day)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(a *app.App) error {
			out := cmd.OutOrStdout()
			res, ok := a.Engine.MarkHabitsLogged()
			if !ok {
				fmt.Fprintln(out, "Already logged today")
				return nil
			}
			fmt.Fprintf(out, "Logged %s: score %d (+%d points)\n", res.Day.DayLabel, res.Day.Score, res.Points)
			fmt.Fprintf(out, "Streak: %d days\n", res.Streak)
			printNewBadges(cmd, res.NewBadges)
			return nil
		})
	},
}

var challengesCmd = &cobra.Command{
	Use:   "challenges",
	Short: "List challenges with their state",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(a *app.App) error {
			s := a.Engine.Snapshot()
			for _, c := range ledger.Challenges() {
				state := "open"
				switch {
				case slices.Contains(s.CompletedChallenges, c.ID):
					state = "done"
				case c.Check(s.Habits):
					state = "ready"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-4s %-6s %s\n", c.ID, state, c.Title)
			}
			return nil
		})
	},
}

var forceComplete bool

var challengeCompleteCmd = &cobra.Command{
	Use:   "complete <id>",
	Short: "Complete a challenge whose condition holds",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]
		return withApp(cmd, func(a *app.App) error {
			var ok bool
			if forceComplete {
				ok = a.Engine.CompleteChallenge(id)
			} else {
				var err error
				ok, err = a.Engine.TryCompleteChallenge(id)
				if errors.Is(err, ledger.ErrNotEligible) {
					return fmt.Errorf("%w (use --force to complete anyway)", err)
				}
				if err != nil {
					return err
				}
			}
			if !ok {
				fmt.Fprintf(cmd.OutOrStdout(), "Challenge %s already completed\n", id)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Completed %s: %d points, level %d\n", id, a.Engine.Points(), a.Engine.Level())
			return nil
		})
	},
}

var challengeCmd = &cobra.Command{
	Use:   "challenge",
	Short: "Work with a single challenge",
}

var badgesCmd = &cobra.Command{
	Use:   "badges",
	Short: "List badges",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(a *app.App) error {
			earned := a.Engine.Snapshot().Badges
			for _, b := range ledger.Badges() {
				mark := " "
				if slices.Contains(earned, b.ID) {
					mark = "x"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "[%s] %-12s %s\n", mark, b.ID, b.Description)
			}
			return nil
		})
	},
}

var weeklyCmd = &cobra.Command{
	Use:   "weekly",
	Short: "Show the last 7 logged days",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(a *app.App) error {
			days := a.Engine.Weekly()
			if len(days) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No days logged yet")
				return nil
			}
			for _, d := range days {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %3d %s\n", d.DayLabel, d.Score, d.Mood)
			}
			return nil
		})
	},
}

func printNewBadges(cmd *cobra.Command, ids []string) {
	for _, id := range ids {
		if b, ok := ledger.LookupBadge(id); ok {
			fmt.Fprintf(cmd.OutOrStdout(), "New badge: %s (+%d)\n", b.Name, ledger.PointsPerBadge)
		}
	}
}

func init() {
	challengeCompleteCmd.Flags().BoolVar(&forceComplete, "force", false, "Complete without checking the condition")
	challengeCmd.AddCommand(challengeCompleteCmd)
	rootCmd.AddCommand(logCmd, challengesCmd, challengeCmd, badgesCmd, weeklyCmd)
}
