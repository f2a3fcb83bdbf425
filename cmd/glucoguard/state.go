package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"glucoguard/internal/app"
	"glucoguard/internal/engine"
	"glucoguard/internal/habits"
)

var statusJSON bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show today's score, risk, points and streak",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(a *app.App) error {
			// Let a configured predictor answer before printing
			a.Engine.WaitRisk()
			s := a.Engine.Snapshot()
			if statusJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(s)
			}
			printStatus(cmd.OutOrStdout(), s)
			return nil
		})
	},
}

func printStatus(w io.Writer, s engine.State) {
	fmt.Fprintf(w, "Score: %d (%s)\n", s.DailyScore, s.Avatar)
	fmt.Fprintf(w, "Risk: %s %d/100\n", s.Risk.Level, s.Risk.Score)
	fmt.Fprintf(w, "Level: %d (%d points)\n", s.Level, s.Points)
	fmt.Fprintf(w, "Streak: %d days\n", s.Streak)
	if s.HabitsLoggedToday {
		fmt.Fprintln(w, "Logged today: yes")
	} else {
		fmt.Fprintln(w, "Logged today: no")
	}
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show the profile",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(a *app.App) error {
			printProfile(cmd.OutOrStdout(), a.Engine.Profile())
			return nil
		})
	},
}

var profileSetCmd = &cobra.Command{
	Use:   "set key=value...",
	Short: "Update profile fields (age, height, weight, gender, family, sugar, onboarded)",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		patch, err := habits.ParseProfilePatch(args)
		if err != nil {
			return err
		}
		return withApp(cmd, func(a *app.App) error {
			printProfile(cmd.OutOrStdout(), a.Engine.SetProfile(patch))
			return nil
		})
	},
}

func printProfile(w io.Writer, p habits.Profile) {
	fmt.Fprintf(w, "Age: %d\n", p.Age)
	fmt.Fprintf(w, "Height: %g cm\n", p.HeightCm)
	fmt.Fprintf(w, "Weight: %g kg\n", p.WeightKg)
	if bmi, ok := p.BMI(); ok {
		fmt.Fprintf(w, "BMI: %.1f\n", bmi)
	}
	fmt.Fprintf(w, "Gender: %s\n", p.Gender)
	fmt.Fprintf(w, "Family history: %t\n", p.FamilyDiabetesHistory)
	fmt.Fprintf(w, "Daily sugar: %s\n", p.DailySugar)
	fmt.Fprintf(w, "Onboarded: %t\n", p.OnboardingComplete)
}

var habitsCmd = &cobra.Command{
	Use:   "habits",
	Short: "Show today's habits",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(a *app.App) error {
			printHabits(cmd.OutOrStdout(), a.Engine.Habits(), a.Engine.DailyScore())
			return nil
		})
	},
}

var habitsSetCmd = &cobra.Command{
	Use:   "set key=value...",
	Short: "Update today's habits (sugar, drinks, activity, sleep, mood)",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		patch, err := habits.ParseHabitsPatch(args)
		if err != nil {
			return err
		}
		return withApp(cmd, func(a *app.App) error {
			h := a.Engine.SetHabits(patch)
			printHabits(cmd.OutOrStdout(), h, a.Engine.DailyScore())
			return nil
		})
	},
}

func printHabits(w io.Writer, h habits.DailyHabits, score int) {
	fmt.Fprintf(w, "Sugar items: %d\n", h.SugarItems)
	fmt.Fprintf(w, "Sugary drinks: %d\n", h.SugaryDrinks)
	fmt.Fprintf(w, "Activity: %d min\n", h.ActivityMinutes)
	fmt.Fprintf(w, "Sleep: %g h\n", h.SleepHours)
	fmt.Fprintf(w, "Energy: %d/5\n", h.EnergyMood)
	fmt.Fprintf(w, "Score: %d\n", score)
}

var riskCmd = &cobra.Command{
	Use:   "risk",
	Short: "Show the diabetes risk estimate and its factors",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(a *app.App) error {
			a.Engine.WaitRisk()
			r := a.Engine.Risk()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Level: %s\n", r.Level)
			fmt.Fprintf(out, "Score: %d/100\n", r.Score)
			if r.FutureScore != nil {
				fmt.Fprintf(out, "Future score: %d/100\n", *r.FutureScore)
			}
			for _, f := range r.Factors {
				fmt.Fprintf(out, "- %s\n", f)
			}
			return nil
		})
	},
}

var resetConfirm bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all stored state and start over",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !resetConfirm {
			return fmt.Errorf("reset deletes every stored field; pass --yes to confirm")
		}
		return withApp(cmd, func(a *app.App) error {
			if err := a.Engine.Reset(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "State reset")
			return nil
		})
	},
}

func init() {
	resetCmd.Flags().BoolVar(&resetConfirm, "yes", false, "Confirm the reset")
	rootCmd.AddCommand(resetCmd)
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "Print the full state as JSON")
	profileCmd.AddCommand(profileSetCmd)
	habitsCmd.AddCommand(habitsSetCmd)
	rootCmd.AddCommand(statusCmd, profileCmd, habitsCmd, riskCmd)
}
