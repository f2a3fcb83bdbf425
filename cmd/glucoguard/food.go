package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"glucoguard/internal/app"
	"glucoguard/internal/food"
)

var foodCmd = &cobra.Command{
	Use:   "food",
	Short: "Scan, add and list food entries",
}

var foodScanCmd = &cobra.Command{
	Use:   "scan <image>",
	Short: "Identify the food in a photo and log it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read image: %w", err)
		}
		return withApp(cmd, func(a *app.App) error {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
			defer cancel()

			res, err := a.ScanFood(ctx, food.Image{MimeType: http.DetectContentType(data), Data: data})
			if err != nil {
				return err
			}
			printEntry(cmd, res.Entry)
			if adv := res.Entry.Advice; adv != nil {
				if adv.Explanation != "" {
					fmt.Fprintln(cmd.OutOrStdout(), adv.Explanation)
				}
				if adv.HealthierSwap != "" {
					fmt.Fprintf(cmd.OutOrStdout(), "Try instead: %s\n", adv.HealthierSwap)
				}
				if adv.Tip != "" {
					fmt.Fprintf(cmd.OutOrStdout(), "Tip: %s\n", adv.Tip)
				}
			}
			printNewBadges(cmd, res.NewBadges)
			return nil
		})
	},
}

var (
	foodCalories float64
	foodSugar    float64
	foodFat      float64
)

var foodAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Log a food by hand",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var fat *float64
		if cmd.Flags().Changed("fat") {
			fat = &foodFat
		}
		return withApp(cmd, func(a *app.App) error {
			res := a.LogFood(args[0], foodCalories, foodSugar, fat)
			printEntry(cmd, res.Entry)
			printNewBadges(cmd, res.NewBadges)
			return nil
		})
	},
}

var foodLimit int

var foodListCmd = &cobra.Command{
	Use:   "list",
	Short: "List logged food, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(a *app.App) error {
			entries := a.Engine.FoodLog()
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No food logged yet")
				return nil
			}
			if foodLimit > 0 && len(entries) > foodLimit {
				entries = entries[:foodLimit]
			}
			for _, e := range entries {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %-24s %6.0f kcal %5.1fg sugar  %s\n",
					e.LoggedAt.Local().Format("2006-01-02 15:04"), e.Name, e.Calories, e.Sugar, e.SugarLevel)
			}
			return nil
		})
	},
}

func printEntry(cmd *cobra.Command, e food.FoodEntry) {
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %g kcal, %gg sugar (%s)\n", e.Name, e.Calories, e.Sugar, e.SugarLevel)
}

func init() {
	foodAddCmd.Flags().Float64Var(&foodCalories, "calories", 0, "Calories")
	foodAddCmd.Flags().Float64Var(&foodSugar, "sugar", 0, "Sugar in grams")
	foodAddCmd.Flags().Float64Var(&foodFat, "fat", 0, "Fat in grams")
	foodListCmd.Flags().IntVar(&foodLimit, "limit", 20, "Maximum entries to show (0 for all)")
	foodCmd.AddCommand(foodScanCmd, foodAddCmd, foodListCmd)
	rootCmd.AddCommand(foodCmd)
}
