package telegram

import (
	"fmt"
	"slices"
	"strings"

	"glucoguard/internal/app"
	"glucoguard/internal/engine"
	"glucoguard/internal/food"
	"glucoguard/internal/habits"
	"glucoguard/internal/ledger"
	"glucoguard/internal/risk"
	"glucoguard/internal/weekly"
	"glucoguard/internal/wellness"
)

var moodEmoji = map[wellness.Mood]string{
	wellness.MoodHigh: "😄",
	wellness.MoodMid:  "🙂",
	wellness.MoodLow:  "😟",
}

var riskEmoji = map[risk.Level]string{
	risk.LevelLow:    "🟢",
	risk.LevelMedium: "🟡",
	risk.LevelHigh:   "🔴",
}

var sugarEmoji = map[food.SugarLevel]string{
	food.SugarSafe:     "🟢",
	food.SugarModerate: "🟡",
	food.SugarHigh:     "🔴",
}

func formatStatus(s engine.State) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s *Today's score: %d*\n\n", moodEmoji[s.Avatar], s.DailyScore))

	sb.WriteString(fmt.Sprintf("%s *Diabetes risk:* %s (%d/100)\n", riskEmoji[s.Risk.Level], s.Risk.Level, s.Risk.Score))
	if s.Risk.FutureScore != nil {
		sb.WriteString(fmt.Sprintf("• Future risk: %d/100\n", *s.Risk.FutureScore))
	}
	for _, f := range s.Risk.Factors {
		sb.WriteString(fmt.Sprintf("• %s\n", f))
	}

	sb.WriteString(fmt.Sprintf("\n⭐ *Level %d* (%d points)\n", s.Level, s.Points))
	sb.WriteString(fmt.Sprintf("🔥 Streak: %d days\n", s.Streak))
	if s.HabitsLoggedToday {
		sb.WriteString("✅ Habits logged today\n")
	} else {
		sb.WriteString("📝 Habits not logged yet, send /log\n")
	}
	return sb.String()
}

func formatProfile(p habits.Profile) string {
	family := "no"
	if p.FamilyDiabetesHistory {
		family = "yes"
	}
	sugar := string(p.DailySugar)
	if sugar == "" {
		sugar = "not set"
	}

	var sb strings.Builder
	sb.WriteString("👤 *Profile*\n")
	sb.WriteString(fmt.Sprintf("• Age: %d\n", p.Age))
	sb.WriteString(fmt.Sprintf("• Height: %g cm\n", p.HeightCm))
	sb.WriteString(fmt.Sprintf("• Weight: %g kg\n", p.WeightKg))
	if bmi, ok := p.BMI(); ok {
		sb.WriteString(fmt.Sprintf("• BMI: %.1f\n", bmi))
	}
	sb.WriteString(fmt.Sprintf("• Family history: %s\n", family))
	sb.WriteString(fmt.Sprintf("• Daily sugar: %s\n", sugar))
	return sb.String()
}

func formatHabits(h habits.DailyHabits, score int) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📋 *Today's habits* (score %d)\n", score))
	sb.WriteString(fmt.Sprintf("• 🍬 Sugar items: %d\n", h.SugarItems))
	sb.WriteString(fmt.Sprintf("• 🥤 Sugary drinks: %d\n", h.SugaryDrinks))
	sb.WriteString(fmt.Sprintf("• 🏃 Activity: %d min\n", h.ActivityMinutes))
	sb.WriteString(fmt.Sprintf("• 😴 Sleep: %g h\n", h.SleepHours))
	sb.WriteString(fmt.Sprintf("• ⚡ Energy: %d/5\n", h.EnergyMood))
	return sb.String()
}

func formatLogResult(res engine.LogResult) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🎉 *Logged!* +%d points\n", res.Points))
	sb.WriteString(fmt.Sprintf("🔥 Streak: %d days\n", res.Streak))
	sb.WriteString(fmt.Sprintf("%s %s: %d\n", moodEmoji[res.Day.Mood], res.Day.DayLabel, res.Day.Score))
	writeNewBadges(&sb, res.NewBadges)
	return sb.String()
}

func formatWeek(days []weekly.Day) string {
	if len(days) == 0 {
		return "📅 No days logged yet. Send /log to start!"
	}
	r := weekly.NewRollup(days)

	var sb strings.Builder
	sb.WriteString("📅 *Your week*\n\n")
	for _, d := range r.Days() {
		filled := max(0, min(10, d.Score/10))
		bar := strings.Repeat("▓", filled) + strings.Repeat("░", 10-filled)
		sb.WriteString(fmt.Sprintf("`%s %s %3d` %s\n", d.DayLabel, bar, d.Score, moodEmoji[d.Mood]))
	}
	sb.WriteString(fmt.Sprintf("\nAverage: *%d*", r.Average()))
	if best, ok := r.Best(); ok {
		sb.WriteString(fmt.Sprintf(" · Best: *%s* (%d)", best.DayLabel, best.Score))
	}
	sb.WriteString("\n")
	return sb.String()
}

func formatChallenges(h habits.DailyHabits, completed []string) string {
	var sb strings.Builder
	sb.WriteString("🎯 *Challenges*\n\n")
	for _, c := range ledger.Challenges() {
		mark := "⬜"
		switch {
		case slices.Contains(completed, c.ID):
			mark = "✅"
		case c.Check(h):
			mark = "🟩"
		}
		sb.WriteString(fmt.Sprintf("%s %s `%s` %s\n", mark, c.Emoji, c.ID, c.Title))
	}
	sb.WriteString("\n🟩 = ready, send `/done <id>`")
	return sb.String()
}

func formatBadges(earned []string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🏅 *Badges* (%d/%d)\n\n", len(earned), len(ledger.Badges())))
	for _, b := range ledger.Badges() {
		if slices.Contains(earned, b.ID) {
			sb.WriteString(fmt.Sprintf("%s *%s* - %s\n", b.Emoji, b.Name, b.Description))
		} else {
			sb.WriteString(fmt.Sprintf("🔒 %s - %s\n", b.Name, b.Description))
		}
	}
	return sb.String()
}

func formatScan(res app.ScanResult) string {
	e := res.Entry
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s *%s*\n", sugarEmoji[e.SugarLevel], e.Name))
	sb.WriteString(fmt.Sprintf("• %g cal · %gg sugar", e.Calories, e.Sugar))
	if e.Fat != nil {
		sb.WriteString(fmt.Sprintf(" · %gg fat", *e.Fat))
	}
	sb.WriteString(fmt.Sprintf("\n• Sugar level: %s\n", e.SugarLevel))

	if a := e.Advice; a != nil {
		sb.WriteString("\n")
		if a.Explanation != "" {
			sb.WriteString(a.Explanation + "\n")
		}
		if a.HealthierSwap != "" {
			sb.WriteString(fmt.Sprintf("🔄 *Try instead:* %s\n", a.HealthierSwap))
			if a.SwapReason != "" {
				sb.WriteString(fmt.Sprintf("_%s_\n", a.SwapReason))
			}
		}
		if a.Tip != "" {
			sb.WriteString(fmt.Sprintf("💡 %s\n", a.Tip))
		}
	}

	sb.WriteString(fmt.Sprintf("\n+%d points\n", ledger.PointsPerFoodEntry))
	writeNewBadges(&sb, res.NewBadges)
	return sb.String()
}

func formatReport(r app.Report) string {
	var sb strings.Builder
	sb.WriteString("📊 *Usage & Health Report*\n\n")

	sb.WriteString("🗓 *Recent Activity*\n")
	if len(r.Usage) == 0 {
		sb.WriteString("_No data yet_\n")
	}
	for _, d := range r.Usage {
		sb.WriteString(fmt.Sprintf("• *%s*: %d tokens (%d calls, %d failed)\n", d.Date, d.TotalPrompt+d.TotalCompletion, d.TotalExecution, d.Failures))
	}

	h := r.Health
	sb.WriteString("\n🧠 *System Health*\n")
	sb.WriteString(fmt.Sprintf("• RAM: %dMB (Alloc) / %dMB (Sys)\n", h.AllocMB, h.SysMB))
	sb.WriteString(fmt.Sprintf("• Goroutines: %d\n", h.Goroutines))
	sb.WriteString(fmt.Sprintf("• Uptime: %s\n", h.Uptime))
	sb.WriteString(fmt.Sprintf("• State Data: %s\n", h.StateDirSize))
	return sb.String()
}

func writeNewBadges(sb *strings.Builder, ids []string) {
	for _, id := range ids {
		if b, ok := ledger.LookupBadge(id); ok {
			sb.WriteString(fmt.Sprintf("🏅 New badge: %s *%s* (+%d)\n", b.Emoji, b.Name, ledger.PointsPerBadge))
		}
	}
}
