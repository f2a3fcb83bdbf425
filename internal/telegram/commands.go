package telegram

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"glucoguard/internal/habits"
	"glucoguard/internal/ledger"
)

const helpText = `🩺 *GlucoGuard*

/status - today's score, risk and points
/profile age=15 height=160 weight=55 family=no sugar=moderate
/habits sugar=1 drinks=0 activity=30 sleep=8 mood=4
/log - log today's habits
/week - last 7 logged days
/challenges - challenge list
/done c3 - complete a challenge
/badges - your badges
/food Apple 95 19 - log food by hand
Send a photo to scan your food.`

// reply runs a text command and returns the answer.
func (b *Bot) reply(userID int64, text string) string {
	cmd, args := parseCommand(text)
	e := b.app.Engine

	switch cmd {
	case "start", "help", "":
		return helpText

	case "status":
		return formatStatus(e.Snapshot())

	case "profile":
		if len(args) == 0 {
			return formatProfile(e.Profile())
		}
		patch, err := habits.ParseProfilePatch(args)
		if err != nil {
			return "❌ " + err.Error()
		}
		return "✅ Profile updated\n\n" + formatProfile(e.SetProfile(patch))

	case "habits":
		if len(args) == 0 {
			return formatHabits(e.Habits(), e.DailyScore())
		}
		patch, err := habits.ParseHabitsPatch(args)
		if err != nil {
			return "❌ " + err.Error()
		}
		updated := e.SetHabits(patch)
		return "✅ Habits updated\n\n" + formatHabits(updated, e.DailyScore())

	case "log":
		res, ok := e.MarkHabitsLogged()
		if !ok {
			return "👍 You already logged today. Come back tomorrow!"
		}
		return formatLogResult(res)

	case "week":
		return formatWeek(e.Weekly())

	case "challenges":
		s := e.Snapshot()
		return formatChallenges(s.Habits, s.CompletedChallenges)

	case "done":
		if len(args) != 1 {
			return "Usage: `/done c3`"
		}
		ok, err := e.TryCompleteChallenge(args[0])
		switch {
		case errors.Is(err, ledger.ErrUnknownChallenge):
			return "❓ No challenge called " + args[0]
		case errors.Is(err, ledger.ErrNotEligible):
			return "⏳ Not there yet! Update your habits first."
		case !ok:
			return "👍 Already completed."
		}
		return fmt.Sprintf("🎯 Challenge complete! +%d points (level %d)", ledger.PointsPerChallenge, e.Level())

	case "badges":
		return formatBadges(e.Snapshot().Badges)

	case "food":
		return b.logFood(args)

	case "metrics":
		if userID != b.cfg.AdminTelegramID {
			return "⛔ *Access Denied*: Admin only."
		}
		report, err := b.app.Report(7)
		if err != nil {
			b.logger.Error("failed to build report", "error", err)
			return "❌ Error fetching metrics."
		}
		return formatReport(report)
	}

	return "🤔 Unknown command. Try /help"
}

// logFood handles "/food name... calories sugar [fat]".
func (b *Bot) logFood(args []string) string {
	var nums []float64
	for len(args) > 0 && len(nums) < 3 {
		v, err := strconv.ParseFloat(args[len(args)-1], 64)
		if err != nil {
			break
		}
		nums = append([]float64{v}, nums...)
		args = args[:len(args)-1]
	}
	if len(args) == 0 || len(nums) < 2 {
		return "Usage: `/food Apple 95 19` (name, calories, sugar grams, optional fat grams)"
	}

	var fat *float64
	if len(nums) == 3 {
		fat = &nums[2]
	}
	res := b.app.LogFood(strings.Join(args, " "), nums[0], nums[1], fat)
	return formatScan(res)
}
