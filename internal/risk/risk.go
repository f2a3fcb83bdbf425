// Package risk estimates diabetes risk, either from a local additive
// heuristic or from a remote predictor whose answers supersede it.
package risk

import "glucoguard/internal/habits"

// Level is the coarse risk bucket.
type Level string

const (
	LevelLow    Level = "low"
	LevelMedium Level = "medium"
	LevelHigh   Level = "high"
)

func (l Level) valid() bool {
	return l == LevelLow || l == LevelMedium || l == LevelHigh
}

// DiabetesRisk is the retained risk estimate shown to the user.
type DiabetesRisk struct {
	Level       Level    `json:"level"`
	Score       int      `json:"score"`
	FutureScore *int     `json:"futureScore,omitempty"`
	Factors     []string `json:"factors"`
}

// Initial is the estimate before anything has been computed.
func Initial() DiabetesRisk {
	return DiabetesRisk{Level: LevelLow, Factors: []string{}}
}

// Clone returns a deep copy.
func (r DiabetesRisk) Clone() DiabetesRisk {
	out := r
	out.Factors = append([]string{}, r.Factors...)
	if r.FutureScore != nil {
		v := *r.FutureScore
		out.FutureScore = &v
	}
	return out
}

// LevelFor buckets a clamped score.
func LevelFor(score int) Level {
	switch {
	case score >= 50:
		return LevelHigh
	case score >= 25:
		return LevelMedium
	default:
		return LevelLow
	}
}

// Local runs the additive point heuristic. Factors are listed in rule
// order and only for rules that name one.
func Local(p habits.Profile, h habits.DailyHabits) DiabetesRisk {
	score := 0
	factors := []string{}

	if bmi, ok := p.BMI(); ok {
		switch {
		case bmi > 30:
			score += 25
			factors = append(factors, "High BMI")
		case bmi > 25:
			score += 15
			factors = append(factors, "Elevated BMI")
		}
	}

	if p.FamilyDiabetesHistory {
		score += 20
		factors = append(factors, "Family history of diabetes")
	}

	switch p.DailySugar {
	case habits.SugarVeryHigh:
		score += 20
		factors = append(factors, "Very high sugar intake")
	case habits.SugarHigh:
		score += 15
		factors = append(factors, "High sugar intake")
	case habits.SugarModerate:
		score += 8
	}

	switch {
	case h.SugarItems >= 6:
		score += 10
		factors = append(factors, "High daily sugar items")
	case h.SugarItems >= 3:
		score += 5
	}

	switch {
	case h.SugaryDrinks >= 3:
		score += 10
		factors = append(factors, "Frequent sugary drinks")
	case h.SugaryDrinks >= 1:
		score += 3
	}

	switch {
	case h.ActivityMinutes < 10:
		score += 10
		factors = append(factors, "Low physical activity")
	case h.ActivityMinutes >= 30:
		score -= 5
	}

	if h.SleepHours < 6 {
		score += 5
		factors = append(factors, "Insufficient sleep")
	}

	score = clamp(score)
	return DiabetesRisk{Level: LevelFor(score), Score: score, Factors: factors}
}

func clamp(v int) int {
	return max(0, min(100, v))
}
