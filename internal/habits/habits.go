// Package habits holds the user's profile and today's self-reported habits,
// together with the patch types used for partial updates.
package habits

import "math"

// SugarIntake is the self-reported daily sugar level given at onboarding.
type SugarIntake string

const (
	SugarLow      SugarIntake = "low"
	SugarModerate SugarIntake = "moderate"
	SugarHigh     SugarIntake = "high"
	SugarVeryHigh SugarIntake = "very-high"
)

// Valid reports whether s is one of the known intake levels.
func (s SugarIntake) Valid() bool {
	switch s {
	case SugarLow, SugarModerate, SugarHigh, SugarVeryHigh:
		return true
	}
	return false
}

// Profile is created at onboarding and then only ever patched.
type Profile struct {
	Age                   int         `json:"age"`
	HeightCm              float64     `json:"height"`
	WeightKg              float64     `json:"weight"`
	Gender                string      `json:"gender"`
	FamilyDiabetesHistory bool        `json:"familyDiabetes"`
	DailySugar            SugarIntake `json:"dailySugar"`
	OnboardingComplete    bool        `json:"onboardingComplete"`
}

// BMI returns weight/height² and false when either measurement is missing.
func (p Profile) BMI() (float64, bool) {
	if p.HeightCm <= 0 || p.WeightKg <= 0 {
		return 0, false
	}
	m := p.HeightCm / 100
	return p.WeightKg / math.Pow(m, 2), true
}

// RiskReady reports whether the profile is populated enough to ask the
// remote risk predictor.
func (p Profile) RiskReady() bool {
	return p.Age > 9 && p.WeightKg > 20 && p.HeightCm > 50
}

// DailyHabits is today's habit state. Values are not range checked; the
// calculators clamp their outputs instead.
type DailyHabits struct {
	SugarItems      int     `json:"sugarItems"`
	SugaryDrinks    int     `json:"sugaryDrinks"`
	ActivityMinutes int     `json:"activityMinutes"`
	SleepHours      float64 `json:"sleepHours"`
	EnergyMood      int     `json:"energyMood"`
}

// DefaultHabits is the state of a day nobody has touched yet.
func DefaultHabits() DailyHabits {
	return DailyHabits{SleepHours: 7, EnergyMood: 3}
}

// SugarFree reports a day without sugar items or sugary drinks.
func (h DailyHabits) SugarFree() bool {
	return h.SugarItems == 0 && h.SugaryDrinks == 0
}
