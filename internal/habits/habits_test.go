package habits

import (
	"math"
	"testing"
)

func TestHabitsPatchApply(t *testing.T) {
	base := DefaultHabits()

	next := HabitsPatch{SugarItems: Ptr(2), SleepHours: Ptr(8.5)}.Apply(base)

	if next.SugarItems != 2 || next.SleepHours != 8.5 {
		t.Errorf("Expected patched fields to change, got %+v", next)
	}
	if next.EnergyMood != 3 || next.ActivityMinutes != 0 {
		t.Errorf("Expected unspecified fields to be retained, got %+v", next)
	}
	if base.SugarItems != 0 {
		t.Error("Apply must not mutate its input")
	}
	if !(HabitsPatch{}).Empty() {
		t.Error("Expected zero patch to be empty")
	}
}

func TestProfilePatchApply(t *testing.T) {
	base := Profile{Age: 14, HeightCm: 160, Gender: "f"}

	next := ProfilePatch{WeightKg: Ptr(55.0), DailySugar: Ptr(SugarHigh)}.Apply(base)

	if next.Age != 14 || next.HeightCm != 160 || next.Gender != "f" {
		t.Errorf("Expected untouched fields to be retained, got %+v", next)
	}
	if next.WeightKg != 55 || next.DailySugar != SugarHigh {
		t.Errorf("Expected patched fields to change, got %+v", next)
	}
}

func TestProfileBMI(t *testing.T) {
	if _, ok := (Profile{HeightCm: 160}).BMI(); ok {
		t.Error("Expected no BMI without weight")
	}

	bmi, ok := Profile{HeightCm: 160, WeightKg: 90}.BMI()
	if !ok || math.Abs(bmi-35.156) > 0.01 {
		t.Errorf("Expected BMI ~35.16, got %v (%v)", bmi, ok)
	}
}

func TestRiskReady(t *testing.T) {
	tests := []struct {
		name    string
		profile Profile
		want    bool
	}{
		{"Complete", Profile{Age: 15, HeightCm: 160, WeightKg: 50}, true},
		{"TooYoung", Profile{Age: 9, HeightCm: 160, WeightKg: 50}, false},
		{"NoWeight", Profile{Age: 15, HeightCm: 160, WeightKg: 20}, false},
		{"NoHeight", Profile{Age: 15, HeightCm: 50, WeightKg: 50}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.profile.RiskReady(); got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestParseHabitsPatch(t *testing.T) {
	p, err := ParseHabitsPatch([]string{"sugar=2", "Drinks=0", "sleep=7.5"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if *p.SugarItems != 2 || *p.SugaryDrinks != 0 || *p.SleepHours != 7.5 {
		t.Errorf("Unexpected patch %+v", p)
	}
	if p.EnergyMood != nil {
		t.Error("Expected mood to stay unset")
	}

	for _, bad := range [][]string{{"sugar"}, {"sugar=lots"}, {"water=3"}, {"sleep=NaN"}, {"sleep=Inf"}, {"sleep=-inf"}} {
		if _, err := ParseHabitsPatch(bad); err == nil {
			t.Errorf("Expected an error for %v", bad)
		}
	}
}

func TestParseProfilePatch(t *testing.T) {
	p, err := ParseProfilePatch([]string{"age=15", "height=160", "family=yes", "sugar=Very-High"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if *p.Age != 15 || *p.HeightCm != 160 || !*p.FamilyDiabetesHistory || *p.DailySugar != SugarVeryHigh {
		t.Errorf("Unexpected patch %+v", p)
	}

	if _, err := ParseProfilePatch([]string{"sugar=extreme"}); err == nil {
		t.Error("Expected an error for unknown sugar intake")
	}
	for _, bad := range []string{"height=Inf", "weight=NaN", "weight=-Inf"} {
		if _, err := ParseProfilePatch([]string{bad}); err == nil {
			t.Errorf("Expected an error for %s", bad)
		}
	}
}
