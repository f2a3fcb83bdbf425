package habits

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseHabitsPatch builds a patch from "key=value" arguments such as
// "sugar=2 drinks=0 activity=30 sleep=7.5 mood=4".
func ParseHabitsPatch(args []string) (HabitsPatch, error) {
	var p HabitsPatch
	for _, arg := range args {
		key, value, err := splitAssignment(arg)
		if err != nil {
			return HabitsPatch{}, err
		}
		switch key {
		case "sugar", "sugaritems":
			p.SugarItems, err = parseInt(key, value)
		case "drinks", "sugarydrinks":
			p.SugaryDrinks, err = parseInt(key, value)
		case "activity", "activityminutes":
			p.ActivityMinutes, err = parseInt(key, value)
		case "sleep", "sleephours":
			p.SleepHours, err = parseFloat(key, value)
		case "mood", "energymood":
			p.EnergyMood, err = parseInt(key, value)
		default:
			return HabitsPatch{}, fmt.Errorf("unknown habit %q", key)
		}
		if err != nil {
			return HabitsPatch{}, err
		}
	}
	return p, nil
}

// ParseProfilePatch builds a patch from "key=value" arguments such as
// "age=15 height=160 weight=55 family=yes sugar=high".
func ParseProfilePatch(args []string) (ProfilePatch, error) {
	var p ProfilePatch
	for _, arg := range args {
		key, value, err := splitAssignment(arg)
		if err != nil {
			return ProfilePatch{}, err
		}
		switch key {
		case "age":
			p.Age, err = parseInt(key, value)
		case "height", "heightcm":
			p.HeightCm, err = parseFloat(key, value)
		case "weight", "weightkg":
			p.WeightKg, err = parseFloat(key, value)
		case "gender":
			p.Gender = Ptr(value)
		case "family", "familydiabetes":
			p.FamilyDiabetesHistory, err = parseBool(key, value)
		case "sugar", "dailysugar":
			s := SugarIntake(strings.ToLower(value))
			if !s.Valid() {
				return ProfilePatch{}, fmt.Errorf("invalid sugar intake %q (expected low, moderate, high or very-high)", value)
			}
			p.DailySugar = &s
		case "onboarded", "onboardingcomplete":
			p.OnboardingComplete, err = parseBool(key, value)
		default:
			return ProfilePatch{}, fmt.Errorf("unknown profile field %q", key)
		}
		if err != nil {
			return ProfilePatch{}, err
		}
	}
	return p, nil
}

func splitAssignment(arg string) (string, string, error) {
	key, value, ok := strings.Cut(arg, "=")
	if !ok || key == "" || value == "" {
		return "", "", fmt.Errorf("expected key=value, got %q", arg)
	}
	return strings.ToLower(strings.TrimSpace(key)), strings.TrimSpace(value), nil
}

func parseInt(key, value string) (*int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return &n, nil
}

func parseFloat(key, value string) (*float64, error) {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("invalid %s %q: not a finite number", key, value)
	}
	return &f, nil
}

func parseBool(key, value string) (*bool, error) {
	switch strings.ToLower(value) {
	case "yes", "y":
		return Ptr(true), nil
	case "no", "n":
		return Ptr(false), nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return &b, nil
}
