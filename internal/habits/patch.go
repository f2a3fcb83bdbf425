package habits

// Ptr returns a pointer to v, for building patches inline.
func Ptr[T any](v T) *T {
	return &v
}

// ProfilePatch is a partial profile update. Nil fields are left unchanged.
type ProfilePatch struct {
	Age                   *int         `json:"age,omitempty"`
	HeightCm              *float64     `json:"height,omitempty"`
	WeightKg              *float64     `json:"weight,omitempty"`
	Gender                *string      `json:"gender,omitempty"`
	FamilyDiabetesHistory *bool        `json:"familyDiabetes,omitempty"`
	DailySugar            *SugarIntake `json:"dailySugar,omitempty"`
	OnboardingComplete    *bool        `json:"onboardingComplete,omitempty"`
}

// Empty reports whether the patch would change nothing.
func (p ProfilePatch) Empty() bool {
	return p == ProfilePatch{}
}

// Apply returns a copy of base with every set field of p merged in.
func (p ProfilePatch) Apply(base Profile) Profile {
	if p.Age != nil {
		base.Age = *p.Age
	}
	if p.HeightCm != nil {
		base.HeightCm = *p.HeightCm
	}
	if p.WeightKg != nil {
		base.WeightKg = *p.WeightKg
	}
	if p.Gender != nil {
		base.Gender = *p.Gender
	}
	if p.FamilyDiabetesHistory != nil {
		base.FamilyDiabetesHistory = *p.FamilyDiabetesHistory
	}
	if p.DailySugar != nil {
		base.DailySugar = *p.DailySugar
	}
	if p.OnboardingComplete != nil {
		base.OnboardingComplete = *p.OnboardingComplete
	}
	return base
}

// HabitsPatch is a partial habits update. Nil fields are left unchanged.
type HabitsPatch struct {
	SugarItems      *int     `json:"sugarItems,omitempty"`
	SugaryDrinks    *int     `json:"sugaryDrinks,omitempty"`
	ActivityMinutes *int     `json:"activityMinutes,omitempty"`
	SleepHours      *float64 `json:"sleepHours,omitempty"`
	EnergyMood      *int     `json:"energyMood,omitempty"`
}

// Empty reports whether the patch would change nothing.
func (p HabitsPatch) Empty() bool {
	return p == HabitsPatch{}
}

// Apply returns a copy of base with every set field of p merged in.
func (p HabitsPatch) Apply(base DailyHabits) DailyHabits {
	if p.SugarItems != nil {
		base.SugarItems = *p.SugarItems
	}
	if p.SugaryDrinks != nil {
		base.SugaryDrinks = *p.SugaryDrinks
	}
	if p.ActivityMinutes != nil {
		base.ActivityMinutes = *p.ActivityMinutes
	}
	if p.SleepHours != nil {
		base.SleepHours = *p.SleepHours
	}
	if p.EnergyMood != nil {
		base.EnergyMood = *p.EnergyMood
	}
	return base
}
